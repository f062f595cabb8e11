package models

import (
	"time"

	"gorm.io/gorm"
)

type RefreshToken struct {
	gorm.Model
	UserID         uint      `json:"userId" gorm:"not null;index"`
	Token          string    `json:"token" gorm:"not null;uniqueIndex"`
	ExpirationDate time.Time `json:"expiry" gorm:"not null"`
}
