package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	FirstName     string         `gorm:"not null" json:"first_name"`
	LastName      string         `json:"last_name"`
	Gender        string         `gorm:"type:varchar(1)" json:"gender"` // "M", "F" or empty
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"` // Don't expose password in JSON
	Avatar        string         `json:"avatar"`             // object key or absolute URL
	Role          Role           `json:"role" gorm:"foreignKey:RoleID"`
	RoleID        uint           `json:"role_id"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	EmailVerified bool           `json:"email_verified"`

	// Lower-cased copies of the searchable fields. SQLite's LOWER only folds
	// ASCII, so directory search compares against these instead.
	SearchFirstName string `gorm:"not null;default:''" json:"-"`
	SearchLastName  string `gorm:"not null;default:''" json:"-"`
	SearchEmail     string `gorm:"not null;default:''" json:"-"`
}

// FoldSearch is how search columns and search queries are normalized.
func FoldSearch(s string) string {
	return strings.ToLower(s)
}

// SearchColumns returns the search column values for u's current fields.
func (u *User) SearchColumns() map[string]any {
	return map[string]any{
		"search_first_name": FoldSearch(u.FirstName),
		"search_last_name":  FoldSearch(u.LastName),
		"search_email":      FoldSearch(u.Email),
	}
}

// BeforeSave keeps the search columns in step on Create and Save. Single
// column updates do not touch names and leave them alone.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.SearchFirstName = FoldSearch(u.FirstName)
	u.SearchLastName = FoldSearch(u.LastName)
	u.SearchEmail = FoldSearch(u.Email)
	return nil
}
