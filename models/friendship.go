package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is one edge of the friendship graph. UserA is the requester and
// UserB the recipient; the order is kept after acceptance.
//
// PairLow/PairHigh hold the unordered pair so the unique index rejects both
// duplicate and reverse-duplicate edges at the storage layer.
type Friendship struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserA     uint      `gorm:"column:user_a;not null;index;check:chk_friendships_distinct,user_a <> user_b" json:"user_a"`
	UserB     uint      `gorm:"column:user_b;not null;index" json:"user_b"`
	PairLow   uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"-"`
	PairHigh  uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"-"`
	Status    string    `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Requester User `gorm:"foreignKey:UserA;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User `gorm:"foreignKey:UserB;constraint:OnDelete:CASCADE" json:"-"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// SetPair fills PairLow/PairHigh from UserA/UserB.
func (f *Friendship) SetPair() {
	f.PairLow, f.PairHigh = f.UserA, f.UserB
	if f.PairLow > f.PairHigh {
		f.PairLow, f.PairHigh = f.PairHigh, f.PairLow
	}
}

func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.SetPair()
	return nil
}
