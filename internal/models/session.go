package models

import "time"

// Session binds an opaque bearer token to a user until ExpiresAt.
type Session struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
