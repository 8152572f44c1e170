package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FullName     string    `gorm:"type:varchar(255)" json:"full_name"`
	ProfilePhoto string    `gorm:"type:varchar(255)" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Sessions []Session `gorm:"foreignKey:UserID" json:"-"`
	People   []Person  `gorm:"foreignKey:UserID" json:"-"`
	Events   []Event   `gorm:"foreignKey:UserID" json:"-"`
}

// EmailValue returns the email or an empty string when unset.
func (u User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
