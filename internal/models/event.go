package models

import "time"

// Event is a dated occurrence attributed to one of the owner's people.
type Event struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	EventDate   string    `gorm:"type:varchar(32)" json:"event_date"`
	Place       string    `gorm:"type:varchar(255)" json:"place"`
	PlaceLat    *float64  `json:"place_lat"`
	PlaceLng    *float64  `json:"place_lng"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uint64    `gorm:"column:created_by;not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Creator Person `gorm:"foreignKey:CreatedBy" json:"-"`
}
