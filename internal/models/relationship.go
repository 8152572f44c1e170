package models

import "time"

// Relationship is a typed edge between two people of the same owner.
type Relationship struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Person1ID uint64    `gorm:"column:person1_id;not null;index" json:"person1_id"`
	Person2ID uint64    `gorm:"column:person2_id;not null;index" json:"person2_id"`
	Type      string    `gorm:"type:varchar(32)" json:"type"`
	Details   string    `gorm:"type:text" json:"details"`
	StartDate string    `gorm:"type:varchar(32)" json:"start_date"`
	EndDate   string    `gorm:"type:varchar(32)" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Person1 Person `gorm:"foreignKey:Person1ID" json:"-"`
	Person2 Person `gorm:"foreignKey:Person2ID" json:"-"`
}
