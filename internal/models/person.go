package models

import "time"

// Person is a genealogical record owned by exactly one user. Deleted people
// keep their row with IsDeleted set.
type Person struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"-"`
	GivenName  string    `gorm:"type:varchar(255);not null" json:"given_name"`
	FamilyName string    `gorm:"type:varchar(255);not null;index" json:"family_name"`
	OtherNames string    `gorm:"type:varchar(255)" json:"other_names"`
	Gender     string    `gorm:"type:varchar(32)" json:"gender"`
	BirthDate  string    `gorm:"type:varchar(32)" json:"birth_date"`
	DeathDate  string    `gorm:"type:varchar(32)" json:"death_date"`
	BirthPlace string    `gorm:"type:varchar(255)" json:"birth_place"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Relation   string    `gorm:"type:varchar(255)" json:"relation"`
	PhotoKey   string    `gorm:"type:varchar(255)" json:"-"`
	IsDeleted  bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}

// FullName joins given and family name the way list views display it.
func (p Person) FullName() string {
	return p.GivenName + " " + p.FamilyName
}
