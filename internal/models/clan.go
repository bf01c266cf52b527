package models

import "gorm.io/gorm"

// Clan is a named group of users that can be joined with a code.
type Clan struct {
	gorm.Model
	Name      string `gorm:"size:255;unique;not null"`
	JoinCode  string `gorm:"size:32;unique;not null"`
	CreatorID uint   `gorm:"not null"`

	Members []User `gorm:"foreignKey:ClanID"` // Has Many relationship
}
