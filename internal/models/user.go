package models

import "gorm.io/gorm"

// User represents a sleeper in the system.
type User struct {
	gorm.Model
	DisplayName  *string `gorm:"size:255"`
	Email        *string `gorm:"size:255;unique"`
	AvatarURL    *string `gorm:"size:1024"`
	PasswordHash string  `gorm:"size:255;not null"`

	// A user can only be in one clan at a time.
	ClanID *uint `gorm:"index"`
	Clan   *Clan `gorm:"foreignKey:ClanID"`
}
