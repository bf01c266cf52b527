package models

import "time"

// SleepRecord is one night of measurements for a user. There is at most one record per
// (user, recorded date); RecordedDate is always 00:00 UTC.
type SleepRecord struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_sleep_user_date"`
	RecordedDate time.Time `gorm:"not null;uniqueIndex:idx_sleep_user_date;index"`
	TotalMinutes int       `gorm:"not null"`
	RemMinutes   int       `gorm:"not null;default:0"`
	DeepMinutes  int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// NormalizeDate truncates t to midnight UTC of its UTC calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
