// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/models"

	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user with the given display name and a derived email.
func CreateUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	email := name + "@example.com"
	user := models.User{DisplayName: &name, Email: &email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

// CreateEdge stores a directed friend edge from -> to.
func CreateEdge(t *testing.T, db *gorm.DB, from, to uint, status models.FriendshipStatus) {
	t.Helper()
	edge := models.FriendEdge{FromUserID: from, ToUserID: to, Status: status}
	if err := db.Create(&edge).Error; err != nil {
		t.Fatalf("Failed to create edge %d->%d: %v", from, to, err)
	}
}

// CreateClan creates a clan and moves the given users into it.
func CreateClan(t *testing.T, db *gorm.DB, name, code string, members ...uint) models.Clan {
	t.Helper()
	var creator uint
	if len(members) > 0 {
		creator = members[0]
	}
	clan := models.Clan{Name: name, JoinCode: code, CreatorID: creator}
	if err := db.Create(&clan).Error; err != nil {
		t.Fatalf("Failed to create clan %s: %v", name, err)
	}
	if len(members) > 0 {
		if err := db.Model(&models.User{}).Where("id IN ?", members).Update("clan_id", clan.ID).Error; err != nil {
			t.Fatalf("Failed to add members to clan %s: %v", name, err)
		}
	}
	return clan
}

// LogNight stores a sleep record for userID on the UTC day of date.
func LogNight(t *testing.T, db *gorm.DB, userID uint, date time.Time, total, rem, deep int) models.SleepRecord {
	t.Helper()
	rec := models.SleepRecord{
		UserID:       userID,
		RecordedDate: models.NormalizeDate(date),
		TotalMinutes: total,
		RemMinutes:   rem,
		DeepMinutes:  deep,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("Failed to log night for user %d: %v", userID, err)
	}
	return rec
}
