package leaderboard

import (
	"context"
	"time"
)

// Profile is the subset of a user needed to render a board row and resolve a clan.
type Profile struct {
	ID          uint
	DisplayName *string
	Email       *string
	AvatarURL   *string
	ClanID      *uint
}

// Edge is an accepted friendship. A and B carry no ordering meaning.
type Edge struct {
	A uint
	B uint
}

// Record is one night of measurements. Date is midnight UTC.
type Record struct {
	UserID       uint
	Date         time.Time
	TotalMinutes int
	RemMinutes   int
	DeepMinutes  int
}

// ScopeStore is the read side needed to turn a scope into a population.
type ScopeStore interface {
	// FindEdges returns every accepted edge touching userID, whichever direction it was stored in.
	FindEdges(ctx context.Context, userID uint) ([]Edge, error)
	// FindUserClan returns nil when the user is not in a clan.
	FindUserClan(ctx context.Context, userID uint) (*uint, error)
	FindClanMembers(ctx context.Context, clanID uint) ([]uint, error)
}

// Store is everything the engine reads. Implementations must not be mutated by the engine.
type Store interface {
	ScopeStore
	FindUsers(ctx context.Context, ids []uint) ([]Profile, error)
	// FindRecords returns records of userIDs with w.Start <= Date < w.End.
	FindRecords(ctx context.Context, userIDs []uint, w Window) ([]Record, error)
}
