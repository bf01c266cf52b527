package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Scope selects which users compete on a board.
type Scope string

const (
	ScopeFriends Scope = "friends"
	ScopeClan    Scope = "clan"
)

// ErrUnknownScope is returned by ParseScope for anything other than friends or clan.
var ErrUnknownScope = errors.New("unknown scope")

// ParseScope maps a query value to a Scope. An empty value means friends.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeFriends:
		return ScopeFriends, nil
	case ScopeClan:
		return ScopeClan, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Population is the resolved set of competing users, sorted ascending.
// NoClan is set when a clan scope was requested by a user without a clan; it is
// distinct from a clan that simply has nobody active this week.
type Population struct {
	UserIDs []uint
	NoClan  bool
}

// ResolveScope turns (requester, scope) into a Population.
func ResolveScope(ctx context.Context, store ScopeStore, requester uint, scope Scope) (Population, error) {
	switch scope {
	case ScopeFriends:
		edges, err := store.FindEdges(ctx, requester)
		if err != nil {
			return Population{}, fmt.Errorf("find friend edges: %w", err)
		}
		ids := map[uint]struct{}{requester: {}}
		for _, e := range edges {
			switch requester {
			case e.A:
				ids[e.B] = struct{}{}
			case e.B:
				ids[e.A] = struct{}{}
			}
		}
		return Population{UserIDs: sortedIDs(ids)}, nil

	case ScopeClan:
		clanID, err := store.FindUserClan(ctx, requester)
		if err != nil {
			return Population{}, fmt.Errorf("find user clan: %w", err)
		}
		if clanID == nil {
			return Population{NoClan: true}, nil
		}
		members, err := store.FindClanMembers(ctx, *clanID)
		if err != nil {
			return Population{}, fmt.Errorf("find clan members: %w", err)
		}
		ids := make(map[uint]struct{}, len(members))
		for _, id := range members {
			ids[id] = struct{}{}
		}
		return Population{UserIDs: sortedIDs(ids)}, nil

	default:
		return Population{}, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
