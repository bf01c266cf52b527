// Package repository implements the engine's read side on top of gorm.
package repository

import (
	"context"
	"errors"
	"fmt"

	"sleepclash/backend/internal/leaderboard"
	"sleepclash/backend/internal/models"

	"gorm.io/gorm"
)

// LeaderboardStore reads users, friendships, clans and nights for the leaderboard engine.
type LeaderboardStore struct {
	db *gorm.DB
}

func NewLeaderboardStore(db *gorm.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

var _ leaderboard.Store = (*LeaderboardStore)(nil)

// FindEdges matches the user on either side of the row, since an edge is stored only once.
func (s *LeaderboardStore) FindEdges(ctx context.Context, userID uint) ([]leaderboard.Edge, error) {
	var rows []models.FriendEdge
	err := s.db.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query friend edges: %w", err)
	}

	edges := make([]leaderboard.Edge, len(rows))
	for i, r := range rows {
		edges[i] = leaderboard.Edge{A: r.FromUserID, B: r.ToUserID}
	}
	return edges, nil
}

func (s *LeaderboardStore) FindUserClan(ctx context.Context, userID uint) (*uint, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "clan_id").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user clan: %w", err)
	}
	return user.ClanID, nil
}

func (s *LeaderboardStore) FindClanMembers(ctx context.Context, clanID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("clan_id = ?", clanID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query clan members: %w", err)
	}
	return ids, nil
}

func (s *LeaderboardStore) FindUsers(ctx context.Context, ids []uint) ([]leaderboard.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	profiles := make([]leaderboard.Profile, len(users))
	for i, u := range users {
		profiles[i] = leaderboard.Profile{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			AvatarURL:   u.AvatarURL,
			ClanID:      u.ClanID,
		}
	}
	return profiles, nil
}

func (s *LeaderboardStore) FindRecords(ctx context.Context, userIDs []uint, w leaderboard.Window) ([]leaderboard.Record, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var rows []models.SleepRecord
	err := s.db.WithContext(ctx).
		Where("user_id IN ? AND recorded_date >= ? AND recorded_date < ?", userIDs, w.Start.UTC(), w.End.UTC()).
		Order("recorded_date, user_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query sleep records: %w", err)
	}

	records := make([]leaderboard.Record, len(rows))
	for i, r := range rows {
		records[i] = leaderboard.Record{
			UserID:       r.UserID,
			Date:         models.NormalizeDate(r.RecordedDate),
			TotalMinutes: r.TotalMinutes,
			RemMinutes:   r.RemMinutes,
			DeepMinutes:  r.DeepMinutes,
		}
	}
	return records, nil
}
