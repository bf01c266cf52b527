package handler_test

import (
	"net/http"
	"testing"
	"time"

	"sleepclash/backend/internal/leaderboard"
	"sleepclash/backend/internal/models"
	"sleepclash/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboards_Friends(t *testing.T) {
	r, db := setupRouter(t, testConfig())
	aliceToken, aliceID := signUp(t, r, "alice")
	_, bobID := signUp(t, r, "bob")
	_, carolID := signUp(t, r, "carol")

	testutil.CreateEdge(t, db, bobID, aliceID, models.StatusAccepted)
	testutil.CreateEdge(t, db, aliceID, carolID, models.StatusPending)

	now := time.Now()
	testutil.LogNight(t, db, aliceID, now, 400, 90, 70)
	testutil.LogNight(t, db, bobID, now, 500, 80, 60)
	testutil.LogNight(t, db, carolID, now, 300, 70, 50)

	w := doRequest(r, http.MethodGet, "/api/v1/leaderboards", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result leaderboard.Result
	decode(t, w, &result)
	assert.Equal(t, leaderboard.ScopeFriends, result.Scope)
	assert.Equal(t, time.Monday, result.Window.Start.UTC().Weekday())
	assert.Len(t, result.Boards, 4)

	survivalist := result.Boards[leaderboard.Survivalist]
	require.Len(t, survivalist, 2, "pending requests are not friendships")
	assert.Equal(t, aliceID, survivalist[0].UserID)
	assert.Equal(t, 3, survivalist[0].Points)
	assert.Equal(t, bobID, survivalist[1].UserID)
	assert.Equal(t, 2, survivalist[1].Points)

	hibernator := result.Boards[leaderboard.Hibernator]
	require.Len(t, hibernator, 2)
	assert.Equal(t, bobID, hibernator[0].UserID)
	require.NotNil(t, hibernator[0].DisplayName)
	assert.Equal(t, "bob", *hibernator[0].DisplayName)
}

func TestGetLeaderboards_ClanWithoutClan(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	w := doRequest(r, http.MethodGet, "/api/v1/leaderboards?scope=clan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result leaderboard.Result
	decode(t, w, &result)
	assert.Equal(t, leaderboard.ScopeClan, result.Scope)
	for _, name := range []string{leaderboard.Survivalist, leaderboard.Hibernator, leaderboard.TomRemmer, leaderboard.RollingInTheDeep} {
		board, ok := result.Boards[name]
		require.True(t, ok, name)
		assert.Empty(t, board, name)
	}
	assert.Contains(t, w.Body.String(), `"survivalist":[]`)
}

func TestGetLeaderboards_PastWeek(t *testing.T) {
	r, db := setupRouter(t, testConfig())
	token, id := signUp(t, r, "alice")
	testutil.LogNight(t, db, id, time.Now().AddDate(0, 0, -7), 400, 90, 70)

	var result leaderboard.Result
	decode(t, doRequest(r, http.MethodGet, "/api/v1/leaderboards?week_offset=1", token, nil), &result)
	require.Len(t, result.Boards[leaderboard.Hibernator], 1)
	assert.Equal(t, 7*24*time.Hour, result.Window.End.Sub(result.Window.Start))

	decode(t, doRequest(r, http.MethodGet, "/api/v1/leaderboards?week_offset=0", token, nil), &result)
	assert.Empty(t, result.Boards[leaderboard.Hibernator])
}

func TestGetLeaderboards_BadQuery(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	for _, q := range []string{"scope=world", "week_offset=-1", "week_offset=abc", "week_offset=1.5"} {
		w := doRequest(r, http.MethodGet, "/api/v1/leaderboards?"+q, token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), `"error"`, q)
	}
}

func TestGetLeaderboards_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.LeaderboardRateLimit = 0.001
	cfg.LeaderboardRateBurst = 1
	r, _ := setupRouter(t, cfg)
	token, _ := signUp(t, r, "alice")

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/leaderboards", token, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/api/v1/leaderboards", token, nil).Code)
}
