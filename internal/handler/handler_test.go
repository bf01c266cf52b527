package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sleepclash/backend/internal/config"
	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/router"
	"sleepclash/backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "development",
		JWTSecret:            "test-secret",
		JWTTTLHours:          1,
		LeaderboardWindow:    "week",
		LeaderboardRateLimit: 1000,
		LeaderboardRateBurst: 1000,
	}
}

// setupRouter points the package globals at a fresh in-memory database.
func setupRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prevDB, prevCfg := database.DB, config.AppConfig
	db := testutil.NewTestDB(t)
	database.DB = db
	config.AppConfig = cfg
	t.Cleanup(func() {
		database.DB = prevDB
		config.AppConfig = prevCfg
	})

	return router.New(cfg), db
}

func doRequest(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// signUp registers name and returns its token and user id.
func signUp(t *testing.T, r http.Handler, name string) (string, uint) {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"display_name": name,
		"email":        name + "@example.com",
		"password":     "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tok struct {
		Token string `json:"token"`
	}
	decode(t, w, &tok)

	w = doRequest(r, http.MethodGet, "/api/v1/users/me", tok.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me struct {
		ID uint `json:"id"`
	}
	decode(t, w, &me)
	return tok.Token, me.ID
}
