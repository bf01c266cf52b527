package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestDecode_Defaults(t *testing.T) {
	cfg, err := decode(newViper(map[string]any{
		"DATABASE_URL": "postgres://localhost/sleep",
		"JWT_SECRET":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 168, cfg.JWTTTLHours)
	assert.Equal(t, "week", cfg.LeaderboardWindow)
	assert.InDelta(t, 5.0, cfg.LeaderboardRateLimit, 0.001)
	assert.Equal(t, 10, cfg.LeaderboardRateBurst)
}

func TestDecode_Overrides(t *testing.T) {
	cfg, err := decode(newViper(map[string]any{
		"DATABASE_DRIVER":    "sqlite",
		"DATABASE_URL":       "sleep.db",
		"JWT_SECRET":         "s3cret",
		"LEADERBOARD_WINDOW": "to_date",
		"APP_ENV":            "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "to_date", cfg.LeaderboardWindow)
	assert.Equal(t, "production", cfg.Environment)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Environment:          "development",
			DatabaseDriver:       "postgres",
			DatabaseURL:          "postgres://localhost/sleep",
			JWTSecret:            "s3cret",
			JWTTTLHours:          1,
			LeaderboardWindow:    "week",
			LeaderboardRateLimit: 1,
			LeaderboardRateBurst: 1,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "oracle" }},
		{"missing url", func(c *Config) { c.DatabaseURL = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.JWTTTLHours = 0 }},
		{"unknown window", func(c *Config) { c.LeaderboardWindow = "month" }},
		{"zero rate", func(c *Config) { c.LeaderboardRateLimit = 0 }},
		{"unknown env", func(c *Config) { c.Environment = "staging" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
