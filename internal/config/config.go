package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	// LeaderboardWindow is "week" or "to_date".
	LeaderboardWindow    string  `mapstructure:"LEADERBOARD_WINDOW"`
	LeaderboardRateLimit float64 `mapstructure:"LEADERBOARD_RATE_LIMIT"`
	LeaderboardRateBurst int     `mapstructure:"LEADERBOARD_RATE_BURST"`
}

var AppConfig *Config

var defaults = map[string]any{
	"PORT":                   "8080",
	"APP_ENV":                "development",
	"LOG_LEVEL":              "info",
	"DATABASE_DRIVER":        "postgres",
	"DATABASE_URL":           "",
	"JWT_SECRET":             "",
	"JWT_TTL_HOURS":          24 * 7,
	"LEADERBOARD_WINDOW":     "week",
	"LEADERBOARD_RATE_LIMIT": 5.0,
	"LEADERBOARD_RATE_BURST": 10,
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	cfg, err := decode(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of postgres, mysql, sqlite, got %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.LeaderboardWindow != "week" && c.LeaderboardWindow != "to_date" {
		return fmt.Errorf("LEADERBOARD_WINDOW must be week or to_date, got %q", c.LeaderboardWindow)
	}
	if c.LeaderboardRateLimit <= 0 || c.LeaderboardRateBurst <= 0 {
		return errors.New("LEADERBOARD_RATE_LIMIT and LEADERBOARD_RATE_BURST must be positive")
	}
	if c.Environment != "development" && c.Environment != "production" {
		return errors.New("APP_ENV must be one of: development, production")
	}
	return nil
}
