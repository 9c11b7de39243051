package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded from the environment
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	Port      string

	JWTSecret     string
	StaffUsername string
	StaffPassword string

	// SummaryURL points at the external summary function; empty
	// disables summaries and the client falls back to a local mock.
	SummaryURL    string
	SummaryAPIKey string

	CORSAllowedOrigins string
	SessionTTL         time.Duration
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "anamnesis")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("PORT", "8080")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("STAFF_USERNAME", "admin")
	v.SetDefault("STAFF_PASSWORD", "password123")
	v.SetDefault("SUMMARY_URL", "")
	v.SetDefault("SUMMARY_API_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SESSION_TTL_HOURS", 24)

	return &Config{
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDB:            v.GetString("MONGO_DB"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		Port:               v.GetString("PORT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		StaffUsername:      v.GetString("STAFF_USERNAME"),
		StaffPassword:      v.GetString("STAFF_PASSWORD"),
		SummaryURL:         v.GetString("SUMMARY_URL"),
		SummaryAPIKey:      v.GetString("SUMMARY_API_KEY"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		SessionTTL:         time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
	}
}

// SummaryEnabled reports whether the external summary function is configured
func (c *Config) SummaryEnabled() bool {
	return c.SummaryURL != ""
}
