package config

import (
	"os"
	"time"
)

// Config holds all application configuration, loaded once at startup and
// passed explicitly to whatever needs it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
}

// DatabaseConfig selects the backing store. When URL is set the server
// connects to Postgres; otherwise it opens (or creates) the local SQLite
// file at Path.
type DatabaseConfig struct {
	URL  string
	Path string
}

type AuthConfig struct {
	Secret   string // JWT signing secret
	TokenTTL time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	ttl, err := time.ParseDuration(getenv("JWT_TTL", "1h"))
	if err != nil || ttl <= 0 {
		ttl = time.Hour
	}
	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "5000"),
		},
		Database: DatabaseConfig{
			URL:  getenv("DATABASE_URL", ""),
			Path: getenv("DB_PATH", "database.sqlite"),
		},
		Auth: AuthConfig{
			Secret:   getenv("JWT_SECRET", ""),
			TokenTTL: ttl,
		},
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
