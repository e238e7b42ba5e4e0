// Package config loads server settings from the environment.
//
// A `.env` file in the working directory is read first (if present) so local
// development does not need exported variables; real environment variables
// always win.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// Config is the full server configuration.
type Config struct {
	Port      string `env:"PORT"       envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	StoreDriver    string `env:"STORE_DRIVER"    envDefault:"sqlite"`
	DBPath         string `env:"DB_PATH"         envDefault:"./data/app.db"`
	LeaderboardDir string `env:"LEADERBOARD_DIR" envDefault:"./data"`

	ClientOrigin      string        `env:"CLIENT_ORIGIN"       envDefault:"http://localhost:5173"`
	SessionSecret     string        `env:"SESSION_SECRET"      envDefault:"dev_secret_change_me"`
	SessionTTL        time.Duration `env:"SESSION_TTL"         envDefault:"2h"`
	CookieName        string        `env:"COOKIE_NAME"         envDefault:"cartoon_guess_session"`
	ClearPasswordHash string        `env:"CLEAR_PASSWORD_HASH"`
	SoundsDir         string        `env:"SOUNDS_DIR"`
	NodeEnv           string        `env:"NODE_ENV"`

	// Production is derived from NODE_ENV.
	Production bool
}

// Load reads .env (best effort) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case DriverSQLite, DriverFile, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	cfg.Production = cfg.NodeEnv == "production"
	return cfg, nil
}
