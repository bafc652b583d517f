package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/adpulse/internal/adapters/otel"
)

// Database holds Turso database configuration. An empty URL selects demo mode.
type Database struct {
	URL       string `envconfig:"TURSO_DATABASE_URL"`
	AuthToken string `envconfig:"TURSO_AUTH_TOKEN"`
}

// Server holds HTTP server configuration.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	SessionSecret   string        `envconfig:"SESSION_SECRET"`
	RateLimit       float64       `envconfig:"RATE_LIMIT" default:"10"`
	RateBurst       int           `envconfig:"RATE_BURST" default:"30"`
	TrustProxy      bool          `envconfig:"TRUST_PROXY" default:"false"`
	PageSize        int           `envconfig:"PAGE_SIZE" default:"50"`
}

// Log holds logger configuration.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"console"`
}

// Config is the complete application configuration. Everything except the
// Turso variables is read with the ADPULSE_ prefix, e.g. ADPULSE_SERVER_ADDR.
type Config struct {
	Database Database `ignored:"true"`
	Demo     bool     `envconfig:"DEMO" default:"false"`
	Server   Server
	Log      Log
	OTel     otel.Config `envconfig:"OTEL"`
}

// DemoMode reports whether the in-memory store should be used.
func (c *Config) DemoMode() bool {
	return c.Demo || c.Database.URL == ""
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("ADPULSE", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
