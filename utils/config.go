package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is the process configuration, read from the environment.
// Fields without an envDefault tag start from DefaultConfig.
type Config struct {
	BotToken        string `env:"BOT_TOKEN"`
	RewardChannelID string `env:"REWARD_CHANNEL_ID"`

	StoreDriver  string `env:"STORE_DRIVER" envDefault:"file"`
	WenbucksFile string `env:"WENBUCKS_FILE"`
	SQLitePath   string `env:"SQLITE_PATH"`
	DatabaseURL  string `env:"DATABASE_URL"`

	Port string `env:"PORT" envDefault:"8080"`

	SessionCooldown      time.Duration `env:"SESSION_COOLDOWN"`
	SessionTTL           time.Duration `env:"SESSION_TTL"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL"`
}

// DefaultConfig returns the settings used for variables that are not set
func DefaultConfig() Config {
	return Config{
		RewardChannelID:      DefaultRewardChannelID,
		WenbucksFile:         WenbucksFileName,
		SQLitePath:           WenbucksSQLiteName,
		SessionCooldown:      SessionCooldown,
		SessionTTL:           SessionTTL,
		SessionSweepInterval: SessionSweepInterval,
	}
}

// LoadConfig loads .env (when present) and parses the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}
	return ParseConfig()
}

// ParseConfig parses the environment without touching .env
func ParseConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parse env: %v", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the bot cannot run without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return fmt.Errorf("%w: BOT_TOKEN not set in environment variables", ErrConfiguration)
	}
	switch c.StoreDriver {
	case StoreDriverFile, StoreDriverSQLite, StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required when STORE_DRIVER=postgres", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrConfiguration, c.StoreDriver)
	}
	if c.SessionCooldown < 0 || c.SessionTTL < 0 || c.SessionSweepInterval <= 0 {
		return fmt.Errorf("%w: invalid session timing (cooldown and ttl must be >= 0, sweep interval > 0)", ErrConfiguration)
	}
	return nil
}

// OpenStore opens the snapshot store selected by StoreDriver
func (c *Config) OpenStore(ctx context.Context) (AccountStore, error) {
	switch c.StoreDriver {
	case StoreDriverFile:
		return NewFileStore(c.WenbucksFile)
	case StoreDriverSQLite:
		return OpenSQLiteStore(c.SQLitePath)
	case StoreDriverPostgres:
		return OpenPostgresStore(ctx, c.DatabaseURL)
	case StoreDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrConfiguration, c.StoreDriver)
	}
}
