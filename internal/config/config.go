package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/Taaku18/timezone-bot/internal/store"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken        string        `envconfig:"DISCORD_BOT_TOKEN" required:"true"`
	StoreDriver     string        `envconfig:"STORE_DRIVER" default:"json"`               // json|sqlite
	DataPath        string        `envconfig:"DATA_PATH" default:"./data/timezones.json"` // json driver
	DBPath          string        `envconfig:"DB_PATH" default:"./data/timezones.db"`     // sqlite driver
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"11.75s"`
	SyncCommands    bool          `envconfig:"SYNC_COMMANDS" default:"false"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"` // healthz, metrics
}

// Load reads envFile, if it exists, then environment variables into Config.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	var cfg Config
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "load %s", envFile)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "process env")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the bot cannot run with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case store.DriverJSON, store.DriverSQLite:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, store.DriverJSON, store.DriverSQLite)
	}
	if c.RefreshInterval <= 0 {
		return errors.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	return nil
}

// StorePath returns the path used by the configured driver.
func (c Config) StorePath() string {
	if c.StoreDriver == store.DriverSQLite {
		return c.DBPath
	}
	return c.DataPath
}
