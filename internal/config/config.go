// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the cooking assistant. Values come from
// the environment with an optional .env file, field by field.
type Config struct {
	// DataDir is where the timer collection and permission flags are
	// persisted between runs.
	DataDir string `env:"KIWICOOK_DATA_DIR" envDefault:".kiwicook"`

	// MaxTimers caps how many simultaneous timers one cook can have.
	MaxTimers int `env:"KIWICOOK_MAX_TIMERS" envDefault:"10"`

	// DefaultTimerMinutes is used for a bare "start a timer" request
	// that states no duration.
	DefaultTimerMinutes int `env:"KIWICOOK_DEFAULT_TIMER_MINUTES" envDefault:"10"`

	// TickInterval is the cadence of the shared countdown tick.
	TickInterval time.Duration `env:"KIWICOOK_TICK_INTERVAL" envDefault:"1s"`

	// AnnounceInterval is how often an expired timer is re-announced
	// until dismissed.
	AnnounceInterval time.Duration `env:"KIWICOOK_ANNOUNCE_INTERVAL" envDefault:"8s"`

	// LogFile routes logs to a file so they stay off the interactive
	// terminal. Empty means stderr.
	LogFile string `env:"KIWICOOK_LOG_FILE" envDefault:"kiwicook.log"`

	// Debug enables debug-level logging.
	Debug bool `env:"KIWICOOK_DEBUG" envDefault:"false"`

	// Voice enables the speech capabilities when the host supports
	// them. Off means typed input only.
	Voice bool `env:"KIWICOOK_VOICE" envDefault:"false"`
}

// Load reads the optional .env file, then the environment, and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxTimers < 1 {
		return fmt.Errorf("KIWICOOK_MAX_TIMERS must be at least 1, got %d", c.MaxTimers)
	}
	if c.DefaultTimerMinutes < 1 {
		return fmt.Errorf("KIWICOOK_DEFAULT_TIMER_MINUTES must be at least 1, got %d", c.DefaultTimerMinutes)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("KIWICOOK_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.AnnounceInterval <= 0 {
		return fmt.Errorf("KIWICOOK_ANNOUNCE_INTERVAL must be positive, got %s", c.AnnounceInterval)
	}
	return nil
}
