// Package config loads runtime settings from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"battleship/internal/game"
	"battleship/internal/match"
)

// Config holds the game settings shared by every command.
type Config struct {
	BoardSize         int           `env:"BATTLESHIP_BOARD_SIZE" envDefault:"10"`
	Fleet             []int         `env:"BATTLESHIP_FLEET" envDefault:"4,3,3,2,2,2,1,1,1,1" envSeparator:","`
	TurnTimeout       time.Duration `env:"BATTLESHIP_TURN_TIMEOUT" envDefault:"180s"`
	PlacementAttempts int           `env:"BATTLESHIP_PLACEMENT_ATTEMPTS" envDefault:"1000"`
	MaxRestarts       int           `env:"BATTLESHIP_MAX_RESTARTS" envDefault:"1000"`
	LogLevel          string        `env:"BATTLESHIP_LOG_LEVEL" envDefault:"info"`
	KeysDir           string        `env:"BATTLESHIP_KEYS_DIR" envDefault:"./keys"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse reads the environment, then lets flags on fs override it.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Register(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Register binds the shared flags, defaulting to the current values.
func (c *Config) Register(fs *flag.FlagSet) {
	fs.IntVar(&c.BoardSize, "size", c.BoardSize, "board edge length")
	fs.Var((*fleetFlag)(&c.Fleet), "fleet", "comma separated ship lengths")
	fs.DurationVar(&c.TurnTimeout, "turn-timeout", c.TurnTimeout, "inactivity limit per turn")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn, error or disabled")
	fs.StringVar(&c.KeysDir, "keys", c.KeysDir, "proving keys directory")
}

func (c Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return err
	}
	if c.TurnTimeout <= 0 {
		return errors.New("turn timeout must be positive")
	}
	if c.PlacementAttempts <= 0 || c.MaxRestarts <= 0 {
		return errors.New("placement attempts and restarts must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c Config) Rules() game.Rules {
	return game.Rules{Size: c.BoardSize, Fleet: append(game.Fleet(nil), c.Fleet...)}
}

// Match converts the settings into engine configuration.
func (c Config) Match() match.Config {
	return match.Config{
		Rules:             c.Rules(),
		TurnTimeout:       c.TurnTimeout,
		PlacementAttempts: c.PlacementAttempts,
		MaxRestarts:       c.MaxRestarts,
	}
}

// Logger builds a timestamped logger at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

type fleetFlag []int

func (f *fleetFlag) String() string {
	parts := make([]string, len(*f))
	for i, n := range *f {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (f *fleetFlag) Set(s string) error {
	var out []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("ship length %q: %w", p, err)
		}
		out = append(out, n)
	}
	*f = out
	return nil
}
