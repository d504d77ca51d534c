// Package config reads the live server settings from the environment.
//
// An optional .env file is loaded first with godotenv; variables already
// present in the environment win over the file. The struct is then filled
// by caarlos0/env from the SCIFOOT_* variables below.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server configures the serve command.
type Server struct {
	Addr   string `env:"SCIFOOT_ADDR"   envDefault:":8080"`
	League string `env:"SCIFOOT_LEAGUE" envDefault:"leagues/faculty_cup.cue"`
	Home   int    `env:"SCIFOOT_HOME"   envDefault:"1"`
	Away   int    `env:"SCIFOOT_AWAY"   envDefault:"2"`

	// DBPath, when set, receives the match record at every half and at
	// full time.
	DBPath string `env:"SCIFOOT_DB"`

	// Tick is the wall-clock interval between engine updates. Each update
	// advances the match by Tick seconds times Speed.
	Tick  time.Duration `env:"SCIFOOT_TICK"  envDefault:"1s"`
	Speed float64       `env:"SCIFOOT_SPEED" envDefault:"1"`

	// Seed fixes the match randomness; 0 draws a seed from the OS.
	Seed uint64 `env:"SCIFOOT_SEED"`

	AllowedOrigins  []string      `env:"SCIFOOT_CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SCIFOOT_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer reads the given .env files (default ".env"), then the
// environment. Missing .env files are ignored.
func LoadServer(envFiles ...string) (Server, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Server) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("config: SCIFOOT_ADDR is empty")
	case c.League == "":
		return errors.New("config: SCIFOOT_LEAGUE is empty")
	case c.Home <= 0 || c.Away <= 0:
		return fmt.Errorf("config: team ids must be positive (home=%d, away=%d)", c.Home, c.Away)
	case c.Home == c.Away:
		return fmt.Errorf("config: home and away are both team %d", c.Home)
	case c.Tick <= 0:
		return fmt.Errorf("config: SCIFOOT_TICK must be positive, got %s", c.Tick)
	case c.Speed <= 0:
		return fmt.Errorf("config: SCIFOOT_SPEED must be positive, got %g", c.Speed)
	}
	return nil
}

// TickSeconds is the match time one update should cover before the speed
// multiplier is applied.
func (c Server) TickSeconds() float64 {
	return c.Tick.Seconds()
}
