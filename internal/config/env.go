package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Server holds the websocket host settings.
type Server struct {
	Port      int    `env:"DICEVILLE_PORT" envDefault:"8080"`
	RulesPath string `env:"DICEVILLE_RULES"`
	PublicURL string `env:"DICEVILLE_PUBLIC_URL"`
	// Messages per second accepted from one client, with a burst of MessageBurst.
	MessageRate  float64 `env:"DICEVILLE_MESSAGE_RATE" envDefault:"5"`
	MessageBurst int     `env:"DICEVILLE_MESSAGE_BURST" envDefault:"10"`
}

// Simulation holds the bot tournament settings.
type Simulation struct {
	Games     int    `env:"DICEVILLE_SIM_GAMES" envDefault:"10"`
	Seed      uint64 `env:"DICEVILLE_SIM_SEED" envDefault:"0"`
	TurnLimit int    `env:"DICEVILLE_SIM_TURN_LIMIT" envDefault:"10000"`
	RulesPath string `env:"DICEVILLE_RULES"`
	DBPath    string `env:"DICEVILLE_SIM_DB"`
	TraceDir  string `env:"DICEVILLE_SIM_TRACE_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
