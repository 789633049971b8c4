// Package cli implements the command logic behind the convoy binary:
// building an agency from flags or a config file, the interactive chat
// loop, and session maintenance.
package cli

import (
	"log/slog"

	"github.com/aretw0/convoy/internal/logging"
)

// RunOptions carries the configuration of the run and serve commands.
type RunOptions struct {
	// AgencyPath points to a YAML agency definition. Empty means the
	// built-in travel agency.
	AgencyPath string

	SessionID string
	Fresh     bool

	Debug bool
	JSON  bool

	// Oracle overrides. Empty values fall back to the config file, then
	// to defaults.
	Model       string
	BaseURL     string
	Temperature float64

	// RedisAddr selects the Redis store; empty means in-memory (or the
	// config file's store section).
	RedisAddr string

	// Metrics enables the Prometheus collector.
	Metrics bool
}

func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}
