// Package config loads declarative agency definitions from YAML and
// compiles them into runnable team definitions, binding capability names
// to implementations through a registry.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the root of an agency definition file.
type Config struct {
	Agency TeamConfig   `mapstructure:"agency"`
	Oracle OracleConfig `mapstructure:"oracle"`
	Store  StoreConfig  `mapstructure:"store"`
	Runner RunnerConfig `mapstructure:"runner"`
}

// TeamConfig describes one team: its supervisor persona and its workers.
// Teams nest through WorkerConfig.Team.
type TeamConfig struct {
	Name     string         `mapstructure:"name"`
	Persona  string         `mapstructure:"persona"`
	MaxSteps int            `mapstructure:"max_steps"`
	Workers  []WorkerConfig `mapstructure:"workers"`
}

// WorkerConfig describes one worker. Exactly one of Capability (a name
// resolved against the registry) or Team must be set.
type WorkerConfig struct {
	Name                  string      `mapstructure:"name"`
	Description           string      `mapstructure:"description"`
	Persona               string      `mapstructure:"persona"`
	Capability            string      `mapstructure:"capability"`
	CapabilityDescription string      `mapstructure:"capability_description"`
	MaxCalls              int         `mapstructure:"max_calls"`
	Team                  *TeamConfig `mapstructure:"team"`
}

// OracleConfig selects and tunes the decision backend.
type OracleConfig struct {
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	// Type is "memory" (default) or "redis".
	Type     string        `mapstructure:"type"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// RunnerConfig tunes turn driving.
type RunnerConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
}

// Load reads and parses an agency definition file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML into a validated Config.
func Parse(raw []byte) (*Config, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural constraints before compilation.
func (c *Config) Validate() error {
	if c.Store.Type != "" && c.Store.Type != "memory" && c.Store.Type != "redis" {
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}
	if c.Store.Type == "redis" && c.Store.Address == "" {
		return fmt.Errorf("config: redis store requires an address")
	}
	return validateTeam(&c.Agency)
}

func validateTeam(team *TeamConfig) error {
	if team.Name == "" {
		return fmt.Errorf("config: team name is required")
	}
	if len(team.Workers) == 0 {
		return fmt.Errorf("config: team %s declares no workers", team.Name)
	}
	seen := make(map[string]bool, len(team.Workers))
	for i := range team.Workers {
		w := &team.Workers[i]
		if w.Name == "" {
			return fmt.Errorf("config: team %s has an unnamed worker", team.Name)
		}
		if seen[w.Name] {
			return fmt.Errorf("config: team %s declares worker %s twice", team.Name, w.Name)
		}
		seen[w.Name] = true

		switch {
		case w.Capability != "" && w.Team != nil:
			return fmt.Errorf("config: worker %s/%s binds both a capability and a team", team.Name, w.Name)
		case w.Capability == "" && w.Team == nil:
			return fmt.Errorf("config: worker %s/%s binds neither a capability nor a team", team.Name, w.Name)
		case w.Team != nil:
			if err := validateTeam(w.Team); err != nil {
				return err
			}
		}
	}
	return nil
}
