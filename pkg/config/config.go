// Package config holds the board, rate and session settings shared by the
// server and the local client.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how a session advances its pair.
type Mode string

const (
	// ModeLockstep steps both boards on every server tick.
	ModeLockstep Mode = "lockstep"
	// ModeRateMatched steps the pair only when both players have asked for a tick.
	ModeRateMatched Mode = "ratematched"
)

const (
	MinCols = 4
	MinRows = 4
)

// Rate is "ticks per steps".
type Rate struct {
	Ticks int `yaml:"ticks"`
	Steps int `yaml:"steps"`
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%d", r.Ticks, r.Steps)
}

func (r Rate) validate(name string) error {
	if r.Steps <= 0 {
		return fmt.Errorf("%s: steps must be positive, got %d", name, r.Steps)
	}
	if r.Ticks < 0 {
		return fmt.Errorf("%s: ticks must not be negative, got %d", name, r.Ticks)
	}
	return nil
}

type Config struct {
	Cols          int           `yaml:"cols"`
	Rows          int           `yaml:"rows"`
	Fall          Rate          `yaml:"fall"`
	Drop          Rate          `yaml:"drop"`
	LineRemove    Rate          `yaml:"line_remove"`
	ClearDelay    int           `yaml:"clear_delay"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	Mode          Mode          `yaml:"mode"`
	MaxDivergence int           `yaml:"max_divergence"`
}

// Default returns the settings the drivers run with out of the box.
func Default() *Config {
	return &Config{
		Cols:          10,
		Rows:          20,
		Fall:          Rate{Ticks: 1, Steps: 30},
		Drop:          Rate{Ticks: 1, Steps: 1},
		LineRemove:    Rate{Ticks: 3, Steps: 5},
		ClearDelay:    10,
		TickInterval:  10 * time.Millisecond,
		Mode:          ModeLockstep,
		MaxDivergence: 100,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Cols < MinCols {
		errs = append(errs, fmt.Errorf("cols must be at least %d, got %d", MinCols, c.Cols))
	}
	if c.Rows < MinRows {
		errs = append(errs, fmt.Errorf("rows must be at least %d, got %d", MinRows, c.Rows))
	}
	for _, r := range []struct {
		name string
		rate Rate
	}{
		{"fall", c.Fall},
		{"drop", c.Drop},
		{"line_remove", c.LineRemove},
	} {
		if err := r.rate.validate(r.name); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ClearDelay < 0 {
		errs = append(errs, fmt.Errorf("clear_delay must not be negative, got %d", c.ClearDelay))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	switch c.Mode {
	case ModeLockstep, ModeRateMatched:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.MaxDivergence < 0 {
		errs = append(errs, fmt.Errorf("max_divergence must not be negative, got %d", c.MaxDivergence))
	}
	return errors.Join(errs...)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
