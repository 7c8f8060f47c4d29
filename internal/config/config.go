// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and WRAPPED_* environment variables on top.
// - Validation errors wrap ErrInvalidConfig so callers can use errors.Is.
package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/wrapped/internal/domain/model"
)

// maxGameweeks bounds the configurable season length.
const maxGameweeks = 60

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Gameweeks is the season length N; the dense table covers 1..N.
	Gameweeks int `koanf:"gameweeks"`

	// Managers maps each manager name to its weekly snapshot file.
	// Names must not contain the "." key delimiter.
	Managers map[string]string `koanf:"managers"`

	// CaptainPoints is the inline captain-points side table.
	CaptainPoints map[string]int `koanf:"captain_points"`

	// CaptainPointsFile, when set, replaces CaptainPoints with a JSON file.
	CaptainPointsFile string `koanf:"captain_points_file"`

	// ChartImage is an image path handed to the presentation layer untouched.
	ChartImage string `koanf:"chart_image"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		Gameweeks:     model.DefaultGameweeks,
		Managers:      map[string]string{},
		CaptainPoints: map[string]int{},
	}
}

// Validate checks the configuration for startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Gameweeks < 1 || c.Gameweeks > maxGameweeks {
		return fmt.Errorf("%w: gameweeks must be within 1..%d, got %d", ErrInvalidConfig, maxGameweeks, c.Gameweeks)
	}
	if len(c.Managers) == 0 {
		return fmt.Errorf("%w: at least one manager must be configured", ErrInvalidConfig)
	}
	for name, source := range c.Managers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: manager name must not be blank", ErrInvalidConfig)
		}
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("%w: manager %q has no source", ErrInvalidConfig, name)
		}
	}
	if c.CaptainPointsFile == "" && len(c.CaptainPoints) == 0 {
		return fmt.Errorf("%w: captain_points or captain_points_file must be set", ErrInvalidConfig)
	}
	for name, pts := range c.CaptainPoints {
		if pts < 0 {
			return fmt.Errorf("%w: captain points for %q must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ManagerNames returns the configured manager names in ascending order.
func (c *Config) ManagerNames() []string {
	names := make([]string, 0, len(c.Managers))
	for name := range c.Managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CaptainTable returns the inline captain points as rows ordered by manager.
func (c *Config) CaptainTable() []model.CaptainPoints {
	rows := make([]model.CaptainPoints, 0, len(c.CaptainPoints))
	for name, pts := range c.CaptainPoints {
		rows = append(rows, model.CaptainPoints{Manager: name, CaptainPoints: pts})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Manager < rows[j].Manager })
	return rows
}
