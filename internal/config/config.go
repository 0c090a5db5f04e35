// Package config loads the session comparison configuration.
//
// Configs are YAML files describing which session and drivers to compare,
// the grid resolution, and presentation options. Fields omitted from the
// file retain their default values, so partial configs are safe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openlaps/lapdelta/internal/monitoring"
)

// SessionConfig identifies the session the two laps come from.
type SessionConfig struct {
	Year    int    `yaml:"year"`
	Circuit string `yaml:"circuit"`
	Type    string `yaml:"type"`
}

// DriverConfig names the reference and comparison drivers.
type DriverConfig struct {
	Reference  string `yaml:"reference"`
	Comparison string `yaml:"comparison"`
}

// GridConfig holds the resampling grid resolution.
type GridConfig struct {
	StepMetres float64 `yaml:"step_metres"`
}

// OutputConfig controls where rendered artefacts are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	ChartFile string `yaml:"chart_file"`
	DPI       int    `yaml:"dpi"`
}

// ThemeConfig holds chart colours as hex strings.
type ThemeConfig struct {
	BgDark    string `yaml:"bg_dark"`
	BgPanel   string `yaml:"bg_panel"`
	GridColor string `yaml:"grid_color"`
	TextColor string `yaml:"text_color"`
	SpeedA    string `yaml:"speed_a"`
	SpeedB    string `yaml:"speed_b"`
	FillA     string `yaml:"fill_a"`
	FillB     string `yaml:"fill_b"`
	ZeroLine  string `yaml:"zero_line"`
}

// Corner marks a named track position for chart annotation.
type Corner struct {
	Name      string  `yaml:"name"`
	DistanceM float64 `yaml:"distance_m"`
}

// Config is the root configuration.
type Config struct {
	Session   SessionConfig `yaml:"session"`
	Drivers   DriverConfig  `yaml:"drivers"`
	Grid      GridConfig    `yaml:"grid"`
	Output    OutputConfig  `yaml:"output"`
	Theme     ThemeConfig   `yaml:"theme"`
	Corners   []Corner      `yaml:"corners"`
	CachePath string        `yaml:"cache_path"`
}

// Default returns the built-in configuration: Monza 2023 qualifying with a
// 1 m grid.
func Default() *Config {
	return &Config{
		Session: SessionConfig{Year: 2023, Circuit: "Monza", Type: "Q"},
		Drivers: DriverConfig{Reference: "VER", Comparison: "SAI"},
		Grid:    GridConfig{StepMetres: 1},
		Output:  OutputConfig{Dir: "output", ChartFile: "telemetry_analysis", DPI: 200},
		Theme: ThemeConfig{
			BgDark:    "#0e1117",
			BgPanel:   "#161b22",
			GridColor: "#30363d",
			TextColor: "#e6edf3",
			SpeedA:    "#3b82f6",
			SpeedB:    "#e8002d",
			FillA:     "#3b82f6",
			FillB:     "#22c55e",
			ZeroLine:  "#94a3b8",
		},
		Corners: []Corner{
			{Name: "T1 Grande", DistanceM: 295},
			{Name: "T2 Grande", DistanceM: 370},
			{Name: "Roggia", DistanceM: 680},
			{Name: "Roggia", DistanceM: 750},
			{Name: "Lesmo 1", DistanceM: 1430},
			{Name: "Lesmo 2", DistanceM: 1650},
			{Name: "Ascari", DistanceM: 3450},
			{Name: "Ascari", DistanceM: 3560},
			{Name: "Ascari", DistanceM: 3640},
			{Name: "Parabolica", DistanceM: 4400},
		},
		CachePath: "lapdelta.db",
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error: the defaults are returned with a logged warning, matching
// the behaviour expected of optional per-session configs.
func Load(path string) (*Config, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	raw, err := os.ReadFile(cleanPath)
	if os.IsNotExist(err) {
		monitoring.Logf("config not found at %s, using defaults", cleanPath)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Validate checks the fields the pipeline depends on.
func (c *Config) Validate() error {
	if !(c.Grid.StepMetres > 0) {
		return fmt.Errorf("grid.step_metres must be positive, got %v", c.Grid.StepMetres)
	}
	if strings.TrimSpace(c.Drivers.Reference) == "" || strings.TrimSpace(c.Drivers.Comparison) == "" {
		return fmt.Errorf("both drivers.reference and drivers.comparison must be set")
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("output.dpi must be positive, got %d", c.Output.DPI)
	}
	return nil
}

// SessionKey returns the canonical cache key for the configured session,
// e.g. "2023_monza_Q".
func (c *Config) SessionKey() string {
	return fmt.Sprintf("%d_%s_%s", c.Session.Year, strings.ToLower(c.Session.Circuit), c.Session.Type)
}
