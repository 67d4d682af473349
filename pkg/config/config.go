// Package config loads syntree settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/syntree/config.toml (falling back to
// ~/.config/syntree/config.toml). Every key is optional; missing keys keep
// their defaults:
//
//	[canvas]
//	width = 1200
//	height = 700
//
//	[layout]
//	unit_width = 140
//	level_height = 110
//	top_margin = 20
//	root_gap_units = 1
//	min_left = 20
//
//	[animation]
//	enabled = true
//	duration = "250ms"
//
//	[export]
//	format = "gif"
//	scale = 2.0
//	output = "syntax-tree"
//
//	[cache]
//	backend = "file"   # file, redis or none
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//
// Command-line flags override values read from the file.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/render"
)

const appName = "syntree"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration that reads from TOML strings like "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type CanvasConfig struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	LineTolerance float64 `toml:"line_tolerance"`
}

type LayoutConfig struct {
	UnitWidth    float64 `toml:"unit_width"`
	LevelHeight  float64 `toml:"level_height"`
	TopMargin    float64 `toml:"top_margin"`
	RootGapUnits int     `toml:"root_gap_units"`
	MinLeft      float64 `toml:"min_left"`
}

type AnimationConfig struct {
	Enabled  bool     `toml:"enabled"`
	Duration Duration `toml:"duration"`
}

type ExportConfig struct {
	Format string  `toml:"format"`
	Scale  float64 `toml:"scale"`
	Output string  `toml:"output"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Config is the full settings file.
type Config struct {
	Canvas    CanvasConfig    `toml:"canvas"`
	Layout    LayoutConfig    `toml:"layout"`
	Animation AnimationConfig `toml:"animation"`
	Export    ExportConfig    `toml:"export"`
	Cache     CacheConfig     `toml:"cache"`
}

// Default returns the built-in settings.
func Default() Config {
	l := layout.DefaultConfig()
	return Config{
		Canvas: CanvasConfig{Width: 1200, Height: 700, LineTolerance: 5},
		Layout: LayoutConfig{
			UnitWidth:    l.UnitWidth,
			LevelHeight:  l.LevelHeight,
			TopMargin:    l.TopMargin,
			RootGapUnits: l.RootGapUnits,
			MinLeft:      l.MinLeft,
		},
		Animation: AnimationConfig{Enabled: true, Duration: Duration{layout.DefaultAnimationDuration}},
		Export:    ExportConfig{Format: render.FormatGIF, Scale: 2, Output: "syntax-tree"},
		Cache:     CacheConfig{Backend: CacheFile, TTL: Duration{7 * 24 * time.Hour}},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads and validates the file at path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault reads the file at [Path]. A missing file yields [Default].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive")
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if c.Animation.Duration.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation duration cannot be negative")
	}
	if !slices.Contains(render.Formats, c.Export.Format) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid export format %q (must be one of %v)", c.Export.Format, render.Formats)
	}
	if c.Export.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export scale must be positive")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
	return nil
}

// LayoutConfig converts the [layout] and [canvas] sections for the engine.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		UnitWidth:     c.Layout.UnitWidth,
		LevelHeight:   c.Layout.LevelHeight,
		TopMargin:     c.Layout.TopMargin,
		RootGapUnits:  c.Layout.RootGapUnits,
		MinLeft:       c.Layout.MinLeft,
		ViewportWidth: c.Canvas.Width,
	}
}

// AnimationDuration returns the easing duration, or 0 when disabled.
func (c Config) AnimationDuration() time.Duration {
	if !c.Animation.Enabled {
		return 0
	}
	return c.Animation.Duration.Duration
}
