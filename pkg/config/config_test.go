package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/syntree/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	l := cfg.LayoutConfig()
	if l.UnitWidth != 140 || l.LevelHeight != 110 || l.TopMargin != 20 || l.RootGapUnits != 1 || l.MinLeft != 20 {
		t.Errorf("LayoutConfig() = %+v", l)
	}
	if cfg.AnimationDuration() != 250*time.Millisecond {
		t.Errorf("AnimationDuration() = %v", cfg.AnimationDuration())
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[canvas]
width = 900

[layout]
unit_width = 160

[animation]
enabled = false
duration = "1s"

[export]
format = "png"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/2"
ttl = "1h"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Canvas.Width != 900 || cfg.Canvas.Height != 700 {
		t.Errorf("canvas = %+v, want width overridden and height kept", cfg.Canvas)
	}
	if cfg.Layout.UnitWidth != 160 || cfg.Layout.LevelHeight != 110 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.AnimationDuration() != 0 {
		t.Error("disabled animation should have zero duration")
	}
	if cfg.Cache.TTL.Duration != time.Hour || cfg.Export.Format != "png" {
		t.Errorf("cache=%+v export=%+v", cfg.Cache, cfg.Export)
	}
	if cfg.LayoutConfig().ViewportWidth != 900 {
		t.Error("viewport width should follow the canvas width")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[canvas`},
		{"unknown key", "[canvas]\ncolour = 1"},
		{"bad format", "[export]\nformat = \"bmp\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"negative gap", "[layout]\nroot_gap_units = -1"},
		{"bad duration", "[animation]\nduration = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[export]\nscale = 3.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil || cfg.Export.Scale != 3 {
		t.Fatalf("Load() = %+v, %v", cfg.Export, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	if err != nil || cfg != Default() {
		t.Fatalf("LoadDefault() without file = %+v, %v", cfg, err)
	}

	path, _ := Path()
	if path != filepath.Join(dir, "syntree", "config.toml") {
		t.Errorf("Path() = %s", path)
	}
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("[canvas]\nheight = 500\n"), 0644)
	cfg, err = LoadDefault()
	if err != nil || cfg.Canvas.Height != 500 {
		t.Errorf("LoadDefault() = %+v, %v", cfg.Canvas, err)
	}
}
