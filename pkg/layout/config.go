package layout

import (
	"github.com/matzehuels/syntree/pkg/errors"
)

// Default geometry, in canvas units.
const (
	DefaultUnitWidth     = 140.0
	DefaultLevelHeight   = 110.0
	DefaultTopMargin     = 20.0
	DefaultRootGapUnits  = 1
	DefaultMinLeft       = 20.0
	DefaultViewportWidth = 1200.0
	DefaultTileWidth     = 120.0
)

// Config holds the layout constants.
type Config struct {
	UnitWidth     float64 // width of one span slot
	LevelHeight   float64 // vertical distance between depths
	TopMargin     float64 // y of depth 0
	RootGapUnits  int     // empty slots between adjacent roots
	MinLeft       float64 // leftmost x the forest may start at
	ViewportWidth float64 // canvas width used for centering
}

// DefaultConfig returns the standard layout constants.
func DefaultConfig() Config {
	return Config{
		UnitWidth:     DefaultUnitWidth,
		LevelHeight:   DefaultLevelHeight,
		TopMargin:     DefaultTopMargin,
		RootGapUnits:  DefaultRootGapUnits,
		MinLeft:       DefaultMinLeft,
		ViewportWidth: DefaultViewportWidth,
	}
}

// Validate checks that the constants describe a usable geometry.
func (c Config) Validate() error {
	switch {
	case c.UnitWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "unit width must be positive, got %v", c.UnitWidth)
	case c.LevelHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "level height must be positive, got %v", c.LevelHeight)
	case c.RootGapUnits < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "root gap cannot be negative, got %d", c.RootGapUnits)
	case c.ViewportWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "viewport width must be positive, got %v", c.ViewportWidth)
	}
	return nil
}
