// Package pipeline turns gesture scripts into rendered diagrams.
//
// This package implements the replay → render pipeline used by the CLI's
// render command. Keeping it out of the CLI means the caching behaviour is
// the same no matter which entry point drives it.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Replay: apply a [script.Script] to a fresh editor session and snapshot
//     the resulting [editor.Scene]
//  2. Render: produce the scene in each requested format (SVG, PNG, GIF,
//     PDF, DOT), either as tiles or as a Graphviz node-link diagram
//
// Both stages are cached. Scenes are keyed by the script's content hash and
// the canvas settings; artifacts are keyed by the scene's hash and the
// render settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ScriptData: data,
//	    Formats:    []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/cache"
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the raster scale for PNG and GIF output.
	DefaultScale = 2.0

	// MaxScale caps raster output so a typo cannot allocate gigabytes.
	MaxScale = 8.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Replay options
	ScriptData []byte        `json:"-"`
	ScriptName string        `json:"script_name,omitempty"`
	Width      float64       `json:"width,omitempty"`
	Height     float64       `json:"height,omitempty"`
	Layout     layout.Config `json:"-"`
	Refresh    bool          `json:"refresh,omitempty"`

	// FallbackWidth and FallbackHeight size the canvas when neither
	// Width/Height nor the script's [canvas] table do.
	FallbackWidth  float64 `json:"fallback_width,omitempty"`
	FallbackHeight float64 `json:"fallback_height,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Scale         float64  `json:"scale,omitempty"`
	FullCanvas    bool     `json:"full_canvas,omitempty"`
	HideSelection bool     `json:"hide_selection,omitempty"`
	Interactive   bool     `json:"interactive,omitempty"`
	NodeLink      bool     `json:"nodelink,omitempty"`
	NativeRaster  bool     `json:"native_raster,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the replayed diagram.
	Scene editor.Scene

	// SceneHash is the content hash of the scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TileCount  int
	LineCount  int
	ReplayTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReplayHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// nodeLinkFormats are the formats Graphviz can produce.
var nodeLinkFormats = []string{render.FormatSVG, render.FormatPNG, render.FormatPDF, render.FormatDOT}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(render.Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScale checks a raster scale.
func ValidateScale(scale float64) error {
	if scale <= 0 || scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale: %v (must be in (0, %v])", scale, MaxScale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForReplay(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForReplay checks required fields for replaying.
func (o *Options) ValidateForReplay() error {
	if len(o.ScriptData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "script is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size cannot be negative")
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.NodeLink {
		for _, f := range o.Formats {
			if !slices.Contains(nodeLinkFormats, f) {
				return errors.New(errors.ErrCodeInvalidFormat, "format %q is not available for node-link diagrams", f)
			}
		}
	}
	return ValidateScale(o.Scale)
}

// SessionOptions returns the editor settings for a replay.
func (o *Options) SessionOptions() editor.Options {
	return editor.Options{
		Width:  o.Width,
		Height: o.Height,
		Layout: o.Layout,
		Logger: o.Logger,
	}
}

// SceneKeyOpts returns cache key options for a replay.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	w, h := o.Width, o.Height
	if w == 0 {
		w = o.FallbackWidth
	}
	if h == 0 {
		h = o.FallbackHeight
	}
	return cache.SceneKeyOpts{
		Width:  w,
		Height: h,
		Layout: layoutFingerprint(o.Layout),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Scale:         o.Scale,
		FullCanvas:    o.FullCanvas,
		HideSelection: o.HideSelection,
		Interactive:   o.Interactive,
		NodeLink:      o.NodeLink,
	}
}
