package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Geometry reports the current shape of tiles. *canvas.Registry satisfies it.
type Geometry interface {
	Bounds(id string) (canvas.Rect, bool)
	Rank(id string) int
}

// Band is the horizontal interval [Left, Right) allocated to a subtree.
type Band struct {
	Left, Right float64
}

// Width returns Right - Left.
func (b Band) Width() float64 { return b.Right - b.Left }

// Mid returns the center of the band.
func (b Band) Mid() float64 { return (b.Left + b.Right) / 2 }

// Placement is the computed target for one forest member.
type Placement struct {
	X, Y  float64 // target top-left corner
	Band  Band
	Depth int
	Span  int
}

// CenterX returns the target center x of the tile.
func (p Placement) CenterX() float64 { return p.Band.Mid() }

// Result is the output of one layout pass.
type Result struct {
	Placements map[string]Placement
	Roots      []string // left to right
	Start      float64  // left edge of the first root band
	Width      float64  // total width of all bands and gaps
}

// Empty reports whether the pass placed nothing.
func (r Result) Empty() bool { return len(r.Placements) == 0 }

// Targets returns the top-left target of every placed tile.
func (r Result) Targets() map[string]canvas.Point {
	out := make(map[string]canvas.Point, len(r.Placements))
	for id, p := range r.Placements {
		out[id] = canvas.Point{X: p.X, Y: p.Y}
	}
	return out
}

// Engine computes layouts with a fixed configuration.
type Engine struct {
	cfg Config
}

// New creates an engine. Invalid configurations are replaced field by field
// with defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.UnitWidth <= 0 {
		cfg.UnitWidth = def.UnitWidth
	}
	if cfg.LevelHeight <= 0 {
		cfg.LevelHeight = def.LevelHeight
	}
	if cfg.RootGapUnits < 0 {
		cfg.RootGapUnits = def.RootGapUnits
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = def.ViewportWidth
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetViewportWidth updates the width used for centering.
func (e *Engine) SetViewportWidth(w float64) {
	if w > 0 {
		e.cfg.ViewportWidth = w
	}
}

// Compute lays out every member of f. Roots are ordered by their current
// center x, ties broken by creation order.
func (e *Engine) Compute(f *tree.Forest, g Geometry) Result {
	res := Result{Placements: make(map[string]Placement)}
	roots := f.Roots()
	if len(roots) == 0 {
		return res
	}

	spans := tree.Spans(f)
	centerX := func(id string) float64 {
		b, _ := g.Bounds(id)
		return b.Center().X
	}
	slices.SortStableFunc(roots, func(a, b string) int {
		if c := cmp.Compare(centerX(a), centerX(b)); c != 0 {
			return c
		}
		return cmp.Compare(g.Rank(a), g.Rank(b))
	})
	res.Roots = roots

	units := 0
	for i, r := range roots {
		units += spans[r]
		if i < len(roots)-1 {
			units += e.cfg.RootGapUnits
		}
	}
	res.Width = float64(units) * e.cfg.UnitWidth
	res.Start = math.Max(e.cfg.MinLeft, (e.cfg.ViewportWidth-res.Width)/2)

	var assign func(id string, left float64, depth int)
	assign = func(id string, left float64, depth int) {
		span := spans[id]
		band := Band{Left: left, Right: left + float64(span)*e.cfg.UnitWidth}
		halfW := DefaultTileWidth / 2
		if b, ok := g.Bounds(id); ok && b.Width > 0 {
			halfW = b.Width / 2
		}
		res.Placements[id] = Placement{
			X:     band.Mid() - halfW,
			Y:     e.cfg.TopMargin + float64(depth)*e.cfg.LevelHeight,
			Band:  band,
			Depth: depth,
			Span:  span,
		}
		childLeft := left
		for _, c := range f.Children(id) {
			assign(c, childLeft, depth+1)
			childLeft += float64(spans[c]) * e.cfg.UnitWidth
		}
	}

	cursor := 0
	for _, r := range roots {
		assign(r, res.Start+float64(cursor)*e.cfg.UnitWidth, 0)
		cursor += spans[r] + e.cfg.RootGapUnits
	}
	return res
}
