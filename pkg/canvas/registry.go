package canvas

import (
	"fmt"
	"slices"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/tile"
)

// IDPrefix is the prefix of every tile identifier.
const IDPrefix = "tile-"

// Tile is a labeled box on the canvas.
type Tile struct {
	ID     string
	Spec   tile.Spec
	Label  string
	Color  string
	X, Y   float64 // top-left corner
	Width  float64
	Height float64
}

// Bounds returns the tile's rectangle.
func (t *Tile) Bounds() Rect {
	return Rect{Left: t.X, Top: t.Y, Width: t.Width, Height: t.Height}
}

// Center returns the midpoint of the tile's rectangle.
func (t *Tile) Center() Point { return t.Bounds().Center() }

// Editable reports whether the tile accepts label edits.
func (t *Tile) Editable() bool { return t.Spec.Editable() }

// HasText reports whether an editable tile carries typed text rather than
// the placeholder.
func (t *Tile) HasText() bool { return t.Editable() && t.Label != tile.Placeholder }

// Registry stores the tiles of one canvas in creation order.
// It is not safe for concurrent use.
type Registry struct {
	tiles map[string]*Tile
	order []string
	next  int
}

// NewRegistry creates an empty registry whose first tile is "tile-0".
func NewRegistry() *Registry {
	return &Registry{tiles: make(map[string]*Tile)}
}

// Add creates a tile from a palette pair, centered on (cx, cy).
func (r *Registry) Add(spec tile.Spec, cx, cy float64) (*Tile, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	w, h := spec.Size()
	t := &Tile{
		ID:     fmt.Sprintf("%s%d", IDPrefix, r.next),
		Spec:   spec,
		Label:  spec.Label(),
		Color:  spec.Color(),
		X:      cx - w/2,
		Y:      cy - h/2,
		Width:  w,
		Height: h,
	}
	r.next++
	r.tiles[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

// Get returns the tile with the given id.
func (r *Registry) Get(id string) (*Tile, bool) {
	t, ok := r.tiles[id]
	return t, ok
}

// Has reports whether id names a live tile.
func (r *Registry) Has(id string) bool {
	_, ok := r.tiles[id]
	return ok
}

// Lookup returns the tile or an UNKNOWN_NODE error.
func (r *Registry) Lookup(id string) (*Tile, error) {
	if t, ok := r.tiles[id]; ok {
		return t, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownNode, "no tile %q", id)
}

// Len returns the number of live tiles.
func (r *Registry) Len() int { return len(r.order) }

// IDs returns live tile ids in creation order.
func (r *Registry) IDs() []string { return slices.Clone(r.order) }

// All returns live tiles in creation order.
func (r *Registry) All() []*Tile {
	out := make([]*Tile, len(r.order))
	for i, id := range r.order {
		out[i] = r.tiles[id]
	}
	return out
}

// Rank returns the creation index of a live tile, or -1.
func (r *Registry) Rank(id string) int { return slices.Index(r.order, id) }

// Center returns the center of the tile with the given id.
func (r *Registry) Center(id string) (Point, bool) {
	t, ok := r.tiles[id]
	if !ok {
		return Point{}, false
	}
	return t.Center(), true
}

// Bounds returns the rectangle of the tile with the given id.
func (r *Registry) Bounds(id string) (Rect, bool) {
	t, ok := r.tiles[id]
	if !ok {
		return Rect{}, false
	}
	return t.Bounds(), true
}

// CenterX returns the horizontal center of id, or 0 for unknown ids.
func (r *Registry) CenterX(id string) float64 {
	p, _ := r.Center(id)
	return p.X
}

// TileAt returns the topmost tile containing p. Later tiles are drawn on
// top of earlier ones.
func (r *Registry) TileAt(p Point) (*Tile, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.tiles[r.order[i]]
		if t.Bounds().Contains(p) {
			return t, true
		}
	}
	return nil, false
}

// Move translates a tile by (dx, dy).
func (r *Registry) Move(id string, dx, dy float64) bool {
	t, ok := r.tiles[id]
	if !ok {
		return false
	}
	t.X += dx
	t.Y += dy
	return true
}

// SetPosition places a tile's top-left corner at (x, y).
func (r *Registry) SetPosition(id string, x, y float64) bool {
	t, ok := r.tiles[id]
	if !ok {
		return false
	}
	t.X, t.Y = x, y
	return true
}

// SetLabel replaces a tile's label.
func (r *Registry) SetLabel(id, label string) bool {
	t, ok := r.tiles[id]
	if !ok {
		return false
	}
	t.Label = label
	return true
}

// Remove deletes a tile. Its id is never handed out again.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.tiles[id]; !ok {
		return false
	}
	delete(r.tiles, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return true
}
