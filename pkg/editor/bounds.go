package editor

import (
	"math"

	"github.com/matzehuels/syntree/pkg/canvas"
)

// Bounds padding.
const (
	MinPadding   = 20.0
	PaddingRatio = 0.08
)

// TightBounds returns the smallest canvas region that shows every tile and
// line, padded on each axis by the larger of MinPadding and 8% of the
// extent, snapped outward to whole units and clamped to the canvas. An
// empty canvas yields the whole canvas.
func (s *Session) TightBounds() canvas.Rect {
	tiles := s.tiles.All()
	if len(tiles) == 0 && len(s.lines) == 0 {
		return canvas.Rect{Width: s.width, Height: s.height}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p canvas.Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, t := range tiles {
		b := t.Bounds()
		grow(canvas.Point{X: b.Left, Y: b.Top})
		grow(canvas.Point{X: b.Right(), Y: b.Bottom()})
	}
	for _, l := range s.lines {
		grow(l.From)
		grow(l.To)
	}

	w := math.Max(1, maxX-minX)
	h := math.Max(1, maxY-minY)
	padX := math.Max(MinPadding, w*PaddingRatio)
	padY := math.Max(MinPadding, h*PaddingRatio)

	left := math.Max(0, math.Floor(minX-padX))
	top := math.Max(0, math.Floor(minY-padY))
	bw := math.Min(s.width-left, math.Ceil(w+2*padX))
	bh := math.Min(s.height-top, math.Ceil(h+2*padY))
	return canvas.Rect{Left: left, Top: top, Width: bw, Height: bh}
}
