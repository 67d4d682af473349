package editor

import (
	"github.com/matzehuels/syntree/pkg/canvas"
)

// DefaultLineTolerance is how far from a line a click still hits it.
const DefaultLineTolerance = 5.0

// Line is a drawn connection from a parent's center to a child's center.
type Line struct {
	Parent string       `json:"parent"`
	Child  string       `json:"child"`
	From   canvas.Point `json:"from"`
	To     canvas.Point `json:"to"`
}

// RefreshLines discards every line and draws exactly one per stored pair,
// anchored at the current centers.
func (s *Session) RefreshLines() {
	edges := s.forest.Edges()
	lines := make([]Line, 0, len(edges))
	for _, e := range edges {
		from, ok1 := s.tiles.Center(e.Parent)
		to, ok2 := s.tiles.Center(e.Child)
		if !ok1 || !ok2 {
			continue
		}
		lines = append(lines, Line{Parent: e.Parent, Child: e.Child, From: from, To: to})
	}
	s.lines = lines
}

// Lines returns the current lines.
func (s *Session) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// LineAt returns the line closest to p within the hit tolerance.
func (s *Session) LineAt(p canvas.Point) (Line, bool) {
	best, bestDist := -1, s.tolerance
	for i, l := range s.lines {
		if d := canvas.SegmentDistance(p, l.From, l.To); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Line{}, false
	}
	return s.lines[best], true
}

// ClickLine disconnects the pair whose line is under p.
func (s *Session) ClickLine(p canvas.Point) (Line, bool) {
	l, ok := s.LineAt(p)
	if !ok {
		return Line{}, false
	}
	s.Disconnect(l.Parent, l.Child)
	return l, true
}
