package editor

import (
	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/errors"
)

type dragState struct {
	id   string
	last canvas.Point // top-left of the dragged tile after the previous step
}

// BeginDrag grabs a tile. Running animations of the tile and its subtree
// stop where they are, because the user's hand now owns those positions.
func (s *Session) BeginDrag(id string) error {
	t, err := s.tiles.Lookup(id)
	if err != nil {
		return err
	}
	s.grab(t)
	return nil
}

func (s *Session) grab(t *canvas.Tile) {
	s.drag = &dragState{id: t.ID, last: canvas.Point{X: t.X, Y: t.Y}}
	s.anim.Cancel(append(s.forest.Descendants(t.ID), t.ID)...)
}

// Dragging returns the grabbed tile, if any.
func (s *Session) Dragging() (string, bool) {
	if s.drag == nil {
		return "", false
	}
	return s.drag.id, true
}

// DragBy moves the grabbed tile by (dx, dy); its subtree follows and the
// lines are refreshed.
func (s *Session) DragBy(dx, dy float64) error {
	if s.drag == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no drag in progress")
	}
	t, ok := s.tiles.Get(s.drag.id)
	if !ok {
		s.drag = nil
		return errors.New(errors.ErrCodeUnknownNode, "dragged tile is gone")
	}
	return s.DragTo(t.X+dx, t.Y+dy)
}

// DragTo moves the grabbed tile's top-left corner to (x, y). The subtree
// is translated by the delta since the previous step.
func (s *Session) DragTo(x, y float64) error {
	if s.drag == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no drag in progress")
	}
	id := s.drag.id
	if !s.tiles.SetPosition(id, x, y) {
		s.drag = nil
		return errors.New(errors.ErrCodeUnknownNode, "dragged tile is gone")
	}
	dx, dy := x-s.drag.last.X, y-s.drag.last.Y
	s.drag.last = canvas.Point{X: x, Y: y}

	ids := append(s.forest.Descendants(id), id)
	s.anim.Cancel(ids...)
	s.MoveSubtree(id, dx, dy)
	s.RefreshLines()
	return nil
}

// EndDrag releases the grabbed tile. Dropping a tile does not re-run the
// layout; the new horizontal position only matters at the next pairing.
func (s *Session) EndDrag() {
	s.drag = nil
}

// PressResult describes what a mouse-down hit.
type PressResult int

const (
	PressedNothing PressResult = iota
	PressedTile
	PressedLine
)

// Press models a mouse-down at p. Tiles are drawn above lines, so a tile
// under p starts a drag; otherwise a line under p is disconnected;
// otherwise the selection is cleared.
func (s *Session) Press(p canvas.Point) (PressResult, string) {
	if t, ok := s.tiles.TileAt(p); ok {
		s.grab(t)
		return PressedTile, t.ID
	}
	if l, ok := s.ClickLine(p); ok {
		return PressedLine, l.Child
	}
	s.Deselect()
	return PressedNothing, ""
}
