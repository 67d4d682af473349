package editor

// Outcome is the effect of a double-click.
type Outcome int

const (
	Selected Outcome = iota
	Deselected
	Connected
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// selection is the single selection slot. The zero value is idle.
type selection struct {
	id string
}

func (s *selection) active() bool { return s.id != "" }

func (s *selection) clear() { s.id = "" }

// forget clears the slot if it holds id.
func (s *selection) forget(id string) {
	if s.id == id {
		s.id = ""
	}
}

// Selected returns the selected tile, if any.
func (s *Session) Selected() (string, bool) {
	return s.sel.id, s.sel.active()
}

// Deselect clears the selection (the escape key).
func (s *Session) Deselect() {
	if s.sel.active() {
		s.logger.Debug("deselected", "id", s.sel.id)
	}
	s.sel.clear()
}

// DoubleClick advances the pairing state machine.
//
// With nothing selected, id becomes selected. Double-clicking the selected
// tile again deselects it. Double-clicking a different tile connects the
// two: the tile whose top edge is higher on the canvas becomes the parent,
// and on equal heights the tile clicked second wins. The selection is
// cleared after a pairing attempt even when the connection is rejected.
func (s *Session) DoubleClick(id string) (Outcome, error) {
	t, err := s.tiles.Lookup(id)
	if err != nil {
		return Selected, err
	}

	if !s.sel.active() {
		s.sel.id = id
		s.logger.Debug("selected", "id", id)
		return Selected, nil
	}
	if s.sel.id == id {
		s.sel.clear()
		s.logger.Debug("deselected", "id", id)
		return Deselected, nil
	}

	first, ok := s.tiles.Get(s.sel.id)
	s.sel.clear()
	if !ok {
		// The selected tile vanished underneath us; start over with id.
		s.sel.id = id
		return Selected, nil
	}

	parent, child := t.ID, first.ID
	if first.Y < t.Y {
		parent, child = first.ID, t.ID
	}
	if err := s.Connect(parent, child); err != nil {
		return Connected, err
	}
	return Connected, nil
}
