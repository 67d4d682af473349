package editor

import (
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/tile"
	"github.com/matzehuels/syntree/pkg/tree"
)

// Canvas size limits.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 700.0
	MinWidth      = 600.0
	MinHeight     = 300.0
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	Width, Height float64
	Layout        layout.Config
	Animation     time.Duration // 0 applies layouts immediately
	LineTolerance float64       // hit distance for connection lines
	Logger        *log.Logger
	Clock         func() time.Time
}

// Session is one editing canvas. It is not safe for concurrent use; the
// terminal editor drives it from a single goroutine.
type Session struct {
	ID     string
	logger *log.Logger

	tiles  *canvas.Registry
	forest *tree.Forest
	engine *layout.Engine
	anim   *layout.Animator
	now    func() time.Time

	lines     []Line
	tolerance float64
	sel       selection
	drag      *dragState

	width, height float64
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.LineTolerance <= 0 {
		opts.LineTolerance = DefaultLineTolerance
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	w, h := max(MinWidth, opts.Width), max(MinHeight, opts.Height)
	opts.Layout.ViewportWidth = w

	id := uuid.NewString()
	return &Session{
		ID:        id,
		logger:    opts.Logger.With("session", id[:8]),
		tiles:     canvas.NewRegistry(),
		forest:    tree.New(),
		engine:    layout.New(opts.Layout),
		anim:      layout.NewAnimator(opts.Animation),
		now:       opts.Clock,
		tolerance: opts.LineTolerance,
		width:     w,
		height:    h,
	}
}

// Tiles returns the session's registry.
func (s *Session) Tiles() *canvas.Registry { return s.tiles }

// Forest returns the session's connection store. Callers must not mutate it.
func (s *Session) Forest() *tree.Forest { return s.forest }

// Size returns the canvas size.
func (s *Session) Size() (w, h float64) { return s.width, s.height }

// Resize changes the canvas size, clamped to the minimum. Tiles keep their
// positions until the next layout pass.
func (s *Session) Resize(w, h float64) {
	s.width, s.height = max(MinWidth, w), max(MinHeight, h)
	s.engine.SetViewportWidth(s.width)
}

// Drop places a new tile centered on (x, y). It does not trigger a layout.
func (s *Session) Drop(spec tile.Spec, x, y float64) (*canvas.Tile, error) {
	t, err := s.tiles.Add(spec, x, y)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dropped tile", "id", t.ID, "kind", spec.Kind, "value", spec.Value)
	return t, nil
}

// Connect makes child a child of parent and lays the forest out again.
func (s *Session) Connect(parent, child string) error {
	for _, id := range []string{parent, child} {
		if !s.tiles.Has(id) {
			return errors.New(errors.ErrCodeUnknownNode, "no tile %q", id)
		}
	}
	if err := s.forest.Connect(parent, child, s.tiles.CenterX); err != nil {
		code := errors.ErrCodeCycle
		if stderrors.Is(err, tree.ErrSelfConnection) {
			code = errors.ErrCodeSelfConnection
		}
		wrapped := errors.Wrap(code, err, "connect %s -> %s", parent, child)
		observability.Editor().OnConnect(s.ID, parent, child, wrapped)
		return wrapped
	}
	s.logger.Debug("connected", "parent", parent, "child", child)
	observability.Editor().OnConnect(s.ID, parent, child, nil)
	s.Relayout()
	return nil
}

// Disconnect removes the (parent, child) pair. It reports whether a pair
// was removed; the layout is refreshed either way.
func (s *Session) Disconnect(parent, child string) bool {
	ok := s.forest.Disconnect(parent, child)
	if ok {
		s.logger.Debug("disconnected", "parent", parent, "child", child)
	}
	s.Relayout()
	return ok
}

// Delete removes a tile and every connection touching it. Former children
// become roots. Deleting the selected tile clears the selection.
func (s *Session) Delete(id string) error {
	if !s.tiles.Has(id) {
		return errors.New(errors.ErrCodeUnknownNode, "no tile %q", id)
	}
	s.forest.DeleteNode(id)
	s.tiles.Remove(id)
	s.anim.Cancel(id)
	s.sel.forget(id)
	if s.drag != nil && s.drag.id == id {
		s.drag = nil
	}
	s.logger.Debug("deleted tile", "id", id)
	s.Relayout()
	return nil
}

// MoveSubtree translates every strict descendant of id by (dx, dy). The
// tile itself, its ancestors and other trees are not moved.
func (s *Session) MoveSubtree(id string, dx, dy float64) {
	for _, d := range s.forest.Descendants(id) {
		s.tiles.Move(d, dx, dy)
	}
}

// Relayout computes a fresh layout for the forest and moves (or starts
// easing) every member to its target. Lines are refreshed immediately.
func (s *Session) Relayout() layout.Result {
	start := time.Now()
	res := s.engine.Compute(s.forest, s.tiles)
	targets := res.Targets()
	s.anim.Prune(targets)
	if s.anim.Duration() > 0 && len(targets) > 0 {
		from := make(map[string]canvas.Point, len(targets))
		for id := range targets {
			if t, ok := s.tiles.Get(id); ok {
				from[id] = canvas.Point{X: t.X, Y: t.Y}
			}
		}
		s.anim.Retarget(s.now(), from, targets)
	} else {
		for id, p := range targets {
			s.tiles.SetPosition(id, p.X, p.Y)
		}
	}
	s.RefreshLines()
	s.logger.Debug("layout", "roots", len(res.Roots), "nodes", len(res.Placements), "width", res.Width)
	observability.Editor().OnLayout(s.ID, len(res.Roots), len(res.Placements), time.Since(start))
	return res
}

// Tick advances running animations to now. It reports whether any
// animation is still in flight.
func (s *Session) Tick(now time.Time) bool {
	if !s.anim.Active() {
		return false
	}
	for id, p := range s.anim.Step(now) {
		s.tiles.SetPosition(id, p.X, p.Y)
	}
	s.RefreshLines()
	return s.anim.Active()
}

// Animating reports whether a layout is still easing in.
func (s *Session) Animating() bool { return s.anim.Active() }

// Settle jumps every running animation to its target.
func (s *Session) Settle() {
	if !s.anim.Active() {
		return
	}
	for id, p := range s.anim.Finish() {
		s.tiles.SetPosition(id, p.X, p.Y)
	}
	s.RefreshLines()
}

// EditLabel asks prompt for a new label for a word tile. The prompt sees
// an empty string while the tile still shows the placeholder; an empty
// answer restores the placeholder and a cancelled prompt changes nothing.
// A successful edit of the selected tile clears the selection.
func (s *Session) EditLabel(id string, prompt func(current string) (string, bool)) (bool, error) {
	t, err := s.tiles.Lookup(id)
	if err != nil {
		return false, err
	}
	if !t.Editable() {
		return false, errors.New(errors.ErrCodeNotEditable, "%s tile %s has a fixed label", t.Spec.Kind, id)
	}
	current := t.Label
	if current == tile.Placeholder {
		current = ""
	}
	text, ok := prompt(current)
	if !ok {
		return false, nil
	}
	if err := errors.ValidateLabel(text); err != nil {
		return false, err
	}
	if text == "" {
		text = tile.Placeholder
	}
	s.tiles.SetLabel(id, text)
	s.sel.forget(id)
	s.logger.Debug("edited label", "id", id, "label", text)
	return true, nil
}
