// Package script replays recorded editor gestures.
//
// A script is a TOML file listing the gestures a user would make in the
// editor: dropping tiles, double-clicking them into pairs, dragging,
// clicking lines, deleting and typing labels. Replaying it against an
// [editor.Session] rebuilds the same diagram, which lets the CLI render
// trees without an interactive terminal.
//
//	[canvas]
//	width = 1200
//
//	[[step]]
//	op = "drop"
//	kind = "phrase"
//	value = "NP"
//	x = 600
//	y = 100
//	as = "np"
//
//	[[step]]
//	op = "drop"
//	kind = "word"
//	value = "noun"
//	x = 600
//	y = 300
//	as = "dog"
//
//	[[step]]
//	op = "pair"
//	a = "np"
//	b = "dog"
//
// Steps name tiles by the alias given in "as", or by their raw "tile-N" id.
// A script records input, not a tree: layout is recomputed on replay.
package script

import (
	"context"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/tile"
)

// Op names a gesture.
type Op string

const (
	OpDrop       Op = "drop"       // place a tile: kind, value, x, y, as
	OpSelect     Op = "select"     // double-click: node
	OpPair       Op = "pair"       // double-click a, then b
	OpDrag       Op = "drag"       // drag node by dx, dy in steps increments
	OpClick      Op = "click"      // press and release at x, y
	OpDisconnect Op = "disconnect" // remove the parent -> child line
	OpDelete     Op = "delete"     // delete node
	OpEdit       Op = "edit"       // type label into node
	OpDeselect   Op = "deselect"   // escape
)

// Ops lists every supported gesture.
var Ops = []Op{OpDrop, OpSelect, OpPair, OpDrag, OpClick, OpDisconnect, OpDelete, OpEdit, OpDeselect}

// Canvas overrides the editor canvas size for the replay.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Step is one gesture. Only the fields its Op uses are read.
type Step struct {
	Op     Op      `toml:"op"`
	Kind   string  `toml:"kind"`
	Value  string  `toml:"value"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	As     string  `toml:"as"`
	Node   string  `toml:"node"`
	A      string  `toml:"a"`
	B      string  `toml:"b"`
	Parent string  `toml:"parent"`
	Child  string  `toml:"child"`
	DX     float64 `toml:"dx"`
	DY     float64 `toml:"dy"`
	Steps  int     `toml:"steps"`
	Label  string  `toml:"label"`
}

// Script is a parsed gesture file.
type Script struct {
	Name   string `toml:"name"`
	Canvas Canvas `toml:"canvas"`
	Steps  []Step `toml:"step"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown script key %q", undecoded[0].String())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step in isolation. Whether referenced tiles exist
// is only known during Replay.
func (s *Script) Validate() error {
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScript, "canvas size cannot be negative")
	}
	aliases := make(map[string]bool)
	for i, st := range s.Steps {
		if err := st.validate(aliases); err != nil {
			return stepError(i, st, err)
		}
	}
	return nil
}

func (st Step) validate(aliases map[string]bool) error {
	need := func(field, v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(errors.ErrCodeInvalidScript, "missing %q", field)
		}
		return nil
	}
	switch st.Op {
	case OpDrop:
		spec, err := st.spec()
		if err != nil {
			return err
		}
		if err := spec.Validate(); err != nil {
			return err
		}
		if st.As != "" {
			if err := errors.ValidateAlias(st.As); err != nil {
				return err
			}
			if aliases[st.As] {
				return errors.New(errors.ErrCodeInvalidScript, "alias %q defined twice", st.As)
			}
			aliases[st.As] = true
		}
	case OpSelect, OpDelete:
		return need("node", st.Node)
	case OpEdit:
		if err := need("node", st.Node); err != nil {
			return err
		}
		return errors.ValidateLabel(st.Label)
	case OpDrag:
		if err := need("node", st.Node); err != nil {
			return err
		}
		if st.Steps < 0 {
			return errors.New(errors.ErrCodeInvalidScript, "steps cannot be negative")
		}
	case OpPair:
		if err := need("a", st.A); err != nil {
			return err
		}
		return need("b", st.B)
	case OpDisconnect:
		if err := need("parent", st.Parent); err != nil {
			return err
		}
		return need("child", st.Child)
	case OpClick, OpDeselect:
	case "":
		return errors.New(errors.ErrCodeInvalidScript, "missing \"op\"")
	default:
		return errors.New(errors.ErrCodeInvalidScript, "unknown op %q", st.Op)
	}
	return nil
}

func (st Step) spec() (tile.Spec, error) {
	kind, err := tile.ParseKind(st.Kind)
	if err != nil {
		return tile.Spec{}, err
	}
	return tile.Spec{Kind: kind, Value: st.Value}, nil
}

// Result summarizes a replay.
type Result struct {
	Aliases map[string]string // alias -> tile id
	Steps   int               // steps applied
}

// Replay applies every step to the session in order. It stops at the first
// failing step; the session keeps the effects of the steps before it.
// Running animations are settled before returning.
func (s *Script) Replay(ctx context.Context, sess *editor.Session) (*Result, error) {
	r := &replayer{sess: sess, res: &Result{Aliases: make(map[string]string)}}
	defer sess.Settle()

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		if err := r.apply(st); err != nil {
			return r.res, stepError(i, st, err)
		}
		r.res.Steps++
	}
	return r.res, nil
}

type replayer struct {
	sess *editor.Session
	res  *Result
}

func (r *replayer) resolve(name string) (string, error) {
	if id, ok := r.res.Aliases[name]; ok {
		return id, nil
	}
	if strings.HasPrefix(name, canvas.IDPrefix) && r.sess.Tiles().Has(name) {
		return name, nil
	}
	return "", errors.New(errors.ErrCodeUnknownNode, "no tile %q", name)
}

func (r *replayer) apply(st Step) error {
	switch st.Op {
	case OpDrop:
		spec, err := st.spec()
		if err != nil {
			return err
		}
		t, err := r.sess.Drop(spec, st.X, st.Y)
		if err != nil {
			return err
		}
		if st.As != "" {
			r.res.Aliases[st.As] = t.ID
		}
		return nil

	case OpSelect:
		id, err := r.resolve(st.Node)
		if err != nil {
			return err
		}
		_, err = r.sess.DoubleClick(id)
		return err

	case OpPair:
		a, err := r.resolve(st.A)
		if err != nil {
			return err
		}
		b, err := r.resolve(st.B)
		if err != nil {
			return err
		}
		r.sess.Deselect()
		if _, err := r.sess.DoubleClick(a); err != nil {
			return err
		}
		_, err = r.sess.DoubleClick(b)
		return err

	case OpDrag:
		id, err := r.resolve(st.Node)
		if err != nil {
			return err
		}
		return r.drag(id, st.DX, st.DY, max(1, st.Steps))

	case OpClick:
		kind, _ := r.sess.Press(canvas.Point{X: st.X, Y: st.Y})
		if kind == editor.PressedTile {
			r.sess.EndDrag()
		}
		return nil

	case OpDisconnect:
		parent, err := r.resolve(st.Parent)
		if err != nil {
			return err
		}
		child, err := r.resolve(st.Child)
		if err != nil {
			return err
		}
		if !r.sess.Disconnect(parent, child) {
			return errors.New(errors.ErrCodeInvalidScript, "%s is not a child of %s", st.Child, st.Parent)
		}
		return nil

	case OpDelete:
		id, err := r.resolve(st.Node)
		if err != nil {
			return err
		}
		return r.sess.Delete(id)

	case OpEdit:
		id, err := r.resolve(st.Node)
		if err != nil {
			return err
		}
		_, err = r.sess.EditLabel(id, func(string) (string, bool) { return st.Label, true })
		return err

	case OpDeselect:
		r.sess.Deselect()
		return nil
	}
	return errors.New(errors.ErrCodeInvalidScript, "unknown op %q", st.Op)
}

// drag moves id by (dx, dy) in n equal increments, the way pointer events
// arrive while the mouse moves.
func (r *replayer) drag(id string, dx, dy float64, n int) error {
	if err := r.sess.BeginDrag(id); err != nil {
		return err
	}
	defer r.sess.EndDrag()
	for i := 0; i < n; i++ {
		if err := r.sess.DragBy(dx/float64(n), dy/float64(n)); err != nil {
			return err
		}
	}
	return nil
}

func stepError(i int, st Step, err error) error {
	op := string(st.Op)
	if op == "" {
		op = "?"
	}
	return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d (%s)", i+1, op)
}
