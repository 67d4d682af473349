package script

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/tile"
)

const sentence = `
name = "the dog barks"

[[step]]
op = "drop"
kind = "clause"
value = "Clause"
x = 600
y = 60
as = "s"

[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 400
y = 200
as = "np"

[[step]]
op = "drop"
kind = "phrase"
value = "VP"
x = 800
y = 200
as = "vp"

[[step]]
op = "drop"
kind = "word"
value = "noun"
x = 400
y = 400
as = "dog"

[[step]]
op = "edit"
node = "dog"
label = "dog"

[[step]]
op = "pair"
a = "s"
b = "np"

[[step]]
op = "pair"
a = "vp"
b = "s"

[[step]]
op = "pair"
a = "np"
b = "dog"
`

func newSession() *editor.Session {
	return editor.New(editor.Options{Logger: log.New(io.Discard)})
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sentence))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Name != "the dog barks" {
		t.Errorf("Name = %q", s.Name)
	}
	if len(s.Steps) != 8 {
		t.Fatalf("len(Steps) = %d, want 8", len(s.Steps))
	}
	if st := s.Steps[0]; st.Op != OpDrop || st.Kind != "clause" || st.As != "s" || st.X != 600 {
		t.Errorf("Steps[0] = %+v", st)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"syntax", `[[step]`, "parse script"},
		{"unknown key", "[[step]]\nop = \"drop\"\ncolour = \"red\"", "unknown script key"},
		{"missing op", "[[step]]\nnode = \"a\"", `step 1 (?)`},
		{"unknown op", "[[step]]\nop = \"zoom\"", `unknown op "zoom"`},
		{"bad kind", "[[step]]\nop = \"drop\"\nkind = \"sentence\"\nvalue = \"S\"", "step 1 (drop)"},
		{"empty value", "[[step]]\nop = \"drop\"\nkind = \"phrase\"", "step 1 (drop)"},
		{"reserved alias", "[[step]]\nop = \"drop\"\nkind = \"phrase\"\nvalue = \"NP\"\nas = \"tile-3\"", "reserved"},
		{"duplicate alias", "[[step]]\nop = \"drop\"\nkind = \"phrase\"\nvalue = \"NP\"\nas = \"a\"\n[[step]]\nop = \"drop\"\nkind = \"phrase\"\nvalue = \"VP\"\nas = \"a\"", "step 2 (drop)"},
		{"pair missing b", "[[step]]\nop = \"pair\"\na = \"x\"", `missing "b"`},
		{"negative steps", "[[step]]\nop = \"drag\"\nnode = \"x\"\nsteps = -1", "steps cannot be negative"},
		{"label too long", "[[step]]\nop = \"edit\"\nnode = \"x\"\nlabel = \"" + strings.Repeat("a", 65) + "\"", "label too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script))
			if !errors.Is(err, errors.ErrCodeInvalidScript) {
				t.Fatalf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidScript)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	if err := os.WriteFile(path, []byte(sentence), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error = %v", err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestReplay(t *testing.T) {
	s, err := Parse([]byte(sentence))
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession()
	res, err := s.Replay(context.Background(), sess)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if res.Steps != 8 {
		t.Errorf("Steps = %d, want 8", res.Steps)
	}

	f := sess.Forest()
	sID, npID, vpID, dogID := res.Aliases["s"], res.Aliases["np"], res.Aliases["vp"], res.Aliases["dog"]
	if p, _ := f.Parent(npID); p != sID {
		t.Errorf("Parent(np) = %q, want s", p)
	}
	// Clause sits higher than VP, so it is the parent whichever order the
	// two are double-clicked in.
	if p, _ := f.Parent(vpID); p != sID {
		t.Errorf("Parent(vp) = %q, want s", p)
	}
	if p, _ := f.Parent(dogID); p != npID {
		t.Errorf("Parent(dog) = %q, want np", p)
	}
	if got := f.Children(sID); len(got) != 2 || got[0] != npID || got[1] != vpID {
		t.Errorf("Children(s) = %v, want [np vp]", got)
	}

	dog, _ := sess.Tiles().Get(dogID)
	if dog.Label != "dog" {
		t.Errorf("dog label = %q", dog.Label)
	}
	if _, ok := sess.Selected(); ok {
		t.Error("selection should be clear after pairing")
	}
	if len(sess.Lines()) != 3 {
		t.Errorf("len(Lines()) = %d, want 3", len(sess.Lines()))
	}
}

func TestReplayRawIDsAndEdits(t *testing.T) {
	s, err := Parse([]byte(`
[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 300
y = 100

[[step]]
op = "drop"
kind = "word"
value = "noun"
x = 300
y = 300

[[step]]
op = "pair"
a = "tile-0"
b = "tile-1"

[[step]]
op = "drag"
node = "tile-0"
dx = 50
dy = 10
steps = 5

[[step]]
op = "disconnect"
parent = "tile-0"
child = "tile-1"

[[step]]
op = "delete"
node = "tile-0"

[[step]]
op = "select"
node = "tile-1"

[[step]]
op = "deselect"
`))
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession()
	if _, err := s.Replay(context.Background(), sess); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if sess.Tiles().Has("tile-0") {
		t.Error("tile-0 should be deleted")
	}
	if sess.Forest().InForest("tile-1") {
		t.Error("tile-1 should be free after disconnect")
	}
	if _, ok := sess.Selected(); ok {
		t.Error("deselect should clear the selection")
	}
}

func TestReplayDragMovesSubtree(t *testing.T) {
	s, err := Parse([]byte(`
[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 300
y = 100
as = "np"

[[step]]
op = "drop"
kind = "word"
value = "noun"
x = 300
y = 300
as = "n"

[[step]]
op = "pair"
a = "np"
b = "n"

[[step]]
op = "drag"
node = "np"
dx = 40
dy = 20
steps = 4
`))
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession()
	res, err := s.Replay(context.Background(), sess)
	if err != nil {
		t.Fatal(err)
	}
	np, _ := sess.Tiles().Get(res.Aliases["np"])
	n, _ := sess.Tiles().Get(res.Aliases["n"])
	// After layout np sits at (540, 20) and n at (540, 130).
	if np.X != 580 || np.Y != 40 {
		t.Errorf("np at (%v, %v), want (580, 40)", np.X, np.Y)
	}
	if n.X != 580 || n.Y != 150 {
		t.Errorf("n at (%v, %v), want (580, 150)", n.X, n.Y)
	}
	if _, ok := sess.Dragging(); ok {
		t.Error("drag should be released")
	}
}

func TestReplayClickLine(t *testing.T) {
	s, err := Parse([]byte(`
[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 300
y = 100
as = "np"

[[step]]
op = "drop"
kind = "word"
value = "noun"
x = 300
y = 300
as = "n"

[[step]]
op = "pair"
a = "np"
b = "n"

[[step]]
op = "click"
x = 600
y = 95
`))
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession()
	if _, err := s.Replay(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	// (600, 95) is on the line between the NP bottom (60) and the noun top (130).
	if len(sess.Lines()) != 0 {
		t.Errorf("clicking the line should disconnect it, lines = %+v", sess.Lines())
	}
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "unknown alias",
			script: "[[step]]\nop = \"select\"\nnode = \"ghost\"",
			want:   "step 1 (select)",
		},
		{
			name: "not a child",
			script: `
[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 100
y = 100
as = "a"
[[step]]
op = "drop"
kind = "phrase"
value = "VP"
x = 100
y = 300
as = "b"
[[step]]
op = "pair"
a = "a"
b = "b"
[[step]]
op = "disconnect"
parent = "b"
child = "a"
`,
			want: "step 4 (disconnect)",
		},
		{
			name: "edit phrase",
			script: `
[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 100
y = 100
as = "a"
[[step]]
op = "edit"
node = "a"
label = "x"
`,
			want: "step 2 (edit)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.script))
			if err != nil {
				t.Fatal(err)
			}
			_, err = s.Replay(context.Background(), newSession())
			if !errors.Is(err, errors.ErrCodeInvalidScript) {
				t.Fatalf("Replay() error = %v, want %s", err, errors.ErrCodeInvalidScript)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Replay() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestReplayCancelled(t *testing.T) {
	s, err := Parse([]byte(sentence))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Replay(ctx, newSession())
	if err != context.Canceled {
		t.Errorf("Replay() error = %v, want context.Canceled", err)
	}
	if res.Steps != 0 {
		t.Errorf("Steps = %d, want 0", res.Steps)
	}
}

func TestOpsAreValid(t *testing.T) {
	for _, op := range Ops {
		st := Step{Op: op, Kind: string(tile.KindPhrase), Value: "NP", Node: "n", A: "a", B: "b", Parent: "p", Child: "c"}
		if err := st.validate(map[string]bool{}); err != nil {
			t.Errorf("validate(%s) error = %v", op, err)
		}
	}
}
