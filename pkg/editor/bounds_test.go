package editor

import (
	"testing"

	"github.com/matzehuels/syntree/pkg/canvas"
)

func TestTightBoundsEmpty(t *testing.T) {
	s := newTestSession(t)
	w, h := s.Size()
	if got := s.TightBounds(); got != (canvas.Rect{Width: w, Height: h}) {
		t.Errorf("TightBounds() = %+v", got)
	}
}

func TestTightBoundsPadding(t *testing.T) {
	s := newTestSession(t)
	// 120x40 tile spanning (440,380)-(560,420).
	drop(t, s, np, 500, 400)
	got := s.TightBounds()
	// Extent 120x40 pads by max(20, 8%) = 20 on both axes.
	want := canvas.Rect{Left: 420, Top: 360, Width: 160, Height: 80}
	if got != want {
		t.Errorf("TightBounds() = %+v, want %+v", got, want)
	}
}

func TestTightBoundsLargeExtent(t *testing.T) {
	s := newTestSession(t)
	drop(t, s, np, 160, 320)  // (100,300)-(220,340)
	drop(t, s, np, 1060, 320) // (1000,300)-(1120,340)
	got := s.TightBounds()
	// width 1020 -> pad 81.6, left floor(100-81.6)=18, width ceil(1020+163.2)=1184 clamped to 1200-18.
	if got.Left != 18 || got.Width != 1182 {
		t.Errorf("TightBounds() = %+v", got)
	}
}

func TestTightBoundsClamped(t *testing.T) {
	s := newTestSession(t)
	drop(t, s, np, 30, 10)
	got := s.TightBounds()
	if got.Left != 0 || got.Top != 0 {
		t.Errorf("TightBounds() = %+v, want clamped to origin", got)
	}
}

func TestSceneSnapshot(t *testing.T) {
	s := newTestSession(t)
	p := drop(t, s, np, 500, 0)
	w := drop(t, s, noun, 500, 200)
	s.Connect(p, w)
	s.DoubleClick(p)

	sc := s.Scene()
	if len(sc.Tiles) != 2 || len(sc.Lines) != 1 || sc.Selected != p {
		t.Fatalf("Scene() = %+v", sc)
	}
	wt, ok := sc.Tile(w)
	if !ok || wt.Code != "NOUN" || wt.Parent != p || wt.Typed {
		t.Errorf("word tile = %+v", wt)
	}
	if sc.Bounds != s.TightBounds() {
		t.Error("scene bounds differ from TightBounds()")
	}
	a, _ := sc.MarshalBinary()
	b, _ := s.Scene().MarshalBinary()
	if string(a) != string(b) {
		t.Error("scene encoding should be deterministic")
	}
}
