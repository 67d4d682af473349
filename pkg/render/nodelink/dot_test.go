package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/editor"
)

func testScene() editor.Scene {
	return editor.Scene{
		Width: 1200, Height: 700,
		Tiles: []editor.SceneTile{
			{ID: "tile-0", Kind: "phrase", Value: "NP", Label: "NP", Color: "#F1948A"},
			{ID: "tile-1", Kind: "word", Value: "noun", Code: "NOUN", Label: "dog", Color: "#E74C3C", Typed: true, Parent: "tile-0"},
			{ID: "tile-2", Kind: "word", Value: "verb", Code: "VERB", Label: "ctrl + click to type", Color: "#27AE60"},
		},
		Lines: []editor.Line{
			{Parent: "tile-0", Child: "tile-1", From: canvas.Point{X: 600, Y: 40}, To: canvas.Point{X: 600, Y: 170}},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testScene(), Options{})

	for _, want := range []string{
		"digraph G",
		"ordering=out",
		`"tile-0" [label="NP", fillcolor="#F1948A"]`,
		`"tile-1" [label="NOUN\ndog"`,
		`"tile-2" [label="VERB"`,
		`"tile-0" -> "tile-1"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testScene(), Options{Detailed: true})
	if !strings.Contains(dot, "tile-1 (word)") {
		t.Errorf("ToDOT() detailed output missing id and kind:\n%s", dot)
	}
}

func TestToDOT_ConnectedOnly(t *testing.T) {
	dot := ToDOT(testScene(), Options{ConnectedOnly: true})
	if strings.Contains(dot, `"tile-2"`) {
		t.Error("ToDOT() should skip free tiles with ConnectedOnly")
	}
	if !strings.Contains(dot, `"tile-0"`) || !strings.Contains(dot, `"tile-1"`) {
		t.Error("ToDOT() should keep connected tiles")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name string
		tile editor.SceneTile
		want string
	}{
		{"phrase", editor.SceneTile{Kind: "phrase", Label: "VP"}, "VP"},
		{"typed word", editor.SceneTile{Kind: "word", Code: "NOUN", Label: "cat", Typed: true}, "NOUN\ncat"},
		{"placeholder word", editor.SceneTile{Kind: "word", Code: "NOUN", Label: "ctrl + click to type"}, "NOUN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.tile, false); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}
