package editor

import (
	"encoding/json"

	"github.com/matzehuels/syntree/pkg/canvas"
)

// SceneTile is a tile as it appears in a snapshot.
type SceneTile struct {
	ID     string      `json:"id"`
	Kind   string      `json:"kind"`
	Value  string      `json:"value"`
	Code   string      `json:"code,omitempty"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Rect   canvas.Rect `json:"rect"`
	Typed  bool        `json:"typed,omitempty"`
	Parent string      `json:"parent,omitempty"`
}

// Scene is an immutable snapshot of a session for renderers.
type Scene struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Tiles    []SceneTile `json:"tiles"`
	Lines    []Line      `json:"lines"`
	Bounds   canvas.Rect `json:"bounds"`
	Selected string      `json:"selected,omitempty"`
}

// Scene snapshots the session. Tiles are listed in creation (draw) order.
func (s *Session) Scene() Scene {
	all := s.tiles.All()
	sc := Scene{
		Width:  s.width,
		Height: s.height,
		Tiles:  make([]SceneTile, 0, len(all)),
		Lines:  s.Lines(),
		Bounds: s.TightBounds(),
	}
	sc.Selected, _ = s.Selected()
	for _, t := range all {
		parent, _ := s.forest.Parent(t.ID)
		sc.Tiles = append(sc.Tiles, SceneTile{
			ID:     t.ID,
			Kind:   string(t.Spec.Kind),
			Value:  t.Spec.Value,
			Code:   t.Spec.Code(),
			Label:  t.Label,
			Color:  t.Color,
			Rect:   t.Bounds(),
			Typed:  t.HasText(),
			Parent: parent,
		})
	}
	return sc
}

// Empty reports whether the scene has nothing to draw.
func (sc Scene) Empty() bool { return len(sc.Tiles) == 0 }

// Tile returns the scene tile with the given id.
func (sc Scene) Tile(id string) (SceneTile, bool) {
	for _, t := range sc.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return SceneTile{}, false
}

// MarshalBinary returns the canonical JSON form used for cache keys.
func (sc Scene) MarshalBinary() ([]byte, error) {
	return json.Marshal(sc)
}
