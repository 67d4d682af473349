package tile

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/syntree/pkg/errors"
)

// Kind is the family a tile belongs to.
type Kind string

const (
	KindWord   Kind = "word"
	KindPhrase Kind = "phrase"
	KindClause Kind = "clause"
)

// Placeholder is shown on editable tiles that have no text yet.
const Placeholder = "ctrl + click to type"

// Tile dimensions in canvas units.
const (
	Width            = 120.0
	WordHeight       = 80.0
	StandardHeight   = 40.0
	CornerRadius     = 10.0
	StrokeWidth      = 2.0
	SelectedStroke   = 5.0
	StrokeColor      = "#333333"
	SelectedColor    = "#0066FF"
	FallbackColor    = "#CCCCCC"
	ClauseColor      = "#FFFFFF"
	LabelFontSize    = 14.0
	PlaceholderFont  = 10.0
	WordCodeColor    = "#FFFFFF"
	DefaultTextColor = "#000000"
	DividerInset     = 8.0
)

// Connection line style.
const (
	LineColor = "#000000"
	LineWidth = 2.0
)

// wordColors maps part-of-speech tags to fill colors.
var wordColors = map[string]string{
	"noun":           "#E74C3C",
	"verb":           "#27AE60",
	"adjective":      "#F1C40F",
	"adverb":         "#3498DB",
	"preposition":    "#95A5A6",
	"conjunction":    "#34495E",
	"pronoun":        "#E67E22",
	"interjection":   "#E91E63",
	"relativizer":    "#9B59B6",
	"complementizer": "#2C3E50",
	"determiner":     "#F39C12",
	"modal":          "#8E44AD",
	"auxiliary":      "#16A085",
}

// phraseColors maps phrase labels to fill colors.
var phraseColors = map[string]string{
	"NP":   "#F1948A",
	"VP":   "#58D68D",
	"PP":   "#BDC3C7",
	"ADJP": "#F7DC6F",
	"ADVP": "#85C1E9",
}

// Palette ordering, used by pickers.
var (
	WordValues   = []string{"noun", "verb", "adjective", "adverb", "preposition", "conjunction", "pronoun", "interjection", "relativizer", "complementizer", "determiner", "modal", "auxiliary"}
	PhraseValues = []string{"NP", "VP", "PP", "ADJP", "ADVP"}
	ClauseValues = []string{"Clause"}
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindWord, KindPhrase, KindClause:
		return k, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidKind, "invalid tile kind: %q (must be 'word', 'phrase', or 'clause')", s)
	}
}

// Spec is the palette pair a tile is created from.
type Spec struct {
	Kind  Kind
	Value string
}

// Validate checks that the kind is known and the value non-empty.
func (s Spec) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(s.Value) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s tile needs a value", s.Kind)
	}
	return nil
}

// String returns "kind:value".
func (s Spec) String() string { return fmt.Sprintf("%s:%s", s.Kind, s.Value) }

// Color returns the fill color for the pair.
func (s Spec) Color() string {
	switch s.Kind {
	case KindWord:
		if c, ok := wordColors[strings.ToLower(s.Value)]; ok {
			return c
		}
	case KindPhrase:
		if c, ok := phraseColors[strings.ToUpper(s.Value)]; ok {
			return c
		}
	case KindClause:
		return ClauseColor
	}
	return FallbackColor
}

// Size returns the tile's fixed width and height.
func (s Spec) Size() (w, h float64) {
	if s.Kind == KindWord {
		return Width, WordHeight
	}
	return Width, StandardHeight
}

// Editable reports whether the tile carries free text.
// Only word tiles do; phrase and clause tiles show their value.
func (s Spec) Editable() bool { return s.Kind == KindWord }

// Code returns the tag shown in the top half of a word tile.
// It is empty for other kinds.
func (s Spec) Code() string {
	if s.Kind != KindWord {
		return ""
	}
	return strings.ToUpper(s.Value)
}

// Label returns the initial label text.
func (s Spec) Label() string {
	if s.Editable() {
		return Placeholder
	}
	return s.Value
}

// Entries returns every palette pair in display order.
func Entries() []Spec {
	out := make([]Spec, 0, len(WordValues)+len(PhraseValues)+len(ClauseValues))
	for _, v := range WordValues {
		out = append(out, Spec{Kind: KindWord, Value: v})
	}
	for _, v := range PhraseValues {
		out = append(out, Spec{Kind: KindPhrase, Value: v})
	}
	for _, v := range ClauseValues {
		out = append(out, Spec{Kind: KindClause, Value: v})
	}
	return out
}

// RGBA parses a "#RRGGBB" (or "#RGB") color. Malformed input yields
// FallbackColor.
func RGBA(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(FallbackColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// FontSize returns the point size used for a label: the placeholder is
// drawn smaller than typed text.
func FontSize(label string) float64 {
	if label == Placeholder {
		return PlaceholderFont
	}
	return LabelFontSize
}
