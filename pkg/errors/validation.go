package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLength is the longest tile label accepted by ValidateLabel.
const MaxLabelLength = 64

// ValidateLabel validates text typed into a tile.
//
// The rules are intentionally conservative:
//   - No control characters (labels are single-line)
//   - Maximum length of MaxLabelLength runes
//
// An empty label is valid; the editor substitutes the placeholder.
func ValidateLabel(label string) error {
	if n := utf8.RuneCountInString(label); n > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (%d > %d characters)", n, MaxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateAlias validates a script alias used to name tiles.
// Aliases are identifiers: letters, digits, '_' and '-', not starting with a
// digit, and never of the reserved form "tile-N".
func ValidateAlias(alias string) error {
	if alias == "" {
		return New(ErrCodeInvalidScript, "alias cannot be empty")
	}
	if strings.HasPrefix(alias, "tile-") {
		return New(ErrCodeInvalidScript, "alias %q uses the reserved tile- prefix", alias)
	}
	for i, r := range alias {
		switch {
		case unicode.IsLetter(r), r == '_', r == '-':
		case unicode.IsDigit(r) && i > 0:
		default:
			return New(ErrCodeInvalidScript, "alias %q contains invalid character %q", alias, r)
		}
	}
	return nil
}
