// Package tile defines the kinds of tiles that can be dropped on a syntax
// tree canvas and the static lookup tables that derive a tile's color,
// size and initial label from its palette pair.
//
// A palette pair is a [Spec]: a [Kind] (word, phrase or clause) and a value
// (a part-of-speech tag, a phrase label or a clause label). Everything else
// about a freshly dropped tile follows from the pair:
//
//	s := tile.Spec{Kind: tile.KindWord, Value: "noun"}
//	s.Color()    // "#E74C3C"
//	s.Size()     // 120, 80
//	s.Label()    // tile.Placeholder
//	s.Editable() // true
//
// Unknown values are accepted and rendered in [FallbackColor].
package tile
