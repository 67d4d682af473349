// Package canvas holds the tiles placed on a diagram canvas.
//
// A [Registry] owns every tile of one editor session and hands out
// identifiers of the form "tile-N" from a per-registry counter. Identifiers
// are never reused, even after the tile they named has been removed, so
// stale references fail loudly instead of silently pointing at a new tile.
//
// Positions are stored as the top-left corner of the tile's rectangle; the
// geometric helpers on [Tile] and [Rect] derive centers and bounds from it.
// Whether a tile has children is a property of the tree, not of the tile,
// and is therefore not recorded here.
package canvas
