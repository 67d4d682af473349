// Package tree stores the parent/child relationships between tiles.
//
// A [Forest] maps every parent to its ordered list of children and keeps
// the reverse child-to-parent map in step. Each child has at most one
// parent; connecting an attached child to a new parent detaches it first.
// Sibling order is horizontal: after every connect the parent's child list
// is stable-sorted by each child's current center x, so a tile dropped
// between two siblings lands between them.
//
// The forest rejects connections that would make a tile its own parent or
// its own ancestor ([ErrSelfConnection], [ErrCycle]); without that guard,
// span computation would never terminate.
//
// Membership is derived: a tile is "in the forest" if it appears as a
// parent or as a child of at least one stored pair. Tiles that were never
// connected (or whose last connection was removed) are free-floating and
// invisible to layout.
//
// [Spans] computes the horizontal slot count of every subtree for the
// layout engine.
package tree
