// Package layout computes tidy top-down positions for a forest of tiles.
//
// # Algorithm
//
// Every forest member is given a horizontal band whose width is its span
// (see [tree.Spans]) times [Config.UnitWidth]. Roots are ordered by their
// current horizontal center, so the user controls left-to-right order by
// dragging, and are laid side by side with [Config.RootGapUnits] empty
// slots between them. The whole row is centered in the viewport but never
// starts left of [Config.MinLeft].
//
// Inside a band, children consume consecutive sub-bands in sibling order.
// A node is centered on its band and placed at
// TopMargin + depth*LevelHeight, so a parent sits exactly above the
// midpoint of its children's combined bands.
//
//	eng := layout.New(layout.DefaultConfig())
//	res := eng.Compute(forest, registry)
//	for id, p := range res.Placements {
//	    registry.SetPosition(id, p.X, p.Y)
//	}
//
// Tiles that are not part of the forest get no placement and keep their
// position.
//
// # Animation
//
// [Animator] eases tiles from their current position to a new target.
// The newest input always wins: retargeting a moving tile restarts its
// track from wherever it currently is, and [Animator.Cancel] drops tracks
// for tiles the user has grabbed.
//
// [tree.Spans]: github.com/matzehuels/syntree/pkg/tree.Spans
package layout
