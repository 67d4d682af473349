// Package editor implements an interactive syntax-tree editing session.
//
// A [Session] owns everything one canvas needs: the tile registry, the
// connection forest, the layout engine, the connection lines and the
// selection slot. There is no package-level state, so any number of
// sessions can run side by side.
//
// # Gestures
//
// The session is driven by gestures rather than by raw tree edits:
//
//   - [Session.Drop] places a tile from the palette. Dropping never
//     triggers a layout; a tile joins the tree only when it is paired.
//   - [Session.DoubleClick] runs the pairing state machine: the first
//     double-click selects a tile, the same tile again deselects it, and
//     a different tile connects the two with the higher tile as parent.
//   - [Session.BeginDrag], [Session.DragBy] and [Session.EndDrag] move a
//     tile; all of its descendants follow.
//   - [Session.Press] models a mouse-down: on a tile it starts a drag, on
//     a connection line it removes that connection, and on empty canvas
//     it clears the selection.
//   - [Session.Delete] removes a tile; its children become roots.
//   - [Session.EditLabel] changes the word on a word tile through a
//     caller-supplied prompt.
//
// Every structural change (connect, disconnect, delete) is followed by a
// full layout pass and a line refresh. With a non-zero animation duration
// the layout is eased in over successive [Session.Tick] calls.
//
// # Export
//
// [Session.Scene] returns an immutable snapshot for renderers, including
// the padded bounds from [Session.TightBounds].
package editor
