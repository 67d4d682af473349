// Package pkg provides the core libraries for syntree syntax-tree diagrams.
//
// # Overview
//
// Syntree builds syntax-tree diagrams out of colored tiles: part-of-speech
// word tiles, phrase tiles and clause tiles. Tiles are paired into
// parent/child trees and laid out so that every subtree sits centered over
// the words it covers. The pkg directory is organized into four areas:
//
//  1. Model - tiles, the canvas registry and the connection forest
//  2. Geometry - span calculation and the layout engine
//  3. Editing - gesture-driven sessions and gesture scripts
//  4. Output - scene rendering, caching and the replay pipeline
//
// # Architecture
//
// The typical data flow through syntree:
//
//	Gestures (terminal editor or TOML script)
//	         ↓
//	    [editor] package (registry + forest + selection)
//	         ↓
//	    [layout] package (spans → bands → tile positions)
//	         ↓
//	    [editor.Scene] snapshot
//	         ↓
//	    [render/sink] package (SVG, PNG, GIF, PDF, DOT)
//
// # Quick Start
//
// Build a noun phrase and export it:
//
//	import (
//	    "github.com/matzehuels/syntree/pkg/editor"
//	    "github.com/matzehuels/syntree/pkg/render/sink"
//	    "github.com/matzehuels/syntree/pkg/tile"
//	)
//
//	s := editor.New(editor.Options{})
//	np, _ := s.Drop(tile.Spec{Kind: tile.KindPhrase, Value: "NP"}, 300, 100)
//	n, _ := s.Drop(tile.Spec{Kind: tile.KindWord, Value: "noun"}, 300, 300)
//	s.DoubleClick(n.ID)
//	s.DoubleClick(np.ID) // NP is higher, so it becomes the parent
//	svg := sink.RenderSVG(s.Scene())
//
// # Main Packages
//
// ## Model
//
// [tile] - The palette: tile kinds, values, colors and fixed sizes.
//
// [canvas] - Tile registry in creation order with hit testing and geometry.
//
// [tree] - Connection forest (parent/children maps, cycle rejection,
// sibling order by center x) and span calculation.
//
// ## Geometry
//
// [layout] - Layout engine assigning each subtree a horizontal band of span
// units, plus the animator that eases tiles to their targets.
//
// ## Editing
//
// [editor] - Sessions: drop, pair by double-click, drag with subtree,
// delete, label edit, line clicks and scene snapshots.
//
// [script] - TOML gesture scripts replayed against a session.
//
// ## Output
//
// [render/sink] - Scene export to SVG, PNG, GIF, PDF and DOT.
//
// [render/raster] - In-process rasterizer used when rsvg-convert is missing.
//
// [render/nodelink] - Node-link diagrams of the forest through Graphviz.
//
// [render] - Top-level utilities for format conversion (SVG to PDF/PNG).
//
// [pipeline] - Script replay and rendering with scene and artifact caching.
// Used by the render command.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// ## Infrastructure
//
// [config] - TOML settings for canvas, layout, animation, export and cache.
//
// [errors] - Code-typed errors shared by every package.
//
// [observability] - Hooks for replay, render, cache and editor events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//
// [tile]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/tile
// [canvas]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/canvas
// [tree]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/layout
// [editor]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/editor
// [editor.Scene]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/editor#Scene
// [script]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/script
// [render]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render/sink
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render/raster
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/syntree/pkg/observability
package pkg
