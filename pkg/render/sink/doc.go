// Package sink turns editor scenes into export formats.
//
// # Overview
//
// A "sink" takes an [editor.Scene] snapshot and produces bytes:
//
//   - SVG: vector output drawn directly from the scene
//   - PNG: SVG converted by rsvg-convert, or the native rasterizer when
//     rsvg-convert is not installed
//   - GIF: single-frame GIF re-encoded from the PNG
//   - PDF: print-ready output (requires rsvg-convert)
//   - DOT: the tree structure as Graphviz source
//
// Every sink crops to the scene's tight bounds unless [WithFullCanvas] is
// given, and paints lines behind tiles.
//
//	svg := sink.RenderSVG(scene)
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// # Fallbacks
//
// Exports in the editor never fail hard. [RenderWithFallback] tries a list
// of formats in order and returns the first that succeeds, so the usual
// chain is GIF, then PNG:
//
//	art, err := sink.RenderWithFallback(scene, []string{"gif", "png"}, sink.Options{Scale: 2})
//
// [editor.Scene]: github.com/matzehuels/syntree/pkg/editor.Scene
package sink
