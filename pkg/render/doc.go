// Package render turns syntax-tree scenes into images.
//
// # Overview
//
// This package contains the generic pieces of the export pipeline:
//
//   - Output format names shared by the CLI, config and pipeline
//   - Format conversion (SVG to PDF/PNG) through rsvg-convert
//   - Scene rendering (in [sink] subpackage)
//   - Native rasterization without external tools (in [raster] subpackage)
//   - Node-link diagrams of the bare tree (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the functions return an error
// wrapping [ErrConverterMissing]; callers fall back to [raster].
//
// [sink]: github.com/matzehuels/syntree/pkg/render/sink
// [raster]: github.com/matzehuels/syntree/pkg/render/raster
// [nodelink]: github.com/matzehuels/syntree/pkg/render/nodelink
package render
