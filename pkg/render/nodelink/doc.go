// Package nodelink renders syntax trees as plain node-link diagrams.
//
// # Overview
//
// Where the editor draws tiles at their laid-out positions, this package
// hands the tree structure to Graphviz and lets it place the boxes. It is
// useful for dropping a tree into documents that already use DOT.
//
// # Usage
//
// Convert a scene to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels also carry the tile id and kind
//   - ConnectedOnly: free-floating tiles are left out
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
