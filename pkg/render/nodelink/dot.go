package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/tile"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the tile id and kind to node labels.
	// When false, only the tile's visible text is shown.
	Detailed bool

	// ConnectedOnly leaves out tiles that are not part of any tree.
	ConnectedOnly bool
}

// ToDOT converts a scene to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes keep their tile colors, and ordering=out preserves the left-to-right
// sibling order of the editor.
func ToDOT(sc editor.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Arial\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	linked := make(map[string]bool, 2*len(sc.Lines))
	for _, l := range sc.Lines {
		linked[l.Parent] = true
		linked[l.Child] = true
	}

	for _, t := range sc.Tiles {
		if opts.ConnectedOnly && !linked[t.ID] {
			continue
		}
		label := fmtLabel(t, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", t.ID, strings.Join(fmtAttrs(t, label), ", "))
	}

	buf.WriteString("\n")
	for _, l := range sc.Lines {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.Parent, l.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t editor.SceneTile, detailed bool) string {
	var parts []string
	if t.Code != "" {
		parts = append(parts, t.Code)
	}
	if t.Kind != string(tile.KindWord) || t.Typed {
		parts = append(parts, t.Label)
	}
	if detailed {
		parts = append(parts, fmt.Sprintf("%s (%s)", t.ID, t.Kind))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(t editor.SceneTile, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", t.Color)}
	if t.Kind == string(tile.KindWord) {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", tile.WordCodeColor))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
