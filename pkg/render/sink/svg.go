package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/tile"
)

const fontFamily = "Arial, sans-serif"

const tileInteractionCSS = `
    .tile rect { transition: stroke-width 0.2s ease; }
    .tile.highlight rect { stroke-width: 4; }
    .tile.highlight text { font-weight: bold; }`

const tileInteractionJS = `
    function subtree(id) {
      const ids = [id];
      for (let i = 0; i < ids.length; i++) {
        document.querySelectorAll('.tile[data-parent="' + ids[i] + '"]').forEach(c => ids.push(c.id));
      }
      return ids;
    }
    function highlight(ids) {
      document.querySelectorAll('.tile').forEach(t => t.classList.toggle('highlight', ids.includes(t.id)));
    }
    document.querySelectorAll('.tile').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(subtree(el.id)));
      el.addEventListener('mouseleave', () => highlight([]));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fullCanvas    bool
	hideSelection bool
	interactive   bool
}

// WithFullCanvas renders the whole canvas instead of the tight bounds.
func WithFullCanvas() SVGOption { return func(r *svgRenderer) { r.fullCanvas = true } }

// WithoutSelection draws the selected tile like any other.
func WithoutSelection() SVGOption { return func(r *svgRenderer) { r.hideSelection = true } }

// WithInteraction embeds hover highlighting of subtrees.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(sc editor.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	sc = r.prepare(sc)
	b := sc.Bounds

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		b.Left, b.Top, b.Width, b.Height, b.Width, b.Height)
	if sc.Selected != "" {
		renderGlowDef(&buf)
	}
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#FFFFFF"/>`+"\n",
		b.Left, b.Top, b.Width, b.Height)

	buf.WriteString(`  <g class="lines">` + "\n")
	for _, l := range sc.Lines {
		fmt.Fprintf(&buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.0f" data-parent="%s" data-child="%s"/>`+"\n",
			l.From.X, l.From.Y, l.To.X, l.To.Y, tile.LineColor, tile.LineWidth, escapeXML(l.Parent), escapeXML(l.Child))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="tiles">` + "\n")
	for _, t := range sc.Tiles {
		renderTile(&buf, t, t.ID == sc.Selected)
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// prepare applies the options that change what is drawn, so the native
// rasterizer sees the same picture as the SVG.
func (r svgRenderer) prepare(sc editor.Scene) editor.Scene {
	if r.fullCanvas || sc.Bounds.Width <= 0 || sc.Bounds.Height <= 0 {
		sc.Bounds.Left, sc.Bounds.Top = 0, 0
		sc.Bounds.Width, sc.Bounds.Height = sc.Width, sc.Height
	}
	if r.hideSelection {
		sc.Selected = ""
	}
	return sc
}

func renderTile(buf *bytes.Buffer, t editor.SceneTile, selected bool) {
	stroke, sw, filter := tile.StrokeColor, tile.StrokeWidth, ""
	if selected {
		stroke, sw, filter = tile.SelectedColor, tile.SelectedStroke, ` filter="url(#glow)"`
	}
	rc := t.Rect
	fmt.Fprintf(buf, `    <g id="%s" class="tile %s"`, escapeXML(t.ID), escapeXML(t.Kind))
	if t.Parent != "" {
		fmt.Fprintf(buf, ` data-parent="%s"`, escapeXML(t.Parent))
	}
	buf.WriteString(">\n")
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" ry="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"%s/>`+"\n",
		rc.Left, rc.Top, rc.Width, rc.Height, tile.CornerRadius, tile.CornerRadius, t.Color, stroke, sw, filter)

	cx := rc.Left + rc.Width/2
	if t.Kind == string(tile.KindWord) {
		renderText(buf, cx, rc.Top+rc.Height/4, t.Code, tile.LabelFontSize, tile.WordCodeColor)
		mid := rc.Top + rc.Height/2
		fmt.Fprintf(buf, `      <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.0f"/>`+"\n",
			rc.Left+tile.DividerInset, mid, rc.Right()-tile.DividerInset, mid, tile.StrokeColor, tile.StrokeWidth)
		renderText(buf, cx, rc.Top+3*rc.Height/4, t.Label, tile.FontSize(t.Label), tile.DefaultTextColor)
	} else {
		renderText(buf, cx, rc.Top+rc.Height/2, t.Label, tile.FontSize(t.Label), tile.DefaultTextColor)
	}
	buf.WriteString("    </g>\n")
}

func renderText(buf *bytes.Buffer, x, y float64, text string, size float64, fill string) {
	if text == "" {
		return
	}
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x, y, fontFamily, size, fill, escapeXML(text))
}

func renderGlowDef(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs><filter id="glow" x="-20%%" y="-20%%" width="140%%" height="140%%"><feDropShadow dx="0" dy="0" stdDeviation="5" flood-color="%s"/></filter></defs>`+"\n",
		tile.SelectedColor)
}

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tileInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tileInteractionJS)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
