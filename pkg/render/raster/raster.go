// Package raster draws editor scenes straight to pixels.
//
// It is the fallback used when rsvg-convert is not installed: tiles, lines
// and labels are painted with golang.org/x/image on a supersampled canvas
// that is then downscaled with Catmull-Rom filtering for smooth edges.
//
//	png, err := raster.RenderPNG(scene, raster.WithScale(2))
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/tile"
)

const (
	// DefaultScale matches the export multiplier of the editor.
	DefaultScale = 2.0
	// DefaultSupersample is the oversampling factor before downscaling.
	DefaultSupersample = 2
)

// Option configures rasterization.
type Option func(*renderer)

// WithScale sets the output scale (2.0 for 2x resolution).
func WithScale(s float64) Option {
	return func(r *renderer) { r.scale = s }
}

// WithSupersample sets the oversampling factor; 1 disables it.
func WithSupersample(n int) Option {
	return func(r *renderer) { r.supersample = n }
}

type renderer struct {
	scale       float64
	supersample int

	img    *image.RGBA
	origin canvas.Point
	factor float64
	font   *opentype.Font
	faces  map[float64]font.Face
}

// RenderPNG rasterizes the scene, cropped to its bounds, and encodes it.
func RenderPNG(sc editor.Scene, opts ...Option) ([]byte, error) {
	img, err := Render(sc, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render rasterizes the scene into an RGBA image. The image covers
// sc.Bounds, or the whole canvas when the bounds are empty.
func Render(sc editor.Scene, opts ...Option) (*image.RGBA, error) {
	r := renderer{scale: DefaultScale, supersample: DefaultSupersample}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	r.supersample = max(1, r.supersample)

	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	r.font = ft
	r.faces = make(map[float64]font.Face)
	defer r.closeFaces()

	b := sc.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		b = canvas.Rect{Width: sc.Width, Height: sc.Height}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("scene has no drawable area")
	}

	w := int(math.Ceil(b.Width * r.scale))
	h := int(math.Ceil(b.Height * r.scale))
	ss := r.supersample

	r.origin = canvas.Point{X: b.Left, Y: b.Top}
	r.factor = r.scale * float64(ss)
	r.img = image.NewRGBA(image.Rect(0, 0, w*ss, h*ss))
	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)

	// Lines sit behind tiles, as on the canvas.
	for _, l := range sc.Lines {
		r.line(r.point(l.From), r.point(l.To), tile.LineWidth*r.factor, tile.RGBA(tile.LineColor))
	}
	for _, t := range sc.Tiles {
		if err := r.tile(t, t.ID == sc.Selected); err != nil {
			return nil, err
		}
	}

	if ss == 1 {
		return r.img, nil
	}
	final := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(final, final.Bounds(), r.img, r.img.Bounds(), draw.Src, nil)
	return final, nil
}

// =============================================================================
// Shapes
// =============================================================================

func (r *renderer) point(p canvas.Point) canvas.Point {
	return canvas.Point{X: (p.X - r.origin.X) * r.factor, Y: (p.Y - r.origin.Y) * r.factor}
}

func (r *renderer) rect(rc canvas.Rect) canvas.Rect {
	tl := r.point(canvas.Point{X: rc.Left, Y: rc.Top})
	return canvas.Rect{Left: tl.X, Top: tl.Y, Width: rc.Width * r.factor, Height: rc.Height * r.factor}
}

func (r *renderer) tile(t editor.SceneTile, selected bool) error {
	stroke, sw := tile.RGBA(tile.StrokeColor), tile.StrokeWidth
	if selected {
		stroke, sw = tile.RGBA(tile.SelectedColor), tile.SelectedStroke
	}
	r.roundedRect(r.rect(t.Rect), tile.CornerRadius*r.factor, sw*r.factor, tile.RGBA(t.Color), stroke)

	cx := t.Rect.Left + t.Rect.Width/2
	black := tile.RGBA(tile.DefaultTextColor)
	if t.Kind != string(tile.KindWord) {
		return r.text(canvas.Point{X: cx, Y: t.Rect.Top + t.Rect.Height/2}, t.Label, tile.FontSize(t.Label), black)
	}

	if err := r.text(canvas.Point{X: cx, Y: t.Rect.Top + t.Rect.Height/4}, t.Code, tile.LabelFontSize, tile.RGBA(tile.WordCodeColor)); err != nil {
		return err
	}
	mid := t.Rect.Top + t.Rect.Height/2
	r.line(
		r.point(canvas.Point{X: t.Rect.Left + tile.DividerInset, Y: mid}),
		r.point(canvas.Point{X: t.Rect.Right() - tile.DividerInset, Y: mid}),
		tile.StrokeWidth*r.factor, tile.RGBA(tile.StrokeColor),
	)
	return r.text(canvas.Point{X: cx, Y: t.Rect.Top + 3*t.Rect.Height/4}, t.Label, tile.FontSize(t.Label), black)
}

// roundedRect fills rc and strokes its outline centered on the edge.
func (r *renderer) roundedRect(rc canvas.Rect, radius, strokeWidth float64, fill, stroke color.Color) {
	half := strokeWidth / 2
	outer := inset(rc, -half)
	inner := inset(rc, half)
	x0, y0, x1, y1 := r.clip(outer)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			switch {
			case insideRounded(px, py, inner, radius-half):
				r.img.Set(x, y, fill)
			case insideRounded(px, py, outer, radius+half):
				r.img.Set(x, y, stroke)
			}
		}
	}
}

// line draws a segment of the given pixel width.
func (r *renderer) line(a, b canvas.Point, width float64, c color.Color) {
	half := width / 2
	box := canvas.Rect{
		Left: min(a.X, b.X) - half, Top: min(a.Y, b.Y) - half,
		Width: math.Abs(a.X-b.X) + width, Height: math.Abs(a.Y-b.Y) + width,
	}
	x0, y0, x1, y1 := r.clip(box)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := canvas.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if canvas.SegmentDistance(p, a, b) <= half {
				r.img.Set(x, y, c)
			}
		}
	}
}

func (r *renderer) clip(rc canvas.Rect) (x0, y0, x1, y1 int) {
	bounds := r.img.Bounds()
	x0 = max(bounds.Min.X, int(math.Floor(rc.Left)))
	y0 = max(bounds.Min.Y, int(math.Floor(rc.Top)))
	x1 = min(bounds.Max.X, int(math.Ceil(rc.Right())))
	y1 = min(bounds.Max.Y, int(math.Ceil(rc.Bottom())))
	return x0, y0, x1, y1
}

func inset(rc canvas.Rect, d float64) canvas.Rect {
	return canvas.Rect{Left: rc.Left + d, Top: rc.Top + d, Width: rc.Width - 2*d, Height: rc.Height - 2*d}
}

func insideRounded(x, y float64, rc canvas.Rect, radius float64) bool {
	if rc.Width <= 0 || rc.Height <= 0 {
		return false
	}
	if x < rc.Left || x >= rc.Right() || y < rc.Top || y >= rc.Bottom() {
		return false
	}
	radius = max(0, min(radius, rc.Width/2, rc.Height/2))
	cx := clamp(x, rc.Left+radius, rc.Right()-radius)
	cy := clamp(y, rc.Top+radius, rc.Bottom()-radius)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// =============================================================================
// Text
// =============================================================================

// text draws s centered on the canvas point at.
func (r *renderer) text(at canvas.Point, s string, size float64, c color.Color) error {
	if s == "" {
		return nil
	}
	face, err := r.face(size * r.factor)
	if err != nil {
		return err
	}
	p := r.point(at)
	width := font.MeasureString(face, s)
	m := face.Metrics()
	baseline := fixed.Int26_6(p.Y*64) + (m.Ascent-m.Descent)/2

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(p.X*64) - width/2, Y: baseline},
	}
	d.DrawString(s)
	return nil
}

func (r *renderer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	r.faces[size] = f
	return f, nil
}

func (r *renderer) closeFaces() {
	for _, f := range r.faces {
		f.Close()
	}
}
