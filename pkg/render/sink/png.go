package sink

import (
	"errors"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/raster"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	native  bool
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithNativeRaster skips rsvg-convert and always uses the built-in rasterizer.
func WithNativeRaster() PNGOption {
	return func(r *pngRenderer) { r.native = true }
}

// RenderPNG renders the scene as PNG via SVG conversion. When rsvg-convert
// is not installed the scene is rasterized natively instead.
func RenderPNG(sc editor.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: raster.DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = raster.DefaultScale
	}

	if !r.native {
		data, err := render.ToPNG(RenderSVG(sc, r.svgOpts...), r.scale)
		if !errors.Is(err, render.ErrConverterMissing) {
			return data, err
		}
	}
	prepared := newSVGRenderer(r.svgOpts...).prepare(sc)
	return raster.RenderPNG(prepared, raster.WithScale(r.scale))
}
