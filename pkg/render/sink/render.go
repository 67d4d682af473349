package sink

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/nodelink"
)

// Options collects the settings shared by every format.
type Options struct {
	Scale         float64 // raster scale, default 2
	FullCanvas    bool    // ignore the tight bounds
	HideSelection bool    // draw the selected tile unhighlighted
	Interactive   bool    // SVG only: hover highlighting
	NativeRaster  bool    // never shell out to rsvg-convert
}

// Artifact is one rendered export.
type Artifact struct {
	Format string
	Data   []byte
}

func (o Options) svgOptions() []SVGOption {
	var opts []SVGOption
	if o.FullCanvas {
		opts = append(opts, WithFullCanvas())
	}
	if o.HideSelection {
		opts = append(opts, WithoutSelection())
	}
	if o.Interactive {
		opts = append(opts, WithInteraction())
	}
	return opts
}

func (o Options) pngOptions() []PNGOption {
	opts := []PNGOption{WithPNGSVGOptions(o.svgOptions()...)}
	if o.Scale > 0 {
		opts = append(opts, WithScale(o.Scale))
	}
	if o.NativeRaster {
		opts = append(opts, WithNativeRaster())
	}
	return opts
}

// Render produces the scene in the named format.
func Render(sc editor.Scene, format string, o Options) ([]byte, error) {
	switch strings.ToLower(format) {
	case render.FormatSVG:
		return RenderSVG(sc, o.svgOptions()...), nil
	case render.FormatPNG:
		return RenderPNG(sc, o.pngOptions()...)
	case render.FormatGIF:
		return RenderGIF(sc, o.pngOptions()...)
	case render.FormatPDF:
		return RenderPDF(sc, WithPDFSVGOptions(o.svgOptions()...))
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(sc, nodelink.Options{})), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(render.Formats, ", "))
	}
}

// RenderWithFallback tries each format in order and returns the first
// that renders. The error lists every failure when none succeeds.
func RenderWithFallback(sc editor.Scene, formats []string, o Options) (Artifact, error) {
	if len(formats) == 0 {
		return Artifact{}, errors.New(errors.ErrCodeInvalidFormat, "no export formats given")
	}
	var errs []error
	for _, f := range formats {
		data, err := Render(sc, f, o)
		if err == nil {
			return Artifact{Format: strings.ToLower(f), Data: data}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", f, err))
	}
	return Artifact{}, errors.Wrap(errors.ErrCodeExportFailed, stderrors.Join(errs...), "export failed")
}
