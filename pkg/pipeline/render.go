package pipeline

import (
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/nodelink"
	"github.com/matzehuels/syntree/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(sc editor.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.NodeLink {
		return renderNodeLink(sc, opts)
	}

	o := sink.Options{
		Scale:         opts.Scale,
		FullCanvas:    opts.FullCanvas,
		HideSelection: opts.HideSelection,
		Interactive:   opts.Interactive,
		NativeRaster:  opts.NativeRaster,
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(sc, format, o)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderNodeLink draws the forest with Graphviz instead of tiles.
func renderNodeLink(sc editor.Scene, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(sc, nodelink.Options{})
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case render.FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.Scale)
		case render.FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case render.FormatDOT:
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported node-link format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
