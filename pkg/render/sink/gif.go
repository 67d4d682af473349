package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/tile"
)

// blendSteps is the number of intermediate shades kept between each fill
// and the colors it meets at anti-aliased edges.
const blendSteps = 3

// RenderGIF renders the scene as a single-frame GIF. The PNG produced by
// [RenderPNG] is decoded and mapped onto a palette built from the tile
// colors, so fills stay exact.
func RenderGIF(sc editor.Scene, opts ...PNGOption) ([]byte, error) {
	data, err := RenderPNG(sc, opts...)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	pal := gifPalette()
	out := image.NewPaletted(img.Bounds(), pal)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := gif.Encode(&buf, out, &gif.Options{NumColors: len(pal), Drawer: draw.Src}); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

// gifPalette holds every fill color, the stroke and line colors, and a few
// blends of each fill toward white and the stroke color.
func gifPalette() color.Palette {
	seen := make(map[color.RGBA]bool)
	var pal color.Palette
	add := func(c color.RGBA) {
		if !seen[c] && len(pal) < 256 {
			seen[c] = true
			pal = append(pal, c)
		}
	}

	white := tile.RGBA("#FFFFFF")
	black := tile.RGBA(tile.LineColor)
	stroke := tile.RGBA(tile.StrokeColor)
	add(white)
	add(black)
	add(stroke)
	add(tile.RGBA(tile.SelectedColor))
	add(tile.RGBA(tile.FallbackColor))

	fills := []color.RGBA{tile.RGBA(tile.FallbackColor)}
	for _, spec := range tile.Entries() {
		c := tile.RGBA(spec.Color())
		add(c)
		fills = append(fills, c)
	}
	for _, c := range fills {
		for i := 1; i <= blendSteps; i++ {
			t := float64(i) / float64(blendSteps+1)
			add(blend(c, white, t))
			add(blend(c, stroke, t))
			add(blend(c, black, t))
		}
	}
	for i := 1; i < 16; i++ {
		v := uint8(i * 255 / 16)
		add(color.RGBA{v, v, v, 0xff})
	}
	return pal
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-t) + float64(y)*t + 0.5) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}
