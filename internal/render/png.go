package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"hydromap/internal/core"
)

// Image converts a palette raster into an RGBA image.
func Image(g *core.ByteGrid, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	FillPaletteRGBA(img.Pix, g.Cells(), palette)
	return img
}

// EncodePNG writes the raster as a PNG.
func EncodePNG(w io.Writer, g *core.ByteGrid, palette []color.RGBA) error {
	return png.Encode(w, Image(g, palette))
}

// WritePNG writes the raster to path.
func WritePNG(path string, g *core.ByteGrid, palette []color.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, g, palette); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
