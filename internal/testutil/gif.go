// Package testutil builds synthetic GIF fixtures for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var (
	Transparent = color.RGBA{}
	Red         = color.RGBA{R: 255, A: 255}
	Green       = color.RGBA{G: 255, A: 255}
	Blue        = color.RGBA{B: 255, A: 255}

	// Palette index 0 is transparent so encoded frames carry a transparency index.
	Palette = color.Palette{Transparent, Red, Green, Blue}
)

// Frame describes one frame of a synthetic GIF: Rect filled with Fill.
type Frame struct {
	Rect     image.Rectangle
	Fill     color.RGBA
	Delay    int
	Disposal byte
}

// EncodeGIF encodes frames as an animated GIF with a width x height logical screen.
func EncodeGIF(t *testing.T, width, height int, frames ...Frame) []byte {
	t.Helper()
	g := &gif.GIF{
		Config: image.Config{Width: width, Height: height, ColorModel: Palette},
	}
	for _, f := range frames {
		img := image.NewPaletted(f.Rect, Palette)
		idx := uint8(Palette.Index(f.Fill))
		for y := f.Rect.Min.Y; y < f.Rect.Max.Y; y++ {
			for x := f.Rect.Min.X; x < f.Rect.Max.X; x++ {
				img.SetColorIndex(x, y, idx)
			}
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, f.Delay)
		g.Disposal = append(g.Disposal, f.Disposal)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

// WriteGIF stores an n-frame 4x4 animation at path, creating parent
// directories. Frames cycle through red, green and blue with a 100ms delay.
func WriteGIF(t *testing.T, fs afero.Fs, path string, n int) {
	t.Helper()
	colors := []color.RGBA{Red, Green, Blue}
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{Rect: image.Rect(0, 0, 4, 4), Fill: colors[i%len(colors)], Delay: 10}
	}
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, EncodeGIF(t, 4, 4, frames...), 0o644))
}

func RGBAAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
