package imaging

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/gif"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

// DecodeMode selects how a GIF frame becomes a full still image.
type DecodeMode string

const (
	// DecodeRaw draws each frame alone on a transparent canvas of the logical screen size.
	DecodeRaw DecodeMode = "raw"
	// DecodeCumulative composites frames in order and applies each frame's disposal method.
	DecodeCumulative DecodeMode = "cumulative"
)

// gifDelayUnit is the resolution of GIF frame delays (1/100 s).
const gifDelayUnit = 10 * time.Millisecond

type Decoder struct {
	fs   afero.Fs
	mode DecodeMode
}

func NewDecoder(fs afero.Fs, mode DecodeMode) *Decoder {
	return &Decoder{fs: fs, mode: mode}
}

func (d *Decoder) Decode(ctx context.Context, gifPath string) ([]entity.Frame, error) {
	f, err := d.fs.Open(gifPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", entity.ErrFilesystem, gifPath, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrDecode, gifPath, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: %s: no frames", entity.ErrDecode, gifPath)
	}

	screen := logicalScreen(g)
	frames := make([]entity.Frame, 0, len(g.Image))

	var canvas *image.RGBA
	if d.mode == DecodeCumulative {
		canvas = image.NewRGBA(screen)
	}

	for i, src := range g.Image {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var img *image.RGBA
		if d.mode == DecodeCumulative {
			img = composite(canvas, src, disposalAt(g, i))
		} else {
			img = image.NewRGBA(screen)
			draw.Draw(img, src.Bounds(), src, src.Bounds().Min, draw.Src)
		}

		frames = append(frames, entity.Frame{
			Ordinal: i + 1,
			Image:   img,
			Delay:   delayAt(g, i),
		})
	}
	return frames, nil
}

// composite draws src over canvas and returns a snapshot of the result. canvas
// is then prepared for the next frame according to disposal.
func composite(canvas *image.RGBA, src *image.Paletted, disposal byte) *image.RGBA {
	var previous *image.RGBA
	if disposal == gif.DisposalPrevious {
		previous = clone(canvas)
	}

	draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
	snapshot := clone(canvas)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		draw.Copy(canvas, canvas.Bounds().Min, previous, previous.Bounds(), draw.Src, nil)
	}
	return snapshot
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Copy(dst, src.Bounds().Min, src, src.Bounds(), draw.Src, nil)
	return dst
}

// logicalScreen is the GIF's declared canvas. Some encoders leave it zero, in
// which case the union of all frame bounds is used.
func logicalScreen(g *gif.GIF) image.Rectangle {
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if !screen.Empty() {
		return screen
	}
	for _, frame := range g.Image {
		screen = screen.Union(frame.Bounds())
	}
	return screen
}

func disposalAt(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

func delayAt(g *gif.GIF, i int) time.Duration {
	if i < len(g.Delay) {
		return time.Duration(g.Delay[i]) * gifDelayUnit
	}
	return 0
}
