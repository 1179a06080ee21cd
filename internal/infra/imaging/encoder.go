package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/nfnt/resize"
	"github.com/spf13/afero"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

type EncoderConfig struct {
	Compression png.CompressionLevel
	// MaxDimension bounds the width and height of every written frame,
	// keeping aspect ratio. Zero keeps the original size.
	MaxDimension int
}

type Encoder struct {
	fs     afero.Fs
	png    png.Encoder
	maxDim int
}

func NewEncoder(fs afero.Fs, cfg EncoderConfig) *Encoder {
	return &Encoder{
		fs:     fs,
		png:    png.Encoder{CompressionLevel: cfg.Compression},
		maxDim: cfg.MaxDimension,
	}
}

// Encode writes img as a PNG at destPath. The whole file is encoded in memory
// before anything touches the destination.
func (e *Encoder) Encode(ctx context.Context, img image.Image, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img = fitWithin(img, e.maxDim)

	var buf bytes.Buffer
	if err := e.png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: %s: %w", entity.ErrEncode, destPath, err)
	}
	if err := afero.WriteFile(e.fs, destPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", entity.ErrFilesystem, destPath, err)
	}
	return nil
}

// fitWithin downsizes img so neither side exceeds maxDim. Images already
// inside the box, and maxDim <= 0, are returned untouched.
func fitWithin(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
}

// CompressionLevel maps a PNG_COMPRESSION setting onto image/png levels.
func CompressionLevel(name string) png.CompressionLevel {
	switch name {
	case "none":
		return png.NoCompression
	case "speed":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
