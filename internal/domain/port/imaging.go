package port

import (
	"context"
	"image"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

// FrameDecoder returns every frame of a GIF, fully materialized, in display order.
type FrameDecoder interface {
	Decode(ctx context.Context, gifPath string) ([]entity.Frame, error)
}

type FrameEncoder interface {
	Encode(ctx context.Context, img image.Image, destPath string) error
}
