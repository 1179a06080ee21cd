package port

import (
	"context"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

type DirectoryEnsurer interface {
	Ensure(ctx context.Context, dir string) error
}

type GifDiscoverer interface {
	Discover(ctx context.Context, root string) ([]entity.GifFile, error)
}
