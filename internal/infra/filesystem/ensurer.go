package filesystem

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

const dirPerm os.FileMode = 0o755

type Ensurer struct {
	fs afero.Fs
}

func NewEnsurer(fs afero.Fs) *Ensurer {
	return &Ensurer{fs: fs}
}

// Ensure creates dir and any missing parents. An existing directory is not an error;
// an existing non-directory at dir or at any ancestor is.
func (e *Ensurer) Ensure(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", entity.ErrFilesystem, dir, err)
	}
	// MemMapFs happily "creates" a directory over a file, so check the result.
	info, err := e.fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: stat directory %s: %w", entity.ErrFilesystem, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s exists and is not a directory", entity.ErrFilesystem, dir)
	}
	return nil
}
