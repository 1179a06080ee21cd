package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
)

const gifExt = ".gif"

type Discoverer struct {
	fs       afero.Fs
	maxDepth int
}

// NewDiscoverer returns a Discoverer that descends at most maxDepth directory
// levels below the root. A negative maxDepth means no limit; 0 lists the root only.
func NewDiscoverer(fs afero.Fs, maxDepth int) *Discoverer {
	return &Discoverer{fs: fs, maxDepth: maxDepth}
}

// Discover walks root and returns every file whose extension is .gif in any
// letter case, in lexical walk order.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]entity.GifFile, error) {
	info, err := d.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory %s: %w", entity.ErrFilesystem, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: input path %s is not a directory", entity.ErrFilesystem, root)
	}

	files := []entity.GifFile{}
	err = afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && d.maxDepth >= 0 && depth(root, path) > d.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), "._") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(info.Name()), gifExt) {
			files = append(files, entity.GifFile{Path: path})
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: scan %s: %w", entity.ErrFilesystem, root, err)
	}
	return files, nil
}

// depth is the number of directory levels between root and dir; a direct
// child of root has depth 1.
func depth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
