package entity

import (
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GifFile is a discovered GIF, identified only by its path.
type GifFile struct {
	Path string
}

// BaseName is the file name without its extension.
func (g GifFile) BaseName() string {
	return strings.TrimSuffix(filepath.Base(g.Path), filepath.Ext(g.Path))
}

// Frame is one decoded still of an animation. Ordinal starts at 1.
type Frame struct {
	Ordinal int
	Image   image.Image
	Delay   time.Duration
}

// FileName is the still-image file name for the frame.
func (f Frame) FileName() string {
	return strconv.Itoa(f.Ordinal) + ".png"
}

// OutputMapping ties a GIF under the input root to its destination under the output root.
type OutputMapping struct {
	RelDir    string
	ParentDir string
	FramesDir string
}

// MapOutput computes where the frames of g go. The GIF's directory relative to
// inputRoot is mirrored under outputRoot, and frames land in a subdirectory
// named after the GIF.
func MapOutput(g GifFile, inputRoot, outputRoot string) (OutputMapping, error) {
	rel, err := filepath.Rel(inputRoot, g.Path)
	if err != nil {
		return OutputMapping{}, err
	}
	relDir := filepath.Dir(rel)
	parent := filepath.Join(outputRoot, relDir)
	return OutputMapping{
		RelDir:    relDir,
		ParentDir: parent,
		FramesDir: filepath.Join(parent, g.BaseName()),
	}, nil
}
