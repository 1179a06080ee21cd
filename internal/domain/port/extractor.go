package port

import "context"

type FrameExtractionResult struct {
	FramesDir     string
	FramePaths    []string
	FrameCount    int
	FailedFrames  []int
	TotalDuration float64
}

// FrameExtractor writes every frame of one GIF as <ordinal>.png into
// parentDir/<baseName>. A non-nil error may come with a partial result.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, gifPath string, parentDir string) (*FrameExtractionResult, error)
}
