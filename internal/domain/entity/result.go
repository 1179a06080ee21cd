package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileStatus string

const (
	FileStatusCompleted FileStatus = "COMPLETED"
	FileStatusPartial   FileStatus = "PARTIAL"
	FileStatusFailed    FileStatus = "FAILED"
)

// FileResult is the outcome of converting one GIF.
type FileResult struct {
	Path          string
	FramesDir     string
	Status        FileStatus
	FramesWritten int
	FramesFailed  int
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

func NewFileResult(path, framesDir string) *FileResult {
	return &FileResult{
		Path:      path,
		FramesDir: framesDir,
		StartedAt: time.Now().UTC(),
	}
}

func (r *FileResult) MarkCompleted(framesWritten int) {
	r.Status = FileStatusCompleted
	r.FramesWritten = framesWritten
	r.FinishedAt = time.Now().UTC()
}

// MarkPartial records a file where some frames made it to disk and some did not.
func (r *FileResult) MarkPartial(framesWritten, framesFailed int, errMsg string) {
	r.Status = FileStatusPartial
	r.FramesWritten = framesWritten
	r.FramesFailed = framesFailed
	r.ErrorMessage = errMsg
	r.FinishedAt = time.Now().UTC()
}

func (r *FileResult) MarkFailed(errMsg string) {
	r.Status = FileStatusFailed
	r.ErrorMessage = errMsg
	r.FinishedAt = time.Now().UTC()
}

func (r *FileResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunSummary aggregates every FileResult of one run.
type RunSummary struct {
	RunID         uuid.UUID
	InputRoot     string
	OutputRoot    string
	Total         int
	Completed     int
	Partial       int
	Failed        int
	FramesWritten int
	Files         []FileResult
	StartedAt     time.Time
	FinishedAt    time.Time
}

func NewRunSummary(inputRoot, outputRoot string) *RunSummary {
	return &RunSummary{
		RunID:      uuid.New(),
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		StartedAt:  time.Now().UTC(),
	}
}

func (s *RunSummary) Record(r FileResult) {
	switch r.Status {
	case FileStatusCompleted:
		s.Completed++
	case FileStatusPartial:
		s.Partial++
	case FileStatusFailed:
		s.Failed++
	}
	s.FramesWritten += r.FramesWritten
	s.Files = append(s.Files, r)
}

func (s *RunSummary) Finish() {
	s.FinishedAt = time.Now().UTC()
}

// HasFailures reports whether any file ended in anything other than COMPLETED.
func (s *RunSummary) HasFailures() bool {
	return s.Partial+s.Failed > 0
}
