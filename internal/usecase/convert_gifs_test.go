package usecase

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
	"github.com/ShadowCK/GifToPng/internal/domain/port"
	"github.com/ShadowCK/GifToPng/internal/infra/filesystem"
	"github.com/ShadowCK/GifToPng/internal/infra/imaging"
	"github.com/ShadowCK/GifToPng/internal/testutil"
)

// --- fakes ---

type fakeDiscoverer struct {
	files []entity.GifFile
	err   error
}

func (d *fakeDiscoverer) Discover(context.Context, string) ([]entity.GifFile, error) {
	return d.files, d.err
}

// scriptedExtractor returns canned outcomes per GIF path and records call order.
type scriptedExtractor struct {
	calls    []string
	outcomes map[string]scriptedOutcome
}

type scriptedOutcome struct {
	result *port.FrameExtractionResult
	err    error
}

func (e *scriptedExtractor) ExtractFrames(_ context.Context, gifPath string, _ string) (*port.FrameExtractionResult, error) {
	e.calls = append(e.calls, gifPath)
	if o, ok := e.outcomes[gifPath]; ok {
		return o.result, o.err
	}
	return &port.FrameExtractionResult{FrameCount: 1, FramePaths: []string{"1.png"}}, nil
}

type recordingStorage struct {
	keys []string
	fail map[string]bool
}

func (s *recordingStorage) UploadFrame(_ context.Context, objectKey string, _ string) error {
	if s.fail[objectKey] {
		return entity.ErrUpload
	}
	s.keys = append(s.keys, objectKey)
	return nil
}

// --- helpers ---

func newPipeline(fs afero.Fs, maxDepth int, storage port.FrameStorage, logger *zap.Logger) *ConvertGIFsUseCase {
	dirs := filesystem.NewEnsurer(fs)
	extractor := imaging.NewExtractor(
		imaging.NewDecoder(fs, imaging.DecodeRaw),
		imaging.NewEncoder(fs, imaging.EncoderConfig{}),
		dirs,
		logger,
	)
	return NewConvertGIFsUseCase(dirs, filesystem.NewDiscoverer(fs, maxDepth), extractor, storage, logger)
}

func listFiles(t *testing.T, fsys afero.Fs, root string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

// --- end-to-end on an in-memory filesystem ---

func TestExecute_MirrorsTree(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.WriteGIF(t, mem, "/in/a/b/x.gif", 3)
	testutil.WriteGIF(t, mem, "/in/y.gif", 1)
	require.NoError(t, afero.WriteFile(mem, "/in/a/readme.txt", []byte("skip"), 0o644))

	summary, err := newPipeline(mem, -1, nil, zap.NewNop()).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b/x/1.png", "a/b/x/2.png", "a/b/x/3.png", "y/1.png"}, listFiles(t, mem, "/out"))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 4, summary.FramesWritten)
	assert.False(t, summary.HasFailures())
	assert.NotEqual(t, uuid.Nil, summary.RunID)
}

func TestExecute_NoGIFs(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/in/sub", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/in/sub/pic.png", []byte("png"), 0o644))

	core, logs := observer.New(zapcore.InfoLevel)
	summary, err := newPipeline(mem, -1, nil, zap.New(core)).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Empty(t, listFiles(t, mem, "/out"))
	assert.Equal(t, 1, logs.FilterMessage("No GIF files found in the input directory.").Len())
}

func TestExecute_CreatesMissingRoots(t *testing.T) {
	mem := afero.NewMemMapFs()

	summary, err := newPipeline(mem, -1, nil, zap.NewNop()).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)
	assert.Zero(t, summary.Total)

	for _, dir := range []string{"/in", "/out"} {
		ok, err := afero.DirExists(mem, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}
}

func TestExecute_FlatMode(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.WriteGIF(t, mem, "/work/anim.gif", 2)
	testutil.WriteGIF(t, mem, "/work/nested/ignored.gif", 2)

	summary, err := newPipeline(mem, 0, nil, zap.NewNop()).Execute(context.Background(), "/work", "/work")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	ok, _ := afero.Exists(mem, "/work/anim/2.png")
	assert.True(t, ok)
	ok, _ = afero.Exists(mem, "/work/nested/ignored")
	assert.False(t, ok)
}

func TestExecute_BadFileDoesNotStopBatch(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/in", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/in/a_broken.gif", []byte("not a gif"), 0o644))
	testutil.WriteGIF(t, mem, "/in/b_good.gif", 2)

	core, logs := observer.New(zapcore.ErrorLevel)
	summary, err := newPipeline(mem, -1, nil, zap.New(core)).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, []string{"b_good/1.png", "b_good/2.png"}, listFiles(t, mem, "/out"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "error converting a_broken.gif", entry.Message)
	assert.Equal(t, "/in/a_broken.gif", entry.ContextMap()["file"])

	require.Len(t, summary.Files, 2)
	assert.Equal(t, entity.FileStatusFailed, summary.Files[0].Status)
	assert.Contains(t, summary.Files[0].ErrorMessage, "decode error")
}

func TestExecute_UploadsFrames(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.WriteGIF(t, mem, "/in/a/b/x.gif", 2)
	testutil.WriteGIF(t, mem, "/in/y.gif", 1)

	storage := &recordingStorage{}
	_, err := newPipeline(mem, -1, storage, zap.NewNop()).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b/x/1.png", "a/b/x/2.png", "y/1.png"}, storage.keys)
}

func TestExecute_UploadFailureMarksPartial(t *testing.T) {
	mem := afero.NewMemMapFs()
	testutil.WriteGIF(t, mem, "/in/x.gif", 2)

	storage := &recordingStorage{fail: map[string]bool{"x/1.png": true}}
	summary, err := newPipeline(mem, -1, storage, zap.NewNop()).Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Partial)
	assert.Equal(t, []string{"x/2.png"}, storage.keys)
	assert.Equal(t, 2, summary.Files[0].FramesWritten)
}

// --- fakes for the fatal and containment paths ---

func TestExecute_DiscoveryFailureIsFatal(t *testing.T) {
	mem := afero.NewMemMapFs()
	discoverErr := errors.Join(entity.ErrFilesystem, errors.New("permission denied"))
	extractor := &scriptedExtractor{}

	uc := NewConvertGIFsUseCase(filesystem.NewEnsurer(mem), &fakeDiscoverer{err: discoverErr}, extractor, nil, zap.NewNop())
	_, err := uc.Execute(context.Background(), "/in", "/out")

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrFilesystem)
	assert.Empty(t, extractor.calls)
	assert.Empty(t, listFiles(t, mem, "/out"))
	entries, err := afero.ReadDir(mem, "/out")
	require.NoError(t, err)
	assert.Empty(t, entries, "no mirrored directories")
}

func TestExecute_RootSetupFailureIsFatal(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/out", []byte("file"), 0o644))
	extractor := &scriptedExtractor{}

	uc := NewConvertGIFsUseCase(filesystem.NewEnsurer(mem), &fakeDiscoverer{}, extractor, nil, zap.NewNop())
	_, err := uc.Execute(context.Background(), "/in", "/out")

	assert.ErrorIs(t, err, entity.ErrFilesystem)
	assert.Empty(t, extractor.calls)
}

func TestExecute_SequentialInDiscoveryOrder(t *testing.T) {
	files := []entity.GifFile{{Path: "/in/c.gif"}, {Path: "/in/a/b.gif"}, {Path: "/in/a.gif"}}
	extractor := &scriptedExtractor{}

	uc := NewConvertGIFsUseCase(filesystem.NewEnsurer(afero.NewMemMapFs()), &fakeDiscoverer{files: files}, extractor, nil, zap.NewNop())
	summary, err := uc.Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	assert.Equal(t, []string{"/in/c.gif", "/in/a/b.gif", "/in/a.gif"}, extractor.calls)
	assert.Equal(t, 3, summary.Completed)
}

func TestExecute_PartialAndNilResults(t *testing.T) {
	files := []entity.GifFile{{Path: "/in/partial.gif"}, {Path: "/in/nil.gif"}}
	extractor := &scriptedExtractor{outcomes: map[string]scriptedOutcome{
		"/in/partial.gif": {
			result: &port.FrameExtractionResult{FrameCount: 2, FailedFrames: []int{2}, FramePaths: []string{"1.png", "3.png"}},
			err:    errors.Join(entity.ErrEncode),
		},
		"/in/nil.gif": {err: entity.ErrDecode},
	}}

	uc := NewConvertGIFsUseCase(filesystem.NewEnsurer(afero.NewMemMapFs()), &fakeDiscoverer{files: files}, extractor, nil, zap.NewNop())
	summary, err := uc.Execute(context.Background(), "/in", "/out")
	require.NoError(t, err)

	require.Len(t, summary.Files, 2)
	assert.Equal(t, entity.FileStatusPartial, summary.Files[0].Status)
	assert.Equal(t, 2, summary.Files[0].FramesWritten)
	assert.Equal(t, 1, summary.Files[0].FramesFailed)
	assert.Equal(t, entity.FileStatusFailed, summary.Files[1].Status)
	assert.Equal(t, 2, summary.FramesWritten)
}

func TestExecute_Cancelled(t *testing.T) {
	files := []entity.GifFile{{Path: "/in/a.gif"}}
	extractor := &scriptedExtractor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewConvertGIFsUseCase(&noopEnsurer{}, &fakeDiscoverer{files: files}, extractor, nil, zap.NewNop())
	_, err := uc.Execute(ctx, "/in", "/out")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, extractor.calls)
}

type noopEnsurer struct{}

func (noopEnsurer) Ensure(context.Context, string) error { return nil }
