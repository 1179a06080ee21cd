package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
	"github.com/ShadowCK/GifToPng/internal/domain/port"
	"github.com/ShadowCK/GifToPng/internal/infra/metrics"
)

type ConvertGIFsUseCase struct {
	dirs       port.DirectoryEnsurer
	discoverer port.GifDiscoverer
	extractor  port.FrameExtractor
	storage    port.FrameStorage
	logger     *zap.Logger
}

// NewConvertGIFsUseCase wires the pipeline. storage may be nil, in which case
// frames stay on local disk only.
func NewConvertGIFsUseCase(
	dirs port.DirectoryEnsurer,
	discoverer port.GifDiscoverer,
	extractor port.FrameExtractor,
	storage port.FrameStorage,
	logger *zap.Logger,
) *ConvertGIFsUseCase {
	return &ConvertGIFsUseCase{
		dirs:       dirs,
		discoverer: discoverer,
		extractor:  extractor,
		storage:    storage,
		logger:     logger,
	}
}

// Execute converts every GIF under inputRoot into PNG frames under outputRoot,
// one file at a time. Only root setup and discovery errors are returned; a
// file that fails is logged, recorded in the summary and skipped.
func (uc *ConvertGIFsUseCase) Execute(ctx context.Context, inputRoot, outputRoot string) (*entity.RunSummary, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ConvertGIFsUseCase.Execute")
	defer span.End()

	summary := entity.NewRunSummary(inputRoot, outputRoot)
	span.SetAttributes(attribute.String("run.id", summary.RunID.String()))
	log := uc.logger.With(zap.String("run_id", summary.RunID.String()))

	for _, root := range []string{inputRoot, outputRoot} {
		if err := uc.dirs.Ensure(ctx, root); err != nil {
			log.Error("failed to prepare root directory", zap.String("dir", root), zap.Error(err))
			return summary, fmt.Errorf("prepare root: %w", err)
		}
	}

	discStart := time.Now()
	_, spanDisc := tracer.Start(ctx, "discover_gifs")
	files, err := uc.discoverer.Discover(ctx, inputRoot)
	spanDisc.End()
	if err != nil {
		log.Error("gif discovery failed", zap.String("input_dir", inputRoot), zap.Error(err))
		return summary, fmt.Errorf("discover gifs: %w", err)
	}
	metrics.StageDuration.WithLabelValues("discover").Observe(time.Since(discStart).Seconds())
	metrics.GifFilesDiscovered.Set(float64(len(files)))

	summary.Total = len(files)
	if len(files) == 0 {
		log.Info("No GIF files found in the input directory.", zap.String("input_dir", inputRoot))
		summary.Finish()
		return summary, nil
	}
	log.Info("gif files discovered", zap.Int("count", len(files)), zap.String("input_dir", inputRoot))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			summary.Finish()
			return summary, err
		}

		result := uc.convertFile(ctx, file, inputRoot, outputRoot, log)
		summary.Record(*result)
		metrics.FilesProcessedTotal.WithLabelValues(strings.ToLower(string(result.Status))).Inc()
	}
	summary.Finish()

	log.Info("conversion run finished",
		zap.Int("files", summary.Total),
		zap.Int("completed", summary.Completed),
		zap.Int("partial", summary.Partial),
		zap.Int("failed", summary.Failed),
		zap.Int("frames", summary.FramesWritten),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (uc *ConvertGIFsUseCase) convertFile(
	ctx context.Context,
	file entity.GifFile,
	inputRoot, outputRoot string,
	log *zap.Logger,
) *entity.FileResult {
	ctx, span := otel.Tracer("usecase").Start(ctx, "convert_file",
		trace.WithAttributes(attribute.String("gif.path", file.Path)))
	defer span.End()

	log = log.With(zap.String("file", file.Path))

	mapping, err := entity.MapOutput(file, inputRoot, outputRoot)
	if err != nil {
		result := entity.NewFileResult(file.Path, "")
		log.Error("cannot map output location", zap.Error(err))
		result.MarkFailed(err.Error())
		return result
	}
	result := entity.NewFileResult(file.Path, mapping.FramesDir)

	if err := uc.dirs.Ensure(ctx, mapping.ParentDir); err != nil {
		log.Error("failed to prepare output directory", zap.String("dir", mapping.ParentDir), zap.Error(err))
		result.MarkFailed(err.Error())
		return result
	}

	extraction, extractErr := uc.extractor.ExtractFrames(ctx, file.Path, mapping.ParentDir)
	if extraction == nil {
		extraction = &port.FrameExtractionResult{}
	}
	uploadErr := uc.mirror(ctx, mapping, extraction.FramePaths, log)

	err = errors.Join(extractErr, uploadErr)
	switch {
	case err == nil:
		result.MarkCompleted(extraction.FrameCount)
	case extraction.FrameCount > 0:
		result.MarkPartial(extraction.FrameCount, len(extraction.FailedFrames), err.Error())
	default:
		result.MarkFailed(err.Error())
	}

	if err != nil {
		span.RecordError(err)
		log.Error("error converting "+filepath.Base(file.Path),
			zap.String("status", string(result.Status)),
			zap.Int("frames_written", result.FramesWritten),
			zap.Ints("failed_frames", extraction.FailedFrames),
			zap.Error(err),
		)
	}
	return result
}

// mirror uploads written frames under <relDir>/<baseName>/<n>.png, the same
// layout they have below the output root.
func (uc *ConvertGIFsUseCase) mirror(ctx context.Context, mapping entity.OutputMapping, framePaths []string, log *zap.Logger) error {
	if uc.storage == nil || len(framePaths) == 0 {
		return nil
	}

	upStart := time.Now()
	ctx, span := otel.Tracer("usecase").Start(ctx, "upload_frames")
	defer span.End()

	prefix := path.Join(filepath.ToSlash(mapping.RelDir), filepath.Base(mapping.FramesDir))
	var errs []error
	for _, framePath := range framePaths {
		key := path.Join(prefix, filepath.Base(framePath))
		if err := uc.storage.UploadFrame(ctx, key, framePath); err != nil {
			errs = append(errs, err)
			continue
		}
		metrics.FramesUploadedTotal.Inc()
		log.Debug("uploaded frame", zap.String("key", key))
	}
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())
	return errors.Join(errs...)
}
