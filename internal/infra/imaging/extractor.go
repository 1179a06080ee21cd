package imaging

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ShadowCK/GifToPng/internal/domain/entity"
	"github.com/ShadowCK/GifToPng/internal/domain/port"
	"github.com/ShadowCK/GifToPng/internal/infra/metrics"
)

type Extractor struct {
	decoder port.FrameDecoder
	encoder port.FrameEncoder
	dirs    port.DirectoryEnsurer
	logger  *zap.Logger
}

func NewExtractor(decoder port.FrameDecoder, encoder port.FrameEncoder, dirs port.DirectoryEnsurer, logger *zap.Logger) *Extractor {
	return &Extractor{decoder: decoder, encoder: encoder, dirs: dirs, logger: logger}
}

// ExtractFrames writes frame N of gifPath to parentDir/<baseName>/N.png.
//
// A frame that fails to encode does not stop the frames after it. When any
// frame fails the returned error joins every frame error and the result still
// lists what was written. Nothing already written is removed.
func (e *Extractor) ExtractFrames(ctx context.Context, gifPath string, parentDir string) (*port.FrameExtractionResult, error) {
	tracer := otel.Tracer("imaging")
	ctx, span := tracer.Start(ctx, "Extractor.ExtractFrames")
	defer span.End()
	span.SetAttributes(attribute.String("gif.path", gifPath))

	gif := entity.GifFile{Path: gifPath}
	framesDir := filepath.Join(parentDir, gif.BaseName())
	result := &port.FrameExtractionResult{FramesDir: framesDir}

	if err := e.dirs.Ensure(ctx, framesDir); err != nil {
		return result, err
	}

	decStart := time.Now()
	frames, err := e.decoder.Decode(ctx, gifPath)
	if err != nil {
		return result, err
	}
	metrics.StageDuration.WithLabelValues("decode").Observe(time.Since(decStart).Seconds())
	span.SetAttributes(attribute.Int("gif.frames", len(frames)))

	var errs []error
	for i := range frames {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		frame := frames[i]
		framePath := filepath.Join(framesDir, frame.FileName())
		if err := e.saveFrame(ctx, frame, framePath); err != nil {
			result.FailedFrames = append(result.FailedFrames, frame.Ordinal)
			metrics.FrameFailuresTotal.Inc()
			e.logger.Error("failed to save frame",
				zap.String("file", gifPath),
				zap.Int("frame", frame.Ordinal),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("frame %d: %w", frame.Ordinal, err))
		} else {
			result.FramePaths = append(result.FramePaths, framePath)
			result.FrameCount++
			result.TotalDuration += frame.Delay.Seconds()
			metrics.FramesWrittenTotal.Inc()
			e.logger.Info("saved frame",
				zap.Int("frame", frame.Ordinal),
				zap.String("path", framePath),
			)
		}
		frames[i].Image = nil
	}

	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}

	e.logger.Info("finished converting",
		zap.String("file", filepath.Base(gifPath)),
		zap.Int("frame_count", result.FrameCount),
		zap.Float64("duration_secs", result.TotalDuration),
	)
	return result, nil
}

func (e *Extractor) saveFrame(ctx context.Context, frame entity.Frame, framePath string) error {
	ctx, span := otel.Tracer("imaging").Start(ctx, "encode_frame")
	defer span.End()
	span.SetAttributes(attribute.Int("frame.ordinal", frame.Ordinal))

	start := time.Now()
	if err := e.encoder.Encode(ctx, frame.Image, framePath); err != nil {
		span.RecordError(err)
		return err
	}
	metrics.StageDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	return nil
}
