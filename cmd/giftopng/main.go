package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ShadowCK/GifToPng/internal/domain/port"
	"github.com/ShadowCK/GifToPng/internal/infra/config"
	"github.com/ShadowCK/GifToPng/internal/infra/filesystem"
	"github.com/ShadowCK/GifToPng/internal/infra/imaging"
	"github.com/ShadowCK/GifToPng/internal/infra/metrics"
	miniostorage "github.com/ShadowCK/GifToPng/internal/infra/minio"
	"github.com/ShadowCK/GifToPng/internal/infra/tracing"
	"github.com/ShadowCK/GifToPng/internal/usecase"
	"github.com/ShadowCK/GifToPng/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	log.Info("starting giftopng",
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Bool("recursive", cfg.Recursive),
		zap.String("frame_mode", cfg.FrameMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					log.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	osFs := afero.NewOsFs()
	dirs := filesystem.NewEnsurer(osFs)
	discoverer := filesystem.NewDiscoverer(osFs, cfg.MaxDepth())
	extractor := imaging.NewExtractor(
		imaging.NewDecoder(osFs, imaging.DecodeMode(cfg.FrameMode)),
		imaging.NewEncoder(osFs, imaging.EncoderConfig{
			Compression:  imaging.CompressionLevel(cfg.PNGCompression),
			MaxDimension: cfg.MaxFrameDimension,
		}),
		dirs,
		log,
	)

	// Left as a nil interface when mirroring is off.
	var storage port.FrameStorage
	if cfg.StorageEnabled() {
		s, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
		})
		if err != nil {
			log.Error("create minio storage", zap.Error(err))
			return 1
		}
		if err := s.EnsureBucket(ctx); err != nil {
			log.Error("ensure minio bucket", zap.String("bucket", cfg.MinIOBucket), zap.Error(err))
			return 1
		}
		storage = s
	}

	uc := usecase.NewConvertGIFsUseCase(dirs, discoverer, extractor, storage, log)
	summary, runErr := uc.Execute(ctx, cfg.InputDir, cfg.OutputDir)

	if err := metrics.WriteTextfile(cfg.MetricsTextfile, log); err != nil {
		log.Warn("failed to write metrics textfile", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
	}

	if runErr != nil {
		log.Error("conversion aborted", zap.Error(runErr))
		return 1
	}
	if summary.HasFailures() {
		log.Warn("some files were not fully converted",
			zap.Int("partial", summary.Partial),
			zap.Int("failed", summary.Failed),
		)
	}
	log.Info("giftopng stopped")
	return 0
}
