package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftopng_files_processed_total",
		Help: "Total number of GIF files processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftopng_stage_duration_seconds",
		Help:    "Duration of conversion stages",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"stage"})

	FramesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftopng_frames_written_total",
		Help: "Total number of frames written as PNG across all files",
	})

	FrameFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftopng_frame_failures_total",
		Help: "Total number of frames that could not be written",
	})

	FramesUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftopng_frames_uploaded_total",
		Help: "Total number of frames mirrored to object storage",
	})

	GifFilesDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "giftopng_gif_files_discovered",
		Help: "Number of GIF files found by the last discovery",
	})
)
