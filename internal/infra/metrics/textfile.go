package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// WriteTextfile dumps the default registry in the Prometheus text format, for
// pickup by node_exporter's textfile collector. An empty path is a no-op.
func WriteTextfile(path string, logger *zap.Logger) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	logger.Info("metrics written", zap.String("path", path))
	return nil
}
