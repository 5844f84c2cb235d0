package bootstrap

import (
	"log/slog"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/observability/metrics"
	"github.com/tripmate/tripmate-client/internal/observability/statsd"
)

// ObservabilityContainer holds metric sinks built from configuration.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	QueryRecorder *metrics.QueryRecorder
}

// Close releases the metrics connection.
func (o ObservabilityContainer) Close() error {
	return o.MetricsSink.Close()
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Metrics.IsEnabled() {
		return ObservabilityContainer{}
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return ObservabilityContainer{}
	}
	return ObservabilityContainer{
		MetricsSink:   client,
		QueryRecorder: metrics.NewQueryRecorder(client),
	}
}
