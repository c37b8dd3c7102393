package bootstrap

import (
	"worklab/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		prometheus.NewRegistry,
		func(r *prometheus.Registry) prometheus.Gatherer { return r },
		NewCollector,
	),
)

func NewCollector(reg *prometheus.Registry) *metrics.Collector {
	return metrics.NewCollector(reg)
}
