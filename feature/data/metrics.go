package data

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLoaded      = "loaded"
	outcomeUnsupported = "unsupported"
	outcomeDuplicate   = "duplicate"
	outcomeMalformed   = "malformed"
)

// Metrics counts processed data files. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	files    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the loader metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "data_loader",
				Name:      "files_total",
				Help:      "Data files processed, by extension and outcome",
			},
			[]string{"ext", "outcome"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "data_loader",
				Name:      "load_duration_seconds",
				Help:      "Duration of a full data load",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) file(ext, outcome string) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(ext, outcome).Inc()
}

func (m *Metrics) since(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}
