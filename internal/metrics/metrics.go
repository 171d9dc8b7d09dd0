// Package metrics records per-run pipeline metrics and pushes them to a
// Pushgateway when one is configured. A one-shot pipeline cannot serve
// scrapes, so the push model is the only way the numbers leave the process.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder accumulates metrics for a single pipeline run. A nil Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	phaseTotal      *prometheus.CounterVec
	phaseDuration   *prometheus.HistogramVec
	imagesPublished *prometheus.CounterVec

	gatewayURL string
	job        string
}

// New creates a Recorder. When gatewayURL is empty Push is a no-op but
// recording still works (useful in tests).
func New(gatewayURL, job string) *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		phaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fedimg",
				Subsystem: "pipeline",
				Name:      "phase_total",
				Help:      "Total number of pipeline phase outcomes by result",
			},
			[]string{"phase", "result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fedimg",
				Subsystem: "pipeline",
				Name:      "phase_duration_seconds",
				Help:      "Duration of pipeline phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68min
			},
			[]string{"phase"},
		),
		imagesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fedimg",
				Subsystem: "pipeline",
				Name:      "images_published_total",
				Help:      "Total number of images published by region",
			},
			[]string{"region"},
		),
		gatewayURL: gatewayURL,
		job:        job,
	}

	registry.MustRegister(r.phaseTotal, r.phaseDuration, r.imagesPublished)
	return r
}

// ObservePhase records one phase outcome with its duration.
func (r *Recorder) ObservePhase(phase, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.phaseTotal.WithLabelValues(phase, result).Inc()
	r.phaseDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// ImagePublished records one published image in a region.
func (r *Recorder) ImagePublished(region string) {
	if r == nil {
		return
	}
	r.imagesPublished.WithLabelValues(region).Inc()
}

// Push sends the accumulated metrics to the Pushgateway. Returns nil when
// no gateway is configured.
func (r *Recorder) Push() error {
	if r == nil || r.gatewayURL == "" {
		return nil
	}
	if err := push.New(r.gatewayURL, r.job).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", r.gatewayURL, err)
	}
	return nil
}
