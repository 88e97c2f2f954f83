// Package metrics exposes analysis counters and histograms fed by the
// analyzer's lifecycle hooks.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Collector groups the branchmap metric families. It is registered on its own
// registry so several servers (or tests) never collide on the global one.
type Collector struct {
	Registry *prometheus.Registry

	analyses *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	paths    prometheus.Histogram
	warnings prometheus.Counter
}

// New creates and registers the collectors.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchmap_analyses_total",
				Help: "Total number of analysis runs by outcome",
			},
			[]string{"outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "branchmap_failures_total",
				Help: "Failed analyses by phase and error kind",
			},
			[]string{"phase", "kind"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "branchmap_analysis_duration_seconds",
			Help:    "Duration of successful analyses",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		paths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "branchmap_paths",
			Help:    "Distinct paths per successful analysis",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "branchmap_validation_warnings_total",
			Help: "Validation warnings reported",
		}),
	}
	c.Registry.MustRegister(c.analyses, c.failures, c.duration, c.paths, c.warnings)
	return c
}

// Hooks returns lifecycle hooks that record into the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnalyzed: func(e *domain.AnalysisEvent) {
			c.analyses.WithLabelValues("success").Inc()
			c.duration.Observe(e.Duration.Seconds())
			c.paths.Observe(float64(e.Paths))
			c.warnings.Add(float64(e.Warnings))
		},
		OnFailed: func(e *domain.FailureEvent) {
			c.analyses.WithLabelValues("failure").Inc()
			c.failures.WithLabelValues(string(e.Phase), Kind(e.Err)).Inc()
		},
	}
}

// Kind classifies an analysis error for the "kind" label.
func Kind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedSource):
		return "malformed_source"
	case errors.Is(err, domain.ErrUnsupportedConstruct):
		return "unsupported_construct"
	case errors.Is(err, domain.ErrPathExplosion):
		return "path_explosion"
	case errors.Is(err, domain.ErrPathLimitExceeded):
		return "path_limit_exceeded"
	case errors.Is(err, domain.ErrWorkflowNotFound):
		return "workflow_not_found"
	case errors.Is(err, config.ErrInvalidConfig):
		return "invalid_config"
	}
	return "other"
}
