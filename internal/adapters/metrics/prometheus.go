package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// Recorder implements ports.MetricsRecorder with prometheus collectors.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	cleanupErrors *prometheus.CounterVec
}

// NewRecorder registers the sequence collectors on registry. A nil
// registry uses a fresh one.
func NewRecorder(registry *prometheus.Registry) *Recorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lighthouse",
			Subsystem: "expose",
			Name:      "sequence_runs_total",
			Help:      "Provisioning sequences by outcome",
		}, []string{"outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lighthouse",
			Subsystem: "expose",
			Name:      "step_duration_seconds",
			Help:      "Duration of each provisioning step",
			Buckets:   histogramBuckets,
		}, []string{"step", "outcome"}),
		cleanupErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lighthouse",
			Subsystem: "expose",
			Name:      "cleanup_errors_total",
			Help:      "Failures while releasing session resources",
		}, []string{"resource"}),
	}

	r.runs = register(registry, r.runs)
	r.stepDuration = register(registry, r.stepDuration)
	r.cleanupErrors = register(registry, r.cleanupErrors)
	return r
}

// register adds c to registry, or returns the collector already
// registered under the same descriptor.
func register[C prometheus.Collector](registry prometheus.Registerer, c C) C {
	if err := registry.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (r *Recorder) ObserveStep(step int, outcome string, elapsed time.Duration) {
	r.stepDuration.With(prometheus.Labels{
		"step":    strconv.Itoa(step),
		"outcome": outcome,
	}).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveRun(outcome string) {
	r.runs.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func (r *Recorder) ObserveCleanupError(resource string) {
	r.cleanupErrors.With(prometheus.Labels{"resource": resource}).Inc()
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
