package ports

import (
	"time"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// StatusSink receives status events for display.
type StatusSink interface {
	Publish(event domain.StatusEvent)
}

// StatusSinkFunc adapts a function to StatusSink.
type StatusSinkFunc func(domain.StatusEvent)

func (f StatusSinkFunc) Publish(event domain.StatusEvent) { f(event) }

// MetricsRecorder observes sequence outcomes.
type MetricsRecorder interface {
	ObserveStep(step int, outcome string, elapsed time.Duration)
	ObserveRun(outcome string)
	ObserveCleanupError(resource string)
}
