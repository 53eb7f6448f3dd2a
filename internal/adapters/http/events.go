package http

import (
	"log/slog"
	"sync"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

const subscriberBuffer = 32

// Broadcaster implements ports.StatusSink. It keeps the events of the
// current session and fans them out to stream subscribers.
type Broadcaster struct {
	mu      sync.Mutex
	history []domain.StatusEvent
	subs    map[chan domain.StatusEvent]struct{}
	done    chan struct{}
	closed  bool
	log     *slog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan domain.StatusEvent]struct{}),
		done: make(chan struct{}),
		log:  log,
	}
}

// Publish records event and delivers it to every subscriber. Slow
// subscribers miss events rather than block the sequence.
func (b *Broadcaster) Publish(event domain.StatusEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, event)
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.log.Warn("status subscriber too slow, event dropped", "message", event.Message)
		}
	}
}

// Reset forgets the previous session's events.
func (b *Broadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}

// History returns the events of the current session.
func (b *Broadcaster) History() []domain.StatusEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.StatusEvent(nil), b.history...)
}

// Subscribe returns the events so far plus a channel of later ones. The
// cancel func must be called when the subscriber goes away.
func (b *Broadcaster) Subscribe() ([]domain.StatusEvent, <-chan domain.StatusEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan domain.StatusEvent, subscriberBuffer)
	b.subs[ch] = struct{}{}
	replay := append([]domain.StatusEvent(nil), b.history...)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, ch)
		})
	}
	return replay, ch, cancel
}

// Done is closed when the broadcaster shuts down.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

// Close ends all open streams.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}
