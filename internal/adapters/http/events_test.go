package http

import (
	"testing"
	"time"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/testutil"
)

func TestBroadcasterReplayAndLive(t *testing.T) {
	b := NewBroadcaster(testutil.DiscardLogger())
	b.Publish(domain.NewEvent(domain.SeverityInfo, 0, "first"))

	replay, live, cancel := b.Subscribe()
	defer cancel()
	if len(replay) != 1 || replay[0].Message != "first" {
		t.Fatalf("unexpected replay %+v", replay)
	}

	b.Publish(domain.NewEvent(domain.SeveritySuccess, 1, "second"))
	select {
	case e := <-live:
		if e.Message != "second" {
			t.Fatalf("unexpected live event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("live event not delivered")
	}
}

func TestBroadcasterResetAndCancel(t *testing.T) {
	b := NewBroadcaster(testutil.DiscardLogger())
	b.Publish(domain.NewEvent(domain.SeverityInfo, 0, "old"))
	b.Reset()
	if h := b.History(); len(h) != 0 {
		t.Fatalf("history not cleared: %+v", h)
	}

	_, live, cancel := b.Subscribe()
	cancel()
	cancel()
	b.Publish(domain.NewEvent(domain.SeverityInfo, 0, "after cancel"))
	select {
	case e := <-live:
		t.Fatalf("cancelled subscriber received %+v", e)
	default:
	}
}

func TestBroadcasterDropsForSlowSubscriber(t *testing.T) {
	b := NewBroadcaster(testutil.DiscardLogger())
	_, _, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Publish(domain.NewEvent(domain.SeverityInfo, 0, "tick"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a slow subscriber")
	}

	b.Close()
	b.Close()
	select {
	case <-b.Done():
	default:
		t.Fatalf("Done not closed")
	}
}
