package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(nil)
	r.ObserveRun("success")
	r.ObserveRun("failure")
	r.ObserveRun("failure")
	r.ObserveCleanupError("tunnel")

	if got := testutil.ToFloat64(r.runs.WithLabelValues("failure")); got != 2 {
		t.Fatalf("failure runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.cleanupErrors.WithLabelValues("tunnel")); got != 1 {
		t.Fatalf("tunnel cleanup errors = %v, want 1", got)
	}
}

func TestRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewRecorder(reg)
	second := NewRecorder(reg)

	first.ObserveRun("success")
	second.ObserveRun("success")
	first.ObserveCleanupError("container")
	second.ObserveCleanupError("container")
	second.ObserveStep(1, "success", time.Second)

	if got := testutil.ToFloat64(first.runs.WithLabelValues("success")); got != 2 {
		t.Fatalf("shared runs counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(first.cleanupErrors.WithLabelValues("container")); got != 2 {
		t.Fatalf("shared cleanup counter = %v, want 2", got)
	}
	if second.runs != first.runs || second.cleanupErrors != first.cleanupErrors || second.stepDuration != first.stepDuration {
		t.Fatalf("second recorder did not reuse the registered collectors")
	}
	got, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 3 {
		t.Fatalf("registry exposes %d series, want 3", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder(nil)
	r.ObserveStep(3, "success", 2*time.Second)

	app := fiber.New()
	app.Get("/metrics", r.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `lighthouse_expose_step_duration_seconds_count{outcome="success",step="3"} 1`) {
		t.Fatalf("step histogram missing from output:\n%s", body)
	}
}
