package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// FakeRuntime is a test implementation of ports.ContainerRuntime.
type FakeRuntime struct {
	PingErr   error
	BuildErr  error
	RunErr    error
	StopErr   error
	RemoveErr error
	RunOutput string

	mu     sync.Mutex
	Calls  []string
	Labels map[string]string
}

func (f *FakeRuntime) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// Count returns how many calls started with prefix.
func (f *FakeRuntime) Count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeRuntime) Ping(ctx context.Context) error {
	f.record("ping")
	return f.PingErr
}

func (f *FakeRuntime) BuildImage(ctx context.Context, dir, tag string, labels map[string]string) error {
	f.record("build " + tag)
	f.mu.Lock()
	f.Labels = labels
	f.mu.Unlock()
	return f.BuildErr
}

func (f *FakeRuntime) RunContainer(ctx context.Context, image string, hostPort, containerPort int) (string, error) {
	f.record(fmt.Sprintf("run %s %d:%d", image, hostPort, containerPort))
	if f.RunErr != nil {
		return "", f.RunErr
	}
	return f.RunOutput, nil
}

func (f *FakeRuntime) StopContainer(ctx context.Context, id string) error {
	f.record("stop " + id)
	return f.StopErr
}

func (f *FakeRuntime) RemoveContainer(ctx context.Context, id string) error {
	f.record("rm " + id)
	return f.RemoveErr
}

// FakeProber is a test implementation of ports.PortProber.
type FakeProber struct {
	Listening bool
	Err       error
	Calls     int
}

func (f *FakeProber) IsListening(rawURL string) (bool, error) {
	f.Calls++
	return f.Listening, f.Err
}

// FakeTunnel is a test implementation of ports.TunnelService.
type FakeTunnel struct {
	PublicURL string
	OpenErr   error
	CloseErr  error

	mu         sync.Mutex
	Opened     []string
	CloseCalls int
}

func (f *FakeTunnel) Open(ctx context.Context, localURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = append(f.Opened, localURL)
	if f.OpenErr != nil {
		return "", f.OpenErr
	}
	return f.PublicURL, nil
}

func (f *FakeTunnel) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCalls++
	return f.CloseErr
}

// FakeRunner is a test implementation of ports.CommandRunner. Responses are
// keyed by the first argument after the command name ("build", "run", ...).
type FakeRunner struct {
	Outputs map[string]ports.CommandOutput
	Errors  map[string]error

	mu    sync.Mutex
	Calls [][]string
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (ports.CommandOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, append([]string{name}, args...))
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	if err := f.Errors[key]; err != nil {
		return ports.CommandOutput{}, err
	}
	return f.Outputs[key], nil
}

// RecordingSink collects published status events.
type RecordingSink struct {
	mu     sync.Mutex
	events []domain.StatusEvent
}

func (r *RecordingSink) Publish(event domain.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything published so far.
func (r *RecordingSink) Events() []domain.StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.StatusEvent(nil), r.events...)
}

// FakeMetrics counts observations.
type FakeMetrics struct {
	mu            sync.Mutex
	Steps         map[string]int
	Runs          map[string]int
	CleanupErrors map[string]int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{Steps: map[string]int{}, Runs: map[string]int{}, CleanupErrors: map[string]int{}}
}

func (m *FakeMetrics) ObserveStep(step int, outcome string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Steps[fmt.Sprintf("%d/%s", step, outcome)]++
}

func (m *FakeMetrics) ObserveRun(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs[outcome]++
}

func (m *FakeMetrics) ObserveCleanupError(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanupErrors[resource]++
}
