package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
)

// ErrLocalServerDown is reported when nothing listens on the local URL's port.
var ErrLocalServerDown = errors.New("local development server not detected")

// Run outcomes reported to the metrics recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Sequencer runs the fixed provisioning pipeline for a single session:
// runtime check, local server probe, container, tunnel, done. Any failure
// halts the pipeline; nothing is retried or rolled back.
type Sequencer struct {
	runtime     ports.ContainerRuntime
	prober      ports.PortProber
	provisioner ports.Provisioner
	tunnel      ports.TunnelService
	sink        ports.StatusSink
	metrics     ports.MetricsRecorder // optional
	descriptor  domain.BuildDescriptor
	log         *slog.Logger

	mu      sync.Mutex
	session *domain.Session
}

// Dependencies groups the collaborators of a Sequencer.
type Dependencies struct {
	Runtime     ports.ContainerRuntime
	Prober      ports.PortProber
	Provisioner ports.Provisioner
	Tunnel      ports.TunnelService
	Sink        ports.StatusSink
	Metrics     ports.MetricsRecorder
}

// NewSequencer creates a sequencer using the default build descriptor.
func NewSequencer(deps Dependencies, log *slog.Logger) *Sequencer {
	return &Sequencer{
		runtime:     deps.Runtime,
		prober:      deps.Prober,
		provisioner: deps.Provisioner,
		tunnel:      deps.Tunnel,
		sink:        deps.Sink,
		metrics:     deps.Metrics,
		descriptor:  domain.DefaultDescriptor(),
		log:         log,
	}
}

// Begin replaces the current session with a new idle one for localURL.
// It fails with domain.ErrSessionActive while the current session is in
// flight or still holds a container or tunnel.
func (s *Sequencer) Begin(localURL string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Active() {
		return *s.session, domain.ErrSessionActive
	}
	s.session = &domain.Session{
		ID:        uuid.NewString(),
		LocalURL:  localURL,
		State:     domain.StateIdle,
		StartedAt: time.Now().UTC(),
	}
	s.log.Info("session created", "session_id", s.session.ID, "local_url", localURL)
	return *s.session, nil
}

// Start begins a session and runs it to completion or failure.
func (s *Sequencer) Start(ctx context.Context, localURL string) error {
	if _, err := s.Begin(localURL); err != nil {
		return err
	}
	return s.Run(ctx)
}

// Run executes the pipeline for the session created by Begin. The returned
// error is the one already reported as an error event.
func (s *Sequencer) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil || s.session.State != domain.StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("no idle session to run")
	}
	localURL := s.session.LocalURL
	s.session.Step = domain.StepRuntime
	s.session.State = domain.StateCheckingRuntime
	s.mu.Unlock()

	err := s.step(ctx, domain.StepRuntime, domain.StateCheckingRuntime, "Docker is not running. Please start Docker", func(ctx context.Context) (string, error) {
		if err := s.runtime.Ping(ctx); err != nil {
			return "", err
		}
		return "Docker is running and accessible", nil
	})
	if err == nil {
		err = s.step(ctx, domain.StepLocalServer, domain.StateCheckingLocalServer, "Error checking local server", func(context.Context) (string, error) {
			running, err := s.prober.IsListening(localURL)
			if err != nil {
				return "", err
			}
			if !running {
				return "", fmt.Errorf("%w at %s", ErrLocalServerDown, localURL)
			}
			return "Local development server is running", nil
		})
	}
	if err == nil {
		err = s.step(ctx, domain.StepContainer, domain.StateProvisioning, "Docker setup failed", func(ctx context.Context) (string, error) {
			id, err := s.provisioner.Provision(ctx, s.descriptor)
			if err != nil {
				return "", err
			}
			s.update(func(sess *domain.Session) { sess.ContainerID = id })
			return "Docker container is running", nil
		})
	}
	var publicURL string
	if err == nil {
		err = s.step(ctx, domain.StepTunnel, domain.StateTunneling, "Tunnel setup failed", func(ctx context.Context) (string, error) {
			u, err := s.tunnel.Open(ctx, localURL)
			if err != nil {
				return "", err
			}
			publicURL = u
			s.update(func(sess *domain.Session) { sess.TunnelURL = u })
			return "Tunnel established at: " + u, nil
		})
	}

	if err != nil {
		s.update(func(sess *domain.Session) { sess.State = domain.StateFailed })
		s.observeRun(OutcomeFailure)
		return err
	}

	s.update(func(sess *domain.Session) {
		sess.Step = domain.StepComplete
		sess.State = domain.StateDone
	})
	s.emit(domain.SeveritySuccess, domain.StepComplete, "Application hosted successfully at: "+publicURL)
	s.observeRun(OutcomeSuccess)
	return nil
}

// step moves the session into state, runs fn and reports its outcome as a
// single event tagged with step. On failure the event reads "failMsg: err".
func (s *Sequencer) step(ctx context.Context, step int, state domain.State, failMsg string, fn func(context.Context) (string, error)) error {
	s.update(func(sess *domain.Session) {
		sess.Step = step
		sess.State = state
	})
	s.log.Debug("step started", "step", step, "state", state)

	start := time.Now()
	msg, err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Error("step failed", "step", step, "error", err)
		s.observeStep(step, OutcomeFailure, elapsed)
		s.emit(domain.SeverityError, step, failMsg+": "+err.Error())
		return fmt.Errorf("step %d: %w", step, err)
	}
	s.observeStep(step, OutcomeSuccess, elapsed)
	s.emit(domain.SeveritySuccess, step, msg)
	return nil
}

// Cleanup stops and removes the session's container and closes its tunnel.
// Failures are reported but do not stop the remaining work, and the stored
// identifiers are cleared regardless. With nothing held it makes no
// external calls.
func (s *Sequencer) Cleanup(ctx context.Context) error {
	s.emit(domain.SeverityInfo, 0, "Cleaning up...")

	var containerID, tunnelURL string
	s.update(func(sess *domain.Session) {
		containerID, tunnelURL = sess.ContainerID, sess.TunnelURL
	})

	var errs []error
	if containerID != "" {
		err := s.provisioner.Teardown(ctx, containerID)
		s.update(func(sess *domain.Session) { sess.ContainerID = "" })
		if err != nil {
			errs = append(errs, err)
			s.reportCleanupErrors("container", err)
		} else {
			s.emit(domain.SeverityInfo, 0, "Docker container stopped and removed")
		}
	}

	if tunnelURL != "" {
		err := s.tunnel.Close(ctx)
		s.update(func(sess *domain.Session) { sess.TunnelURL = "" })
		if err != nil {
			err = &domain.CleanupError{Resource: "tunnel", Op: "disconnect", Err: err}
			errs = append(errs, err)
			s.reportCleanupErrors("tunnel", err)
		} else {
			s.emit(domain.SeverityInfo, 0, "Tunnel disconnected")
		}
	}

	if len(errs) > 0 {
		s.emit(domain.SeverityError, 0, "Cleanup finished with errors")
		return errors.Join(errs...)
	}
	s.emit(domain.SeveritySuccess, 0, "Cleanup completed successfully")
	return nil
}

// Snapshot returns a copy of the current session, if any.
func (s *Sequencer) Snapshot() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

func (s *Sequencer) reportCleanupErrors(resource string, err error) {
	// Teardown joins stop and remove failures; report each on its own.
	var list []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		list = joined.Unwrap()
	} else {
		list = []error{err}
	}
	for _, e := range list {
		s.log.Warn("cleanup failed", "resource", resource, "error", e)
		if s.metrics != nil {
			s.metrics.ObserveCleanupError(resource)
		}
		s.emit(domain.SeverityError, 0, "Cleanup error: "+e.Error())
	}
}

func (s *Sequencer) update(fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		fn(s.session)
	}
}

func (s *Sequencer) emit(severity domain.Severity, step int, message string) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(domain.NewEvent(severity, step, message))
}

func (s *Sequencer) observeStep(step int, outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveStep(step, outcome, elapsed)
	}
}

func (s *Sequencer) observeRun(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveRun(outcome)
	}
}
