package domain

import (
	"errors"
	"fmt"
)

// ErrSessionActive is returned when a start is requested while a session is
// still running or still holds a container or tunnel.
var ErrSessionActive = errors.New("a session is already active; clean it up first")

// CommandError reports a subprocess that could not be spawned or exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int // -1 when the process never ran
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed (exit %d): %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q failed (exit %d): %v", e.Command, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// InvalidURLError reports a local URL that is not an absolute URL with a usable port.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// Provisioning phases.
const (
	PhaseWriteRecipe = "write-recipe"
	PhaseBuild       = "build"
	PhaseRun         = "run"
	PhaseParseID     = "parse-id"
)

// ProvisionError reports the container provisioning phase that failed.
type ProvisionError struct {
	Phase string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// TunnelError reports a tunnel authentication or connect failure.
type TunnelError struct {
	Err error
}

func (e *TunnelError) Error() string {
	return fmt.Sprintf("tunnel: %v", e.Err)
}

func (e *TunnelError) Unwrap() error { return e.Err }

// CleanupError reports a non-fatal failure while releasing a resource.
type CleanupError struct {
	Resource string // "container" or "tunnel"
	Op       string
	Err      error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
