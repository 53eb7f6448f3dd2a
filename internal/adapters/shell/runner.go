package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
)

// Runner implements ports.CommandRunner with os/exec.
type Runner struct{}

// NewRunner creates a command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts name with args, waits for it to exit and returns its buffered
// output. It fails with a *domain.CommandError when the process cannot be
// spawned or exits non-zero.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (ports.CommandOutput, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := ports.CommandOutput{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	cmdErr := &domain.CommandError{
		Command:  strings.Join(append([]string{name}, args...), " "),
		ExitCode: -1,
		Stderr:   strings.TrimSpace(out.Stderr),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return out, cmdErr
}
