package ports

import "context"

// CommandOutput is the buffered output of a finished command.
type CommandOutput struct {
	Stdout string
	Stderr string
}

// CommandRunner executes one external process and waits for it to exit.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandOutput, error)
}
