package docker

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/melih/lighthouse-expose/internal/core/ports"
)

// CLI implements ports.ContainerRuntime by shelling out to the docker binary.
type CLI struct {
	runner ports.CommandRunner
	binary string
}

// NewCLI creates a runtime that runs "docker" through runner.
func NewCLI(runner ports.CommandRunner) *CLI {
	return &CLI{runner: runner, binary: "docker"}
}

func (c *CLI) Ping(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, c.binary, "info"); err != nil {
		return fmt.Errorf("failed to reach docker daemon: %w", err)
	}
	return nil
}

func (c *CLI) BuildImage(ctx context.Context, dir, tag string, labels map[string]string) error {
	args := []string{"build", "-t", tag}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", k+"="+labels[k])
	}
	args = append(args, dir)

	if _, err := c.runner.Run(ctx, c.binary, args...); err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	return nil
}

// RunContainer returns the stdout of "docker run -d", whose first line is
// the container ID.
func (c *CLI) RunContainer(ctx context.Context, image string, hostPort, containerPort int) (string, error) {
	publish := strconv.Itoa(hostPort) + ":" + strconv.Itoa(containerPort)
	out, err := c.runner.Run(ctx, c.binary, "run", "-d", "-p", publish, image)
	if err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}
	return out.Stdout, nil
}

func (c *CLI) StopContainer(ctx context.Context, id string) error {
	if _, err := c.runner.Run(ctx, c.binary, "stop", id); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

func (c *CLI) RemoveContainer(ctx context.Context, id string) error {
	if _, err := c.runner.Run(ctx, c.binary, "rm", id); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}
