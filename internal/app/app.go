// Package app wires the adapters into a provisioning sequencer.
package app

import (
	"fmt"
	"log/slog"

	"github.com/melih/lighthouse-expose/internal/adapters/builder"
	"github.com/melih/lighthouse-expose/internal/adapters/docker"
	"github.com/melih/lighthouse-expose/internal/adapters/probe"
	"github.com/melih/lighthouse-expose/internal/adapters/shell"
	"github.com/melih/lighthouse-expose/internal/adapters/tunnel"
	"github.com/melih/lighthouse-expose/internal/config"
	"github.com/melih/lighthouse-expose/internal/core/ports"
	"github.com/melih/lighthouse-expose/internal/core/services"
)

// NewRuntime returns the container runtime selected by cfg.Runtime and a
// func releasing its resources.
func NewRuntime(cfg *config.Config) (ports.ContainerRuntime, func() error, error) {
	switch cfg.Runtime {
	case config.RuntimeSDK:
		adapter, err := docker.NewAdapter(cfg.DockerHost)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil
	case config.RuntimeCLI, "":
		return docker.NewCLI(shell.NewRunner()), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown runtime %q", cfg.Runtime)
	}
}

// NewSequencer builds a sequencer from cfg reporting to sink. metrics may
// be nil.
func NewSequencer(cfg *config.Config, sink ports.StatusSink, metrics ports.MetricsRecorder, log *slog.Logger) (*services.Sequencer, func() error, error) {
	runtime, closeRuntime, err := NewRuntime(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.NgrokAuthtoken == "" {
		log.Warn("no ngrok auth token configured; tunnels will fail", "config", config.ConfigPath())
	}

	seq := services.NewSequencer(services.Dependencies{
		Runtime:     runtime,
		Prober:      probe.New(),
		Provisioner: services.NewProvisioner(runtime, builder.NewRevision(), cfg.BuildDir, log),
		Tunnel:      tunnel.NewManager(cfg.NgrokAuthtoken, log),
		Sink:        sink,
		Metrics:     metrics,
	}, log)
	return seq, closeRuntime, nil
}
