package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
)

// RevisionLabel is the image label carrying the build context's commit.
const RevisionLabel = "org.opencontainers.image.revision"

// Provisioner implements ports.Provisioner on top of a ContainerRuntime.
type Provisioner struct {
	runtime  ports.ContainerRuntime
	revision ports.RevisionSource // optional
	buildDir string
	log      *slog.Logger
}

// NewProvisioner creates a provisioner that writes its recipe into buildDir.
func NewProvisioner(runtime ports.ContainerRuntime, revision ports.RevisionSource, buildDir string, log *slog.Logger) *Provisioner {
	if buildDir == "" {
		buildDir = "."
	}
	return &Provisioner{runtime: runtime, revision: revision, buildDir: buildDir, log: log}
}

// Provision writes the recipe, builds the image and starts a container from
// it. The recipe file is overwritten on every call and the image tag and host
// port are fixed, so a second call without Teardown may collide.
func (p *Provisioner) Provision(ctx context.Context, descriptor domain.BuildDescriptor) (string, error) {
	recipe := filepath.Join(p.buildDir, domain.RecipeFile)
	if err := os.WriteFile(recipe, []byte(descriptor.Render()), 0o644); err != nil {
		return "", &domain.ProvisionError{Phase: domain.PhaseWriteRecipe, Err: err}
	}
	p.log.Info("wrote build recipe", "path", recipe)

	if err := p.runtime.BuildImage(ctx, p.buildDir, domain.ImageTag, p.labels()); err != nil {
		return "", &domain.ProvisionError{Phase: domain.PhaseBuild, Err: err}
	}
	p.log.Info("built image", "tag", domain.ImageTag)

	out, err := p.runtime.RunContainer(ctx, domain.ImageTag, domain.HostPort, descriptor.ExposedPort)
	if err != nil {
		return "", &domain.ProvisionError{Phase: domain.PhaseRun, Err: err}
	}

	id := firstLine(out)
	if id == "" {
		return "", &domain.ProvisionError{Phase: domain.PhaseParseID, Err: fmt.Errorf("no container id in run output")}
	}
	p.log.Info("container started", "container_id", id, "host_port", domain.HostPort)
	return id, nil
}

// Teardown stops then removes the container. Remove is attempted even when
// stop fails; every failure is returned as a CleanupError.
func (p *Provisioner) Teardown(ctx context.Context, containerID string) error {
	var errs []error
	if err := p.runtime.StopContainer(ctx, containerID); err != nil {
		errs = append(errs, &domain.CleanupError{Resource: "container", Op: "stop", Err: err})
	}
	if err := p.runtime.RemoveContainer(ctx, containerID); err != nil {
		errs = append(errs, &domain.CleanupError{Resource: "container", Op: "remove", Err: err})
	}
	return errors.Join(errs...)
}

func (p *Provisioner) labels() map[string]string {
	if p.revision == nil {
		return nil
	}
	rev, err := p.revision.HeadRevision(p.buildDir)
	if err != nil {
		p.log.Warn("could not resolve build revision", "error", err)
		return nil
	}
	if rev == "" {
		return nil
	}
	return map[string]string{RevisionLabel: rev}
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
