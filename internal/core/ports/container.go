package ports

import (
	"context"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// ContainerRuntime defines the container operations the provisioner needs.
// This interface allows us to drive either the docker CLI or the Docker SDK
// without changing the sequencing logic.
type ContainerRuntime interface {
	// Ping verifies the runtime daemon is reachable.
	Ping(ctx context.Context) error
	// BuildImage builds dir into an image tagged tag, applying labels.
	BuildImage(ctx context.Context, dir, tag string, labels map[string]string) error
	// RunContainer starts a detached container from image publishing
	// hostPort to containerPort. It returns the runtime's raw output; the
	// container ID is on its first line.
	RunContainer(ctx context.Context, image string, hostPort, containerPort int) (string, error)
	StopContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string) error
}

// Provisioner materializes the build recipe and starts a container from it.
type Provisioner interface {
	Provision(ctx context.Context, descriptor domain.BuildDescriptor) (string, error)
	Teardown(ctx context.Context, containerID string) error
}
