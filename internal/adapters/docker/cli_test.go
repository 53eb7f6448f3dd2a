package docker

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
	"github.com/melih/lighthouse-expose/internal/testutil"
)

func TestCLICommands(t *testing.T) {
	runner := &testutil.FakeRunner{
		Outputs: map[string]ports.CommandOutput{
			"run": {Stdout: "4b1d0e\n"},
		},
	}
	cli := NewCLI(runner)
	ctx := context.Background()

	if err := cli.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	labels := map[string]string{"b": "2", "a": "1"}
	if err := cli.BuildImage(ctx, ".", domain.ImageTag, labels); err != nil {
		t.Fatalf("BuildImage: %v", err)
	}
	out, err := cli.RunContainer(ctx, domain.ImageTag, domain.HostPort, domain.ContainerPort)
	if err != nil {
		t.Fatalf("RunContainer: %v", err)
	}
	if out != "4b1d0e\n" {
		t.Fatalf("run output = %q", out)
	}
	if err := cli.StopContainer(ctx, "4b1d0e"); err != nil {
		t.Fatalf("StopContainer: %v", err)
	}
	if err := cli.RemoveContainer(ctx, "4b1d0e"); err != nil {
		t.Fatalf("RemoveContainer: %v", err)
	}

	want := [][]string{
		{"docker", "info"},
		{"docker", "build", "-t", "react-app", "--label", "a=1", "--label", "b=2", "."},
		{"docker", "run", "-d", "-p", "3003:3000", "react-app"},
		{"docker", "stop", "4b1d0e"},
		{"docker", "rm", "4b1d0e"},
	}
	if !reflect.DeepEqual(runner.Calls, want) {
		t.Fatalf("calls = %v\nwant %v", runner.Calls, want)
	}
}

func TestCLIPingFailure(t *testing.T) {
	cmdErr := &domain.CommandError{Command: "docker info", ExitCode: 1, Stderr: "Cannot connect to the Docker daemon"}
	cli := NewCLI(&testutil.FakeRunner{Errors: map[string]error{"info": cmdErr}})

	err := cli.Ping(context.Background())
	var got *domain.CommandError
	if !errors.As(err, &got) || got != cmdErr {
		t.Fatalf("expected wrapped CommandError, got %v", err)
	}
}
