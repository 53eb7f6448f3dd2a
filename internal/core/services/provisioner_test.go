package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/testutil"
)

type staticRevision struct {
	rev string
	err error
}

func (s staticRevision) HeadRevision(string) (string, error) { return s.rev, s.err }

func TestProvisionWritesRecipeAndParsesID(t *testing.T) {
	dir := t.TempDir()
	recipe := filepath.Join(dir, domain.RecipeFile)
	if err := os.WriteFile(recipe, []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatalf("seed recipe: %v", err)
	}

	rt := &testutil.FakeRuntime{RunOutput: "  3f2a9c1d\nWARNING: ignored\n"}
	p := NewProvisioner(rt, staticRevision{rev: "abc123"}, dir, testutil.DiscardLogger())

	id, err := p.Provision(context.Background(), domain.DefaultDescriptor())
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if id != "3f2a9c1d" {
		t.Fatalf("container id = %q, want first output line", id)
	}

	data, err := os.ReadFile(recipe)
	if err != nil {
		t.Fatalf("read recipe: %v", err)
	}
	if string(data) != domain.DefaultDescriptor().Render() {
		t.Fatalf("recipe was not overwritten:\n%s", data)
	}
	if rt.Count("build react-app") != 1 || rt.Count("run react-app 3003:3000") != 1 {
		t.Fatalf("unexpected runtime calls: %v", rt.Calls)
	}
	if rt.Labels[RevisionLabel] != "abc123" {
		t.Fatalf("revision label = %q", rt.Labels[RevisionLabel])
	}
}

func TestProvisionPhases(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name  string
		dir   string
		rt    *testutil.FakeRuntime
		phase string
	}{
		{"recipe", filepath.Join(t.TempDir(), "missing", "dir"), &testutil.FakeRuntime{}, domain.PhaseWriteRecipe},
		{"build", t.TempDir(), &testutil.FakeRuntime{BuildErr: boom}, domain.PhaseBuild},
		{"run", t.TempDir(), &testutil.FakeRuntime{RunErr: boom}, domain.PhaseRun},
		{"parse", t.TempDir(), &testutil.FakeRuntime{RunOutput: "\n \n"}, domain.PhaseParseID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProvisioner(tc.rt, nil, tc.dir, testutil.DiscardLogger())
			_, err := p.Provision(context.Background(), domain.DefaultDescriptor())
			var perr *domain.ProvisionError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProvisionError, got %v", err)
			}
			if perr.Phase != tc.phase {
				t.Fatalf("phase = %q, want %q", perr.Phase, tc.phase)
			}
		})
	}
}

func TestProvisionSkipsLabelWithoutRevision(t *testing.T) {
	rt := &testutil.FakeRuntime{RunOutput: "id\n"}
	p := NewProvisioner(rt, staticRevision{err: errors.New("broken repo")}, t.TempDir(), testutil.DiscardLogger())
	if _, err := p.Provision(context.Background(), domain.DefaultDescriptor()); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if rt.Labels != nil {
		t.Fatalf("expected no labels, got %v", rt.Labels)
	}
}

func TestTeardownRemovesAfterFailedStop(t *testing.T) {
	rt := &testutil.FakeRuntime{StopErr: errors.New("no such container")}
	p := NewProvisioner(rt, nil, t.TempDir(), testutil.DiscardLogger())

	err := p.Teardown(context.Background(), "abc")
	var cerr *domain.CleanupError
	if !errors.As(err, &cerr) || cerr.Op != "stop" {
		t.Fatalf("expected stop CleanupError, got %v", err)
	}
	if rt.Count("rm abc") != 1 {
		t.Fatalf("remove was not attempted: %v", rt.Calls)
	}
}
