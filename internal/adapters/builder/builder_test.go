package builder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestHeadRevisionOutsideRepository(t *testing.T) {
	rev, err := NewRevision().HeadRevision(t.TempDir())
	if err != nil {
		t.Fatalf("HeadRevision: %v", err)
	}
	if rev != "" {
		t.Fatalf("expected no revision, got %q", rev)
	}
}

func TestHeadRevisionWithoutCommits(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	rev, err := NewRevision().HeadRevision(dir)
	if err != nil {
		t.Fatalf("HeadRevision: %v", err)
	}
	if rev != "" {
		t.Fatalf("expected no revision, got %q", rev)
	}
}

func TestHeadRevisionFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("package.json"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.test", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	sub := filepath.Join(dir, "web")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	rev, err := NewRevision().HeadRevision(sub)
	if err != nil {
		t.Fatalf("HeadRevision: %v", err)
	}
	if rev != hash.String() {
		t.Fatalf("revision = %q, want %q", rev, hash.String())
	}
}
