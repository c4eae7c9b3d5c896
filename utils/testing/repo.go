package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo creates a repository in a temporary directory with one commit on master
// and an "origin" remote pointing at remoteURL (skipped when empty).
func InitRepo(t *testing.T, remoteURL string) (*gogit.Repository, string) {
	t.Helper()

	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}

	if remoteURL != "" {
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteURL}}); err != nil {
			t.Fatalf("Failed to create remote: %v", err)
		}
	}

	Commit(t, repo, "README.md", "hello\n", "initial commit")

	return repo, dir
}

// Commit writes file with content, stages it and commits on the current branch.
func Commit(t *testing.T, repo *gogit.Repository, file, content, msg string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to open worktree: %v", err)
	}

	WriteFile(t, repo, file, content)

	if _, err := wt.Add(file); err != nil {
		t.Fatalf("Failed to stage %s: %v", file, err)
	}

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	return hash
}

// WriteFile writes content to file inside the worktree without staging it.
func WriteFile(t *testing.T, repo *gogit.Repository, file, content string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to open worktree: %v", err)
	}

	if err := os.WriteFile(filepath.Join(wt.Filesystem.Root(), file), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", file, err)
	}
}

// RemoteCommit creates a commit on top of HEAD that is only reachable from ref,
// leaving HEAD and the worktree where they were. It simulates a fetched remote branch.
func RemoteCommit(t *testing.T, repo *gogit.Repository, ref plumbing.ReferenceName, file, content string) plumbing.Hash {
	t.Helper()

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to read HEAD: %v", err)
	}

	hash := Commit(t, repo, file, content, "remote change to "+file)

	if err := repo.Storer.SetReference(plumbing.NewHashReference(ref, hash)); err != nil {
		t.Fatalf("Failed to set %s: %v", ref, err)
	}

	wt, _ := repo.Worktree()
	if err := wt.Reset(&gogit.ResetOptions{Commit: head.Hash(), Mode: gogit.HardReset}); err != nil {
		t.Fatalf("Failed to reset worktree: %v", err)
	}

	return hash
}
