// Package git implements the repository collaborator for git-req on top of go-git:
// remote lookup, the git-config backed settings store, and branch checkout.
package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"github.com/ryclarke/git-req/scm"
)

// Repo wraps a local git repository.
type Repo struct {
	repo *gogit.Repository

	// token is used as the HTTP basic auth password when fetching over http(s).
	token string
}

// Open opens the repository containing path, searching parent directories for the .git directory.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}

	return New(repo), nil
}

// New wraps an already opened repository.
func New(repo *gogit.Repository) *Repo {
	return &Repo{repo: repo}
}

// SetToken sets the API key to authenticate http(s) fetches with.
func (r *Repo) SetToken(token string) {
	r.token = token
}

// RemoteURL returns the first URL configured for the named remote.
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return "", fmt.Errorf("%w: %s", scm.ErrRemoteNotConfigured, name)
	} else if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s has no URL", scm.ErrRemoteNotConfigured, name)
	}

	return urls[0], nil
}
