package cmd

import (
	"context"

	"github.com/ryclarke/git-req/checkout"
	"github.com/ryclarke/git-req/git"
	"github.com/ryclarke/git-req/store"
)

// Repository is the local repository git-req operates on.
type Repository interface {
	store.Store
	checkout.Engine

	// RemoteURL returns the URL of the named remote.
	RemoteURL(name string) (string, error)
	// SetToken sets the credentials used when fetching over http(s).
	SetToken(token string)
}

var _ Repository = new(git.Repo)

type repoKey struct{}

// WithRepository sets the repository for commands run with ctx. Without one, the repository
// containing the working directory is opened.
func WithRepository(ctx context.Context, repo Repository) context.Context {
	return context.WithValue(ctx, repoKey{}, repo)
}

func repository(ctx context.Context) (Repository, error) {
	if repo, ok := ctx.Value(repoKey{}).(Repository); ok {
		return repo, nil
	}

	repo, err := git.Open(".")
	if err != nil {
		return nil, err
	}

	return repo, nil
}
