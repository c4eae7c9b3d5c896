// Package checkout switches the local repository to the branch behind a hosted request.
package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/scm"
)

// Engine performs the local git side of a checkout.
type Engine interface {
	// CheckoutBranch fetches remoteBranch from remoteName and switches the working tree to localBranch.
	CheckoutBranch(ctx context.Context, remoteName, remoteBranch, localBranch string) error
}

// Run resolves the branch of request id on the provider and switches to it, returning the local branch name.
// Resolution errors are returned as they come from the provider; anything after that wraps scm.ErrCheckoutFailed.
func Run(ctx context.Context, remote scm.Remote, engine Engine, remoteName string, id int) (string, error) {
	logger := log.FromContext(ctx).With(zap.String("provider", remote.Name()), zap.Int("request", id))

	logger.Debug("resolving remote branch")

	remoteBranch, err := remote.RemoteBranch(ctx, id)
	if err != nil {
		return "", err
	}

	localBranch, err := remote.LocalBranch(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	logger.Debug("switching branch", zap.String("remote", remoteBranch), zap.String("local", localBranch))

	if err := engine.CheckoutBranch(ctx, remoteName, remoteBranch, localBranch); err != nil {
		return "", fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	logger.Info("checked out request", zap.String("branch", localBranch))

	return localBranch, nil
}
