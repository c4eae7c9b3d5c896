package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/scm"
)

// basic auth user for token based fetches; hosting providers only check the password
const tokenUser = "git-req"

// CheckoutBranch fetches remoteBranch from the named remote, points localBranch at it and switches
// the working tree to localBranch. An existing local branch is only fast-forwarded, never reset.
func (r *Repo) CheckoutBranch(ctx context.Context, remoteName, remoteBranch, localBranch string) error {
	if err := r.fetch(ctx, remoteName, remoteBranch); err != nil {
		return err
	}

	return r.switchBranch(ctx, remoteName, remoteBranch, localBranch)
}

// sourceRef qualifies a branch name on the remote side; names already under refs/ are used as given.
func sourceRef(remoteBranch string) plumbing.ReferenceName {
	if strings.HasPrefix(remoteBranch, "refs/") {
		return plumbing.ReferenceName(remoteBranch)
	}

	return plumbing.NewBranchReferenceName(remoteBranch)
}

// trackingRef is where the fetched branch is stored locally, e.g. refs/remotes/origin/feature/login.
func trackingRef(remoteName, remoteBranch string) plumbing.ReferenceName {
	return plumbing.NewRemoteReferenceName(remoteName, strings.TrimPrefix(remoteBranch, "refs/"))
}

func (r *Repo) fetch(ctx context.Context, remoteName, remoteBranch string) error {
	spec := config.RefSpec(fmt.Sprintf("+%s:%s", sourceRef(remoteBranch), trackingRef(remoteName, remoteBranch)))

	log.FromContext(ctx).Debug("fetching", zap.String("remote", remoteName), zap.String("refspec", spec.String()))

	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{spec},
		Tags:       gogit.NoTags,
		Auth:       r.auth(remoteName),
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: failed to fetch %s from %s: %w", scm.ErrCheckoutFailed, remoteBranch, remoteName, err)
	}

	return nil
}

// auth returns token credentials for http(s) remotes; other transports use their own defaults (e.g. ssh-agent).
func (r *Repo) auth(remoteName string) transport.AuthMethod {
	if r.token == "" {
		return nil
	}

	url, err := r.RemoteURL(remoteName)
	if err != nil || !(strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")) {
		return nil
	}

	return &githttp.BasicAuth{Username: tokenUser, Password: r.token}
}

func (r *Repo) switchBranch(ctx context.Context, remoteName, remoteBranch, localBranch string) error {
	logger := log.FromContext(ctx)

	remoteRef, err := r.repo.Reference(trackingRef(remoteName, remoteBranch), true)
	if err != nil {
		return fmt.Errorf("%w: remote branch %s/%s is not available: %w", scm.ErrCheckoutFailed, remoteName, remoteBranch, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	target, err := r.repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	tree, err := target.Tree()
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	if err := ensureClean(wt, tree); err != nil {
		return err
	}

	localRef := plumbing.NewBranchReferenceName(localBranch)
	if err := localRef.Validate(); err != nil {
		return fmt.Errorf("%w: invalid branch name %q: %w", scm.ErrCheckoutFailed, localBranch, err)
	}

	existing, err := r.repo.Reference(localRef, true)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		logger.Debug("creating branch", zap.String("branch", localBranch), zap.Stringer("commit", remoteRef.Hash()))

		if err := r.repo.Storer.SetReference(plumbing.NewHashReference(localRef, remoteRef.Hash())); err != nil {
			return fmt.Errorf("%w: failed to create branch %s: %w", scm.ErrCheckoutFailed, localBranch, err)
		}
	case err != nil:
		return fmt.Errorf("%w: failed to read branch %s: %w", scm.ErrCheckoutFailed, localBranch, err)
	case existing.Hash() != remoteRef.Hash():
		if err := r.fastForward(localRef, existing.Hash(), remoteRef.Hash()); err != nil {
			return err
		}

		logger.Debug("fast-forwarded branch", zap.String("branch", localBranch), zap.Stringer("commit", remoteRef.Hash()))
	}

	if err := r.track(remoteName, remoteBranch, localBranch); err != nil {
		return err
	}

	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: localRef}); err != nil {
		return fmt.Errorf("%w: failed to switch to %s: %w", scm.ErrCheckoutFailed, localBranch, err)
	}

	return nil
}

// fastForward moves ref from one commit to a descendant; diverged history is a name collision.
func (r *Repo) fastForward(ref plumbing.ReferenceName, from, to plumbing.Hash) error {
	local, err := r.repo.CommitObject(from)
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	remote, err := r.repo.CommitObject(to)
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	ok, err := local.IsAncestor(remote)
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	} else if !ok {
		return fmt.Errorf("%w: local branch %s already exists and has diverged", scm.ErrCheckoutFailed, ref.Short())
	}

	if err := r.repo.Storer.CheckAndSetReference(plumbing.NewHashReference(ref, to), plumbing.NewHashReference(ref, from)); err != nil {
		return fmt.Errorf("%w: failed to update %s: %w", scm.ErrCheckoutFailed, ref.Short(), err)
	}

	return nil
}

// track records the upstream of localBranch. Merge refs outside refs/heads cannot be expressed
// in branch config, so only the remote is recorded for them.
func (r *Repo) track(remoteName, remoteBranch, localBranch string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("%w: %w", scm.ErrCheckoutFailed, err)
	}

	branch := &config.Branch{Name: localBranch, Remote: remoteName}
	if src := sourceRef(remoteBranch); src.IsBranch() {
		branch.Merge = src
	}

	cfg.Branches[localBranch] = branch

	if err := r.repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("%w: failed to set upstream of %s: %w", scm.ErrCheckoutFailed, localBranch, err)
	}

	return nil
}

// ensureClean refuses to switch when tracked files have staged or unstaged changes, or when an
// untracked file would be overwritten by a file of the target tree. Other untracked files are fine.
func ensureClean(wt *gogit.Worktree, target *object.Tree) error {
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("%w: failed to read worktree status: %w", scm.ErrCheckoutFailed, err)
	}

	for path, file := range status {
		if file.Staging == gogit.Untracked && file.Worktree == gogit.Untracked {
			if _, err := target.FindEntry(path); err == nil {
				return fmt.Errorf("%w: untracked file %s would be overwritten; move or remove it first", scm.ErrCheckoutFailed, path)
			}

			continue
		}

		if file.Staging != gogit.Unmodified || file.Worktree != gogit.Unmodified {
			return fmt.Errorf("%w: working tree has local changes (%s); commit or stash them first", scm.ErrCheckoutFailed, path)
		}
	}

	return nil
}
