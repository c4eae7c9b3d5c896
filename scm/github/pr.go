package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/ryclarke/git-req/scm"
)

const (
	stateOpen = "open"
	pageSize  = 100
)

// Requests lists the open pull requests of the repository, following pagination.
func (g *Github) Requests(ctx context.Context) ([]scm.Request, error) {
	if err := g.checkProject(); err != nil {
		return nil, err
	}

	opts := &github.PullRequestListOptions{
		State:       stateOpen,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	output := make([]scm.Request, 0)

	for {
		prs, resp, err := g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, g.wrapError(err, "failed to list pull requests")
		}

		for _, pr := range prs {
			output = append(output, parsePR(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return output, nil
}

// RemoteBranch returns the pull request head ref, refs/pull/<id>/head, after checking the request is open.
// The head ref is used over the source branch so pull requests from forks work too.
func (g *Github) RemoteBranch(ctx context.Context, id int) (string, error) {
	if _, err := g.pullRequest(ctx, id); err != nil {
		return "", err
	}

	return "refs/pull/" + strconv.Itoa(id) + "/head", nil
}

// LocalBranch returns pr/<id>. The name depends on the ID alone, so no request is made.
func (g *Github) LocalBranch(_ context.Context, id int) (string, error) {
	return "pr/" + strconv.Itoa(id), nil
}

func (g *Github) pullRequest(ctx context.Context, id int) (*github.PullRequest, error) {
	if err := g.checkProject(); err != nil {
		return nil, err
	}

	pr, _, err := g.client.PullRequests.Get(ctx, g.owner, g.repo, id)
	if err != nil {
		return nil, g.wrapError(err, fmt.Sprintf("failed to get pull request #%d", id))
	}

	if pr.GetState() != stateOpen {
		return nil, fmt.Errorf("%w: #%d is %s", scm.ErrRequestNotFound, id, pr.GetState())
	}

	return pr, nil
}

// wrapError maps API failures onto the typed errors callers check for.
func (g *Github) wrapError(err error, msg string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: rate limit for %s exceeded until %s (set a key with --set-domain-key)",
			scm.ErrAuthentication, g.binding.Host, rateErr.Rate.Reset.Format(time.Kitchen))
	}

	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return fmt.Errorf("%s: %w", msg, err)
	}

	switch errResp.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %s", scm.ErrAuthentication, g.binding.Host, errResp.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s in %s/%s", scm.ErrRequestNotFound, msg, g.owner, g.repo)
	}

	return fmt.Errorf("%s: %w", msg, err)
}

func parsePR(pr *github.PullRequest) scm.Request {
	return scm.Request{
		ID:           pr.GetNumber(),
		SourceBranch: pr.GetHead().GetRef(),
		Title:        pr.GetTitle(),
	}
}
