package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/scm"
	"github.com/ryclarke/git-req/store"
)

const (
	stateOpened = "opened"
	pageSize    = "100"
)

type mergeRequest struct {
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	SourceBranch string `json:"source_branch"`
	State        string `json:"state"`
}

type project struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
}

// Requests lists the open merge requests of the project, following pagination.
func (g *Gitlab) Requests(ctx context.Context) ([]scm.Request, error) {
	projectID, err := g.project(ctx)
	if err != nil {
		return nil, err
	}

	output := make([]scm.Request, 0)

	for page := "1"; page != ""; {
		query := url.Values{}
		query.Set("state", stateOpened)
		query.Set("per_page", pageSize)
		query.Set("page", page)

		mrs, header, err := get[[]mergeRequest](ctx, g, g.url(query, "projects", projectID, "merge_requests"))
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: project %s not found on %s", scm.ErrProjectNotConfigured, projectID, g.binding.Host)
		} else if err != nil {
			return nil, fmt.Errorf("failed to list merge requests: %w", err)
		}

		for _, mr := range *mrs {
			output = append(output, scm.Request{ID: mr.IID, SourceBranch: mr.SourceBranch, Title: mr.Title})
		}

		page = header.Get("X-Next-Page")
	}

	return output, nil
}

// RemoteBranch returns the source branch of the open merge request with the given IID.
func (g *Gitlab) RemoteBranch(ctx context.Context, id int) (string, error) {
	mr, err := g.mergeRequest(ctx, id)
	if err != nil {
		return "", err
	}

	return mr.SourceBranch, nil
}

// LocalBranch is the same as the remote branch; GitLab branch names are already meaningful.
// A request already resolved by RemoteBranch is not fetched again.
func (g *Gitlab) LocalBranch(ctx context.Context, id int) (string, error) {
	return g.RemoteBranch(ctx, id)
}

func (g *Gitlab) mergeRequest(ctx context.Context, id int) (*mergeRequest, error) {
	if mr, ok := g.fetched[id]; ok {
		return mr, nil
	}

	projectID, err := g.project(ctx)
	if err != nil {
		return nil, err
	}

	mr, _, err := get[mergeRequest](ctx, g, g.url(nil, "projects", projectID, "merge_requests", strconv.Itoa(id)))
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("%w: !%d in project %s", scm.ErrRequestNotFound, id, projectID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get merge request !%d: %w", id, err)
	}

	if mr.State != stateOpened {
		return nil, fmt.Errorf("%w: !%d is %s", scm.ErrRequestNotFound, id, mr.State)
	}

	g.fetched[id] = mr

	return mr, nil
}

// project returns the stored project ID, or looks the project up by its path and stores the result.
func (g *Gitlab) project(ctx context.Context) (string, error) {
	if g.binding.Project != "" {
		return g.binding.Project, nil
	}

	if g.binding.Path == "" {
		return "", fmt.Errorf("%w: set one with --set-project-id", scm.ErrProjectNotConfigured)
	}

	p, _, err := get[project](ctx, g, g.url(nil, "projects", g.binding.Path))
	if errors.Is(err, scm.ErrAuthentication) {
		return "", err
	} else if err != nil {
		return "", fmt.Errorf("%w: lookup of %s failed, set one with --set-project-id: %w", scm.ErrProjectNotConfigured, g.binding.Path, err)
	}

	g.binding.Project = strconv.Itoa(p.ID)

	logger := log.FromContext(ctx).Sugar()
	logger.Infof("found project ID %s for %s", g.binding.Project, p.PathWithNamespace)

	if g.binding.Store != nil {
		// not fatal: the lookup is simply repeated next time
		if err := g.binding.Store.Set(store.RemoteScope, g.binding.RemoteName, store.ProjectID, g.binding.Project); err != nil {
			logger.Warnf("failed to save project ID: %v", err)
		}
	}

	return g.binding.Project, nil
}
