package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v74/github"

	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/scm"
)

var _ scm.Remote = new(Github)

const publicHost = "github.com"

func init() {
	// Register the GitHub provider factory
	scm.Register(scm.GitHub, New)
}

// New creates a GitHub provider for the bound remote. Hosts other than github.com are
// treated as GitHub Enterprise instances serving the API under /api/v3/.
func New(ctx context.Context, binding *scm.Binding) scm.Remote {
	viper := config.Viper(ctx)

	client := github.NewClient(&http.Client{Timeout: viper.GetDuration(config.HTTPTimeout)})
	if binding.APIKey != "" {
		client = client.WithAuthToken(binding.APIKey)
	}

	if host := strings.ToLower(binding.Host); host != "" && host != publicHost && host != "www."+publicHost {
		scheme := viper.GetString(config.GithubScheme)
		base := fmt.Sprintf("%s://%s/api/v3/", scheme, binding.Endpoint())
		upload := fmt.Sprintf("%s://%s/api/uploads/", scheme, binding.Endpoint())

		enterprise, err := client.WithEnterpriseURLs(base, upload)
		if err != nil {
			log.FromContext(ctx).Sugar().Warnf("invalid enterprise URL %s, using api.github.com: %v", base, err)
		} else {
			client = enterprise
		}
	}

	owner, repo := splitProject(binding.Project)
	if owner == "" || repo == "" {
		owner, repo = splitProject(binding.Path)
	}

	return &Github{
		client:  client,
		binding: binding,
		owner:   owner,
		repo:    repo,
	}
}

// Github represents a provider for the GitHub REST API.
type Github struct {
	client  *github.Client
	binding *scm.Binding

	owner string
	repo  string
}

// Name returns "github"
func (g *Github) Name() string {
	return scm.GitHub
}

// Domain returns the host the API key belongs to.
func (g *Github) Domain() string {
	return g.binding.Host
}

// HasUsefulBranchNames is false: pull requests are fetched through refs/pull/<id>/head,
// which says nothing about the branch they came from.
func (g *Github) HasUsefulBranchNames() bool {
	return false
}

// splitProject separates "owner/repo"; anything else yields empty strings.
func splitProject(project string) (string, string) {
	owner, repo, ok := strings.Cut(strings.Trim(project, "/"), "/")
	if !ok || strings.Contains(repo, "/") {
		return "", ""
	}

	return owner, repo
}

func (g *Github) checkProject() error {
	if g.owner == "" || g.repo == "" {
		return fmt.Errorf("%w: cannot determine owner/repo from %q, set one with --set-project-id", scm.ErrProjectNotConfigured, g.binding.RemoteURL)
	}

	return nil
}
