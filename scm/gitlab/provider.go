package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/scm"
)

var _ scm.Remote = new(Gitlab)

var errNotFound = errors.New("not found")

func init() {
	// Register the GitLab provider factory
	scm.Register(scm.GitLab, New)
}

// New creates a new GitLab provider instance for the bound remote.
func New(ctx context.Context, binding *scm.Binding) scm.Remote {
	viper := config.Viper(ctx)

	return &Gitlab{
		client:  &http.Client{Timeout: viper.GetDuration(config.HTTPTimeout)},
		baseURL: fmt.Sprintf("%s://%s/api/v4", viper.GetString(config.GitlabScheme), binding.Endpoint()),
		binding: binding,
		fetched: make(map[int]*mergeRequest),
	}
}

// Gitlab represents a provider for the GitLab v4 REST API.
type Gitlab struct {
	client  *http.Client
	baseURL string
	binding *scm.Binding

	// open merge requests already fetched during this run, by IID
	fetched map[int]*mergeRequest
}

// Name returns "gitlab"
func (g *Gitlab) Name() string {
	return scm.GitLab
}

// Domain returns the GitLab host the API key belongs to.
func (g *Gitlab) Domain() string {
	return g.binding.Host
}

// HasUsefulBranchNames is always true; merge requests come from named branches.
func (g *Gitlab) HasUsefulBranchNames() bool {
	return true
}

// constructs the URL for an API endpoint; each path segment is escaped on its own,
// so project paths like "group/project" become "group%2Fproject".
func (g *Gitlab) url(query url.Values, path ...string) string {
	segments := make([]string, len(path))
	for i, segment := range path {
		segments[i] = url.PathEscape(segment)
	}

	uri := g.baseURL + "/" + strings.Join(segments, "/")
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	return uri
}

// convenience function to perform a GET request and unmarshal the response into the specified type.
func get[T any](ctx context.Context, g *Gitlab, uri string) (*T, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	return do[T](g, req)
}

// convenience function to perform an authenticated HTTP request and unmarshal the response into the specified type.
func do[T any](g *Gitlab, req *http.Request) (*T, http.Header, error) {
	if g.binding.APIKey == "" {
		return nil, nil, fmt.Errorf("%w: no API key set for %s (use --set-domain-key)", scm.ErrAuthentication, g.binding.Host)
	}

	req.Header.Set("PRIVATE-TOKEN", g.binding.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request to %s failed: %w", req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil, fmt.Errorf("%w: %s rejected the API key (%s)", scm.ErrAuthentication, g.binding.Host, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil, errNotFound
	case resp.StatusCode >= http.StatusMultipleChoices:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("unexpected response from %s: %s: %s", req.URL.Redacted(), resp.Status, strings.TrimSpace(string(body)))
	}

	output := new(T)
	if err := json.NewDecoder(resp.Body).Decode(output); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response from %s: %w", req.URL.Redacted(), err)
	}

	return output, resp.Header, nil
}
