package scm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ryclarke/git-req/config"
)

const (
	GitHub = "github"
	GitLab = "gitlab"
)

var githubHosts = mapset.NewSet("github.com", "www.github.com")

// Detect determines which provider serves the given remote URL.
// Configured host overrides win over the built-in host signatures.
func Detect(ctx context.Context, remoteURL string) (string, error) {
	host := Host(remoteURL)
	if host == "" {
		return "", fmt.Errorf("%w: cannot determine host of %q", ErrProviderNotRecognized, remoteURL)
	}

	overrides := config.Viper(ctx).GetStringMapString(config.ProviderHosts)
	if name, ok := overrides[host]; ok {
		return strings.ToLower(name), nil
	}

	switch {
	case githubHosts.Contains(host):
		return GitHub, nil
	case strings.Contains(host, "gitlab"):
		return GitLab, nil
	}

	return "", fmt.Errorf("%w: %s", ErrProviderNotRecognized, host)
}

// Host extracts the lowercase hostname from a git remote URL.
// Handles scp-like syntax (git@host:path) as well as ssh://, git:// and http(s):// URLs.
func Host(remoteURL string) string {
	host, _ := parseRemote(remoteURL)
	return host
}

// APIHost returns the host[:port] a provider API is reached at. Ports of http(s) remotes are kept,
// since a self-hosted instance serves its API alongside the repositories; other transports use Host.
func APIHost(remoteURL string) string {
	remoteURL = strings.TrimSpace(remoteURL)

	if parsed, err := url.Parse(remoteURL); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return strings.ToLower(parsed.Host)
	}

	return Host(remoteURL)
}

// ProjectPath extracts the repository path from a git remote URL without the .git suffix,
// e.g. "git@gitlab.com:group/subgroup/project.git" -> "group/subgroup/project".
func ProjectPath(remoteURL string) string {
	_, path := parseRemote(remoteURL)
	return path
}

func parseRemote(remoteURL string) (string, string) {
	remoteURL = strings.TrimSpace(remoteURL)

	if strings.Contains(remoteURL, "://") {
		parsed, err := url.Parse(remoteURL)
		if err != nil {
			return "", ""
		}

		return strings.ToLower(parsed.Hostname()), cleanPath(parsed.Path)
	}

	// scp-like syntax: [user@]host:path
	if idx := strings.Index(remoteURL, ":"); idx > 0 && !strings.Contains(remoteURL[:idx], "/") {
		host := remoteURL[:idx]
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}

		return strings.ToLower(host), cleanPath(remoteURL[idx+1:])
	}

	return "", ""
}

func cleanPath(path string) string {
	return strings.TrimSuffix(strings.Trim(path, "/"), ".git")
}
