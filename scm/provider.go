package scm

import (
	"context"
	"fmt"

	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/store"
)

var providerFactories = make(map[string]ProviderFactory)

// ProviderFactory constructs a Remote for a resolved remote binding.
type ProviderFactory func(ctx context.Context, binding *Binding) Remote

// Remote defines the interface for hosting provider clients.
type Remote interface {
	// Name returns the provider name, e.g. "gitlab".
	Name() string

	// Requests lists the open requests for the bound project, in the provider's order.
	Requests(ctx context.Context) ([]Request, error)
	// RemoteBranch resolves the provider's source branch name for the given request.
	RemoteBranch(ctx context.Context, id int) (string, error)
	// LocalBranch derives the branch name to use locally for the given request.
	LocalBranch(ctx context.Context, id int) (string, error)

	// Domain returns the host the client authenticates against; API keys are stored per domain.
	Domain() string
	// HasUsefulBranchNames reports whether remote branch names are meaningful to a human.
	HasUsefulBranchNames() bool
}

// Binding carries everything a provider needs to know about the remote it serves.
type Binding struct {
	RemoteName string
	RemoteURL  string
	Host       string
	// APIHost is the host[:port] serving the provider API, see Endpoint.
	APIHost string
	// Path is the repository path parsed from the remote URL, e.g. "group/project".
	Path string
	// Project is the stored project ID for the remote, empty when unset.
	Project string
	// APIKey is the stored key for Host, empty when unset or not requested.
	APIKey string
	// Store allows providers to persist discovered settings.
	Store store.Store
}

// Endpoint returns the host[:port] to address API calls to, falling back to Host.
func (b *Binding) Endpoint() string {
	if b.APIHost != "" {
		return b.APIHost
	}

	return b.Host
}

// Options selects the remote to build a client for.
type Options struct {
	RemoteName string
	RemoteURL  string
	// FetchAPIKey loads the stored API key; management commands skip it so a key is not required up front.
	FetchAPIKey bool
	Store       store.Store
}

// Get detects the provider for a remote and constructs its client with stored settings.
func Get(ctx context.Context, opts Options) (Remote, error) {
	name, err := Detect(ctx, opts.RemoteURL)
	if err != nil {
		return nil, err
	}

	factory, exists := providerFactories[name]
	if !exists {
		return nil, fmt.Errorf("%w: no provider registered as %q", ErrProviderNotRecognized, name)
	}

	binding := &Binding{
		RemoteName: opts.RemoteName,
		RemoteURL:  opts.RemoteURL,
		Host:       Host(opts.RemoteURL),
		APIHost:    APIHost(opts.RemoteURL),
		Path:       ProjectPath(opts.RemoteURL),
		Store:      opts.Store,
	}

	if binding.Project, _, err = opts.Store.Get(store.RemoteScope, opts.RemoteName, store.ProjectID); err != nil {
		return nil, fmt.Errorf("%w: reading project ID: %w", ErrConfigStore, err)
	}

	if opts.FetchAPIKey {
		if binding.APIKey, _, err = opts.Store.Get(store.DomainScope, binding.Host, store.APIKey); err != nil {
			return nil, fmt.Errorf("%w: reading API key: %w", ErrConfigStore, err)
		}
	}

	log.FromContext(ctx).Sugar().Debugf("using %s provider for remote %s (%s)", name, opts.RemoteName, binding.Host)

	return factory(ctx, binding), nil
}

// Register a new provider factory by name.
func Register(name string, factory ProviderFactory) {
	if _, exists := providerFactories[name]; !exists {
		providerFactories[name] = factory
	}
}
