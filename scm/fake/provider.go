package fake

import (
	"context"
	"fmt"
	"maps"

	"github.com/ryclarke/git-req/scm"
)

var _ scm.Remote = new(Fake)

func init() {
	// Register the fake provider factory
	scm.Register("fake", New)
}

// Fake implements a mock hosting provider for testing purposes
type Fake struct {
	Binding *scm.Binding
	Useful  bool
	Seeded  []scm.Request
	Errors  map[string]error // configurable errors for testing, keyed by method name

	// Calls counts invocations per method name.
	Calls map[string]int
}

// New creates a new fake provider for the given binding, with meaningful branch names and no requests
func New(_ context.Context, binding *scm.Binding) scm.Remote {
	return &Fake{
		Binding: binding,
		Useful:  true,
		Errors:  make(map[string]error),
		Calls:   make(map[string]int),
	}
}

// NewFake creates a new fake provider for host with optional seed data
func NewFake(host string, useful bool, requests []scm.Request) *Fake {
	f := New(context.Background(), &scm.Binding{RemoteName: "origin", Host: host}).(*Fake)
	f.Useful = useful
	f.Seeded = append([]scm.Request(nil), requests...)

	return f
}

// SeedErrors configures errors to be returned by the named methods.
func (f *Fake) SeedErrors(errors map[string]error) {
	maps.Copy(f.Errors, errors)
}

// Name returns "fake"
func (f *Fake) Name() string {
	return "fake"
}

// ListRequests returns a copy of the seeded requests without recording a call
func (f *Fake) ListRequests() []scm.Request {
	return append([]scm.Request(nil), f.Seeded...)
}

// Requests returns the seeded requests in seed order
func (f *Fake) Requests(_ context.Context) ([]scm.Request, error) {
	f.Calls["Requests"]++
	if err := f.Errors["Requests"]; err != nil {
		return nil, err
	}

	return f.ListRequests(), nil
}

// RemoteBranch returns the seeded source branch of the request
func (f *Fake) RemoteBranch(_ context.Context, id int) (string, error) {
	f.Calls["RemoteBranch"]++
	if err := f.Errors["RemoteBranch"]; err != nil {
		return "", err
	}

	req, err := f.find(id)
	if err != nil {
		return "", err
	}

	return req.SourceBranch, nil
}

// LocalBranch returns the source branch when names are useful, or "req/<id>" otherwise
func (f *Fake) LocalBranch(_ context.Context, id int) (string, error) {
	f.Calls["LocalBranch"]++
	if err := f.Errors["LocalBranch"]; err != nil {
		return "", err
	}

	if !f.Useful {
		return fmt.Sprintf("req/%d", id), nil
	}

	req, err := f.find(id)
	if err != nil {
		return "", err
	}

	return req.SourceBranch, nil
}

// Domain returns the bound host
func (f *Fake) Domain() string {
	if f.Binding == nil {
		return ""
	}

	return f.Binding.Host
}

// HasUsefulBranchNames reports the configured usefulness
func (f *Fake) HasUsefulBranchNames() bool {
	return f.Useful
}

func (f *Fake) find(id int) (scm.Request, error) {
	for _, req := range f.Seeded {
		if req.ID == id {
			return req, nil
		}
	}

	return scm.Request{}, fmt.Errorf("%w: !%d", scm.ErrRequestNotFound, id)
}

// CreateTestRequests returns a standard set of requests for tests
func CreateTestRequests() []scm.Request {
	return []scm.Request{
		{ID: 7, SourceBranch: "feature/login", Title: "Add login page"},
		{ID: 12, SourceBranch: "fix/typo", Title: "Fix typo in README"},
		{ID: 3, SourceBranch: "chore/deps", Title: "Bump dependencies"},
	}
}
