// Package store defines the scoped key/value layer used to persist API keys and project IDs.
package store

// Scope selects the namespace an entry lives in.
type Scope string

const (
	// RemoteScope entries are keyed by remote name, e.g. "origin".
	RemoteScope Scope = "req-remote"
	// DomainScope entries are keyed by hosting domain, e.g. "gitlab.example.com".
	DomainScope Scope = "req-domain"
)

const (
	ProjectID = "projectid"
	APIKey    = "apikey"
)

// Store defines the interface for persisting scoped settings.
type Store interface {
	// Get returns the value of a field and whether it was present.
	Get(scope Scope, key, field string) (string, bool, error)
	// Set creates or replaces the value of a field.
	Set(scope Scope, key, field, value string) error
	// Delete removes a field, reporting whether it existed. A missing field is not an error.
	Delete(scope Scope, key, field string) (bool, error)
}
