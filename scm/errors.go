package scm

import "errors"

var (
	// ErrRemoteNotConfigured is returned when the named remote does not exist in the repository.
	ErrRemoteNotConfigured = errors.New("remote not configured")
	// ErrProviderNotRecognized is returned when a remote URL matches no known hosting provider.
	ErrProviderNotRecognized = errors.New("remote not recognized")
	// ErrAuthentication is returned when the API key is missing or rejected by the provider.
	ErrAuthentication = errors.New("authentication missing or invalid")
	// ErrProjectNotConfigured is returned when a provider needs a project ID that cannot be determined.
	ErrProjectNotConfigured = errors.New("project ID not configured")
	// ErrRequestNotFound is returned when no open request has the given ID.
	ErrRequestNotFound = errors.New("request not found")
	// ErrConfigStore is returned for config store failures other than a missing entry.
	ErrConfigStore = errors.New("config store error")
	// ErrCheckoutFailed is returned when the local branch could not be created or switched to.
	ErrCheckoutFailed = errors.New("checkout failed")
)
