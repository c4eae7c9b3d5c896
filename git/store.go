package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/config"

	"github.com/ryclarke/git-req/scm"
	"github.com/ryclarke/git-req/store"
)

var _ store.Store = new(Repo)

// Entries are kept in the repository's local config as `[<scope> "<key>"] <field> = <value>`,
// e.g. `[req-domain "gitlab.example.com"] apikey = ...`.

// Get returns the value of a field and whether it was present.
func (r *Repo) Get(scope store.Scope, key, field string) (string, bool, error) {
	cfg, err := r.config()
	if err != nil {
		return "", false, err
	}

	if !cfg.Raw.HasSection(string(scope)) {
		return "", false, nil
	}

	section := cfg.Raw.Section(string(scope))
	if !section.HasSubsection(key) {
		return "", false, nil
	}

	sub := section.Subsection(key)
	if !sub.HasOption(field) {
		return "", false, nil
	}

	return sub.Option(field), true, nil
}

// Set creates or replaces the value of a field.
func (r *Repo) Set(scope store.Scope, key, field, value string) error {
	cfg, err := r.config()
	if err != nil {
		return err
	}

	cfg.Raw.Section(string(scope)).Subsection(key).SetOption(field, value)

	return r.setConfig(cfg)
}

// Delete removes a field, reporting whether it existed. Empty subsections and sections are removed with it.
func (r *Repo) Delete(scope store.Scope, key, field string) (bool, error) {
	cfg, err := r.config()
	if err != nil {
		return false, err
	}

	if !cfg.Raw.HasSection(string(scope)) {
		return false, nil
	}

	section := cfg.Raw.Section(string(scope))
	if !section.HasSubsection(key) || !section.Subsection(key).HasOption(field) {
		return false, nil
	}

	sub := section.Subsection(key)
	sub.RemoveOption(field)

	if len(sub.Options) == 0 {
		section.RemoveSubsection(key)
	}

	if len(section.Subsections) == 0 && len(section.Options) == 0 {
		cfg.Raw.RemoveSection(string(scope))
	}

	return true, r.setConfig(cfg)
}

func (r *Repo) config() (*config.Config, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read git config: %w", scm.ErrConfigStore, err)
	}

	return cfg, nil
}

func (r *Repo) setConfig(cfg *config.Config) error {
	if err := r.repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("%w: failed to write git config: %w", scm.ErrConfigStore, err)
	}

	return nil
}
