package git

import (
	"testing"

	"github.com/ryclarke/git-req/store"
	testhelper "github.com/ryclarke/git-req/utils/testing"
)

func TestStoreRoundTrip(t *testing.T) {
	raw, dir := testhelper.InitRepo(t, "https://gitlab.example.com/group/proj.git")
	repo := New(raw)

	if err := repo.Set(store.RemoteScope, "origin", store.ProjectID, "42"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(store.DomainScope, "gitlab.example.com", store.APIKey, "abc123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// values must survive reopening the repository
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	value, found, err := reopened.Get(store.RemoteScope, "origin", store.ProjectID)
	if err != nil || !found {
		t.Fatalf("Expected stored project ID, got found=%v err=%v", found, err)
	}
	testhelper.AssertEqual(t, value, "42")

	value, found, _ = reopened.Get(store.DomainScope, "gitlab.example.com", store.APIKey)
	if !found {
		t.Fatal("Expected stored API key")
	}
	testhelper.AssertEqual(t, value, "abc123")

	// the remote configuration must be untouched
	url, err := reopened.RemoteURL("origin")
	if err != nil {
		t.Fatalf("RemoteURL failed after config writes: %v", err)
	}
	testhelper.AssertEqual(t, url, "https://gitlab.example.com/group/proj.git")
}

func TestStoreNamespaced(t *testing.T) {
	raw, _ := testhelper.InitRepo(t, "https://gitlab.example.com/group/proj.git")
	repo := New(raw)

	repo.Set(store.DomainScope, "origin", store.APIKey, "domain-key")

	if _, found, _ := repo.Get(store.RemoteScope, "origin", store.APIKey); found {
		t.Error("Expected domain and remote scopes to be separate")
	}

	cfg, err := raw.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if !cfg.Raw.HasSection("req-domain") {
		t.Error("Expected entries under the req-domain section")
	}
	if cfg.Raw.Section("remote").HasSubsection("origin") && cfg.Raw.Section("remote").Subsection("origin").HasOption(store.APIKey) {
		t.Error("Expected remote configuration to not be modified")
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	raw, _ := testhelper.InitRepo(t, "")
	repo := New(raw)

	repo.Set(store.RemoteScope, "origin", store.ProjectID, "1")
	repo.Set(store.RemoteScope, "origin", store.ProjectID, "2")

	value, _, _ := repo.Get(store.RemoteScope, "origin", store.ProjectID)
	testhelper.AssertEqual(t, value, "2")
}

func TestStoreDelete(t *testing.T) {
	raw, _ := testhelper.InitRepo(t, "")
	repo := New(raw)

	repo.Set(store.DomainScope, "gitlab.example.com", store.APIKey, "abc123")

	found, err := repo.Delete(store.DomainScope, "gitlab.example.com", store.APIKey)
	if err != nil || !found {
		t.Fatalf("Expected delete to find the key, got found=%v err=%v", found, err)
	}

	if _, found, _ := repo.Get(store.DomainScope, "gitlab.example.com", store.APIKey); found {
		t.Error("Expected key to be absent after delete")
	}

	cfg, _ := raw.Config()
	if cfg.Raw.HasSection(string(store.DomainScope)) {
		t.Error("Expected empty section to be removed")
	}

	// deleting again is not an error
	found, err = repo.Delete(store.DomainScope, "gitlab.example.com", store.APIKey)
	if err != nil {
		t.Fatalf("Expected no error deleting a missing key, got %v", err)
	}
	if found {
		t.Error("Expected missing key to be reported as not found")
	}
}

func TestStoreDeleteKeepsSiblings(t *testing.T) {
	raw, _ := testhelper.InitRepo(t, "")
	repo := New(raw)

	repo.Set(store.DomainScope, "gitlab.example.com", store.APIKey, "one")
	repo.Set(store.DomainScope, "gitlab.other.com", store.APIKey, "two")

	if _, err := repo.Delete(store.DomainScope, "gitlab.example.com", store.APIKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	value, found, _ := repo.Get(store.DomainScope, "gitlab.other.com", store.APIKey)
	if !found || value != "two" {
		t.Errorf("Expected sibling key to survive, got %q (found=%v)", value, found)
	}
}
