package github

import (
	"context"
	"testing"

	"github.com/ryclarke/git-req/scm"
	testhelper "github.com/ryclarke/git-req/utils/testing"
)

func loadFixture(t *testing.T) context.Context {
	return testhelper.LoadFixture(t, "../../config")
}

func TestNew(t *testing.T) {
	ctx := loadFixture(t)
	g := New(ctx, &scm.Binding{Host: "github.com", Path: "owner/repo"}).(*Github)

	testhelper.AssertEqual(t, g.Name(), scm.GitHub)
	testhelper.AssertEqual(t, g.Domain(), "github.com")
	testhelper.AssertEqual(t, g.client.BaseURL.String(), "https://api.github.com/")
	testhelper.AssertEqual(t, g.owner, "owner")
	testhelper.AssertEqual(t, g.repo, "repo")

	if g.HasUsefulBranchNames() {
		t.Error("Expected GitHub branch names to be reported as not useful")
	}
}

func TestNewEnterprise(t *testing.T) {
	ctx := loadFixture(t)
	g := New(ctx, &scm.Binding{Host: "ghe.corp.example", Path: "team/service"}).(*Github)

	testhelper.AssertEqual(t, g.client.BaseURL.String(), "https://ghe.corp.example/api/v3/")
	testhelper.AssertEqual(t, g.Domain(), "ghe.corp.example")
}

func TestNewEnterpriseKeepsPort(t *testing.T) {
	ctx := loadFixture(t)
	g := New(ctx, &scm.Binding{Host: "ghe.corp.example", APIHost: "ghe.corp.example:8443", Path: "team/service"}).(*Github)

	testhelper.AssertEqual(t, g.client.BaseURL.String(), "https://ghe.corp.example:8443/api/v3/")
	testhelper.AssertEqual(t, g.client.UploadURL.String(), "https://ghe.corp.example:8443/api/uploads/")
	testhelper.AssertEqual(t, g.Domain(), "ghe.corp.example")
}

func TestNewProjectOverride(t *testing.T) {
	tests := []struct {
		name      string
		binding   *scm.Binding
		wantOwner string
		wantRepo  string
	}{
		{"path only", &scm.Binding{Path: "owner/repo"}, "owner", "repo"},
		{"project wins", &scm.Binding{Path: "fork/repo", Project: "upstream/repo"}, "upstream", "repo"},
		{"invalid project falls back", &scm.Binding{Path: "owner/repo", Project: "12345"}, "owner", "repo"},
		{"nested path", &scm.Binding{Path: "a/b/c"}, "", ""},
		{"nothing", &scm.Binding{}, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.binding.Host = "github.com"
			g := New(loadFixture(t), tc.binding).(*Github)

			testhelper.AssertEqual(t, g.owner, tc.wantOwner)
			testhelper.AssertEqual(t, g.repo, tc.wantRepo)
		})
	}
}

func TestRegistration(t *testing.T) {
	ctx := loadFixture(t)

	remote, err := scm.Get(ctx, scm.Options{
		RemoteName: "origin",
		RemoteURL:  "git@github.com:owner/repo.git",
		Store:      newStore(),
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if _, ok := remote.(*Github); !ok {
		t.Errorf("Expected *Github provider, got %T", remote)
	}
}
