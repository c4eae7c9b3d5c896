package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/ryclarke/git-req/scm"
	"github.com/ryclarke/git-req/store"
	testhelper "github.com/ryclarke/git-req/utils/testing"
)

func newStore() store.Store {
	return store.NewMemory()
}

// newTestGithub creates a Github provider configured to use a test server
func newTestGithub(t *testing.T, server *httptest.Server) (context.Context, *Github) {
	t.Helper()
	ctx := loadFixture(t)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	t.Cleanup(cancel)

	client := github.NewClient(http.DefaultClient)
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")

	return ctx, &Github{
		client:  client,
		binding: &scm.Binding{Host: "github.com", RemoteURL: "https://github.com/owner/repo.git"},
		owner:   "owner",
		repo:    "repo",
	}
}

// mockPRResponse creates a GitHub PR API response
func mockPRResponse(number int, title, branch, state string) map[string]any {
	return map[string]any{
		"number": number,
		"title":  title,
		"state":  state,
		"head": map[string]any{
			"ref": branch,
		},
	}
}

func TestRemoteAndLocalBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/7" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockPRResponse(7, "Add login page", "feature/login", "open"))
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	remote, err := g.RemoteBranch(ctx, 7)
	if err != nil {
		t.Fatalf("RemoteBranch failed: %v", err)
	}
	testhelper.AssertEqual(t, remote, "refs/pull/7/head")

	local, err := g.LocalBranch(ctx, 7)
	if err != nil {
		t.Fatalf("LocalBranch failed: %v", err)
	}
	testhelper.AssertEqual(t, local, "pr/7")
}

func TestRemoteBranch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	if _, err := g.RemoteBranch(ctx, 999); !errors.Is(err, scm.ErrRequestNotFound) {
		t.Errorf("Expected ErrRequestNotFound, got %v", err)
	}
}

func TestRemoteBranch_Closed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockPRResponse(5, "Old", "old", "closed"))
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	if _, err := g.RemoteBranch(ctx, 5); !errors.Is(err, scm.ErrRequestNotFound) {
		t.Errorf("Expected ErrRequestNotFound, got %v", err)
	}
}

func TestLocalBranchMakesNoRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	local, err := g.LocalBranch(ctx, 42)
	if err != nil {
		t.Fatalf("LocalBranch failed: %v", err)
	}
	testhelper.AssertEqual(t, local, "pr/42")
}

func TestRemoteBranch_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	_, err := g.RemoteBranch(ctx, 7)
	if !errors.Is(err, scm.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	testhelper.AssertContains(t, err.Error(), "Bad credentials")
}

func TestRemoteBranch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "API rate limit exceeded"})
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	_, err := g.RemoteBranch(ctx, 7)
	if !errors.Is(err, scm.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	testhelper.AssertContains(t, err.Error(), "--set-domain-key")
}

func TestRemoteBranch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	_, err := g.RemoteBranch(ctx, 7)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, scm.ErrRequestNotFound) || errors.Is(err, scm.ErrAuthentication) {
		t.Errorf("Expected an untyped error, got %v", err)
	}
}

func TestRemoteBranch_NoProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no request without owner/repo")
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)
	g.owner, g.repo = "", ""

	if _, err := g.RemoteBranch(ctx, 7); !errors.Is(err, scm.ErrProjectNotConfigured) {
		t.Errorf("Expected ErrProjectNotConfigured, got %v", err)
	}
}

func TestRequests_Pagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}

		query := r.URL.Query()
		if query.Get("state") != "open" {
			t.Errorf("Expected state=open, got %q", query.Get("state"))
		}

		w.Header().Set("Content-Type", "application/json")

		if query.Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/owner/repo/pulls?page=2&state=open>; rel="next"`, server.URL))
			json.NewEncoder(w).Encode([]map[string]any{
				mockPRResponse(12, "Fix typo", "fix/typo", "open"),
				mockPRResponse(7, "Add login page", "feature/login", "open"),
			})
			return
		}

		json.NewEncoder(w).Encode([]map[string]any{
			mockPRResponse(3, "Bump deps", "chore/deps", "open"),
		})
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	requests, err := g.Requests(ctx)
	if err != nil {
		t.Fatalf("Requests failed: %v", err)
	}

	want := []scm.Request{
		{ID: 12, SourceBranch: "fix/typo", Title: "Fix typo"},
		{ID: 7, SourceBranch: "feature/login", Title: "Add login page"},
		{ID: 3, SourceBranch: "chore/deps", Title: "Bump deps"},
	}
	if len(requests) != len(want) {
		t.Fatalf("Expected %d requests, got %d", len(want), len(requests))
	}
	for i := range want {
		testhelper.AssertEqual(t, requests[i], want[i])
	}
}

func TestRequests_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Resource not accessible"})
	}))
	defer server.Close()

	ctx, g := newTestGithub(t, server)

	if _, err := g.Requests(ctx); !errors.Is(err, scm.ErrAuthentication) {
		t.Errorf("Expected ErrAuthentication, got %v", err)
	}
}
