package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/scm"
	"github.com/ryclarke/git-req/store"
	testhelper "github.com/ryclarke/git-req/utils/testing"
)

type checkoutCall struct {
	remoteName, remoteBranch, localBranch string
}

// fakeRepo is an in-memory Repository recording checkouts instead of touching git.
type fakeRepo struct {
	*store.Memory

	remotes   map[string]string
	token     string
	checkouts []checkoutCall
	err       error
}

func newFakeRepo(remotes map[string]string) *fakeRepo {
	return &fakeRepo{Memory: store.NewMemory(), remotes: remotes}
}

func (r *fakeRepo) RemoteURL(name string) (string, error) {
	url, ok := r.remotes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", scm.ErrRemoteNotConfigured, name)
	}

	return url, nil
}

func (r *fakeRepo) SetToken(token string) {
	r.token = token
}

func (r *fakeRepo) CheckoutBranch(_ context.Context, remoteName, remoteBranch, localBranch string) error {
	if r.err != nil {
		return r.err
	}

	r.checkouts = append(r.checkouts, checkoutCall{remoteName, remoteBranch, localBranch})
	return nil
}

type result struct {
	code   int
	stdout string
	stderr string
}

// execute runs git-req with args against repo, the way Execute does.
func execute(t *testing.T, ctx context.Context, repo Repository, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	rootCmd := RootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))

	code := Run(WithRepository(ctx, repo), rootCmd)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// serveAPI routes every outgoing HTTP request to handler, whatever host it is addressed to,
// and switches both providers to plain http.
func serveAPI(t *testing.T, ctx context.Context, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(ctx, network, server.Listener.Addr().String())
		},
	}

	original := http.DefaultTransport
	http.DefaultTransport = transport
	t.Cleanup(func() {
		transport.CloseIdleConnections()
		http.DefaultTransport = original
	})

	viper := config.Viper(ctx)
	viper.Set(config.GitlabScheme, "http")
	viper.Set(config.GithubScheme, "http")
}

func loadFixture(t *testing.T) context.Context {
	return testhelper.LoadFixture(t, "../config")
}
