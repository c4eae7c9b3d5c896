package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ryclarke/git-req/checkout"
	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/output"
	"github.com/ryclarke/git-req/scm"
	"github.com/ryclarke/git-req/store"
)

// user-facing error prefixes
const (
	remoteProblem   = "There was a problem finding the remote Git repo"
	branchProblem   = "There was a problem ascertaining the branch name"
	checkoutProblem = "There was an error checking out the branch"
	listProblem     = "There was a problem listing the open requests"
	projectProblem  = "There was an error saving the project ID"
	setKeyProblem   = "There was an error saving the domain key"
	clearKeyProblem = "There was an error deleting the domain key"
)

// readKeyArg asks for the domain key on the terminal instead of the command line.
const readKeyArg = "-"

// session holds what every mode needs: the repository, the selected remote and its provider client.
type session struct {
	cmd        *cobra.Command
	printer    *output.Printer
	repo       Repository
	remoteName string
	remote     scm.Remote
}

func run(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, selectedMode(cmd) == listFlag || len(args) > 0)
	if err != nil {
		return fmt.Errorf("%s: %w", remoteProblem, err)
	}

	switch selectedMode(cmd) {
	case listFlag:
		return s.listRequests()
	case setProjectIDFlag:
		id, _ := cmd.Flags().GetString(setProjectIDFlag)
		return s.setProjectID(id)
	case clearProjectIDFlag:
		return s.clearProjectID()
	case setDomainKeyFlag:
		key, _ := cmd.Flags().GetString(setDomainKeyFlag)
		return s.setDomainKey(key)
	case clearDomainKeyFlag:
		return s.clearDomainKey()
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return s.checkout(id)
}

// newSession resolves the selected remote to a provider client. The API key is only loaded
// for modes that talk to the provider.
func newSession(cmd *cobra.Command, fetchAPIKey bool) (*session, error) {
	ctx := cmd.Context()
	remoteName := config.Viper(ctx).GetString(config.Remote)

	repo, err := repository(ctx)
	if err != nil {
		return nil, err
	}

	remoteURL, err := repo.RemoteURL(remoteName)
	if err != nil {
		return nil, err
	}

	remote, err := scm.Get(ctx, scm.Options{
		RemoteName:  remoteName,
		RemoteURL:   remoteURL,
		FetchAPIKey: fetchAPIKey,
		Store:       repo,
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).Debug("found remote", zap.String("remote", remoteName), zap.String("provider", remote.Name()), zap.String("domain", remote.Domain()))

	return &session{
		cmd:        cmd,
		printer:    output.New(cmd),
		repo:       repo,
		remoteName: remoteName,
		remote:     remote,
	}, nil
}

func (s *session) checkout(id int) error {
	ctx := s.cmd.Context()
	log.FromContext(ctx).Info("getting request", zap.Int("id", id))

	key, _, err := s.repo.Get(store.DomainScope, s.remote.Domain(), store.APIKey)
	if err != nil {
		return fmt.Errorf("%s: %w", branchProblem, err)
	}
	s.repo.SetToken(key)

	branch, err := checkout.Run(ctx, s.remote, s.repo, s.remoteName, id)
	if errors.Is(err, scm.ErrCheckoutFailed) {
		return fmt.Errorf("%s: %w", checkoutProblem, err)
	} else if err != nil {
		return fmt.Errorf("%s: %w", branchProblem, err)
	}

	s.printer.Success("Switched to branch " + branch)

	return nil
}

func (s *session) listRequests() error {
	log.FromContext(s.cmd.Context()).Info("getting open requests")

	requests, err := s.remote.Requests(s.cmd.Context())
	if err != nil {
		return fmt.Errorf("%s: %w", listProblem, err)
	}

	return s.printer.Requests(requests, s.remote.HasUsefulBranchNames())
}

func (s *session) setProjectID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s: project ID must not be empty", projectProblem)
	}

	if err := s.repo.Set(store.RemoteScope, s.remoteName, store.ProjectID, id); err != nil {
		return fmt.Errorf("%s: %w", projectProblem, err)
	}

	s.printer.Success("New project ID set!")

	return nil
}

func (s *session) clearProjectID() error {
	if _, err := s.repo.Delete(store.RemoteScope, s.remoteName, store.ProjectID); err != nil {
		return fmt.Errorf("%s: %w", projectProblem, err)
	}

	s.printer.Success("Project ID cleared!")

	return nil
}

func (s *session) setDomainKey(key string) error {
	if key == readKeyArg {
		var err error
		if key, err = s.readKey(); err != nil {
			return fmt.Errorf("%s: %w", setKeyProblem, err)
		}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s: domain key must not be empty", setKeyProblem)
	}

	if err := s.repo.Set(store.DomainScope, s.remote.Domain(), store.APIKey, key); err != nil {
		return fmt.Errorf("%s: %w", setKeyProblem, err)
	}

	s.printer.Success("Domain key changed!")

	return nil
}

func (s *session) clearDomainKey() error {
	deleted, err := s.repo.Delete(store.DomainScope, s.remote.Domain(), store.APIKey)
	if err != nil {
		return fmt.Errorf("%s: %w", clearKeyProblem, err)
	}

	log.FromContext(s.cmd.Context()).Debug("cleared domain key", zap.String("domain", s.remote.Domain()), zap.Bool("existed", deleted))
	s.printer.Success("Domain key deleted!")

	return nil
}

// readKey reads the key without echo from a terminal, or as the first line of piped input.
func (s *session) readKey() (string, error) {
	in := s.cmd.InOrStdin()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(s.cmd.ErrOrStderr(), "API key for %s: ", s.remote.Domain())
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.cmd.ErrOrStderr())

		return string(key), err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read key: %w", err)
	}

	return line, nil
}
