package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/log"
	"github.com/ryclarke/git-req/output"
	"github.com/ryclarke/git-req/utils"

	// Register the SCM providers
	_ "github.com/ryclarke/git-req/scm/github"
	_ "github.com/ryclarke/git-req/scm/gitlab"
)

const (
	configFlag = "config"

	listFlag           = "list"
	setProjectIDFlag   = "set-project-id"
	clearProjectIDFlag = "clear-project-id"
	setDomainKeyFlag   = "set-domain-key"
	clearDomainKeyFlag = "clear-domain-key"
	useRemoteFlag      = "use-remote"
)

// flags selecting a mode other than checkout; at most one may be given and never with a REQUEST_ID
var modeFlags = []string{listFlag, setProjectIDFlag, clearProjectIDFlag, setDomainKeyFlag, clearDomainKeyFlag}

// RootCmd configures the git-req command and its flags
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-req [flags] REQUEST_ID",
		Short: "Switch between merge/pull requests with just the request ID",
		Long: `Switch between merge/pull requests in your GitLab and GitHub repositories with just the request ID.

The hosting provider is detected from the remote URL. API keys are stored per domain
and project IDs per remote, both in the repository's git config.`,
		Example: `  git req 42
  git req --list
  git req -u upstream 7
  git req --set-domain-key -`,
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// a config file given by flag replaces the one found during startup
			if config.CfgFile != "" {
				cmd.SetContext(config.Init(cmd.Context()))
			}

			if err := bindFlags(cmd); err != nil {
				return err
			}

			viper := config.Viper(cmd.Context())
			logger, err := log.New(viper.GetString(config.LogLevel))
			if err != nil {
				return err
			}
			cmd.SetContext(log.WithLogger(cmd.Context(), logger))

			return nil
		},
		RunE: run,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = log.FromContext(cmd.Context()).Sync()
		},
		Version: config.Version,
	}

	rootCmd.PersistentFlags().StringVar(&config.CfgFile, configFlag, "", "config file (default is git-req.yaml)")

	rootCmd.Flags().BoolP(listFlag, "l", false, "list all open requests against the repository")
	rootCmd.Flags().String(setProjectIDFlag, "", "set the project ID for the current repository")
	rootCmd.Flags().Bool(clearProjectIDFlag, false, "clear the project ID for the current repository")
	rootCmd.Flags().String(setDomainKeyFlag, "", "set the API key for the current repository's domain (\"-\" to read it from the terminal)")
	rootCmd.Flags().Bool(clearDomainKeyFlag, false, "clear the API key for the current repository's domain")
	rootCmd.Flags().StringP(useRemoteFlag, "u", config.DefaultRemote, "remote to be used")

	return rootCmd
}

// validateArgs requires exactly one numeric REQUEST_ID unless a mode flag is given, in which case none is allowed.
// bindFlags exposes flags that override configuration through viper.
func bindFlags(cmd *cobra.Command) error {
	if err := config.Viper(cmd.Context()).BindPFlag(config.Remote, cmd.Flags().Lookup(useRemoteFlag)); err != nil {
		return fmt.Errorf("failed to bind --%s: %w", useRemoteFlag, err)
	}

	return nil
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if err := utils.CheckMutuallyExclusiveFlags(cmd, modeFlags...); err != nil {
		return err
	}

	if mode := selectedMode(cmd); mode != "" {
		if len(args) > 0 {
			return fmt.Errorf("REQUEST_ID cannot be used with --%s", mode)
		}

		return nil
	}

	if len(args) != 1 {
		return errors.New("a REQUEST_ID is required (or one of --" + listFlag + ", --" + setProjectIDFlag + ", --" +
			clearProjectIDFlag + ", --" + setDomainKeyFlag + ", --" + clearDomainKeyFlag + ")")
	}

	if _, err := parseID(args[0]); err != nil {
		return err
	}

	return nil
}

// selectedMode returns the name of the mode flag given on the command line, if any.
func selectedMode(cmd *cobra.Command) string {
	if changed := utils.ChangedFlags(cmd, modeFlags...); len(changed) > 0 {
		return changed[0]
	}

	return ""
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid REQUEST_ID %q: must be a positive number", arg)
	}

	return id, nil
}

// Run executes the command and reports any error in red on stderr, returning the process exit code.
func Run(ctx context.Context, rootCmd *cobra.Command) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.New(rootCmd).Error("", err)
		return 1
	}

	return 0
}

// Execute runs the root command with configuration loaded from the environment and config file.
// This is called by main.main().
func Execute() {
	ctx := config.Init(context.Background())

	os.Exit(Run(ctx, RootCmd()))
}
