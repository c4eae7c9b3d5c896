package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	CfgFile string

	// Version is dynamically set at build time using the -X linker flag.
	// Default value is used for testing and development builds.
	Version = "dev"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. REQ_LOG.
	EnvPrefix = "req"

	Remote   = "remote"
	LogLevel = "log"
	Color    = "color"

	HTTPTimeout = "http.timeout"

	// ProviderHosts maps a remote host to a provider name, e.g. `git.corp.com: gitlab`.
	ProviderHosts = "providers.hosts"
	GitlabScheme  = "providers.gitlab.scheme"
	GithubScheme  = "providers.github.scheme"

	DefaultRemote = "origin"
)

// Init reads in config file and ENV variables if set, and stores the result in the returned context.
func Init(ctx context.Context) context.Context {
	v := New()

	if CfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(CfgFile)
	} else {
		v.SetConfigName("git-req")

		// Search in the working directory
		v.AddConfigPath(".")

		// On Darwin, os.UserConfigDir() returns ~/Library/Application Support.  As this is to be used from
		// the command line, it's more likely that the user will want to use XDG_CONFIG_HOME instead.
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(xdgConfigHome)
		} else if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config"))
		}

		if usrConfig, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(usrConfig)
		}
	}

	// A missing config file is fine; everything has a default.
	_ = v.ReadInConfig()

	return SetViper(ctx, v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(Remote, DefaultRemote)
	v.SetDefault(LogLevel, "")
	v.SetDefault(Color, "auto")
	v.SetDefault(HTTPTimeout, 30*time.Second)
	v.SetDefault(GitlabScheme, "https")
	v.SetDefault(GithubScheme, "https")

	// host overrides in the form `host: provider`
	v.SetDefault(ProviderHosts, map[string]string{})
}
