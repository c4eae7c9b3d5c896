// Package testing provides utility functions for testing purposes across multiple packages.
package testing

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ryclarke/git-req/config"
)

// LoadFixture loads test configuration from the config package.
// The configPath parameter should be the relative path from the test file
// to the config directory (e.g., "../config", "../../config").
func LoadFixture(t *testing.T, configPath string) context.Context {
	t.Helper()

	viper := config.New()
	ctx := config.SetViper(context.Background(), viper)

	viper.SetConfigName("fixture")
	viper.AddConfigPath(configPath)

	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("Failed to load fixture config: %v", err)
	}

	return ctx
}

// FakeCmd creates a minimal cobra.Command for testing with the given context, capturing stdout and stderr.
func FakeCmd(t *testing.T, ctx context.Context) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := &cobra.Command{
		Use: "test",
	}
	cmd.SetContext(ctx)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	return cmd, &stdout, &stderr
}
