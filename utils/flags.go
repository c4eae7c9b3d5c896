// Package utils provides helpers shared by the command layer.
package utils

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ChangedFlags returns the names of the given flags that were explicitly set, in the order given.
func ChangedFlags(cmd *cobra.Command, flags ...string) []string {
	var changed []string

	for _, flagName := range flags {
		if cmd.Flags().Changed(flagName) {
			changed = append(changed, flagName)
		}
	}

	return changed
}

// CheckMutuallyExclusiveFlags validates that at most one of the given flags is set.
// Returns an error naming the offending flags if more than one is explicitly set.
func CheckMutuallyExclusiveFlags(cmd *cobra.Command, flags ...string) error {
	setFlags := ChangedFlags(cmd, flags...)

	if len(setFlags) > 1 {
		return fmt.Errorf("mutually exclusive flags cannot be used together: --%s", strings.Join(setFlags, ", --"))
	}

	return nil
}
