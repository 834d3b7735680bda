// Package flags provides helpers for binding shared command-line flags to
// Cobra commands.
package flags

import "github.com/spf13/cobra"

// BindAssumeYesFlag registers the persistent --yes/-y confirmation flag.
// Callers read the parsed value back through AssumeYesFlagName.
func BindAssumeYesFlag(command *cobra.Command, defaultValue bool) {
	if command == nil {
		return
	}
	command.PersistentFlags().BoolP(AssumeYesFlagName, AssumeYesFlagShorthand, defaultValue, AssumeYesFlagUsage)
}
