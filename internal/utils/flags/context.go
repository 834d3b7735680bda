package flags

import "github.com/spf13/cobra"

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
	// SkipDeployFlagName exposes the provisioning skip-deploy flag name.
	SkipDeployFlagName = "skip-deploy"
	// SkipDeployFlagUsage describes the provisioning skip-deploy flag purpose.
	SkipDeployFlagUsage = "Skip synchronizing and pushing the stage branch"
	// OpenEditorFlagName exposes the provisioning editor launch flag name.
	OpenEditorFlagName = "open"
	// OpenEditorFlagUsage describes the provisioning editor launch flag purpose.
	OpenEditorFlagUsage = "Open the cloned workspace in an editor when provisioning completes"
	// ProtocolFlagName exposes the clone protocol override flag name.
	ProtocolFlagName = "protocol"
	// BranchFlagName exposes the stage branch override flag name.
	BranchFlagName = "branch"
	// WorkspaceFlagName exposes the workspace root override flag name.
	WorkspaceFlagName = "workspace"
	// WorkspaceFlagUsage describes the workspace root override flag purpose.
	WorkspaceFlagUsage = "Directory holding client site clones"
	// InstallFlagName exposes the doctor installation toggle flag name.
	InstallFlagName = "install"
	// InstallFlagUsage describes the doctor installation toggle flag purpose.
	InstallFlagUsage = "Install missing tools with the platform package manager"
)

// BranchFlagDefinition captures configuration for branch context flags.
type BranchFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// BranchFlagValues stores branch context flag values.
type BranchFlagValues struct {
	Name string
}

// BindBranchFlags attaches branch context flags to the provided command.
func BindBranchFlags(command *cobra.Command, defaults BranchFlagValues, definition BranchFlagDefinition) *BranchFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	if !definition.Enabled || len(definition.Name) == 0 {
		return &values
	}

	command.PersistentFlags().StringVar(&values.Name, definition.Name, defaults.Name, definition.Usage)
	return &values
}
