package cli

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func findSubcommand(t *testing.T, rootCommand *cobra.Command, commandName string) *cobra.Command {
	t.Helper()

	for _, candidateCommand := range rootCommand.Commands() {
		if candidateCommand.Name() == commandName {
			return candidateCommand
		}
	}

	require.Failf(t, "missing subcommand", "command %s is not registered", commandName)
	return nil
}

func TestNewApplicationRegistersSubcommands(t *testing.T) {
	application := NewApplication()

	require.Equal(t, "ciweb", application.rootCommand.Name())
	for _, commandName := range []string{"provision", "doctor", "open", "version"} {
		require.NotNil(t, findSubcommand(t, application.rootCommand, commandName))
	}
}

func TestConfigurationSearchPathsIncludeUserConfigDirectory(t *testing.T) {
	searchPaths := configurationSearchPaths()

	require.Equal(t, ".", searchPaths[0])
	require.Contains(t, searchPaths, filepath.Join(xdg.ConfigHome, "ciweb"))
}

func TestConfigurationSearchPathsHonorEnvironmentOverride(t *testing.T) {
	overrideDirectory := t.TempDir()
	t.Setenv("CIWEB_CONFIG_SEARCH_PATH", overrideDirectory)

	searchPaths := configurationSearchPaths()

	require.Equal(t, overrideDirectory, searchPaths[0])
	require.Contains(t, searchPaths, ".")
}

func TestVersionFlagRequested(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		expected  bool
	}{
		{name: "no_arguments", arguments: nil, expected: false},
		{name: "flag_only", arguments: []string{"--version"}, expected: true},
		{name: "flag_after_command", arguments: []string{"provision", "--version"}, expected: true},
		{name: "version_subcommand", arguments: []string{"version"}, expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, versionFlagRequested(testCase.arguments))
		})
	}
}

func TestInitializeConfigurationLoadsEmbeddedDefaults(t *testing.T) {
	application := NewApplication()

	require.NoError(t, application.initializeConfiguration(application.rootCommand))

	require.Equal(t, "info", application.configuration.Common.LogLevel)
	require.Equal(t, "console", application.configuration.Common.LogFormat)
	require.Equal(t, "ciwebgroup", application.configuration.Provision.Organization)
	require.Equal(t, "ciwebgroup/www-template", application.configuration.Provision.TemplateRepository)
	require.False(t, application.configuration.Doctor.AssumeYes)
	require.Empty(t, application.configuration.Editor.Command)
	require.True(t, application.humanReadableLoggingEnabled())
	require.NotNil(t, application.consoleEventLogger)
}

func TestInitializeConfigurationAppliesPersistentFlagOverrides(t *testing.T) {
	application := NewApplication()
	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(t, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "structured"))

	require.NoError(t, application.initializeConfiguration(application.rootCommand))

	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.Equal(t, "structured", application.configuration.Common.LogFormat)
	require.False(t, application.humanReadableLoggingEnabled())
	require.Nil(t, application.consoleEventLogger)
}

func TestPersistentFlagChangedInspectsRootFlags(t *testing.T) {
	application := NewApplication()
	provisionCommand := findSubcommand(t, application.rootCommand, "provision")

	require.False(t, application.persistentFlagChanged(provisionCommand, logLevelFlagNameConstant))
	require.False(t, application.persistentFlagChanged(nil, logLevelFlagNameConstant))

	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "warn"))
	require.True(t, application.persistentFlagChanged(provisionCommand, logLevelFlagNameConstant))
}
