package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesLiterals(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedEnabled bool
		expectedChanged bool
	}{
		{name: "DefaultUntouched", arguments: []string{}, expectedEnabled: false, expectedChanged: false},
		{name: "BareFlagEnables", arguments: []string{"--launch"}, expectedEnabled: true, expectedChanged: true},
		{name: "SpaceSeparatedYes", arguments: []string{"--launch", "yes"}, expectedEnabled: true, expectedChanged: true},
		{name: "SpaceSeparatedNo", arguments: []string{"--launch", "no"}, expectedEnabled: false, expectedChanged: true},
		{name: "AssignedOn", arguments: []string{"--launch=on"}, expectedEnabled: true, expectedChanged: true},
		{name: "AssignedZero", arguments: []string{"--launch=0"}, expectedEnabled: false, expectedChanged: true},
		{name: "UppercaseTrue", arguments: []string{"--launch", "TRUE"}, expectedEnabled: true, expectedChanged: true},
		{name: "UppercaseNo", arguments: []string{"--launch", "NO"}, expectedEnabled: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var launchEnabled bool
			AddToggleFlag(command.Flags(), &launchEnabled, "launch", "", false, "Launch the editor")

			require.NoError(t, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(t, testCase.expectedEnabled, launchEnabled)

			launchFlag := command.Flags().Lookup("launch")
			require.NotNil(t, launchFlag)
			require.Equal(t, testCase.expectedChanged, launchFlag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsUnknownLiteral(t *testing.T) {
	command := &cobra.Command{}

	var launchEnabled bool
	AddToggleFlag(command.Flags(), &launchEnabled, "launch", "", false, "Launch the editor")

	parseError := command.ParseFlags(NormalizeToggleArguments([]string{"--launch", "maybe"}))
	require.Error(t, parseError)
	require.ErrorContains(t, parseError, `invalid toggle value "maybe"`)

	require.False(t, launchEnabled)

	launchFlag := command.Flags().Lookup("launch")
	require.NotNil(t, launchFlag)
	require.False(t, launchFlag.Changed)
}

func TestAddToggleFlagSupportsShorthand(t *testing.T) {
	command := &cobra.Command{}

	var launchEnabled bool
	AddToggleFlag(command.Flags(), &launchEnabled, "launch", "l", true, "Launch the editor")

	require.NoError(t, command.ParseFlags(NormalizeToggleArguments([]string{"-l", "no"})))
	require.False(t, launchEnabled)

	launchFlag := command.Flags().Lookup("launch")
	require.NotNil(t, launchFlag)
	require.True(t, launchFlag.Changed)
}

func TestAddToggleFlagFormatsUsagePlaceholder(t *testing.T) {
	command := &cobra.Command{}

	var enabledByDefault bool
	AddToggleFlag(command.Flags(), &enabledByDefault, "enabled-toggle", "", true, "Enabled unless disabled")

	var disabledByDefault bool
	AddToggleFlag(command.Flags(), &disabledByDefault, "disabled-toggle", "", false, "Disabled unless enabled")

	enabledFlag := command.Flags().Lookup("enabled-toggle")
	require.NotNil(t, enabledFlag)
	require.Equal(t, "`<YES|no>` Enabled unless disabled", enabledFlag.Usage)

	disabledFlag := command.Flags().Lookup("disabled-toggle")
	require.NotNil(t, disabledFlag)
	require.Equal(t, "`<yes|NO>` Disabled unless enabled", disabledFlag.Usage)
}

func TestNormalizeToggleArgumentsRewritesRegisteredFlags(t *testing.T) {
	command := &cobra.Command{}

	var launchEnabled bool
	AddToggleFlag(command.Flags(), &launchEnabled, "launch", "l", true, "Launch the editor")

	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "LongFormValueMerged", input: []string{"provision", "--launch", "no", "example.com"}, expected: []string{"provision", "--launch=no", "example.com"}},
		{name: "ShorthandValueMerged", input: []string{"-l", "off"}, expected: []string{"-l=off"}},
		{name: "AssignedFormUntouched", input: []string{"--launch=yes"}, expected: []string{"--launch=yes"}},
		{name: "TrailingFlagUntouched", input: []string{"--launch"}, expected: []string{"--launch"}},
		{name: "FollowingFlagNotConsumed", input: []string{"--launch", "--dry-run"}, expected: []string{"--launch", "--dry-run"}},
		{name: "TerminatorStopsRewriting", input: []string{"--", "--launch", "no"}, expected: []string{"--", "--launch", "no"}},
		{name: "UnregisteredFlagUntouched", input: []string{"--branch", "stage"}, expected: []string{"--branch", "stage"}},
		{name: "BareWordsUntouched", input: []string{"open", "acme-plumbing"}, expected: []string{"open", "acme-plumbing"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, NormalizeToggleArguments(testCase.input))
		})
	}
}
