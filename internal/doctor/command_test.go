package doctor_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciwebgroup/cli-tools/internal/doctor"
	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/utils"
)

func TestCommandBuilderBuildConfiguresMetadata(testInstance *testing.T) {
	builder := &doctor.CommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "doctor", command.Use)
	require.NotNil(testInstance, command.Flags().Lookup("install"))
	require.NotNil(testInstance, command.Flags().Lookup("yes"))
}

func TestCommandReportsSatisfiedPrerequisites(testInstance *testing.T) {
	table := newPathTable(map[string]string{"git": testGitPathConstant, "gh": testGitHubPathConstant})
	builder := &doctor.CommandBuilder{
		Finder:        table.find,
		Executor:      &recordingInstallExecutor{},
		GitHubClient:  stubAuthenticationChecker{},
		Platform:      "linux",
		TokenResolver: missingTokenResolver,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, outputBuffer.String(), "configuration: using built-in defaults")
	require.Contains(testInstance, outputBuffer.String(), "git: found at "+testGitPathConstant)
	require.Contains(testInstance, outputBuffer.String(), "gh authentication: gh reports an active account")
}

func TestCommandReportsConfigurationFileFromContext(testInstance *testing.T) {
	table := newPathTable(map[string]string{"git": testGitPathConstant, "gh": testGitHubPathConstant})
	builder := &doctor.CommandBuilder{
		Finder:        table.find,
		Executor:      &recordingInstallExecutor{},
		GitHubClient:  stubAuthenticationChecker{},
		Platform:      "linux",
		TokenResolver: missingTokenResolver,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	executionContext := utils.WithConfigurationFilePath(context.Background(), "/home/operator/.config/ciweb/config.yaml")
	require.NoError(testInstance, command.ExecuteContext(executionContext))
	require.Contains(testInstance, outputBuffer.String(), "configuration: using /home/operator/.config/ciweb/config.yaml")
}

func TestCommandFailsWhenPrerequisitesMissing(testInstance *testing.T) {
	table := newPathTable(map[string]string{"git": testGitPathConstant})
	builder := &doctor.CommandBuilder{
		Finder:        table.find,
		Executor:      &recordingInstallExecutor{},
		GitHubClient:  stubAuthenticationChecker{},
		Platform:      "linux",
		TokenResolver: missingTokenResolver,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, doctor.ErrPrerequisitesNotSatisfied)
	require.Contains(testInstance, outputBuffer.String(), "Manual steps:")
}

func TestCommandAssumeYesFlagSkipsInstallConfirmation(testInstance *testing.T) {
	table := newPathTable(map[string]string{"git": testGitPathConstant, "apt-get": testAptPathConstant})
	executor := &recordingInstallExecutor{executeFunc: func(execshell.ShellCommand) {
		table.add("gh", testGitHubPathConstant)
	}}
	prompter := &scriptedPrompter{response: false}
	builder := &doctor.CommandBuilder{
		Finder:        table.find,
		Executor:      executor,
		GitHubClient:  stubAuthenticationChecker{},
		Prompter:      prompter,
		Platform:      "linux",
		TokenResolver: missingTokenResolver,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{"--install", "--yes"})

	require.NoError(testInstance, command.Execute())
	require.Empty(testInstance, prompter.recordedPrompts)
	require.Len(testInstance, executor.recordedCommands, 1)
	require.Contains(testInstance, outputBuffer.String(), "gh: found at "+testGitHubPathConstant)
}

func TestCommandConfigurationProvidesAssumeYesDefault(testInstance *testing.T) {
	table := newPathTable(map[string]string{"git": testGitPathConstant, "apt-get": testAptPathConstant})
	executor := &recordingInstallExecutor{executeFunc: func(execshell.ShellCommand) {
		table.add("gh", testGitHubPathConstant)
	}}
	prompter := &scriptedPrompter{response: false}
	builder := &doctor.CommandBuilder{
		ConfigurationProvider: func() doctor.Configuration {
			return doctor.Configuration{AssumeYes: true}
		},
		Finder:        table.find,
		Executor:      executor,
		GitHubClient:  stubAuthenticationChecker{},
		Prompter:      prompter,
		Platform:      "linux",
		TokenResolver: missingTokenResolver,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{"--install"})

	require.NoError(testInstance, command.Execute())
	require.Empty(testInstance, prompter.recordedPrompts)
	require.Len(testInstance, executor.recordedCommands, 1)
}
