package doctor

import (
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
	"github.com/ciwebgroup/cli-tools/internal/ui"
	"github.com/ciwebgroup/cli-tools/internal/utils"
	"github.com/ciwebgroup/cli-tools/internal/utils/flags"
)

const (
	commandUseConstant   = "doctor"
	commandShortConstant = "Check provisioning prerequisites"
	commandLongConstant  = "Doctor verifies git, the GitHub CLI, and GitHub authentication, and can install missing tools with the platform package manager."
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Configuration models doctor settings sourced from configuration files.
type Configuration struct {
	AssumeYes bool `mapstructure:"assume_yes"`
}

// ConfigurationProvider supplies doctor configuration during command execution.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the doctor cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Finder                ExecutableFinder
	Executor              CommandExecutor
	GitHubClient          AuthenticationChecker
	Prompter              ui.ConfirmationPrompter
	TokenResolver         TokenResolver
	Platform              string
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for prerequisite checks.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	var installMissing bool

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, installMissing)
		},
	}

	flags.AddToggleFlag(command.Flags(), &installMissing, flags.InstallFlagName, "", false, flags.InstallFlagUsage)
	flags.BindAssumeYesFlag(command, false)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, installMissing bool) error {
	logger := builder.resolveLogger()

	configuration := Configuration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	assumeYes := configuration.AssumeYes
	if command.Flags().Changed(flags.AssumeYesFlagName) {
		if flagValue, flagError := command.Flags().GetBool(flags.AssumeYesFlagName); flagError == nil {
			assumeYes = flagValue
		}
	}

	executor := builder.Executor
	githubClient := builder.GitHubClient
	if executor == nil || githubClient == nil {
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.CommandEventsObserver)
		if executorError != nil {
			return executorError
		}
		if executor == nil {
			executor = shellExecutor
		}
		if githubClient == nil {
			client, clientError := githubcli.NewClient(shellExecutor)
			if clientError != nil {
				return clientError
			}
			githubClient = client
		}
	}

	finder := builder.Finder
	if finder == nil {
		finder = exec.LookPath
	}

	prompter := builder.Prompter
	if prompter == nil {
		prompter = ui.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
	}

	platform := builder.Platform
	if len(platform) == 0 {
		platform = runtime.GOOS
	}

	service, serviceError := NewService(Dependencies{
		Logger:        logger,
		Finder:        finder,
		Executor:      executor,
		GitHubClient:  githubClient,
		Prompter:      prompter,
		Output:        command.OutOrStdout(),
		Platform:      platform,
		TokenResolver: builder.TokenResolver,
	})
	if serviceError != nil {
		return serviceError
	}

	configurationFilePath, _ := utils.ConfigurationFilePathFromContext(command.Context())

	return service.Run(command.Context(), Options{
		InstallMissing:        installMissing,
		AssumeYes:             assumeYes,
		ConfigurationFilePath: configurationFilePath,
	})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
