package provision

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/editor"
	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
	"github.com/ciwebgroup/cli-tools/internal/ui"
	"github.com/ciwebgroup/cli-tools/internal/utils"
	"github.com/ciwebgroup/cli-tools/internal/utils/flags"
	pathutils "github.com/ciwebgroup/cli-tools/internal/utils/path"
)

const (
	commandUseConstant   = "provision [domain]"
	commandShortConstant = "Provision a client website repository"
	commandLongConstant  = "Provision creates the client repository from the site template, configures its Actions variables, drives the infrastructure workflow to completion, and deploys the stage branch."

	domainFlagNameConstant  = "domain"
	domainFlagUsageConstant = "Production domain of the client site"

	protocolFlagDescriptionConstant = "Protocol for cloning the client repository"
	branchFlagUsageConstant         = "Stage branch pushed to trigger deployment"

	domainPromptConstant               = "Production domain: "
	manualCompletionPromptConstant     = "Did you complete these steps manually? [y/N]: "
	manualRecoveryHeaderTemplate       = "\nManual recovery required (%s): %s\n"
	manualRecoveryStepTemplate         = "  %d. %s\n"
	manualCompletionMessageConstant    = "Provisioning marked complete manually.\n"
	provisionedMessageTemplateConstant = "Provisioned %s into %s\n"

	domainMissingMessageConstant = "production domain must be provided"

	shellExecutorErrorTemplateConstant     = "failed to construct shell executor: %w"
	repositoryManagerErrorTemplateConstant = "failed to construct repository manager: %w"
	githubClientErrorTemplateConstant      = "failed to construct GitHub client: %w"
	editorLauncherErrorTemplateConstant    = "failed to construct editor launcher: %w"
)

// ErrDomainRequired indicates no production domain was supplied or entered.
var ErrDomainRequired = errors.New(domainMissingMessageConstant)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies provisioning configuration during command execution.
type ConfigurationProvider func() Configuration

// EditorConfigurationProvider supplies editor settings for the final launch step.
type EditorConfigurationProvider func() editor.Configuration

// InteractivityChecker reports whether the command runs on an interactive terminal.
type InteractivityChecker func() bool

// CommandBuilder assembles the provision cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	EditorConfigurationProvider EditorConfigurationProvider
	CommandRunner               execshell.CommandRunner
	EditorFinder                editor.ExecutableFinder
	FileSystem                  FileSystem
	Clock                       Clock
	Prompter                    ui.ConfirmationPrompter
	LineReader                  ui.LineReader
	Progress                    ui.ProgressReporter
	HomeExpander                *pathutils.HomeExpander
	InteractivityChecker        InteractivityChecker
	CommandEventsObserver       execshell.CommandEventObserver
}

// Build constructs the provision cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		Args:  cobra.MaximumNArgs(1),
	}

	var openEditorFlag bool
	command.Flags().String(domainFlagNameConstant, "", domainFlagUsageConstant)
	command.Flags().Bool(flags.SkipDeployFlagName, false, flags.SkipDeployFlagUsage)
	flags.AddToggleFlag(command.Flags(), &openEditorFlag, flags.OpenEditorFlagName, "", true, flags.OpenEditorFlagUsage)
	command.Flags().String(flags.WorkspaceFlagName, "", flags.WorkspaceFlagUsage)
	command.Flags().String(flags.ProtocolFlagName, "", flags.FormatChoiceUsage(string(gitrepo.RemoteProtocolSSH), []string{string(gitrepo.RemoteProtocolSSH), string(gitrepo.RemoteProtocolHTTPS)}, protocolFlagDescriptionConstant))
	branchValues := flags.BindBranchFlags(command, flags.BranchFlagValues{}, flags.BranchFlagDefinition{
		Name:    flags.BranchFlagName,
		Usage:   branchFlagUsageConstant,
		Enabled: true,
	})
	flags.BindAssumeYesFlag(command, false)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, openEditorFlag, branchValues)
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, openEditorFlag bool, branchValues *flags.BranchFlagValues) error {
	logger := builder.resolveLogger()

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = builder.applyFlagOverrides(command, configuration, branchValues)

	interactive := builder.resolveInteractivity()
	assumeYes := false
	if flagValue, flagError := command.Flags().GetBool(flags.AssumeYesFlagName); flagError == nil {
		assumeYes = flagValue
	}
	skipDeploy := false
	if flagValue, flagError := command.Flags().GetBool(flags.SkipDeployFlagName); flagError == nil {
		skipDeploy = flagValue
	}
	openEditor := configuration.OpenEditor
	if command.Flags().Changed(flags.OpenEditorFlagName) {
		openEditor = openEditorFlag
	}

	domain, domainError := builder.resolveDomain(command, arguments, interactive)
	if domainError != nil {
		return domainError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	errorsWriter := utils.NewFlushingWriter(command.ErrOrStderr())

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, builder.CommandEventsObserver)
	if executorError != nil {
		return fmt.Errorf(shellExecutorErrorTemplateConstant, executorError)
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerErrorTemplateConstant, managerError)
	}

	githubClient, clientError := githubcli.NewClient(shellExecutor)
	if clientError != nil {
		return fmt.Errorf(githubClientErrorTemplateConstant, clientError)
	}

	editorLauncher, launcherError := builder.buildEditorLauncher(logger, shellExecutor)
	if launcherError != nil {
		return fmt.Errorf(editorLauncherErrorTemplateConstant, launcherError)
	}

	completionPrompter := builder.Prompter
	if completionPrompter == nil {
		completionPrompter = ui.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
	}
	environmentPrompter := completionPrompter
	if assumeYes {
		environmentPrompter = ui.AssumeYesPrompter{}
	}

	progress := builder.Progress
	if progress == nil {
		progress = ui.NewProgressReporter(logger, os.Stdout)
	}

	executor := NewExecutor(DefaultOperations(), configuration, Dependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		GitHubClient:      githubClient,
		EditorLauncher:    editorLauncher,
		FileSystem:        builder.FileSystem,
		Clock:             builder.Clock,
		Prompter:          environmentPrompter,
		Progress:          progress,
		Output:            outputWriter,
		Errors:            errorsWriter,
	})

	state, executionError := executor.Execute(command.Context(), RuntimeOptions{
		Domain:      domain,
		SkipDeploy:  skipDeploy,
		OpenEditor:  openEditor,
		Interactive: interactive,
	})
	if executionError != nil {
		return builder.handleExecutionError(executionError, interactive, completionPrompter, outputWriter, errorsWriter)
	}

	fmt.Fprintf(outputWriter, provisionedMessageTemplateConstant, state.Domain, state.ClonePath)
	return nil
}

// applyFlagOverrides folds explicit flag values over the resolved configuration.
func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, configuration Configuration, branchValues *flags.BranchFlagValues) Configuration {
	if command.Flags().Changed(flags.WorkspaceFlagName) {
		if workspaceValue, workspaceError := command.Flags().GetString(flags.WorkspaceFlagName); workspaceError == nil {
			configuration.WorkspaceRoot = workspaceValue
		}
	}
	if command.Flags().Changed(flags.ProtocolFlagName) {
		if protocolValue, protocolError := command.Flags().GetString(flags.ProtocolFlagName); protocolError == nil {
			configuration.CloneProtocol = protocolValue
		}
	}
	if command.Flags().Changed(flags.BranchFlagName) && branchValues != nil {
		configuration.StageBranch = branchValues.Name
	}

	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	configuration.WorkspaceRoot = homeExpander.Expand(strings.TrimSpace(configuration.WorkspaceRoot))

	return configuration
}

// resolveDomain prefers the positional argument, then the domain flag, then an
// interactive prompt.
func (builder *CommandBuilder) resolveDomain(command *cobra.Command, arguments []string, interactive bool) (string, error) {
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		return strings.TrimSpace(arguments[0]), nil
	}

	if flagValue, flagError := command.Flags().GetString(domainFlagNameConstant); flagError == nil {
		if len(strings.TrimSpace(flagValue)) > 0 {
			return strings.TrimSpace(flagValue), nil
		}
	}

	if !interactive {
		return "", ErrDomainRequired
	}

	lineReader := builder.LineReader
	if lineReader == nil {
		lineReader = ui.NewIOLineReader(command.InOrStdin(), command.OutOrStdout())
	}
	enteredDomain, readError := lineReader.ReadLine(domainPromptConstant)
	if readError != nil {
		return "", readError
	}
	if len(strings.TrimSpace(enteredDomain)) == 0 {
		return "", ErrDomainRequired
	}
	return strings.TrimSpace(enteredDomain), nil
}

func (builder *CommandBuilder) buildEditorLauncher(logger *zap.Logger, shellExecutor *execshell.ShellExecutor) (*editor.Launcher, error) {
	editorConfiguration := editor.Configuration{}
	if builder.EditorConfigurationProvider != nil {
		editorConfiguration = builder.EditorConfigurationProvider()
	}

	finder := builder.EditorFinder
	if finder == nil {
		finder = exec.LookPath
	}

	return editor.NewLauncher(editor.LauncherDependencies{
		Logger:            logger,
		Finder:            finder,
		Executor:          shellExecutor,
		Platform:          runtime.GOOS,
		ConfiguredCommand: editorConfiguration.Command,
	})
}

// handleExecutionError prints manual recovery instructions and, on interactive
// terminals, lets the operator mark the run complete after following them.
func (builder *CommandBuilder) handleExecutionError(executionError error, interactive bool, completionPrompter ui.ConfirmationPrompter, outputWriter io.Writer, errorsWriter io.Writer) error {
	var recoveryError RecoveryError
	if !errors.As(executionError, &recoveryError) {
		return executionError
	}

	fmt.Fprintf(errorsWriter, manualRecoveryHeaderTemplate, recoveryError.Step, recoveryError.Diagnosis)
	for instructionIndex, instruction := range recoveryError.Instructions {
		fmt.Fprintf(errorsWriter, manualRecoveryStepTemplate, instructionIndex+1, instruction)
	}

	if !interactive || completionPrompter == nil {
		return executionError
	}

	confirmed, confirmationError := completionPrompter.Confirm(manualCompletionPromptConstant)
	if confirmationError != nil || !confirmed {
		return executionError
	}

	fmt.Fprint(outputWriter, manualCompletionMessageConstant)
	return nil
}

func (builder *CommandBuilder) resolveInteractivity() bool {
	if builder.InteractivityChecker != nil {
		return builder.InteractivityChecker()
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
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
