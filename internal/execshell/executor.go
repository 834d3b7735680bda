package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CommandName identifies the executable invoked by the shell executor.
type CommandName string

const (
	// CommandGit identifies the git executable.
	CommandGit CommandName = "git"
	// CommandGitHub identifies the GitHub CLI executable.
	CommandGitHub CommandName = "gh"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandNameMissingMessageConstant         = "command name not provided"
	commandFailedTemplateConstant             = "%s exited with code %d%s"
	commandExecutionFailedTemplateConstant    = "%s execution failed: %s"
	commandStandardErrorSeparatorConstant     = ": "
	commandFieldNameConstant                  = "command"
	argumentsFieldNameConstant                = "arguments"
	workingDirectoryFieldNameConstant         = "working_directory"
	exitCodeFieldNameConstant                 = "exit_code"
	standardErrorFieldNameConstant            = "standard_error"
)

var (
	// ErrLoggerNotConfigured reports that the executor requires a logger instance.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured reports that the executor requires a command runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrCommandNameMissing reports that a shell command was submitted without an executable name.
	ErrCommandNameMissing = errors.New(commandNameMissingMessageConstant)
)

// CommandDetails describes the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution so tests can substitute recorded results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including trimmed standard error output.
func (failure CommandFailedError) Error() string {
	standardErrorSuffix := ""
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		standardErrorSuffix = commandStandardErrorSeparatorConstant + trimmedStandardError
	}
	return fmt.Sprintf(commandFailedTemplateConstant, string(failure.Command.Name), failure.Result.ExitCode, standardErrorSuffix)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, string(failure.Command.Name), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As chains.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs shell commands with structured logging and observer notifications.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		eventObserver:    combineCommandEventObservers(observers),
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// ExecuteGit runs the git executable with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitHubCLI runs the gh executable with the provided details.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}

// Execute runs an arbitrary command, logging lifecycle events and mapping failures to typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(string(command.Name))) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	executor.logCommandStarted(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.logExecutionFailure(command, runError)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, executionFailure
	}

	executor.logCommandCompleted(command, executionResult)
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

func (executor *ShellExecutor) logCommandStarted(command ShellCommand) {
	if !executor.messageFormatter.shouldLogStartMessage(command) {
		executor.logger.Debug(
			executor.messageFormatter.BuildStartedMessage(command),
			executor.commandFields(command)...,
		)
		return
	}
	executor.logger.Info(
		executor.messageFormatter.BuildStartedMessage(command),
		executor.commandFields(command)...,
	)
}

func (executor *ShellExecutor) logCommandCompleted(command ShellCommand, result ExecutionResult) {
	completionFields := append(
		executor.commandFields(command),
		zap.Int(exitCodeFieldNameConstant, result.ExitCode),
	)
	if result.ExitCode == 0 {
		if !executor.messageFormatter.shouldLogStartMessage(command) {
			executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command), completionFields...)
			return
		}
		executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command), completionFields...)
		return
	}

	failureFields := append(
		completionFields,
		zap.String(standardErrorFieldNameConstant, strings.TrimSpace(result.StandardError)),
	)
	executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, result), failureFields...)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	executor.logger.Error(
		executor.messageFormatter.BuildExecutionFailureMessage(command, failure),
		append(executor.commandFields(command), zap.Error(failure))...,
	)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(commandFieldNameConstant, string(command.Name)),
		zap.Strings(argumentsFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	}
}
