package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

const (
	commandStartedTemplateConstant   = "Running %s"
	commandSucceededTemplateConstant = "Completed %s"
	commandFailedTemplateConstant    = "%s exited with code %d"
	commandErroredTemplateConstant   = "%s could not run: %s"
	workingDirectoryTemplateConstant = "%s (in %s)"
	failureDetailTemplateConstant    = "%s: %s"
	unknownFailureMessageConstant    = "unknown error"
	argumentSeparatorConstant        = " "
)

// ConsoleCommandEventLogger narrates shell command lifecycle events through a
// console-formatted zap logger. It satisfies execshell.CommandEventObserver.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger wraps the provided logger. A nil logger
// silences the narration.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted announces the command about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(fmt.Sprintf(commandStartedTemplateConstant, describeCommand(command)))
}

// CommandCompleted reports the outcome of a finished command, warning when the
// exit code is non-zero.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(fmt.Sprintf(commandSucceededTemplateConstant, describeCommand(command)))
		return
	}

	failureMessage := fmt.Sprintf(commandFailedTemplateConstant, describeCommand(command), result.ExitCode)
	if failureDetail := strings.TrimSpace(result.StandardError); len(failureDetail) > 0 {
		failureMessage = fmt.Sprintf(failureDetailTemplateConstant, failureMessage, failureDetail)
	}
	eventLogger.logger.Warn(failureMessage)
}

// CommandExecutionFailed reports a command the shell could not run at all.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	eventLogger.logger.Error(fmt.Sprintf(commandErroredTemplateConstant, describeCommand(command), failureMessage))
}

// describeCommand renders the binary, its arguments, and the working
// directory when one is set.
func describeCommand(command execshell.ShellCommand) string {
	commandWords := append([]string{string(command.Name)}, command.Details.Arguments...)
	rendered := strings.TrimSpace(strings.Join(commandWords, argumentSeparatorConstant))
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return rendered
	}
	return fmt.Sprintf(workingDirectoryTemplateConstant, rendered, workingDirectory)
}
