package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

type scriptedCommandRunner struct {
	result   execshell.ExecutionResult
	failure  error
	commands []execshell.ShellCommand
}

func (runner *scriptedCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.commands = append(runner.commands, command)
	return runner.result, runner.failure
}

type countingEventObserver struct {
	started   []execshell.ShellCommand
	completed []execshell.ShellCommand
	failed    []execshell.ShellCommand
}

func (observerInstance *countingEventObserver) CommandStarted(command execshell.ShellCommand) {
	observerInstance.started = append(observerInstance.started, command)
}

func (observerInstance *countingEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observerInstance.completed = append(observerInstance.completed, command)
}

func (observerInstance *countingEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observerInstance.failed = append(observerInstance.failed, command)
}

func TestNewShellExecutorRequiresDependencies(testInstance *testing.T) {
	_, missingLoggerError := execshell.NewShellExecutor(nil, &scriptedCommandRunner{})
	require.ErrorIs(testInstance, missingLoggerError, execshell.ErrLoggerNotConfigured)

	_, missingRunnerError := execshell.NewShellExecutor(zap.NewNop(), nil)
	require.ErrorIs(testInstance, missingRunnerError, execshell.ErrCommandRunnerNotConfigured)

	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), &scriptedCommandRunner{})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, executor)
}

func TestExecuteReturnsRunnerOutput(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	runner := &scriptedCommandRunner{result: execshell.ExecutionResult{StandardOutput: "origin/main\n"}}
	executor, creationError := execshell.NewShellExecutor(zap.New(observerCore), runner)
	require.NoError(testInstance, creationError)

	result, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"symbolic-ref", "refs/remotes/origin/HEAD"},
		WorkingDirectory: "/home/operator/sites/acme-plumbing",
	})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "origin/main\n", result.StandardOutput)
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, execshell.CommandGit, runner.commands[0].Name)
	require.Len(testInstance, observedLogs.All(), 2)
}

func TestExecuteMapsNonZeroExitToCommandFailedError(testInstance *testing.T) {
	runner := &scriptedCommandRunner{result: execshell.ExecutionResult{
		ExitCode:      128,
		StandardError: "fatal: repository not found\n",
	}}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{Arguments: []string{"repo", "view"}})

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &commandFailure)
	require.Equal(testInstance, execshell.CommandGitHub, commandFailure.Command.Name)
	require.Equal(testInstance, 128, commandFailure.Result.ExitCode)
	require.Contains(testInstance, commandFailure.Error(), "fatal: repository not found")
}

func TestExecuteWrapsRunnerFailures(testInstance *testing.T) {
	spawnFailure := errors.New("executable file not found in $PATH")
	runner := &scriptedCommandRunner{failure: spawnFailure}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"fetch"}})

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(testInstance, executionError, &executionFailure)
	require.ErrorIs(testInstance, executionError, spawnFailure)
}

func TestExecuteRejectsBlankCommandName(testInstance *testing.T) {
	runner := &scriptedCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.Execute(context.Background(), execshell.ShellCommand{Name: "  "})

	require.ErrorIs(testInstance, executionError, execshell.ErrCommandNameMissing)
	require.Empty(testInstance, runner.commands)
}

func TestExecuteRunsArbitraryInstallerCommand(testInstance *testing.T) {
	runner := &scriptedCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.Execute(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandName("brew"),
		Details: execshell.CommandDetails{Arguments: []string{"install", "gh"}},
	})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, execshell.CommandName("brew"), runner.commands[0].Name)
}

func TestExecuteNotifiesRegisteredObservers(testInstance *testing.T) {
	eventObserver := &countingEventObserver{}
	runner := &scriptedCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner, eventObserver)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"fetch", "--prune", "origin"}})
	require.NoError(testInstance, executionError)
	require.Len(testInstance, eventObserver.started, 1)
	require.Len(testInstance, eventObserver.completed, 1)
	require.Empty(testInstance, eventObserver.failed)

	runner.failure = errors.New("spawn failure")
	_, executionError = executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"push"}})
	require.Error(testInstance, executionError)
	require.Len(testInstance, eventObserver.failed, 1)
}
