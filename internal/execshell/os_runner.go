package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

const environmentAssignmentTemplateConstant = "%s=%s"

// OSCommandRunner executes commands through os/exec, capturing both output
// streams and folding non-zero exits into the result.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs the process-backed runner.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command and waits for it to finish. A non-zero exit still
// produces a populated ExecutionResult; only failures to start the process
// surface as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	var standardOutput, standardError bytes.Buffer

	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Stdout = &standardOutput
	process.Stderr = &standardError
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}
	if len(command.Details.EnvironmentVariables) > 0 {
		process.Env = process.Environ()
		for variableName, variableValue := range command.Details.EnvironmentVariables {
			process.Env = append(process.Env, fmt.Sprintf(environmentAssignmentTemplateConstant, variableName, variableValue))
		}
	}

	runError := process.Run()
	var exitError *exec.ExitError
	if runError != nil && !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}

	result := ExecutionResult{
		StandardOutput: standardOutput.String(),
		StandardError:  standardError.String(),
	}
	if exitError != nil {
		result.ExitCode = exitError.ExitCode()
	}
	return result, nil
}
