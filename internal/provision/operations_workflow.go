package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/githubcli"
)

const (
	dispatchWorkflowOperationNameConstant = "dispatch-workflow"
	awaitWorkflowOperationNameConstant    = "await-workflow"

	workflowHistoryLimitConstant = 20

	checkingHistoryPhaseTemplateConstant  = "Checking workflow history for %s"
	alreadySucceededPhaseTemplateConstant = "Workflow %s already succeeded; skipping dispatch"
	dispatchingPhaseTemplateConstant      = "Dispatching workflow %s on %s"
	workflowPendingPhaseTemplateConstant  = "Workflow %s is not registered yet (attempt %d/%d)"
	dispatchedPhaseTemplateConstant       = "Workflow %s dispatched"
	dispatchFailedPhaseTemplateConstant   = "Workflow %s could not be dispatched"

	awaitingRunPhaseTemplateConstant    = "Waiting for workflow %s to complete"
	runProgressPhaseTemplateConstant    = "Workflow run is %s (attempt %d/%d)"
	runSucceededPhaseTemplateConstant   = "Workflow %s completed successfully"
	runFailedPhaseTemplateConstant      = "Workflow %s did not succeed"
	stuckRunPromptTemplateConstant      = "No runner has picked up the workflow run after %s. Keep waiting? [y/N]: "
	dispatchDiagnosisTemplateConstant   = "workflow %s never registered on %s after %d attempts"
	runFailureDiagnosisTemplateConstant = "workflow run concluded %s"
	stuckRunDiagnosisTemplateConstant   = "no runner picked up the workflow run within %s"
	runTimeoutDiagnosisTemplateConstant = "workflow run did not complete after %d checks"
)

// DispatchWorkflowOperation triggers the infrastructure workflow unless a
// successful run already exists.
type DispatchWorkflowOperation struct{}

// Name identifies the operation.
func (operation *DispatchWorkflowOperation) Name() string {
	return dispatchWorkflowOperationNameConstant
}

// Execute inspects run history and dispatches the workflow, retrying while
// GitHub has not registered the workflow file yet.
func (operation *DispatchWorkflowOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	workflowFile := environment.Configuration.InfraWorkflow
	environment.Progress.StartPhase(fmt.Sprintf(checkingHistoryPhaseTemplateConstant, state.RepositoryName))

	historicalRuns, historyError := environment.GitHubClient.ListWorkflowRuns(executionContext, state.RepositoryName, githubcli.WorkflowRunListOptions{
		WorkflowFile: workflowFile,
		ResultLimit:  workflowHistoryLimitConstant,
	})
	if historyError != nil && !errors.Is(historyError, githubcli.ErrWorkflowNotFound) {
		environment.Progress.FailPhase(fmt.Sprintf(dispatchFailedPhaseTemplateConstant, workflowFile))
		return historyError
	}
	for runIndex := range historicalRuns {
		historicalRun := historicalRuns[runIndex]
		if historicalRun.Status.IsCompleted() && historicalRun.Conclusion.IsSuccessful() {
			state.RunPreexisting = true
			state.CompletedRun = &historicalRun
			environment.Progress.CompletePhase(fmt.Sprintf(alreadySucceededPhaseTemplateConstant, workflowFile))
			return nil
		}
	}

	polling := environment.Configuration.Dispatch
	environment.Progress.UpdatePhase(fmt.Sprintf(dispatchingPhaseTemplateConstant, workflowFile, state.RepositoryName))

	for attemptIndex := 1; attemptIndex <= polling.Attempts; attemptIndex++ {
		dispatchError := environment.GitHubClient.DispatchWorkflow(executionContext, state.RepositoryName, workflowFile, state.Repository.DefaultBranch)
		if dispatchError == nil {
			environment.Progress.CompletePhase(fmt.Sprintf(dispatchedPhaseTemplateConstant, workflowFile))
			return nil
		}
		if !errors.Is(dispatchError, githubcli.ErrWorkflowNotFound) {
			environment.Progress.FailPhase(fmt.Sprintf(dispatchFailedPhaseTemplateConstant, workflowFile))
			return dispatchError
		}
		if attemptIndex == polling.Attempts {
			break
		}
		environment.Progress.UpdatePhase(fmt.Sprintf(workflowPendingPhaseTemplateConstant, workflowFile, attemptIndex, polling.Attempts))
		if sleepError := environment.Clock.Sleep(executionContext, polling.Interval); sleepError != nil {
			environment.Progress.FailPhase(fmt.Sprintf(dispatchFailedPhaseTemplateConstant, workflowFile))
			return sleepError
		}
	}

	environment.Progress.FailPhase(fmt.Sprintf(dispatchFailedPhaseTemplateConstant, workflowFile))
	return RecoveryError{
		Step:      dispatchWorkflowOperationNameConstant,
		Diagnosis: fmt.Sprintf(dispatchDiagnosisTemplateConstant, workflowFile, state.RepositoryName, polling.Attempts),
		Instructions: []string{
			fmt.Sprintf("Confirm the template provides .github/workflows/%s.", workflowFile),
			fmt.Sprintf("Dispatch manually once it appears: gh workflow run %s --repo %s", workflowFile, state.RepositoryName),
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
	}
}

// AwaitWorkflowOperation polls the newest run of the infrastructure workflow
// until it completes, diagnosing runs that no runner picks up.
type AwaitWorkflowOperation struct{}

// Name identifies the operation.
func (operation *AwaitWorkflowOperation) Name() string {
	return awaitWorkflowOperationNameConstant
}

// Execute waits for the run to reach a terminal state.
func (operation *AwaitWorkflowOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	workflowFile := environment.Configuration.InfraWorkflow
	if state.RunPreexisting {
		environment.Progress.StartPhase(fmt.Sprintf(runSucceededPhaseTemplateConstant, workflowFile))
		environment.Progress.CompletePhase(fmt.Sprintf(runSucceededPhaseTemplateConstant, workflowFile))
		return nil
	}

	completion := environment.Configuration.Completion
	environment.Progress.StartPhase(fmt.Sprintf(awaitingRunPhaseTemplateConstant, workflowFile))
	stuckDeadline := environment.Clock.Now().Add(completion.StuckAfter)

	for attemptIndex := 1; attemptIndex <= completion.Attempts; attemptIndex++ {
		latestRun, runKnown := operation.lookupLatestRun(executionContext, environment, state, workflowFile)
		if runKnown {
			if latestRun.Status.IsCompleted() {
				return operation.handleCompletedRun(environment, state, workflowFile, latestRun)
			}
			if latestRun.Status.IsPreRunner() && environment.Clock.Now().After(stuckDeadline) {
				keepWaiting := operation.confirmContinuedWaiting(environment, completion)
				if !keepWaiting {
					environment.Progress.FailPhase(fmt.Sprintf(runFailedPhaseTemplateConstant, workflowFile))
					return operation.buildStuckError(environment, state, latestRun, completion)
				}
				stuckDeadline = environment.Clock.Now().Add(completion.StuckAfter)
			}
			environment.Progress.UpdatePhase(fmt.Sprintf(runProgressPhaseTemplateConstant, latestRun.Status, attemptIndex, completion.Attempts))
		}
		if attemptIndex == completion.Attempts {
			break
		}
		if sleepError := environment.Clock.Sleep(executionContext, completion.Interval); sleepError != nil {
			environment.Progress.FailPhase(fmt.Sprintf(runFailedPhaseTemplateConstant, workflowFile))
			return sleepError
		}
	}

	environment.Progress.FailPhase(fmt.Sprintf(runFailedPhaseTemplateConstant, workflowFile))
	return RecoveryError{
		Step:      awaitWorkflowOperationNameConstant,
		Diagnosis: fmt.Sprintf(runTimeoutDiagnosisTemplateConstant, completion.Attempts),
		Instructions: []string{
			fmt.Sprintf("Watch the run: %s", runWebAddress(state)),
			fmt.Sprintf("When it completes successfully, re-run: ciweb provision %s", state.Domain),
		},
	}
}

// lookupLatestRun fetches the newest run, tolerating transient listing failures.
func (operation *AwaitWorkflowOperation) lookupLatestRun(executionContext context.Context, environment *Environment, state *State, workflowFile string) (githubcli.WorkflowRun, bool) {
	listedRuns, listError := environment.GitHubClient.ListWorkflowRuns(executionContext, state.RepositoryName, githubcli.WorkflowRunListOptions{
		WorkflowFile: workflowFile,
		ResultLimit:  1,
	})
	if listError != nil {
		environment.Logger.Warn("workflow run lookup failed",
			zap.String("repository", state.RepositoryName),
			zap.String("workflow", workflowFile),
			zap.Error(listError),
		)
		return githubcli.WorkflowRun{}, false
	}
	if len(listedRuns) == 0 {
		return githubcli.WorkflowRun{}, false
	}
	return listedRuns[0], true
}

func (operation *AwaitWorkflowOperation) handleCompletedRun(environment *Environment, state *State, workflowFile string, completedRun githubcli.WorkflowRun) error {
	if completedRun.Conclusion.IsSuccessful() {
		state.CompletedRun = &completedRun
		environment.Progress.CompletePhase(fmt.Sprintf(runSucceededPhaseTemplateConstant, workflowFile))
		return nil
	}

	environment.Progress.FailPhase(fmt.Sprintf(runFailedPhaseTemplateConstant, workflowFile))
	return RecoveryError{
		Step:      awaitWorkflowOperationNameConstant,
		Diagnosis: fmt.Sprintf(runFailureDiagnosisTemplateConstant, completedRun.Conclusion),
		Instructions: []string{
			fmt.Sprintf("Inspect the run logs: %s", completedRun.URL),
			"Fix the underlying failure in the repository or runner.",
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
	}
}

// confirmContinuedWaiting asks the operator whether to keep waiting for a
// runner; non-interactive runs never wait past the stuck threshold.
func (operation *AwaitWorkflowOperation) confirmContinuedWaiting(environment *Environment, completion CompletionConfiguration) bool {
	if !environment.Interactive || environment.Prompter == nil {
		return false
	}
	confirmed, confirmationError := environment.Prompter.Confirm(fmt.Sprintf(stuckRunPromptTemplateConstant, completion.StuckAfter))
	if confirmationError != nil {
		return false
	}
	return confirmed
}

func (operation *AwaitWorkflowOperation) buildStuckError(environment *Environment, state *State, stuckRun githubcli.WorkflowRun, completion CompletionConfiguration) error {
	return RecoveryError{
		Step:      awaitWorkflowOperationNameConstant,
		Diagnosis: fmt.Sprintf(stuckRunDiagnosisTemplateConstant, completion.StuckAfter),
		Instructions: []string{
			fmt.Sprintf("Check the self-hosted runner fleet: https://github.com/%s/settings/actions/runners", state.RepositoryName),
			"Start or repair a runner so queued jobs can execute.",
			fmt.Sprintf("Watch the queued run: %s", stuckRun.URL),
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
	}
}

func runWebAddress(state *State) string {
	if state.CompletedRun != nil && len(state.CompletedRun.URL) > 0 {
		return state.CompletedRun.URL
	}
	return "https://github.com/" + state.RepositoryName + "/actions"
}
