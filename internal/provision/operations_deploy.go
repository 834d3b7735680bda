package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
)

const (
	syncStageBranchOperationNameConstant = "sync-stage-branch"
	launchEditorOperationNameConstant    = "launch-editor"

	deploySkippedPhaseTemplateConstant = "Stage branch sync skipped for %s"
	syncingStagePhaseTemplateConstant  = "Syncing branch %s to %s"
	stageSyncedPhaseTemplateConstant   = "Branch %s pushed to %s"
	stageFailedPhaseTemplateConstant   = "Branch %s could not be deployed"

	openingEditorPhaseTemplateConstant = "Opening %s"
	editorOpenedPhaseTemplateConstant  = "Opened %s with %s"
	editorFailedPhaseMessageConstant   = "Editor launch failed; continuing"

	stageSyncDiagnosisTemplateConstant     = "synchronizing branch %s in %s failed"
	dirtyWorktreeDiagnosisTemplateConstant = "%s has local changes the stage sync would overwrite"
	defaultBranchUnknownMessageConstant    = "remote default branch is unknown"

	remoteBranchSeparatorConstant = "/"
)

// ErrDefaultBranchUnknown indicates repository metadata does not carry a default branch.
var ErrDefaultBranchUnknown = errors.New(defaultBranchUnknownMessageConstant)

// SyncStageBranchOperation force-resets the stage branch to the remote default
// branch head and pushes it, triggering the deployment pipeline.
type SyncStageBranchOperation struct{}

// Name identifies the operation.
func (operation *SyncStageBranchOperation) Name() string {
	return syncStageBranchOperationNameConstant
}

// Execute verifies the worktree is clean, then fetches and force-pushes the stage branch.
func (operation *SyncStageBranchOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	stageBranch := environment.Configuration.StageBranch
	if environment.SkipDeploy {
		environment.Progress.StartPhase(fmt.Sprintf(deploySkippedPhaseTemplateConstant, state.RepositoryName))
		environment.Progress.CompletePhase(fmt.Sprintf(deploySkippedPhaseTemplateConstant, state.RepositoryName))
		return nil
	}

	if len(state.Repository.DefaultBranch) == 0 {
		return ErrDefaultBranchUnknown
	}

	environment.Progress.StartPhase(fmt.Sprintf(syncingStagePhaseTemplateConstant, stageBranch, state.RepositoryName))

	startPoint := gitrepo.OriginRemoteNameConstant + remoteBranchSeparatorConstant + state.Repository.DefaultBranch

	worktreeClean, cleanCheckError := environment.RepositoryManager.CheckCleanWorktree(executionContext, state.ClonePath)
	if cleanCheckError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(stageFailedPhaseTemplateConstant, stageBranch))
		return operation.buildRecoveryError(state, stageBranch, startPoint, cleanCheckError)
	}
	if !worktreeClean {
		environment.Progress.FailPhase(fmt.Sprintf(stageFailedPhaseTemplateConstant, stageBranch))
		return RecoveryError{
			Step:      syncStageBranchOperationNameConstant,
			Diagnosis: fmt.Sprintf(dirtyWorktreeDiagnosisTemplateConstant, state.ClonePath),
			Instructions: []string{
				fmt.Sprintf("Commit or stash the local changes: git -C %s status", state.ClonePath),
				fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
			},
		}
	}

	if fetchError := environment.RepositoryManager.FetchRemote(executionContext, state.ClonePath, gitrepo.OriginRemoteNameConstant); fetchError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(stageFailedPhaseTemplateConstant, stageBranch))
		return operation.buildRecoveryError(state, stageBranch, startPoint, fetchError)
	}
	if checkoutError := environment.RepositoryManager.ForceCheckoutBranch(executionContext, state.ClonePath, stageBranch, startPoint); checkoutError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(stageFailedPhaseTemplateConstant, stageBranch))
		return operation.buildRecoveryError(state, stageBranch, startPoint, checkoutError)
	}
	if pushError := environment.RepositoryManager.ForcePushBranch(executionContext, state.ClonePath, gitrepo.OriginRemoteNameConstant, stageBranch); pushError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(stageFailedPhaseTemplateConstant, stageBranch))
		return operation.buildRecoveryError(state, stageBranch, startPoint, pushError)
	}

	environment.Progress.CompletePhase(fmt.Sprintf(stageSyncedPhaseTemplateConstant, stageBranch, state.RepositoryName))
	return nil
}

func (operation *SyncStageBranchOperation) buildRecoveryError(state *State, stageBranch string, startPoint string, cause error) error {
	return RecoveryError{
		Step:      syncStageBranchOperationNameConstant,
		Diagnosis: fmt.Sprintf(stageSyncDiagnosisTemplateConstant, stageBranch, state.ClonePath),
		Instructions: []string{
			fmt.Sprintf("Run manually: git -C %s fetch --prune %s", state.ClonePath, gitrepo.OriginRemoteNameConstant),
			fmt.Sprintf("Run manually: git -C %s checkout -B %s %s", state.ClonePath, stageBranch, startPoint),
			fmt.Sprintf("Run manually: git -C %s push --force --set-upstream %s %s", state.ClonePath, gitrepo.OriginRemoteNameConstant, stageBranch),
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
		Cause: cause,
	}
}

// LaunchEditorOperation opens the provisioned workspace in the operator's
// editor. Launch failures are reported but never fail the provisioning run.
type LaunchEditorOperation struct{}

// Name identifies the operation.
func (operation *LaunchEditorOperation) Name() string {
	return launchEditorOperationNameConstant
}

// Execute performs the best-effort editor launch.
func (operation *LaunchEditorOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if !environment.OpenEditor {
		environment.Logger.Debug("editor launch disabled", zap.String("workspace", state.ClonePath))
		return nil
	}
	if environment.EditorLauncher == nil {
		environment.Logger.Debug("no editor launcher configured", zap.String("workspace", state.ClonePath))
		return nil
	}

	environment.Progress.StartPhase(fmt.Sprintf(openingEditorPhaseTemplateConstant, state.ClonePath))
	launcherName, openError := environment.EditorLauncher.Open(executionContext, state.ClonePath)
	if openError != nil {
		environment.Logger.Warn("editor launch failed",
			zap.String("workspace", state.ClonePath),
			zap.Error(openError),
		)
		environment.Progress.FailPhase(editorFailedPhaseMessageConstant)
		return nil
	}

	environment.Progress.CompletePhase(fmt.Sprintf(editorOpenedPhaseTemplateConstant, state.ClonePath, launcherName))
	return nil
}
