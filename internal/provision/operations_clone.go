package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
)

const (
	ensureCloneOperationNameConstant = "ensure-clone"

	gitMetadataDirectoryNameConstant = ".git"
	workspacePermissionsConstant     = fs.FileMode(0o755)

	preparingWorkspacePhaseTemplateConstant = "Preparing workspace %s"
	refreshingClonePhaseTemplateConstant    = "Refreshing existing clone in %s"
	cloningPhaseTemplateConstant            = "Cloning %s into %s"
	cloneReadyPhaseTemplateConstant         = "Workspace %s is ready"
	cloneFailedPhaseTemplateConstant        = "Workspace %s could not be prepared"

	cloneDiagnosisTemplateConstant         = "cloning %s failed"
	fetchDiagnosisTemplateConstant         = "refreshing the existing clone in %s failed"
	occupiedDiagnosisTemplateConstant      = "%s exists but is not a git repository"
	foreignRemoteDiagnosisTemplateConstant = "%s tracks %s instead of %s"
)

// EnsureCloneOperation guarantees a local working copy of the client
// repository under the workspace root, reusing an existing clone when present.
type EnsureCloneOperation struct{}

// Name identifies the operation.
func (operation *EnsureCloneOperation) Name() string {
	return ensureCloneOperationNameConstant
}

// Execute clones the repository or refreshes a clone left by a previous run.
func (operation *EnsureCloneOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	environment.Progress.StartPhase(fmt.Sprintf(preparingWorkspacePhaseTemplateConstant, state.ClonePath))

	gitMetadataPath := filepath.Join(state.ClonePath, gitMetadataDirectoryNameConstant)
	_, metadataStatError := environment.FileSystem.Stat(gitMetadataPath)
	switch {
	case metadataStatError == nil:
		return operation.refreshExistingClone(executionContext, environment, state)
	case errors.Is(metadataStatError, fs.ErrNotExist):
		return operation.createClone(executionContext, environment, state)
	default:
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return metadataStatError
	}
}

func (operation *EnsureCloneOperation) refreshExistingClone(executionContext context.Context, environment *Environment, state *State) error {
	environment.Progress.UpdatePhase(fmt.Sprintf(refreshingClonePhaseTemplateConstant, state.ClonePath))

	insideWorktree, worktreeError := environment.RepositoryManager.IsWorkingTree(executionContext, state.ClonePath)
	if worktreeError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return worktreeError
	}
	if !insideWorktree {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return occupiedPathRecoveryError(state)
	}

	originURL, originError := environment.RepositoryManager.GetRemoteURL(executionContext, state.ClonePath, gitrepo.OriginRemoteNameConstant)
	if originError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return originError
	}
	if !remoteMatchesRepository(originURL, state.CloneURL) {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return RecoveryError{
			Step:      ensureCloneOperationNameConstant,
			Diagnosis: fmt.Sprintf(foreignRemoteDiagnosisTemplateConstant, state.ClonePath, originURL, state.CloneURL),
			Instructions: []string{
				fmt.Sprintf("Move the directory out of the way: mv %s %s.bak", state.ClonePath, state.ClonePath),
				fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
			},
		}
	}

	if fetchError := environment.RepositoryManager.FetchRemote(executionContext, state.ClonePath, gitrepo.OriginRemoteNameConstant); fetchError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return RecoveryError{
			Step:      ensureCloneOperationNameConstant,
			Diagnosis: fmt.Sprintf(fetchDiagnosisTemplateConstant, state.ClonePath),
			Instructions: []string{
				fmt.Sprintf("Run manually: git -C %s fetch --prune %s", state.ClonePath, gitrepo.OriginRemoteNameConstant),
				"Check your network connection and repository access.",
				fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
			},
			Cause: fetchError,
		}
	}

	environment.Progress.CompletePhase(fmt.Sprintf(cloneReadyPhaseTemplateConstant, state.ClonePath))
	return nil
}

func (operation *EnsureCloneOperation) createClone(executionContext context.Context, environment *Environment, state *State) error {
	if _, clonePathStatError := environment.FileSystem.Stat(state.ClonePath); clonePathStatError == nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return occupiedPathRecoveryError(state)
	}

	if mkdirError := environment.FileSystem.MkdirAll(filepath.Dir(state.ClonePath), workspacePermissionsConstant); mkdirError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return mkdirError
	}

	environment.Progress.UpdatePhase(fmt.Sprintf(cloningPhaseTemplateConstant, state.CloneURL, state.ClonePath))
	if cloneError := environment.RepositoryManager.CloneRepository(executionContext, state.CloneURL, state.ClonePath); cloneError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(cloneFailedPhaseTemplateConstant, state.ClonePath))
		return RecoveryError{
			Step:      ensureCloneOperationNameConstant,
			Diagnosis: fmt.Sprintf(cloneDiagnosisTemplateConstant, state.CloneURL),
			Instructions: []string{
				fmt.Sprintf("Clone manually: git clone %s %s", state.CloneURL, state.ClonePath),
				"For ssh remotes, verify key access: ssh -T git@github.com",
				"For https remotes, verify credentials: gh auth status",
				fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
			},
			Cause: cloneError,
		}
	}

	environment.Progress.CompletePhase(fmt.Sprintf(cloneReadyPhaseTemplateConstant, state.ClonePath))
	return nil
}

// occupiedPathRecoveryError reports a clone path that exists but cannot serve
// as the repository working copy.
func occupiedPathRecoveryError(state *State) RecoveryError {
	return RecoveryError{
		Step:      ensureCloneOperationNameConstant,
		Diagnosis: fmt.Sprintf(occupiedDiagnosisTemplateConstant, state.ClonePath),
		Instructions: []string{
			fmt.Sprintf("Move the directory out of the way: mv %s %s.bak", state.ClonePath, state.ClonePath),
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
	}
}

// remoteMatchesRepository compares remotes structurally so ssh and https forms
// of the same repository are treated as equal.
func remoteMatchesRepository(actualRemote string, expectedRemote string) bool {
	actual, actualParseError := gitrepo.ParseRemoteURL(actualRemote)
	expected, expectedParseError := gitrepo.ParseRemoteURL(expectedRemote)
	if actualParseError != nil || expectedParseError != nil {
		return strings.TrimSpace(actualRemote) == strings.TrimSpace(expectedRemote)
	}
	return strings.EqualFold(actual.Host, expected.Host) &&
		strings.EqualFold(actual.Owner, expected.Owner) &&
		strings.EqualFold(actual.Repository, expected.Repository)
}
