package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

const (
	requiredValueMessageConstant                = "value must be provided"
	executorMissingMessageConstant              = "git executor not configured"
	remoteURLRequiredMessageConstant            = "remote url must be provided"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	destinationPathRequiredMessageConstant      = "destination path must be provided"
	remoteNameRequiredMessageConstant           = "remote name must be provided"
	branchNameRequiredMessageConstant           = "branch name must be provided"
	startPointRequiredMessageConstant           = "start point must be provided"
	gitCloneSubcommandConstant                  = "clone"
	gitLSRemoteSubcommandConstant               = "ls-remote"
	gitFetchSubcommandConstant                  = "fetch"
	gitFetchPruneFlagConstant                   = "--prune"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitAbbreviatedReferenceFlagConstant         = "--abbrev-ref"
	gitInsideWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitHeadReferenceConstant                    = "HEAD"
	gitCheckoutSubcommandConstant               = "checkout"
	gitCheckoutResetFlagConstant                = "-B"
	gitPushSubcommandConstant                   = "push"
	gitPushForceFlagConstant                    = "--force"
	gitPushSetUpstreamFlagConstant              = "--set-upstream"
	gitRemoteSubcommandConstant                 = "remote"
	gitRemoteGetURLSubcommandConstant           = "get-url"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	insideWorkTreeOutputConstant                = "true"
)

// OriginRemoteNameConstant identifies the default git remote.
const OriginRemoteNameConstant = "origin"

// GitHubHostConstant identifies the host used when formatting GitHub remote URLs.
const GitHubHostConstant = "github.com"

// ErrExecutorNotConfigured indicates the git executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRemoteURLRequired indicates a remote URL argument was empty.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// ErrRepositoryPathRequired indicates a repository path argument was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrDestinationPathRequired indicates a clone destination argument was empty.
var ErrDestinationPathRequired = errors.New(destinationPathRequiredMessageConstant)

// ErrRemoteNameRequired indicates a remote name argument was empty.
var ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)

// ErrBranchNameRequired indicates a branch name argument was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrStartPointRequired indicates a checkout start point argument was empty.
var ErrStartPointRequired = errors.New(startPointRequiredMessageConstant)

// GitExecutor runs git commands on behalf of the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git operations through a shell executor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ProbeRemoteHead reports whether the remote repository advertises a HEAD reference.
func (manager *RepositoryManager) ProbeRemoteHead(executionContext context.Context, remoteURL string) (bool, error) {
	trimmedRemoteURL := strings.TrimSpace(remoteURL)
	if len(trimmedRemoteURL) == 0 {
		return false, ErrRemoteURLRequired
	}

	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitLSRemoteSubcommandConstant, trimmedRemoteURL, gitHeadReferenceConstant},
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// CloneRepository clones the remote repository into the destination path.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error {
	trimmedRemoteURL := strings.TrimSpace(remoteURL)
	if len(trimmedRemoteURL) == 0 {
		return ErrRemoteURLRequired
	}
	trimmedDestinationPath := strings.TrimSpace(destinationPath)
	if len(trimmedDestinationPath) == 0 {
		return ErrDestinationPathRequired
	}

	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, trimmedRemoteURL, trimmedDestinationPath},
	})
	return executionError
}

// IsWorkingTree reports whether the provided path resides inside a git working tree.
func (manager *RepositoryManager) IsWorkingTree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return false, ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeOutputConstant, nil
}

// CheckCleanWorktree reports whether the repository worktree has no pending changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return false, ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetCurrentBranch resolves the branch currently checked out in the repository.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetRemoteURL resolves the URL configured for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return "", ErrRemoteNameRequired
	}

	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, trimmedRemoteName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// FetchRemote refreshes tracking references from the named remote.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return ErrRemoteNameRequired
	}

	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitFetchSubcommandConstant, gitFetchPruneFlagConstant, trimmedRemoteName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	return executionError
}

// ForceCheckoutBranch resets the named branch to the start point and checks it out.
func (manager *RepositoryManager) ForceCheckoutBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return ErrBranchNameRequired
	}
	trimmedStartPoint := strings.TrimSpace(startPoint)
	if len(trimmedStartPoint) == 0 {
		return ErrStartPointRequired
	}

	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitCheckoutResetFlagConstant, trimmedBranchName, trimmedStartPoint},
		WorkingDirectory: trimmedRepositoryPath,
	})
	return executionError
}

// ForcePushBranch force-pushes the named branch to the remote and records the upstream.
func (manager *RepositoryManager) ForcePushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return ErrRemoteNameRequired
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return ErrBranchNameRequired
	}

	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitPushForceFlagConstant, gitPushSetUpstreamFlagConstant, trimmedRemoteName, trimmedBranchName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	return executionError
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant] = gitTerminalPromptEnvironmentDisableConstant
	return manager.executor.ExecuteGit(executionContext, details)
}
