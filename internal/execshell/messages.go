package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitCloneSubcommandNameConstant     = "clone"
	gitLSRemoteSubcommandNameConstant  = "ls-remote"
	gitFetchSubcommandNameConstant     = "fetch"
	gitStatusSubcommandNameConstant    = "status"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitPushSubcommandNameConstant      = "push"
	gitWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitHeadReferenceConstant           = "HEAD"
	gitForceCheckoutFlagConstant       = "-B"
	gitForceFlagConstant               = "--force"
	gitHeadsFlagConstant               = "--heads"
	gitFetchAllRemotesLabelConstant    = "all remotes"
	gitCloneArgumentIndexURLConstant   = 1
	gitCloneArgumentIndexPathConstant  = 2
	gitPushArgumentIndexRemoteConstant = 1
)

const (
	gitCloneStartTemplateConstant                    = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant                  = "Cloned %s into %s"
	gitCloneFailureTemplateConstant                  = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant         = "Unable to clone %s into %s: %s"
	gitHeadProbeStartTemplateConstant                = "Probing %s for an initial commit"
	gitHeadProbeSuccessTemplateConstant              = "Probed %s for an initial commit"
	gitHeadProbeFailureTemplateConstant              = "Failed to probe %s for an initial commit (exit code %d%s)"
	gitHeadProbeExecutionFailureTemplateConstant     = "Unable to probe %s for an initial commit: %s"
	gitLSRemoteHeadsStartTemplateConstant            = "Listing branches on %s"
	gitLSRemoteHeadsSuccessTemplateConstant          = "Listed branches on %s"
	gitLSRemoteHeadsFailureTemplateConstant          = "Failed to list branches on %s (exit code %d%s)"
	gitLSRemoteHeadsExecutionFailureTemplateConstant = "Unable to list branches on %s: %s"
	gitLSRemoteStartTemplateConstant                 = "Querying remote references on %s"
	gitLSRemoteSuccessTemplateConstant               = "Queried remote references on %s"
	gitLSRemoteFailureTemplateConstant               = "Failed to query remote references on %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant      = "Unable to query remote references on %s: %s"
	gitFetchStartTemplateConstant                    = "Fetching %s from %s in %s"
	gitFetchWithoutRefsStartTemplateConstant         = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant                  = "Fetched %s from %s in %s"
	gitFetchWithoutRefsSuccessTemplateConstant       = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant                  = "Failed to fetch %s from %s in %s (exit code %d%s)"
	gitFetchWithoutRefsFailureTemplateConstant       = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant         = "Unable to fetch %s from %s in %s: %s"
	gitFetchWithoutRefsExecutionFailureConstant      = "Unable to fetch from %s in %s: %s"
	gitStatusStartTemplateConstant                   = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                 = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                 = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant        = "Unable to review working tree status in %s: %s"
	gitWorkTreeStartTemplateConstant                 = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant               = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant               = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant      = "Could not analyze %s: %s"
	gitCurrentBranchStartTemplateConstant            = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant          = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant  = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant          = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"
	gitRevisionStartTemplateConstant                 = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant               = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant          = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant               = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant      = "Unable to resolve %s in %s: %s"
	gitCheckoutResetStartTemplateConstant            = "Resetting branch %s to %s in %s"
	gitCheckoutResetSuccessTemplateConstant          = "Branch %s now at %s in %s"
	gitCheckoutResetFailureTemplateConstant          = "Failed to reset branch %s to %s in %s (exit code %d%s)"
	gitCheckoutResetExecutionFailureTemplateConstant = "Unable to reset branch %s to %s in %s: %s"
	gitCheckoutStartTemplateConstant                 = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant               = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant               = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant      = "Unable to switch %s to branch %s: %s"
	gitForcePushStartTemplateConstant                = "Force pushing %s to %s from %s"
	gitForcePushSuccessTemplateConstant              = "Force pushed %s to %s from %s"
	gitForcePushFailureTemplateConstant              = "Failed to force push %s to %s from %s (exit code %d%s)"
	gitForcePushExecutionFailureTemplateConstant     = "Unable to force push %s to %s from %s: %s"
	gitPushStartTemplateConstant                     = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                   = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                   = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant          = "Unable to push %s to %s from %s: %s"
)

const (
	githubAuthSubcommandNameConstant         = "auth"
	githubAuthStatusSubcommandNameConstant   = "status"
	githubRepoSubcommandNameConstant         = "repo"
	githubRepoViewSubcommandNameConstant     = "view"
	githubRepoCreateSubcommandNameConstant   = "create"
	githubVariableSubcommandNameConstant     = "variable"
	githubVariableSetSubcommandNameConstant  = "set"
	githubVariableListSubcommandNameConstant = "list"
	githubWorkflowSubcommandNameConstant     = "workflow"
	githubWorkflowRunSubcommandNameConstant  = "run"
	githubRunSubcommandNameConstant          = "run"
	githubRunListSubcommandNameConstant      = "list"
	githubRepoFlagConstant                   = "--repo"
	githubTemplateFlagConstant               = "--template"
	githubWorkflowFlagConstant               = "--workflow"
	githubCurrentRepositoryLabelConstant     = "current repository"
	githubSubcommandArgumentCountConstant    = 2
)

const (
	githubAuthStatusStartTemplateConstant              = "Checking GitHub CLI authentication"
	githubAuthStatusSuccessTemplateConstant            = "GitHub CLI authentication confirmed"
	githubAuthStatusFailureTemplateConstant            = "GitHub CLI authentication check failed (exit code %d%s)"
	githubAuthStatusExecutionFailureTemplateConstant   = "Unable to check GitHub CLI authentication: %s"
	githubRepoViewStartTemplateConstant                = "Retrieving repository details for %s"
	githubRepoViewSuccessTemplateConstant              = "Retrieved repository details for %s"
	githubRepoViewFailureTemplateConstant              = "Failed to retrieve repository details for %s (exit code %d%s)"
	githubRepoViewExecutionFailureTemplateConstant     = "Unable to retrieve repository details for %s: %s"
	githubRepoCreateStartTemplateConstant              = "Creating repository %s from template %s"
	githubRepoCreateSuccessTemplateConstant            = "Created repository %s from template %s"
	githubRepoCreateFailureTemplateConstant            = "Failed to create repository %s from template %s (exit code %d%s)"
	githubRepoCreateExecutionFailureTemplateConstant   = "Unable to create repository %s from template %s: %s"
	githubRepoCreatePlainStartTemplateConstant         = "Creating repository %s"
	githubRepoCreatePlainSuccessTemplateConstant       = "Created repository %s"
	githubRepoCreatePlainFailureTemplateConstant       = "Failed to create repository %s (exit code %d%s)"
	githubRepoCreatePlainExecutionFailureConstant      = "Unable to create repository %s: %s"
	githubVariableSetStartTemplateConstant             = "Setting variable %s on %s"
	githubVariableSetSuccessTemplateConstant           = "Set variable %s on %s"
	githubVariableSetFailureTemplateConstant           = "Failed to set variable %s on %s (exit code %d%s)"
	githubVariableSetExecutionFailureTemplateConstant  = "Unable to set variable %s on %s: %s"
	githubVariableListStartTemplateConstant            = "Listing variables for %s"
	githubVariableListSuccessTemplateConstant          = "Listed variables for %s"
	githubVariableListFailureTemplateConstant          = "Failed to list variables for %s (exit code %d%s)"
	githubVariableListExecutionFailureTemplateConstant = "Unable to list variables for %s: %s"
	githubWorkflowRunStartTemplateConstant             = "Dispatching workflow %s on %s"
	githubWorkflowRunSuccessTemplateConstant           = "Dispatched workflow %s on %s"
	githubWorkflowRunFailureTemplateConstant           = "Failed to dispatch workflow %s on %s (exit code %d%s)"
	githubWorkflowRunExecutionFailureTemplateConstant  = "Unable to dispatch workflow %s on %s: %s"
	githubRunListStartTemplateConstant                 = "Checking runs of workflow %s on %s"
	githubRunListSuccessTemplateConstant               = "Checked runs of workflow %s on %s"
	githubRunListFailureTemplateConstant               = "Failed to check runs of workflow %s on %s (exit code %d%s)"
	githubRunListExecutionFailureTemplateConstant      = "Unable to check runs of workflow %s on %s: %s"
	githubRunListGenericStartTemplateConstant          = "Checking recent workflow runs on %s"
	githubRunListGenericSuccessTemplateConstant        = "Checked recent workflow runs on %s"
	githubRunListGenericFailureTemplateConstant        = "Failed to check recent workflow runs on %s (exit code %d%s)"
	githubRunListGenericExecutionFailureConstant       = "Unable to check recent workflow runs on %s: %s"
)

const (
	installSubcommandNameConstant     = "install"
	sudoCommandNameConstant           = "sudo"
	homebrewCommandNameConstant       = "brew"
	aptGetCommandNameConstant         = "apt-get"
	aptCommandNameConstant            = "apt"
	dnfCommandNameConstant            = "dnf"
	yumCommandNameConstant            = "yum"
	wingetCommandNameConstant         = "winget"
	chocolateyCommandNameConstant     = "choco"
	scoopCommandNameConstant          = "scoop"
	cursorCommandNameConstant         = "cursor"
	visualStudioCodeCommandConstant   = "code"
	macOSOpenCommandNameConstant      = "open"
	xdgOpenCommandNameConstant        = "xdg-open"
	windowsExplorerCommandConstant    = "explorer.exe"
	homebrewDisplayNameConstant       = "Homebrew"
	aptDisplayNameConstant            = "APT"
	dnfDisplayNameConstant            = "DNF"
	yumDisplayNameConstant            = "YUM"
	wingetDisplayNameConstant         = "winget"
	chocolateyDisplayNameConstant     = "Chocolatey"
	scoopDisplayNameConstant          = "Scoop"
	cursorDisplayNameConstant         = "Cursor"
	visualStudioCodeDisplayConstant   = "Visual Studio Code"
	systemFileBrowserDisplayConstant  = "the system file browser"
	installStartTemplateConstant      = "Installing %s with %s"
	installSuccessTemplateConstant    = "Installed %s with %s"
	installFailureTemplateConstant    = "Failed to install %s with %s (exit code %d%s)"
	installExecutionFailureConstant   = "Unable to install %s with %s: %s"
	openTargetStartTemplateConstant   = "Opening %s with %s"
	openTargetSuccessTemplateConstant = "Opened %s with %s"
	openTargetFailureTemplateConstant = "Failed to open %s with %s (exit code %d%s)"
	openTargetExecutionFailureConst   = "Unable to open %s with %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// shouldLogStartMessage reports whether the start message warrants operator attention.
// Polling probes run repeatedly, so their start messages are demoted to debug output.
func (formatter CommandMessageFormatter) shouldLogStartMessage(command ShellCommand) bool {
	switch command.Name {
	case CommandGitHub:
		arguments := command.Details.Arguments
		if formatter.matchesSubcommandPair(arguments, githubRepoSubcommandNameConstant, githubRepoViewSubcommandNameConstant) {
			return false
		}
		if formatter.matchesSubcommandPair(arguments, githubRunSubcommandNameConstant, githubRunListSubcommandNameConstant) {
			return false
		}
		return true
	case CommandGit:
		if len(command.Details.Arguments) > 0 && strings.TrimSpace(command.Details.Arguments[0]) == gitLSRemoteSubcommandNameConstant {
			return false
		}
		return true
	default:
		return true
	}
}

func (formatter CommandMessageFormatter) matchesSubcommandPair(arguments []string, primary string, secondary string) bool {
	if len(arguments) < githubSubcommandArgumentCountConstant {
		return false
	}
	return strings.TrimSpace(arguments[0]) == primary && strings.TrimSpace(arguments[1]) == secondary
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	case sudoCommandNameConstant:
		return formatter.describeSudoMessage(command, result, failure, stage)
	default:
		if installerDisplayName, recognized := installerDisplayNames[string(command.Name)]; recognized {
			return formatter.describeInstallerMessage(command, installerDisplayName, result, failure, stage)
		}
		if launcherDisplayName, recognized := launcherDisplayNames[string(command.Name)]; recognized {
			return formatter.describeLauncherMessage(command, launcherDisplayName, result, failure, stage)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeGitStatusMessage(command, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repositoryURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, gitCloneArgumentIndexURLConstant))
	destinationPath := formatter.ensureValue(formatter.argumentAtIndex(arguments, gitCloneArgumentIndexPathConstant))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, repositoryURL, destinationPath)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, repositoryURL, destinationPath)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, repositoryURL, destinationPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, repositoryURL, destinationPath, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	remoteName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	probesHead := containsArgument(arguments, gitHeadReferenceConstant)
	listsHeads := containsArgument(arguments, gitHeadsFlagConstant)

	switch stage {
	case messageStageStart:
		switch {
		case probesHead:
			return fmt.Sprintf(gitHeadProbeStartTemplateConstant, remoteName)
		case listsHeads:
			return fmt.Sprintf(gitLSRemoteHeadsStartTemplateConstant, remoteName)
		default:
			return fmt.Sprintf(gitLSRemoteStartTemplateConstant, remoteName)
		}
	case messageStageSuccess:
		switch {
		case probesHead:
			return fmt.Sprintf(gitHeadProbeSuccessTemplateConstant, remoteName)
		case listsHeads:
			return fmt.Sprintf(gitLSRemoteHeadsSuccessTemplateConstant, remoteName)
		default:
			return fmt.Sprintf(gitLSRemoteSuccessTemplateConstant, remoteName)
		}
	case messageStageFailure:
		switch {
		case probesHead:
			return fmt.Sprintf(gitHeadProbeFailureTemplateConstant, remoteName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case listsHeads:
			return fmt.Sprintf(gitLSRemoteHeadsFailureTemplateConstant, remoteName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitLSRemoteFailureTemplateConstant, remoteName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
	case messageStageExecutionFailure:
		switch {
		case probesHead:
			return fmt.Sprintf(gitHeadProbeExecutionFailureTemplateConstant, remoteName, formatter.describeFailure(failure))
		case listsHeads:
			return fmt.Sprintf(gitLSRemoteHeadsExecutionFailureTemplateConstant, remoteName, formatter.describeFailure(failure))
		default:
			return fmt.Sprintf(gitLSRemoteExecutionFailureTemplateConstant, remoteName, formatter.describeFailure(failure))
		}
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		trimmedRemote = gitFetchAllRemotesLabelConstant
	}
	joinedReferences := formatter.joinReferences(references)

	switch stage {
	case messageStageStart:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchStartTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
		}
		return fmt.Sprintf(gitFetchWithoutRefsStartTemplateConstant, trimmedRemote, workingDirectory)
	case messageStageSuccess:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchSuccessTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
		}
		return fmt.Sprintf(gitFetchWithoutRefsSuccessTemplateConstant, trimmedRemote, workingDirectory)
	case messageStageFailure:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitFetchWithoutRefsFailureTemplateConstant, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(gitFetchWithoutRefsExecutionFailureConstant, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitStatusMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitStatusStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitStatusSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitStatusFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitStatusExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitWorkTreeFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorkTreeStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitWorkTreeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitWorkTreeExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitAbbrevRefFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			trimmed := strings.TrimSpace(result.StandardOutput)
			if strings.EqualFold(trimmed, gitHeadReferenceConstant) || len(trimmed) == 0 {
				return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
			}
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
		case messageStageFailure:
			return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	reference := formatter.resolveRevisionReference(arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if branchName, startPoint := formatter.extractResetBranchAndStartPoint(arguments); len(startPoint) > 0 {
		trimmedBranch := formatter.ensureValue(branchName)
		trimmedStartPoint := formatter.ensureValue(startPoint)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCheckoutResetStartTemplateConstant, trimmedBranch, trimmedStartPoint, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCheckoutResetSuccessTemplateConstant, trimmedBranch, trimmedStartPoint, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCheckoutResetFailureTemplateConstant, trimmedBranch, trimmedStartPoint, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCheckoutResetExecutionFailureTemplateConstant, trimmedBranch, trimmedStartPoint, workingDirectory, formatter.describeFailure(failure))
		}
	}

	branchName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, workingDirectory, branchName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	remoteName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	branchReference := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
	forcePush := containsArgument(arguments, gitForceFlagConstant)

	switch stage {
	case messageStageStart:
		if forcePush {
			return fmt.Sprintf(gitForcePushStartTemplateConstant, branchReference, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitPushStartTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageSuccess:
		if forcePush {
			return fmt.Sprintf(gitForcePushSuccessTemplateConstant, branchReference, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitPushSuccessTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageFailure:
		if forcePush {
			return fmt.Sprintf(gitForcePushFailureTemplateConstant, branchReference, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitPushFailureTemplateConstant, branchReference, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if forcePush {
			return fmt.Sprintf(gitForcePushExecutionFailureTemplateConstant, branchReference, remoteName, workingDirectory, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, branchReference, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[0])
	switch subcommand {
	case githubAuthSubcommandNameConstant:
		return formatter.describeGitHubAuthMessage(command, result, failure, stage)
	case githubRepoSubcommandNameConstant:
		return formatter.describeGitHubRepoMessage(command, result, failure, stage)
	case githubVariableSubcommandNameConstant:
		return formatter.describeGitHubVariableMessage(command, result, failure, stage)
	case githubWorkflowSubcommandNameConstant:
		return formatter.describeGitHubWorkflowMessage(command, result, failure, stage)
	case githubRunSubcommandNameConstant:
		return formatter.describeGitHubRunMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubAuthMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !formatter.matchesSubcommandPair(command.Details.Arguments, githubAuthSubcommandNameConstant, githubAuthStatusSubcommandNameConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return githubAuthStatusStartTemplateConstant
	case messageStageSuccess:
		return githubAuthStatusSuccessTemplateConstant
	case messageStageFailure:
		return fmt.Sprintf(githubAuthStatusFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubAuthStatusExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubRepoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments

	if formatter.matchesSubcommandPair(arguments, githubRepoSubcommandNameConstant, githubRepoViewSubcommandNameConstant) {
		repositoryLabel := formatter.resolveRepositoryLabel(arguments, githubSubcommandArgumentCountConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubRepoViewStartTemplateConstant, repositoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(githubRepoViewSuccessTemplateConstant, repositoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(githubRepoViewFailureTemplateConstant, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubRepoViewExecutionFailureTemplateConstant, repositoryLabel, formatter.describeFailure(failure))
		}
	}

	if formatter.matchesSubcommandPair(arguments, githubRepoSubcommandNameConstant, githubRepoCreateSubcommandNameConstant) {
		repositoryLabel := formatter.resolveRepositoryLabel(arguments, githubSubcommandArgumentCountConstant)
		templateRepository := strings.TrimSpace(formatter.extractFlagValue(arguments, githubTemplateFlagConstant))
		if len(templateRepository) > 0 {
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(githubRepoCreateStartTemplateConstant, repositoryLabel, templateRepository)
			case messageStageSuccess:
				return fmt.Sprintf(githubRepoCreateSuccessTemplateConstant, repositoryLabel, templateRepository)
			case messageStageFailure:
				return fmt.Sprintf(githubRepoCreateFailureTemplateConstant, repositoryLabel, templateRepository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(githubRepoCreateExecutionFailureTemplateConstant, repositoryLabel, templateRepository, formatter.describeFailure(failure))
			}
		}

		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubRepoCreatePlainStartTemplateConstant, repositoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(githubRepoCreatePlainSuccessTemplateConstant, repositoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(githubRepoCreatePlainFailureTemplateConstant, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubRepoCreatePlainExecutionFailureConstant, repositoryLabel, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubVariableMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repositoryLabel := formatter.resolveRepositoryFlagLabel(arguments)

	if formatter.matchesSubcommandPair(arguments, githubVariableSubcommandNameConstant, githubVariableSetSubcommandNameConstant) {
		variableName := formatter.ensureValue(formatter.argumentAtIndex(arguments, githubSubcommandArgumentCountConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubVariableSetStartTemplateConstant, variableName, repositoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(githubVariableSetSuccessTemplateConstant, variableName, repositoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(githubVariableSetFailureTemplateConstant, variableName, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubVariableSetExecutionFailureTemplateConstant, variableName, repositoryLabel, formatter.describeFailure(failure))
		}
	}

	if formatter.matchesSubcommandPair(arguments, githubVariableSubcommandNameConstant, githubVariableListSubcommandNameConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubVariableListStartTemplateConstant, repositoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(githubVariableListSuccessTemplateConstant, repositoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(githubVariableListFailureTemplateConstant, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubVariableListExecutionFailureTemplateConstant, repositoryLabel, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubWorkflowMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !formatter.matchesSubcommandPair(arguments, githubWorkflowSubcommandNameConstant, githubWorkflowRunSubcommandNameConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workflowName := formatter.ensureValue(formatter.argumentAtIndex(arguments, githubSubcommandArgumentCountConstant))
	repositoryLabel := formatter.resolveRepositoryFlagLabel(arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubWorkflowRunStartTemplateConstant, workflowName, repositoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(githubWorkflowRunSuccessTemplateConstant, workflowName, repositoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(githubWorkflowRunFailureTemplateConstant, workflowName, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubWorkflowRunExecutionFailureTemplateConstant, workflowName, repositoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubRunMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !formatter.matchesSubcommandPair(arguments, githubRunSubcommandNameConstant, githubRunListSubcommandNameConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repositoryLabel := formatter.resolveRepositoryFlagLabel(arguments)
	workflowName := strings.TrimSpace(formatter.extractFlagValue(arguments, githubWorkflowFlagConstant))

	if len(workflowName) > 0 {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubRunListStartTemplateConstant, workflowName, repositoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(githubRunListSuccessTemplateConstant, workflowName, repositoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(githubRunListFailureTemplateConstant, workflowName, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubRunListExecutionFailureTemplateConstant, workflowName, repositoryLabel, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubRunListGenericStartTemplateConstant, repositoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(githubRunListGenericSuccessTemplateConstant, repositoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(githubRunListGenericFailureTemplateConstant, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubRunListGenericExecutionFailureConstant, repositoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

var installerDisplayNames = map[string]string{
	homebrewCommandNameConstant:   homebrewDisplayNameConstant,
	aptGetCommandNameConstant:     aptDisplayNameConstant,
	aptCommandNameConstant:        aptDisplayNameConstant,
	dnfCommandNameConstant:        dnfDisplayNameConstant,
	yumCommandNameConstant:        yumDisplayNameConstant,
	wingetCommandNameConstant:     wingetDisplayNameConstant,
	chocolateyCommandNameConstant: chocolateyDisplayNameConstant,
	scoopCommandNameConstant:      scoopDisplayNameConstant,
}

var launcherDisplayNames = map[string]string{
	cursorCommandNameConstant:       cursorDisplayNameConstant,
	visualStudioCodeCommandConstant: visualStudioCodeDisplayConstant,
	macOSOpenCommandNameConstant:    systemFileBrowserDisplayConstant,
	xdgOpenCommandNameConstant:      systemFileBrowserDisplayConstant,
	windowsExplorerCommandConstant:  systemFileBrowserDisplayConstant,
}

func (formatter CommandMessageFormatter) describeSudoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	unwrappedCommand := ShellCommand{
		Name:    CommandName(strings.TrimSpace(arguments[0])),
		Details: CommandDetails{Arguments: arguments[1:], WorkingDirectory: command.Details.WorkingDirectory},
	}
	return formatter.buildMessage(unwrappedCommand, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeInstallerMessage(command ShellCommand, installerDisplayName string, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != installSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	packageName := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(installStartTemplateConstant, packageName, installerDisplayName)
	case messageStageSuccess:
		return fmt.Sprintf(installSuccessTemplateConstant, packageName, installerDisplayName)
	case messageStageFailure:
		return fmt.Sprintf(installFailureTemplateConstant, packageName, installerDisplayName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(installExecutionFailureConstant, packageName, installerDisplayName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeLauncherMessage(command ShellCommand, launcherDisplayName string, result ExecutionResult, failure error, stage messageStage) string {
	targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(openTargetStartTemplateConstant, targetPath, launcherDisplayName)
	case messageStageSuccess:
		return fmt.Sprintf(openTargetSuccessTemplateConstant, targetPath, launcherDisplayName)
	case messageStageFailure:
		return fmt.Sprintf(openTargetFailureTemplateConstant, targetPath, launcherDisplayName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(openTargetExecutionFailureConst, targetPath, launcherDisplayName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	lastArgument := strings.TrimSpace(arguments[len(arguments)-1])
	if len(lastArgument) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return lastArgument
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) resolveRepositoryLabel(arguments []string, index int) string {
	candidate := strings.TrimSpace(formatter.argumentAtIndex(arguments, index))
	if len(candidate) == 0 || strings.HasPrefix(candidate, flagPrefixConstant) {
		return githubCurrentRepositoryLabelConstant
	}
	return candidate
}

func (formatter CommandMessageFormatter) resolveRepositoryFlagLabel(arguments []string) string {
	repositoryValue := strings.TrimSpace(formatter.extractFlagValue(arguments, githubRepoFlagConstant))
	if len(repositoryValue) == 0 {
		return githubCurrentRepositoryLabelConstant
	}
	return repositoryValue
}

func (formatter CommandMessageFormatter) extractFlagValue(arguments []string, flagName string) string {
	flagAssignmentPrefix := flagName + "="
	for index, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, flagAssignmentPrefix) {
			return strings.TrimPrefix(trimmedArgument, flagAssignmentPrefix)
		}
		if trimmedArgument == flagName && index+1 < len(arguments) {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmedArgument := strings.TrimSpace(arguments[index])
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractResetBranchAndStartPoint(arguments []string) (string, string) {
	branchName := emptyStringConstant
	startPoint := emptyStringConstant
	for index, argument := range arguments {
		if strings.TrimSpace(argument) != gitForceCheckoutFlagConstant {
			continue
		}
		branchName = strings.TrimSpace(formatter.argumentAtIndex(arguments, index+1))
		startPoint = strings.TrimSpace(formatter.argumentAtIndex(arguments, index+2))
		break
	}
	return branchName, startPoint
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmedArgument
			continue
		}
		references = append(references, trimmedArgument)
	}
	return remoteName, references
}

func (formatter CommandMessageFormatter) joinReferences(references []string) string {
	if len(references) == 0 {
		return emptyStringConstant
	}
	return strings.Join(references, commandArgumentsJoinSeparatorConstant)
}
