package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/editor"
	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
)

func TestSyncStageBranchPushesStage(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())
	fixture.state.Repository = githubcli.RepositoryMetadata{NameWithOwner: testRepositoryNameConstant, DefaultBranch: testDefaultBranchConstant}

	operation := &SyncStageBranchOperation{}
	require.NoError(testInstance, operation.Execute(context.Background(), fixture.environment, fixture.state))

	expectedCommands := [][]string{
		{"status", "--porcelain"},
		{"fetch", "--prune", "origin"},
		{"checkout", "-B", "stage", "origin/main"},
		{"push", "--force", "--set-upstream", "origin", "stage"},
	}
	require.Equal(testInstance, expectedCommands, collectArguments(shellExecutor.gitCommands))
	for _, gitCommand := range shellExecutor.gitCommands {
		require.Equal(testInstance, testClonePathConstant, gitCommand.WorkingDirectory)
	}
	require.Equal(testInstance, []string{"Branch stage pushed to ciwebgroup/acme-plumbing"}, fixture.progress.completed)
}

func TestSyncStageBranchHonorsSkipDeploy(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())
	fixture.environment.SkipDeploy = true

	operation := &SyncStageBranchOperation{}
	require.NoError(testInstance, operation.Execute(context.Background(), fixture.environment, fixture.state))

	require.Empty(testInstance, shellExecutor.gitCommands)
	require.Equal(testInstance, []string{"Stage branch sync skipped for ciwebgroup/acme-plumbing"}, fixture.progress.completed)
}

func TestSyncStageBranchRequiresDefaultBranch(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())

	operation := &SyncStageBranchOperation{}
	executeError := operation.Execute(context.Background(), fixture.environment, fixture.state)

	require.ErrorIs(testInstance, executeError, ErrDefaultBranchUnknown)
	require.Empty(testInstance, shellExecutor.gitCommands)
}

func TestSyncStageBranchRefusesDirtyWorktree(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{
		gitResults: map[string]scriptedResult{
			"status": {standardOutput: " M site/index.html\n"},
		},
	}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())
	fixture.state.Repository = githubcli.RepositoryMetadata{NameWithOwner: testRepositoryNameConstant, DefaultBranch: testDefaultBranchConstant}

	operation := &SyncStageBranchOperation{}
	executeError := operation.Execute(context.Background(), fixture.environment, fixture.state)

	var recoveryError RecoveryError
	require.ErrorAs(testInstance, executeError, &recoveryError)
	require.Equal(testInstance, syncStageBranchOperationNameConstant, recoveryError.Step)
	require.Equal(testInstance, "/home/operator/sites/acme-plumbing has local changes the stage sync would overwrite", recoveryError.Diagnosis)
	require.Equal(testInstance, []string{
		"Commit or stash the local changes: git -C /home/operator/sites/acme-plumbing status",
		"Re-run: ciweb provision acme-plumbing.com",
	}, recoveryError.Instructions)
	require.Equal(testInstance, [][]string{{"status", "--porcelain"}}, collectArguments(shellExecutor.gitCommands))
	require.Equal(testInstance, []string{"Branch stage could not be deployed"}, fixture.progress.failed)
}

func TestSyncStageBranchBuildsRecoveryInstructions(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{
		gitResults: map[string]scriptedResult{
			"push": {exitCode: 1, standardError: "error: failed to push some refs"},
		},
	}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())
	fixture.state.Repository = githubcli.RepositoryMetadata{NameWithOwner: testRepositoryNameConstant, DefaultBranch: testDefaultBranchConstant}

	operation := &SyncStageBranchOperation{}
	executeError := operation.Execute(context.Background(), fixture.environment, fixture.state)

	var recoveryError RecoveryError
	require.ErrorAs(testInstance, executeError, &recoveryError)
	require.Equal(testInstance, syncStageBranchOperationNameConstant, recoveryError.Step)
	require.Equal(testInstance, "synchronizing branch stage in /home/operator/sites/acme-plumbing failed", recoveryError.Diagnosis)
	require.Equal(testInstance, []string{
		"Run manually: git -C /home/operator/sites/acme-plumbing fetch --prune origin",
		"Run manually: git -C /home/operator/sites/acme-plumbing checkout -B stage origin/main",
		"Run manually: git -C /home/operator/sites/acme-plumbing push --force --set-upstream origin stage",
		"Re-run: ciweb provision acme-plumbing.com",
	}, recoveryError.Instructions)

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, recoveryError.Cause, &commandFailure)
	require.Equal(testInstance, []string{"Branch stage could not be deployed"}, fixture.progress.failed)
}

func TestLaunchEditorSkipsWhenDisabled(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())
	fixture.environment.OpenEditor = false

	operation := &LaunchEditorOperation{}
	require.NoError(testInstance, operation.Execute(context.Background(), fixture.environment, fixture.state))
	require.Empty(testInstance, fixture.progress.started)
	require.Empty(testInstance, shellExecutor.launchCommands)
}

func TestLaunchEditorOpensWorkspace(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())

	launcher, launcherError := editor.NewLauncher(editor.LauncherDependencies{
		Logger:   zap.NewNop(),
		Finder:   func(executableName string) (string, error) { return "/usr/bin/" + executableName, nil },
		Executor: shellExecutor,
		Platform: "linux",
	})
	require.NoError(testInstance, launcherError)

	fixture.environment.OpenEditor = true
	fixture.environment.EditorLauncher = launcher

	operation := &LaunchEditorOperation{}
	require.NoError(testInstance, operation.Execute(context.Background(), fixture.environment, fixture.state))

	require.Len(testInstance, shellExecutor.launchCommands, 1)
	require.Equal(testInstance, execshell.CommandName("cursor"), shellExecutor.launchCommands[0].Name)
	require.Equal(testInstance, []string{testClonePathConstant}, shellExecutor.launchCommands[0].Details.Arguments)
	require.Equal(testInstance, []string{"Opened /home/operator/sites/acme-plumbing with cursor"}, fixture.progress.completed)
}

func TestLaunchEditorFailureDoesNotFailRun(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{
		launchResult: scriptedResult{exitCode: 1, standardError: "cannot open display"},
	}
	fixture := newOperationTestFixture(testInstance, shellExecutor, newTestConfiguration())

	launcher, launcherError := editor.NewLauncher(editor.LauncherDependencies{
		Logger:   zap.NewNop(),
		Finder:   func(executableName string) (string, error) { return "/usr/bin/" + executableName, nil },
		Executor: shellExecutor,
		Platform: "linux",
	})
	require.NoError(testInstance, launcherError)

	fixture.environment.OpenEditor = true
	fixture.environment.EditorLauncher = launcher

	operation := &LaunchEditorOperation{}
	require.NoError(testInstance, operation.Execute(context.Background(), fixture.environment, fixture.state))

	require.Equal(testInstance, []string{"Editor launch failed; continuing"}, fixture.progress.failed)
	require.Empty(testInstance, fixture.progress.completed)
}
