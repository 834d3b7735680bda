package provision

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
	"github.com/ciwebgroup/cli-tools/internal/slug"
)

const (
	testDomainConstant         = "acme-plumbing.com"
	testSlugConstant           = "acme-plumbing"
	testRepositoryNameConstant = "ciwebgroup/acme-plumbing"
	testCloneURLConstant       = "git@github.com:ciwebgroup/acme-plumbing.git"
	testWorkspaceRootConstant  = "/home/operator/sites"
	testClonePathConstant      = "/home/operator/sites/acme-plumbing"
	testTemplateConstant       = "ciwebgroup/www-template"
	testWorkflowFileConstant   = "infra-init.yml"
	testDefaultBranchConstant  = "main"

	populatedRepositoryViewConstant = `{"nameWithOwner":"ciwebgroup/acme-plumbing","isEmpty":false,"sshUrl":"git@github.com:ciwebgroup/acme-plumbing.git","url":"https://github.com/ciwebgroup/acme-plumbing","defaultBranchRef":{"name":"main"}}`
	emptyRepositoryViewConstant     = `{"nameWithOwner":"ciwebgroup/acme-plumbing","isEmpty":true,"sshUrl":"git@github.com:ciwebgroup/acme-plumbing.git","url":"https://github.com/ciwebgroup/acme-plumbing","defaultBranchRef":null}`
	remoteHeadAdvertisementConstant = "d34db33f\trefs/heads/main"
	successfulRunListConstant       = `[{"databaseId":101,"status":"completed","conclusion":"success","createdAt":"2026-08-20T12:00:00Z","url":"https://github.com/ciwebgroup/acme-plumbing/actions/runs/101"}]`
	queuedRunListConstant           = `[{"databaseId":102,"status":"queued","conclusion":"","createdAt":"2026-08-20T12:00:00Z","url":"https://github.com/ciwebgroup/acme-plumbing/actions/runs/102"}]`
	inProgressRunListConstant       = `[{"databaseId":102,"status":"in_progress","conclusion":"","createdAt":"2026-08-20T12:00:00Z","url":"https://github.com/ciwebgroup/acme-plumbing/actions/runs/102"}]`
	failedRunListConstant           = `[{"databaseId":103,"status":"completed","conclusion":"failure","createdAt":"2026-08-20T12:00:00Z","url":"https://github.com/ciwebgroup/acme-plumbing/actions/runs/103"}]`
	emptyRunListConstant            = `[]`
	repositoryVariableListConstant  = `[{"name":"PRODUCTION_DOMAIN"},{"name":"SITE_SLUG"}]`

	missingRepositoryStderrConstant  = "GraphQL: Could not resolve to a Repository with the name 'ciwebgroup/acme-plumbing'."
	existingRepositoryStderrConstant = "GraphQL: Name already exists on this account (createRepository)"
	missingWorkflowStderrConstant    = "could not find any workflows named infra-init.yml"
	transientFailureStderrConstant   = "HTTP 502: server error"
)

func TestExecutorRequiresDependencies(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	require.NoError(testInstance, managerError)

	testCases := []struct {
		name         string
		dependencies Dependencies
	}{
		{name: "missing repository manager and client", dependencies: Dependencies{}},
		{name: "missing github client", dependencies: Dependencies{RepositoryManager: repositoryManager}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testingInstance *testing.T) {
			executor := NewExecutor(DefaultOperations(), newTestConfiguration(), testCase.dependencies)
			_, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})
			require.ErrorIs(testingInstance, executionError, ErrDependenciesNotConfigured)
		})
	}
}

func TestExecutorValidatesConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutateFunc    func(*Configuration)
		expectedError error
	}{
		{
			name:          "missing organization",
			mutateFunc:    func(configuration *Configuration) { configuration.Organization = "  " },
			expectedError: ErrOrganizationNotConfigured,
		},
		{
			name:          "missing template repository",
			mutateFunc:    func(configuration *Configuration) { configuration.TemplateRepository = "" },
			expectedError: ErrTemplateNotConfigured,
		},
		{
			name:          "missing workspace root",
			mutateFunc:    func(configuration *Configuration) { configuration.WorkspaceRoot = "" },
			expectedError: ErrWorkspaceRootNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testingInstance *testing.T) {
			configuration := newTestConfiguration()
			testCase.mutateFunc(&configuration)

			executor := NewExecutor(DefaultOperations(), configuration, newTestDependencies(testingInstance, &recordingShellExecutor{}))
			_, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})
			require.ErrorIs(testingInstance, executionError, testCase.expectedError)
		})
	}
}

func TestExecutorDerivesState(testInstance *testing.T) {
	testCases := []struct {
		name             string
		domain           string
		protocol         string
		expectedDomain   string
		expectedCloneURL string
	}{
		{
			name:             "ssh protocol strips scheme and www",
			domain:           "https://www.Acme-Plumbing.com",
			protocol:         "ssh",
			expectedDomain:   "https://www.acme-plumbing.com",
			expectedCloneURL: "git@github.com:ciwebgroup/acme-plumbing.git",
		},
		{
			name:             "https protocol",
			domain:           "acme-plumbing.com",
			protocol:         "https",
			expectedDomain:   "acme-plumbing.com",
			expectedCloneURL: "https://github.com/ciwebgroup/acme-plumbing.git",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testingInstance *testing.T) {
			configuration := newTestConfiguration()
			configuration.CloneProtocol = testCase.protocol

			executor := NewExecutor([]Operation{}, configuration, newTestDependencies(testingInstance, &recordingShellExecutor{}))
			state, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testCase.domain})
			require.NoError(testingInstance, executionError)

			require.Equal(testingInstance, testCase.expectedDomain, state.Domain)
			require.Equal(testingInstance, slug.Slug(testSlugConstant), state.Slug)
			require.Equal(testingInstance, testRepositoryNameConstant, state.RepositoryName)
			require.Equal(testingInstance, testCase.expectedCloneURL, state.CloneURL)
			require.Equal(testingInstance, testClonePathConstant, state.ClonePath)
		})
	}
}

func TestExecutorRejectsUnsupportedProtocol(testInstance *testing.T) {
	configuration := newTestConfiguration()
	configuration.CloneProtocol = "ftp"

	executor := NewExecutor([]Operation{}, configuration, newTestDependencies(testInstance, &recordingShellExecutor{}))
	_, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})

	var protocolError UnsupportedProtocolError
	require.ErrorAs(testInstance, executionError, &protocolError)
	require.Equal(testInstance, "ftp", protocolError.Protocol)
}

func TestExecutorRejectsUnrecognizedDomainSuffix(testInstance *testing.T) {
	executor := NewExecutor([]Operation{}, newTestConfiguration(), newTestDependencies(testInstance, &recordingShellExecutor{}))
	_, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: "acme.plumbing"})

	var suffixError slug.UnknownSuffixError
	require.ErrorAs(testInstance, executionError, &suffixError)
	require.Equal(testInstance, "plumbing", suffixError.Suffix)
}

func TestExecutorRunsOperationsInOrder(testInstance *testing.T) {
	executionOrder := make([]string, 0, 3)
	operations := []Operation{
		&scriptedOperation{name: "first", executionOrder: &executionOrder},
		&scriptedOperation{name: "second", executionOrder: &executionOrder},
		&scriptedOperation{name: "third", executionOrder: &executionOrder},
	}

	executor := NewExecutor(operations, newTestConfiguration(), newTestDependencies(testInstance, &recordingShellExecutor{}))
	_, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"first", "second", "third"}, executionOrder)
}

func TestExecutorWrapsOperationFailures(testInstance *testing.T) {
	executionOrder := make([]string, 0, 2)
	stepFailure := errors.New("remote unavailable")
	operations := []Operation{
		&scriptedOperation{name: "breaking-step", executionOrder: &executionOrder, executeError: stepFailure},
		&scriptedOperation{name: "unreached-step", executionOrder: &executionOrder},
	}

	executor := NewExecutor(operations, newTestConfiguration(), newTestDependencies(testInstance, &recordingShellExecutor{}))
	state, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})

	require.ErrorIs(testInstance, executionError, stepFailure)
	require.ErrorContains(testInstance, executionError, "provisioning step breaking-step failed")
	require.Equal(testInstance, []string{"breaking-step"}, executionOrder)
	require.NotNil(testInstance, state)
}

func TestExecutorProvisionsNewSite(testInstance *testing.T) {
	shellExecutor := &recordingShellExecutor{
		repositoryViews: []scriptedResult{
			{exitCode: 1, standardError: missingRepositoryStderrConstant},
			{standardOutput: emptyRepositoryViewConstant},
			{standardOutput: populatedRepositoryViewConstant},
		},
		remoteHeads:        []scriptedResult{{standardOutput: remoteHeadAdvertisementConstant}},
		runLists:           []scriptedResult{{standardOutput: emptyRunListConstant}, {standardOutput: successfulRunListConstant}},
		variableListResult: scriptedResult{standardOutput: repositoryVariableListConstant},
	}

	dependencies := newTestDependencies(testInstance, shellExecutor)
	executor := NewExecutor(DefaultOperations(), newTestConfiguration(), dependencies)

	state, executionError := executor.Execute(context.Background(), RuntimeOptions{Domain: testDomainConstant})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, testDefaultBranchConstant, state.Repository.DefaultBranch)
	require.False(testInstance, state.Repository.IsEmpty)
	require.NotNil(testInstance, state.CompletedRun)
	require.Equal(testInstance, int64(101), state.CompletedRun.Identifier)

	expectedGitCommands := [][]string{
		{"ls-remote", testCloneURLConstant, "HEAD"},
		{"clone", testCloneURLConstant, testClonePathConstant},
		{"status", "--porcelain"},
		{"fetch", "--prune", "origin"},
		{"checkout", "-B", "stage", "origin/main"},
		{"push", "--force", "--set-upstream", "origin", "stage"},
	}
	require.Equal(testInstance, expectedGitCommands, collectArguments(shellExecutor.gitCommands))

	expectedGitHubCommands := [][]string{
		{"repo", "view", testRepositoryNameConstant, "--json", "nameWithOwner,defaultBranchRef,isEmpty,sshUrl,url"},
		{"repo", "create", testRepositoryNameConstant, "--template", testTemplateConstant, "--private"},
		{"repo", "view", testRepositoryNameConstant, "--json", "nameWithOwner,defaultBranchRef,isEmpty,sshUrl,url"},
		{"repo", "view", testRepositoryNameConstant, "--json", "nameWithOwner,defaultBranchRef,isEmpty,sshUrl,url"},
		{"variable", "set", "PRODUCTION_DOMAIN", "--repo", testRepositoryNameConstant, "--body", testDomainConstant},
		{"variable", "set", "SITE_SLUG", "--repo", testRepositoryNameConstant, "--body", testSlugConstant},
		{"variable", "list", "--repo", testRepositoryNameConstant, "--json", "name"},
		{"run", "list", "--repo", testRepositoryNameConstant, "--workflow", testWorkflowFileConstant, "--json", "databaseId,status,conclusion,createdAt,url", "--limit", "20"},
		{"workflow", "run", testWorkflowFileConstant, "--repo", testRepositoryNameConstant, "--ref", testDefaultBranchConstant},
		{"run", "list", "--repo", testRepositoryNameConstant, "--workflow", testWorkflowFileConstant, "--json", "databaseId,status,conclusion,createdAt,url", "--limit", "1"},
	}
	require.Equal(testInstance, expectedGitHubCommands, collectArguments(shellExecutor.githubCommands))

	fileSystem, isFakeFileSystem := dependencies.FileSystem.(*fakeFileSystem)
	require.True(testInstance, isFakeFileSystem)
	require.Equal(testInstance, []string{testWorkspaceRootConstant}, fileSystem.createdPaths)
}

// newTestConfiguration returns defaults shrunk to polling bounds that keep
// retry tests small.
func newTestConfiguration() Configuration {
	configuration := DefaultConfiguration()
	configuration.WorkspaceRoot = testWorkspaceRootConstant
	configuration.Population = PollingConfiguration{Attempts: 3, Interval: 10 * time.Second}
	configuration.Dispatch = PollingConfiguration{Attempts: 3, Interval: 10 * time.Second}
	configuration.Completion = CompletionConfiguration{Attempts: 5, Interval: 30 * time.Second, StuckAfter: 5 * time.Minute}
	return configuration
}

func newTestDependencies(testInstance *testing.T, shellExecutor *recordingShellExecutor) Dependencies {
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	require.NoError(testInstance, managerError)
	githubClient, clientError := githubcli.NewClient(shellExecutor)
	require.NoError(testInstance, clientError)

	return Dependencies{
		Logger:            zap.NewNop(),
		RepositoryManager: repositoryManager,
		GitHubClient:      githubClient,
		FileSystem:        newFakeFileSystem(),
		Clock:             newFakeClock(),
		Progress:          &recordingProgressReporter{},
	}
}

type operationTestFixture struct {
	executor    *recordingShellExecutor
	clock       *fakeClock
	fileSystem  *fakeFileSystem
	progress    *recordingProgressReporter
	environment *Environment
	state       *State
}

// newOperationTestFixture wires an Environment over the recording executor the
// way Executor.Execute does, exposing the fakes for assertions.
func newOperationTestFixture(testInstance *testing.T, shellExecutor *recordingShellExecutor, configuration Configuration) *operationTestFixture {
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	require.NoError(testInstance, managerError)
	githubClient, clientError := githubcli.NewClient(shellExecutor)
	require.NoError(testInstance, clientError)

	clock := newFakeClock()
	fileSystem := newFakeFileSystem()
	progress := &recordingProgressReporter{}

	environment := &Environment{
		Configuration:     configuration.Sanitize(),
		RepositoryManager: repositoryManager,
		GitHubClient:      githubClient,
		FileSystem:        fileSystem,
		Clock:             clock,
		Progress:          progress,
		Output:            io.Discard,
		Errors:            io.Discard,
		Logger:            zap.NewNop(),
	}

	return &operationTestFixture{
		executor:    shellExecutor,
		clock:       clock,
		fileSystem:  fileSystem,
		progress:    progress,
		environment: environment,
		state:       newProvisioningState(),
	}
}

func newProvisioningState() *State {
	return &State{
		Domain:         testDomainConstant,
		Slug:           slug.Slug(testSlugConstant),
		RepositoryName: testRepositoryNameConstant,
		CloneURL:       testCloneURLConstant,
		ClonePath:      testClonePathConstant,
	}
}

type scriptedOperation struct {
	name           string
	executeError   error
	executionOrder *[]string
}

func (operation *scriptedOperation) Name() string {
	return operation.name
}

func (operation *scriptedOperation) Execute(_ context.Context, _ *Environment, _ *State) error {
	if operation.executionOrder != nil {
		*operation.executionOrder = append(*operation.executionOrder, operation.name)
	}
	return operation.executeError
}

// scriptedResult describes one scripted command outcome. A non-zero exit code
// is surfaced as execshell.CommandFailedError carrying the standard error text.
type scriptedResult struct {
	standardOutput string
	standardError  string
	exitCode       int
}

// recordingShellExecutor captures git and gh invocations while returning
// scripted responses. Scripted sequences are consumed per call and the final
// entry repeats once the sequence is exhausted.
type recordingShellExecutor struct {
	gitCommands    []execshell.CommandDetails
	githubCommands []execshell.CommandDetails
	launchCommands []execshell.ShellCommand

	repositoryViews    []scriptedResult
	remoteHeads        []scriptedResult
	runLists           []scriptedResult
	dispatchResults    []scriptedResult
	createResult       scriptedResult
	variableSetResult  scriptedResult
	variableListResult scriptedResult
	launchResult       scriptedResult
	originRemoteURL    string
	gitResults         map[string]scriptedResult
}

func (executor *recordingShellExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitCommands = append(executor.gitCommands, details)
	if len(details.Arguments) == 0 {
		return execshell.ExecutionResult{}, nil
	}

	if scripted, exists := executor.gitResults[details.Arguments[0]]; exists {
		return buildScriptedResult(execshell.CommandGit, details, scripted)
	}

	switch details.Arguments[0] {
	case "ls-remote":
		return buildScriptedResult(execshell.CommandGit, details, takeScripted(&executor.remoteHeads))
	case "remote":
		return execshell.ExecutionResult{StandardOutput: executor.originRemoteURL}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingShellExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.githubCommands = append(executor.githubCommands, details)
	if len(details.Arguments) < 2 {
		return execshell.ExecutionResult{}, nil
	}

	switch details.Arguments[0] + " " + details.Arguments[1] {
	case "repo view":
		return buildScriptedResult(execshell.CommandGitHub, details, takeScripted(&executor.repositoryViews))
	case "repo create":
		return buildScriptedResult(execshell.CommandGitHub, details, executor.createResult)
	case "variable set":
		return buildScriptedResult(execshell.CommandGitHub, details, executor.variableSetResult)
	case "variable list":
		return buildScriptedResult(execshell.CommandGitHub, details, executor.variableListResult)
	case "workflow run":
		return buildScriptedResult(execshell.CommandGitHub, details, takeScripted(&executor.dispatchResults))
	case "run list":
		return buildScriptedResult(execshell.CommandGitHub, details, takeScripted(&executor.runLists))
	}
	return execshell.ExecutionResult{}, nil
}

// Execute handles editor launch commands issued through the generic interface.
func (executor *recordingShellExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.launchCommands = append(executor.launchCommands, command)
	return buildScriptedResult(command.Name, command.Details, executor.launchResult)
}

func buildScriptedResult(commandName execshell.CommandName, details execshell.CommandDetails, scripted scriptedResult) (execshell.ExecutionResult, error) {
	result := execshell.ExecutionResult{
		StandardOutput: scripted.standardOutput,
		StandardError:  scripted.standardError,
		ExitCode:       scripted.exitCode,
	}
	if scripted.exitCode != 0 {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: commandName, Details: details},
			Result:  result,
		}
	}
	return result, nil
}

func takeScripted(results *[]scriptedResult) scriptedResult {
	if len(*results) == 0 {
		return scriptedResult{}
	}
	next := (*results)[0]
	if len(*results) > 1 {
		*results = (*results)[1:]
	}
	return next
}

func collectArguments(commands []execshell.CommandDetails) [][]string {
	collected := make([][]string, 0, len(commands))
	for _, command := range commands {
		collected = append(collected, command.Arguments)
	}
	return collected
}

type fakeClock struct {
	current time.Time
	sleeps  []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	return clock.current
}

// Sleep records the requested delay and advances the clock without waiting.
func (clock *fakeClock) Sleep(_ context.Context, duration time.Duration) error {
	clock.sleeps = append(clock.sleeps, duration)
	clock.current = clock.current.Add(duration)
	return nil
}

type fakeFileSystem struct {
	existingPaths map[string]struct{}
	createdPaths  []string
}

func newFakeFileSystem(existingPaths ...string) *fakeFileSystem {
	pathSet := make(map[string]struct{}, len(existingPaths))
	for _, existingPath := range existingPaths {
		pathSet[existingPath] = struct{}{}
	}
	return &fakeFileSystem{existingPaths: pathSet}
}

func (fileSystem *fakeFileSystem) Stat(path string) (fs.FileInfo, error) {
	if _, exists := fileSystem.existingPaths[path]; exists {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func (fileSystem *fakeFileSystem) MkdirAll(path string, _ fs.FileMode) error {
	fileSystem.createdPaths = append(fileSystem.createdPaths, path)
	fileSystem.existingPaths[path] = struct{}{}
	return nil
}

func (fileSystem *fakeFileSystem) Abs(path string) (string, error) {
	return path, nil
}

type recordingProgressReporter struct {
	started   []string
	updated   []string
	completed []string
	failed    []string
}

func (reporter *recordingProgressReporter) StartPhase(description string) {
	reporter.started = append(reporter.started, description)
}

func (reporter *recordingProgressReporter) UpdatePhase(description string) {
	reporter.updated = append(reporter.updated, description)
}

func (reporter *recordingProgressReporter) CompletePhase(message string) {
	reporter.completed = append(reporter.completed, message)
}

func (reporter *recordingProgressReporter) FailPhase(message string) {
	reporter.failed = append(reporter.failed, message)
}

type scriptedPrompter struct {
	response        bool
	promptError     error
	recordedPrompts []string
}

func (prompter *scriptedPrompter) Confirm(prompt string) (bool, error) {
	prompter.recordedPrompts = append(prompter.recordedPrompts, prompt)
	return prompter.response, prompter.promptError
}
