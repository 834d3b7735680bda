package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/editor"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
	"github.com/ciwebgroup/cli-tools/internal/slug"
	"github.com/ciwebgroup/cli-tools/internal/ui"
)

const (
	executionErrorTemplateConstant      = "provisioning step %s failed: %w"
	executorDependenciesMessageConstant = "provisioning executor requires git and GitHub dependencies"
	organizationMissingMessageConstant  = "provisioning organization is not configured"
	templateMissingMessageConstant      = "template repository is not configured"
	workspaceRootMissingMessageConstant = "workspace root is not configured"
	repositoryNameSeparatorConstant     = "/"
	unsupportedProtocolTemplateConstant = "unsupported clone protocol %q"
)

var (
	// ErrDependenciesNotConfigured indicates the executor is missing required collaborators.
	ErrDependenciesNotConfigured = errors.New(executorDependenciesMessageConstant)
	// ErrOrganizationNotConfigured indicates no GitHub organization is configured.
	ErrOrganizationNotConfigured = errors.New(organizationMissingMessageConstant)
	// ErrTemplateNotConfigured indicates no template repository is configured.
	ErrTemplateNotConfigured = errors.New(templateMissingMessageConstant)
	// ErrWorkspaceRootNotConfigured indicates no clone root is configured.
	ErrWorkspaceRootNotConfigured = errors.New(workspaceRootMissingMessageConstant)
)

// UnsupportedProtocolError reports a clone protocol outside ssh and https.
type UnsupportedProtocolError struct {
	Protocol string
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(unsupportedProtocolTemplateConstant, protocolError.Protocol)
}

// Dependencies configures shared collaborators for provisioning execution.
type Dependencies struct {
	Logger            *zap.Logger
	RepositoryManager *gitrepo.RepositoryManager
	GitHubClient      *githubcli.Client
	EditorLauncher    *editor.Launcher
	FileSystem        FileSystem
	Clock             Clock
	Prompter          ui.ConfirmationPrompter
	Progress          ui.ProgressReporter
	Output            io.Writer
	Errors            io.Writer
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	Domain      string
	SkipDeploy  bool
	OpenEditor  bool
	Interactive bool
}

// Executor coordinates provisioning operation execution.
type Executor struct {
	operations    []Operation
	configuration Configuration
	dependencies  Dependencies
}

// NewExecutor constructs an Executor instance over a sanitized configuration.
func NewExecutor(operations []Operation, configuration Configuration, dependencies Dependencies) *Executor {
	return &Executor{
		operations:    append([]Operation{}, operations...),
		configuration: configuration.Sanitize(),
		dependencies:  dependencies,
	}
}

// DefaultOperations returns the provisioning steps in execution order.
func DefaultOperations() []Operation {
	return []Operation{
		&EnsureRepositoryOperation{},
		&AwaitPopulationOperation{},
		&EnsureCloneOperation{},
		&ConfigureVariablesOperation{},
		&DispatchWorkflowOperation{},
		&AwaitWorkflowOperation{},
		&SyncStageBranchOperation{},
		&LaunchEditorOperation{},
	}
}

// Execute derives the provisioning state from the domain and runs every
// operation in order, stopping at the first failure.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) (*State, error) {
	if executor.dependencies.RepositoryManager == nil || executor.dependencies.GitHubClient == nil {
		return nil, ErrDependenciesNotConfigured
	}
	if validationError := executor.validateConfiguration(); validationError != nil {
		return nil, validationError
	}

	state, stateError := executor.deriveState(runtimeOptions)
	if stateError != nil {
		return nil, stateError
	}

	environment := executor.buildEnvironment(runtimeOptions)

	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}
		if executeError := operation.Execute(executionContext, environment, state); executeError != nil {
			return state, fmt.Errorf(executionErrorTemplateConstant, operation.Name(), executeError)
		}
	}

	return state, nil
}

func (executor *Executor) validateConfiguration() error {
	if len(executor.configuration.Organization) == 0 {
		return ErrOrganizationNotConfigured
	}
	if len(executor.configuration.TemplateRepository) == 0 {
		return ErrTemplateNotConfigured
	}
	if len(executor.configuration.WorkspaceRoot) == 0 {
		return ErrWorkspaceRootNotConfigured
	}
	return nil
}

func (executor *Executor) deriveState(runtimeOptions RuntimeOptions) (*State, error) {
	derivedSlug, derivationError := slug.Derive(runtimeOptions.Domain, executor.configuration.RecognizedSuffixes)
	if derivationError != nil {
		return nil, derivationError
	}

	repositoryName := executor.configuration.Organization + repositoryNameSeparatorConstant + derivedSlug.String()
	cloneURL, cloneURLError := executor.buildCloneURL(derivedSlug)
	if cloneURLError != nil {
		return nil, cloneURLError
	}

	return &State{
		Domain:         strings.ToLower(strings.TrimSpace(runtimeOptions.Domain)),
		Slug:           derivedSlug,
		RepositoryName: repositoryName,
		CloneURL:       cloneURL,
		ClonePath:      filepath.Join(executor.configuration.WorkspaceRoot, derivedSlug.String()),
	}, nil
}

func (executor *Executor) buildCloneURL(derivedSlug slug.Slug) (string, error) {
	protocol := gitrepo.RemoteProtocol(executor.configuration.CloneProtocol)
	switch protocol {
	case gitrepo.RemoteProtocolSSH, gitrepo.RemoteProtocolHTTPS:
	default:
		return "", UnsupportedProtocolError{Protocol: executor.configuration.CloneProtocol}
	}

	return gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   protocol,
		Host:       gitrepo.GitHubHostConstant,
		Owner:      executor.configuration.Organization,
		Repository: derivedSlug.String(),
	})
}

func (executor *Executor) buildEnvironment(runtimeOptions RuntimeOptions) *Environment {
	logger := executor.dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := executor.dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	fileSystem := executor.dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}

	progress := executor.dependencies.Progress
	if progress == nil {
		progress = ui.NewLoggerProgressReporter(logger)
	}

	output := executor.dependencies.Output
	if output == nil {
		output = io.Discard
	}
	errorsWriter := executor.dependencies.Errors
	if errorsWriter == nil {
		errorsWriter = io.Discard
	}

	return &Environment{
		Configuration:     executor.configuration,
		RepositoryManager: executor.dependencies.RepositoryManager,
		GitHubClient:      executor.dependencies.GitHubClient,
		EditorLauncher:    executor.dependencies.EditorLauncher,
		FileSystem:        fileSystem,
		Clock:             clock,
		Prompter:          executor.dependencies.Prompter,
		Progress:          progress,
		Output:            output,
		Errors:            errorsWriter,
		Logger:            logger,
		Interactive:       runtimeOptions.Interactive,
		SkipDeploy:        runtimeOptions.SkipDeploy,
		OpenEditor:        runtimeOptions.OpenEditor,
	}
}
