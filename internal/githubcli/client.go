package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

const (
	authSubcommandConstant                  = "auth"
	statusSubcommandConstant                = "status"
	repoSubcommandConstant                  = "repo"
	viewSubcommandConstant                  = "view"
	createSubcommandConstant                = "create"
	variableSubcommandConstant              = "variable"
	setSubcommandConstant                   = "set"
	listSubcommandConstant                  = "list"
	workflowSubcommandConstant              = "workflow"
	runSubcommandConstant                   = "run"
	jsonFlagConstant                        = "--json"
	repoFlagConstant                        = "--repo"
	templateFlagConstant                    = "--template"
	privateFlagConstant                     = "--private"
	publicFlagConstant                      = "--public"
	bodyFlagConstant                        = "--body"
	refFlagConstant                         = "--ref"
	workflowFlagConstant                    = "--workflow"
	limitFlagConstant                       = "--limit"
	repositoryFieldNameConstant             = "repository"
	templateRepositoryFieldNameConstant     = "template_repository"
	variableNameFieldNameConstant           = "variable_name"
	workflowFileFieldNameConstant           = "workflow_file"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	repositoryNotFoundMessageConstant       = "repository not found"
	repositoryExistsMessageConstant         = "repository already exists"
	workflowNotFoundMessageConstant         = "workflow not found"
	notAuthenticatedMessageConstant         = "github cli not authenticated"
	repoViewJSONFieldsConstant              = "nameWithOwner,defaultBranchRef,isEmpty,sshUrl,url"
	variableListJSONFieldsConstant          = "name"
	runListJSONFieldsConstant               = "databaseId,status,conclusion,createdAt,url"
	workflowRunLimitDefaultValueConstant    = 5
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	missingRepositoryDetailConstant         = "could not resolve to a repository"
	missingResourceDetailConstant           = "http 404"
	existingRepositoryDetailConstant        = "already exists"
	missingWorkflowDetailConstant           = "could not find any workflows"
	checkAuthenticationOperationConstant    = OperationName("CheckAuthentication")
	resolveRepositoryOperationConstant      = OperationName("ResolveRepository")
	createFromTemplateOperationConstant     = OperationName("CreateFromTemplate")
	setVariableOperationConstant            = OperationName("SetVariable")
	listVariablesOperationConstant          = OperationName("ListVariables")
	dispatchWorkflowOperationConstant       = OperationName("DispatchWorkflow")
	listWorkflowRunsOperationConstant       = OperationName("ListWorkflowRuns")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// WorkflowRunStatus enumerates the lifecycle states reported for workflow runs.
type WorkflowRunStatus string

// Workflow run status enumerations.
const (
	WorkflowRunStatusQueued     WorkflowRunStatus = WorkflowRunStatus("queued")
	WorkflowRunStatusInProgress WorkflowRunStatus = WorkflowRunStatus("in_progress")
	WorkflowRunStatusCompleted  WorkflowRunStatus = WorkflowRunStatus("completed")
	WorkflowRunStatusRequested  WorkflowRunStatus = WorkflowRunStatus("requested")
	WorkflowRunStatusWaiting    WorkflowRunStatus = WorkflowRunStatus("waiting")
	WorkflowRunStatusPending    WorkflowRunStatus = WorkflowRunStatus("pending")
)

// IsCompleted reports whether the run reached a terminal state.
func (status WorkflowRunStatus) IsCompleted() bool {
	return status == WorkflowRunStatusCompleted
}

// IsPreRunner reports whether the run is still waiting for an executor to pick it up.
func (status WorkflowRunStatus) IsPreRunner() bool {
	switch status {
	case WorkflowRunStatusQueued, WorkflowRunStatusRequested, WorkflowRunStatusWaiting, WorkflowRunStatusPending:
		return true
	default:
		return false
	}
}

// WorkflowRunConclusion enumerates the terminal outcomes reported for workflow runs.
type WorkflowRunConclusion string

// Workflow run conclusion enumerations.
const (
	WorkflowRunConclusionSuccess        WorkflowRunConclusion = WorkflowRunConclusion("success")
	WorkflowRunConclusionFailure        WorkflowRunConclusion = WorkflowRunConclusion("failure")
	WorkflowRunConclusionCancelled      WorkflowRunConclusion = WorkflowRunConclusion("cancelled")
	WorkflowRunConclusionTimedOut       WorkflowRunConclusion = WorkflowRunConclusion("timed_out")
	WorkflowRunConclusionSkipped        WorkflowRunConclusion = WorkflowRunConclusion("skipped")
	WorkflowRunConclusionStartupFailure WorkflowRunConclusion = WorkflowRunConclusion("startup_failure")
)

// IsSuccessful reports whether the conclusion indicates a passing run.
func (conclusion WorkflowRunConclusion) IsSuccessful() bool {
	return conclusion == WorkflowRunConclusionSuccess
}

// RepositoryMetadata contains key details resolved from GitHub.
type RepositoryMetadata struct {
	NameWithOwner string
	DefaultBranch string
	IsEmpty       bool
	SSHURL        string
	WebURL        string
}

// RepositoryVisibility selects the visibility applied to created repositories.
type RepositoryVisibility string

// Repository visibility enumerations.
const (
	RepositoryVisibilityPrivate RepositoryVisibility = RepositoryVisibility("private")
	RepositoryVisibilityPublic  RepositoryVisibility = RepositoryVisibility("public")
)

// TemplateCreationOptions configures CreateFromTemplate invocations.
type TemplateCreationOptions struct {
	Visibility RepositoryVisibility
}

// ActionsVariable is a repository-level Actions variable entry.
type ActionsVariable struct {
	Name string
}

// WorkflowRun represents the minimal run details returned by gh run list.
type WorkflowRun struct {
	Identifier int64
	Status     WorkflowRunStatus
	Conclusion WorkflowRunConclusion
	CreatedAt  time.Time
	URL        string
}

// WorkflowRunListOptions configures ListWorkflowRuns queries.
type WorkflowRunListOptions struct {
	WorkflowFile string
	ResultLimit  int
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryNotFound indicates the requested repository does not exist or is invisible to the caller.
	ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)
	// ErrRepositoryAlreadyExists indicates creation raced with an existing repository of the same name.
	ErrRepositoryAlreadyExists = errors.New(repositoryExistsMessageConstant)
	// ErrWorkflowNotFound indicates the workflow file has not registered with GitHub Actions yet.
	ErrWorkflowNotFound = errors.New(workflowNotFoundMessageConstant)
	// ErrNotAuthenticated indicates the GitHub CLI has no usable credentials.
	ErrNotAuthenticated = errors.New(notAuthenticatedMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// CheckAuthentication verifies that gh holds usable credentials via gh auth status.
func (client *Client) CheckAuthentication(executionContext context.Context) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{authSubcommandConstant, statusSubcommandConstant},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return OperationError{Operation: checkAuthenticationOperationConstant, Cause: ErrNotAuthenticated}
		}
		return OperationError{Operation: checkAuthenticationOperationConstant, Cause: executionError}
	}

	return nil
}

// ResolveRepository retrieves canonical metadata for a repository using gh repo view.
// A missing repository is reported through ErrRepositoryNotFound.
func (client *Client) ResolveRepository(executionContext context.Context, repository string) (RepositoryMetadata, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return RepositoryMetadata{}, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			viewSubcommandConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			repoViewJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		if isMissingRepositoryFailure(executionError) {
			return RepositoryMetadata{}, OperationError{Operation: resolveRepositoryOperationConstant, Cause: ErrRepositoryNotFound}
		}
		return RepositoryMetadata{}, OperationError{Operation: resolveRepositoryOperationConstant, Cause: executionError}
	}

	var response struct {
		NameWithOwner    string `json:"nameWithOwner"`
		IsEmpty          bool   `json:"isEmpty"`
		SSHURL           string `json:"sshUrl"`
		URL              string `json:"url"`
		DefaultBranchRef struct {
			Name string `json:"name"`
		} `json:"defaultBranchRef"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return RepositoryMetadata{}, ResponseDecodingError{Operation: resolveRepositoryOperationConstant, Cause: decodingError}
	}

	return RepositoryMetadata{
		NameWithOwner: response.NameWithOwner,
		DefaultBranch: response.DefaultBranchRef.Name,
		IsEmpty:       response.IsEmpty,
		SSHURL:        response.SSHURL,
		WebURL:        response.URL,
	}, nil
}

// CreateFromTemplate creates a repository seeded from a template using gh repo create.
// A name collision is reported through ErrRepositoryAlreadyExists so callers can resume.
func (client *Client) CreateFromTemplate(executionContext context.Context, repository string, templateRepository string, options TemplateCreationOptions) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	templateIdentifier := strings.TrimSpace(templateRepository)
	if len(templateIdentifier) == 0 {
		return InvalidInputError{FieldName: templateRepositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	visibilityFlag := privateFlagConstant
	if options.Visibility == RepositoryVisibilityPublic {
		visibilityFlag = publicFlagConstant
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			createSubcommandConstant,
			repositoryIdentifier,
			templateFlagConstant,
			templateIdentifier,
			visibilityFlag,
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		if isExistingRepositoryFailure(executionError) {
			return OperationError{Operation: createFromTemplateOperationConstant, Cause: ErrRepositoryAlreadyExists}
		}
		return OperationError{Operation: createFromTemplateOperationConstant, Cause: executionError}
	}

	return nil
}

// SetVariable creates or updates a repository Actions variable using gh variable set.
func (client *Client) SetVariable(executionContext context.Context, repository string, variableName string, variableValue string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedVariableName := strings.TrimSpace(variableName)
	if len(trimmedVariableName) == 0 {
		return InvalidInputError{FieldName: variableNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			variableSubcommandConstant,
			setSubcommandConstant,
			trimmedVariableName,
			repoFlagConstant,
			repositoryIdentifier,
			bodyFlagConstant,
			variableValue,
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: setVariableOperationConstant, Cause: executionError}
	}

	return nil
}

// ListVariables enumerates repository Actions variables using gh variable list.
func (client *Client) ListVariables(executionContext context.Context, repository string) ([]ActionsVariable, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			variableSubcommandConstant,
			listSubcommandConstant,
			repoFlagConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			variableListJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listVariablesOperationConstant, Cause: executionError}
	}

	var response []struct {
		Name string `json:"name"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listVariablesOperationConstant, Cause: decodingError}
	}

	variables := make([]ActionsVariable, 0, len(response))
	for _, variableEntry := range response {
		variables = append(variables, ActionsVariable{Name: variableEntry.Name})
	}

	return variables, nil
}

// DispatchWorkflow triggers a workflow_dispatch event using gh workflow run.
// Workflows that have not registered yet are reported through ErrWorkflowNotFound.
func (client *Client) DispatchWorkflow(executionContext context.Context, repository string, workflowFile string, reference string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedWorkflowFile := strings.TrimSpace(workflowFile)
	if len(trimmedWorkflowFile) == 0 {
		return InvalidInputError{FieldName: workflowFileFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{
		workflowSubcommandConstant,
		runSubcommandConstant,
		trimmedWorkflowFile,
		repoFlagConstant,
		repositoryIdentifier,
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) > 0 {
		commandArguments = append(commandArguments, refFlagConstant, trimmedReference)
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		if isMissingWorkflowFailure(executionError) {
			return OperationError{Operation: dispatchWorkflowOperationConstant, Cause: ErrWorkflowNotFound}
		}
		return OperationError{Operation: dispatchWorkflowOperationConstant, Cause: executionError}
	}

	return nil
}

// ListWorkflowRuns enumerates recent workflow runs using gh run list, newest first.
func (client *Client) ListWorkflowRuns(executionContext context.Context, repository string, options WorkflowRunListOptions) ([]WorkflowRun, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	resultLimit := options.ResultLimit
	if resultLimit <= 0 {
		resultLimit = workflowRunLimitDefaultValueConstant
	}

	commandArguments := []string{
		runSubcommandConstant,
		listSubcommandConstant,
		repoFlagConstant,
		repositoryIdentifier,
	}
	trimmedWorkflowFile := strings.TrimSpace(options.WorkflowFile)
	if len(trimmedWorkflowFile) > 0 {
		commandArguments = append(commandArguments, workflowFlagConstant, trimmedWorkflowFile)
	}
	commandArguments = append(
		commandArguments,
		jsonFlagConstant,
		runListJSONFieldsConstant,
		limitFlagConstant,
		strconv.Itoa(resultLimit),
	)

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		if isMissingWorkflowFailure(executionError) {
			return nil, OperationError{Operation: listWorkflowRunsOperationConstant, Cause: ErrWorkflowNotFound}
		}
		return nil, OperationError{Operation: listWorkflowRunsOperationConstant, Cause: executionError}
	}

	var response []struct {
		DatabaseID int64     `json:"databaseId"`
		Status     string    `json:"status"`
		Conclusion string    `json:"conclusion"`
		CreatedAt  time.Time `json:"createdAt"`
		URL        string    `json:"url"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listWorkflowRunsOperationConstant, Cause: decodingError}
	}

	workflowRuns := make([]WorkflowRun, 0, len(response))
	for _, runEntry := range response {
		workflowRuns = append(workflowRuns, WorkflowRun{
			Identifier: runEntry.DatabaseID,
			Status:     WorkflowRunStatus(runEntry.Status),
			Conclusion: WorkflowRunConclusion(runEntry.Conclusion),
			CreatedAt:  runEntry.CreatedAt,
			URL:        runEntry.URL,
		})
	}

	return workflowRuns, nil
}

func isMissingRepositoryFailure(executionError error) bool {
	return commandFailureMentions(executionError, missingRepositoryDetailConstant, missingResourceDetailConstant)
}

func isExistingRepositoryFailure(executionError error) bool {
	return commandFailureMentions(executionError, existingRepositoryDetailConstant)
}

func isMissingWorkflowFailure(executionError error) bool {
	return commandFailureMentions(executionError, missingWorkflowDetailConstant, missingResourceDetailConstant)
}

func commandFailureMentions(executionError error, details ...string) bool {
	var commandFailure execshell.CommandFailedError
	if !errors.As(executionError, &commandFailure) {
		return false
	}

	loweredStandardError := strings.ToLower(commandFailure.Result.StandardError)
	for _, detail := range details {
		if strings.Contains(loweredStandardError, detail) {
			return true
		}
	}
	return false
}
