package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/githubauth"
	"github.com/ciwebgroup/cli-tools/internal/ui"
)

const (
	gitToolNameConstant    = "git"
	githubToolNameConstant = "gh"

	authenticationCheckNameConstant = "gh authentication"
	configurationCheckNameConstant  = "configuration"

	finderMissingMessageConstant       = "executable finder not configured"
	executorMissingMessageConstant     = "command executor not configured"
	githubClientMissingMessageConstant = "github client not configured"
	prerequisitesMessageConstant       = "provisioning prerequisites are not satisfied"

	toolFoundDetailTemplateConstant     = "found at %s"
	toolMissingDetailConstant           = "not found on PATH"
	installDeclinedDetailConstant       = "installation declined"
	installFailedDetailTemplateConstant = "installation with %s failed: %s"
	noInstallerDetailConstant           = "no supported package manager found"
	authenticationActiveDetailConstant  = "gh reports an active account"
	authenticationTokenDetailConstant   = "token provided via environment"
	authenticationMissingDetailConstant = "gh is not authenticated"
	authenticationSkippedDetailConstant = "skipped (gh is unavailable)"
	checkResultLineTemplateConstant     = "%s: %s\n"
	manualStepsHeadingConstant          = "\nManual steps:\n"
	manualStepLineTemplateConstant      = "  %d. %s\n"
	installConfirmationTemplateConstant = "Install %s with %s? [y/N]: "
	installingMessageConstant           = "installing prerequisite"
	toolFieldNameConstant               = "tool"
	installerFieldNameConstant          = "installer"

	configurationFileDetailTemplateConstant = "using %s"
	configurationDefaultsDetailConstant     = "using built-in defaults"

	gitManualInstructionConstant            = "Install git from https://git-scm.com/downloads and re-run 'ciweb doctor'."
	githubManualInstructionConstant         = "Install the GitHub CLI from https://cli.github.com and re-run 'ciweb doctor'."
	authenticationManualInstructionConstant = "Run 'gh auth login' or export GH_TOKEN with a personal access token."
)

// ErrPrerequisitesNotSatisfied indicates at least one prerequisite check failed.
var ErrPrerequisitesNotSatisfied = errors.New(prerequisitesMessageConstant)

// ErrFinderNotConfigured indicates the executable finder dependency was missing.
var ErrFinderNotConfigured = errors.New(finderMissingMessageConstant)

// ErrExecutorNotConfigured indicates the command executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrGitHubClientNotConfigured indicates the github client dependency was missing.
var ErrGitHubClientNotConfigured = errors.New(githubClientMissingMessageConstant)

// ExecutableFinder locates an executable on the PATH.
type ExecutableFinder func(executableName string) (string, error)

// TokenResolver reports whether a GitHub token is available from the environment.
type TokenResolver func(environment map[string]string) (string, bool)

// AuthenticationChecker verifies GitHub CLI credentials.
type AuthenticationChecker interface {
	CheckAuthentication(executionContext context.Context) error
}

// CommandExecutor runs package manager commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Dependencies enumerates collaborators required by the doctor service.
type Dependencies struct {
	Logger        *zap.Logger
	Finder        ExecutableFinder
	Executor      CommandExecutor
	GitHubClient  AuthenticationChecker
	Prompter      ui.ConfirmationPrompter
	Output        io.Writer
	Platform      string
	TokenResolver TokenResolver
}

// Options configures a doctor run.
type Options struct {
	InstallMissing        bool
	AssumeYes             bool
	ConfigurationFilePath string
}

// CheckResult captures the outcome of a single prerequisite check.
type CheckResult struct {
	Name      string
	Satisfied bool
	Detail    string
}

// Service inspects provisioning prerequisites and optionally installs missing tools.
type Service struct {
	logger        *zap.Logger
	finder        ExecutableFinder
	executor      CommandExecutor
	githubClient  AuthenticationChecker
	prompter      ui.ConfirmationPrompter
	output        io.Writer
	platform      string
	tokenResolver TokenResolver
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Finder == nil {
		return nil, ErrFinderNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.GitHubClient == nil {
		return nil, ErrGitHubClientNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	prompter := dependencies.Prompter
	if prompter == nil {
		prompter = nonInteractivePrompter{}
	}
	tokenResolver := dependencies.TokenResolver
	if tokenResolver == nil {
		tokenResolver = githubauth.ResolveToken
	}

	return &Service{
		logger:        logger,
		finder:        dependencies.Finder,
		executor:      dependencies.Executor,
		githubClient:  dependencies.GitHubClient,
		prompter:      prompter,
		output:        output,
		platform:      dependencies.Platform,
		tokenResolver: tokenResolver,
	}, nil
}

// nonInteractivePrompter declines every confirmation when no prompter was supplied.
type nonInteractivePrompter struct{}

// Confirm always reports a negative response.
func (nonInteractivePrompter) Confirm(string) (bool, error) {
	return false, nil
}

// Run evaluates every prerequisite, optionally installing missing tools, and prints the findings.
func (service *Service) Run(executionContext context.Context, options Options) error {
	checkResults := make([]CheckResult, 0, 4)
	checkResults = append(checkResults, describeConfiguration(options.ConfigurationFilePath))

	gitResult := service.checkTool(gitToolNameConstant)
	if !gitResult.Satisfied && options.InstallMissing {
		gitResult = service.installTool(executionContext, gitToolNameConstant, options)
	}
	checkResults = append(checkResults, gitResult)

	githubResult := service.checkTool(githubToolNameConstant)
	if !githubResult.Satisfied && options.InstallMissing {
		githubResult = service.installTool(executionContext, githubToolNameConstant, options)
	}
	checkResults = append(checkResults, githubResult)

	if githubResult.Satisfied {
		checkResults = append(checkResults, service.checkAuthentication(executionContext))
	} else {
		checkResults = append(checkResults, CheckResult{Name: authenticationCheckNameConstant, Detail: authenticationSkippedDetailConstant})
	}

	service.printResults(checkResults)

	unsatisfiedInstructions := collectManualInstructions(checkResults)
	if len(unsatisfiedInstructions) == 0 {
		return nil
	}

	service.printManualInstructions(unsatisfiedInstructions)
	return ErrPrerequisitesNotSatisfied
}

// describeConfiguration reports which configuration source the CLI resolved so
// operators can confirm provisioning reads the file they expect.
func describeConfiguration(configurationFilePath string) CheckResult {
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) == 0 {
		return CheckResult{Name: configurationCheckNameConstant, Satisfied: true, Detail: configurationDefaultsDetailConstant}
	}
	return CheckResult{Name: configurationCheckNameConstant, Satisfied: true, Detail: fmt.Sprintf(configurationFileDetailTemplateConstant, trimmedPath)}
}

func (service *Service) checkTool(toolName string) CheckResult {
	executablePath, lookupError := service.finder(toolName)
	if lookupError != nil {
		return CheckResult{Name: toolName, Detail: toolMissingDetailConstant}
	}
	return CheckResult{Name: toolName, Satisfied: true, Detail: fmt.Sprintf(toolFoundDetailTemplateConstant, executablePath)}
}

func (service *Service) installTool(executionContext context.Context, toolName string, options Options) CheckResult {
	installer, installerAvailable := service.selectInstaller()
	if !installerAvailable {
		return CheckResult{Name: toolName, Detail: noInstallerDetailConstant}
	}

	if !options.AssumeYes {
		confirmed, confirmationError := service.prompter.Confirm(fmt.Sprintf(installConfirmationTemplateConstant, toolName, installer.displayName))
		if confirmationError != nil || !confirmed {
			return CheckResult{Name: toolName, Detail: installDeclinedDetailConstant}
		}
	}

	service.logger.Info(installingMessageConstant,
		zap.String(toolFieldNameConstant, toolName),
		zap.String(installerFieldNameConstant, installer.displayName),
	)

	installCommand := installer.buildInstallCommand(toolName)
	if _, executionError := service.executor.Execute(executionContext, installCommand); executionError != nil {
		return CheckResult{Name: toolName, Detail: fmt.Sprintf(installFailedDetailTemplateConstant, installer.displayName, executionError)}
	}

	return service.checkTool(toolName)
}

func (service *Service) selectInstaller() (installerDefinition, bool) {
	for _, candidate := range installerDefinitionsByPlatform[service.platform] {
		if _, lookupError := service.finder(candidate.executableName); lookupError == nil {
			return candidate, true
		}
	}
	return installerDefinition{}, false
}

func (service *Service) checkAuthentication(executionContext context.Context) CheckResult {
	authenticationError := service.githubClient.CheckAuthentication(executionContext)
	if authenticationError == nil {
		return CheckResult{Name: authenticationCheckNameConstant, Satisfied: true, Detail: authenticationActiveDetailConstant}
	}
	if _, tokenAvailable := service.tokenResolver(nil); tokenAvailable {
		return CheckResult{Name: authenticationCheckNameConstant, Satisfied: true, Detail: authenticationTokenDetailConstant}
	}
	return CheckResult{Name: authenticationCheckNameConstant, Detail: authenticationMissingDetailConstant}
}

func (service *Service) printResults(checkResults []CheckResult) {
	for _, checkResult := range checkResults {
		fmt.Fprintf(service.output, checkResultLineTemplateConstant, checkResult.Name, checkResult.Detail)
	}
}

func (service *Service) printManualInstructions(instructions []string) {
	fmt.Fprint(service.output, manualStepsHeadingConstant)
	for instructionIndex, instruction := range instructions {
		fmt.Fprintf(service.output, manualStepLineTemplateConstant, instructionIndex+1, instruction)
	}
}

var manualInstructionsByCheck = map[string]string{
	gitToolNameConstant:             gitManualInstructionConstant,
	githubToolNameConstant:          githubManualInstructionConstant,
	authenticationCheckNameConstant: authenticationManualInstructionConstant,
}

func collectManualInstructions(checkResults []CheckResult) []string {
	instructions := make([]string, 0, len(checkResults))
	for _, checkResult := range checkResults {
		if checkResult.Satisfied {
			continue
		}
		if instruction, instructionKnown := manualInstructionsByCheck[checkResult.Name]; instructionKnown {
			instructions = append(instructions, instruction)
		}
	}
	return instructions
}
