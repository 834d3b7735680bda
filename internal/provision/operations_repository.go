package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/githubcli"
)

const (
	ensureRepositoryOperationNameConstant = "ensure-repository"
	awaitPopulationOperationNameConstant  = "await-population"

	resolvingRepositoryPhaseTemplateConstant = "Resolving repository %s"
	repositoryExistsPhaseTemplateConstant    = "Repository %s already exists"
	creatingRepositoryPhaseTemplateConstant  = "Creating %s from template %s"
	repositoryCreatedPhaseTemplateConstant   = "Repository %s created"
	repositoryFailedPhaseTemplateConstant    = "Repository %s could not be resolved"
	awaitingVisibilityPhaseTemplateConstant  = "Waiting for %s to become visible (attempt %d/%d)"

	populationWaitPhaseTemplateConstant     = "Waiting for template population of %s (attempt %d/%d)"
	populationCompletePhaseTemplateConstant = "Repository %s is populated"
	populationFailedPhaseTemplateConstant   = "Repository %s was never populated"

	creationVisibilityDiagnosisTemplateConstant = "repository %s was created but never became visible after %d checks"
	populationDiagnosisTemplateConstant         = "repository %s never advertised a default branch after %d checks"
)

// EnsureRepositoryOperation resolves the client repository, creating it from
// the configured template when it does not exist yet.
type EnsureRepositoryOperation struct{}

// Name identifies the operation.
func (operation *EnsureRepositoryOperation) Name() string {
	return ensureRepositoryOperationNameConstant
}

// Execute resolves or creates the repository and records its metadata.
func (operation *EnsureRepositoryOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	environment.Progress.StartPhase(fmt.Sprintf(resolvingRepositoryPhaseTemplateConstant, state.RepositoryName))

	metadata, resolveError := environment.GitHubClient.ResolveRepository(executionContext, state.RepositoryName)
	switch {
	case resolveError == nil:
		state.Repository = metadata
		environment.Progress.CompletePhase(fmt.Sprintf(repositoryExistsPhaseTemplateConstant, state.RepositoryName))
		return nil
	case errors.Is(resolveError, githubcli.ErrRepositoryNotFound):
	default:
		environment.Progress.FailPhase(fmt.Sprintf(repositoryFailedPhaseTemplateConstant, state.RepositoryName))
		return resolveError
	}

	environment.Progress.UpdatePhase(fmt.Sprintf(creatingRepositoryPhaseTemplateConstant, state.RepositoryName, environment.Configuration.TemplateRepository))
	creationError := environment.GitHubClient.CreateFromTemplate(
		executionContext,
		state.RepositoryName,
		environment.Configuration.TemplateRepository,
		githubcli.TemplateCreationOptions{Visibility: githubcli.RepositoryVisibilityPrivate},
	)
	if creationError != nil && !errors.Is(creationError, githubcli.ErrRepositoryAlreadyExists) {
		environment.Progress.FailPhase(fmt.Sprintf(repositoryFailedPhaseTemplateConstant, state.RepositoryName))
		return creationError
	}

	resolvedMetadata, visibilityError := operation.awaitVisibility(executionContext, environment, state)
	if visibilityError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(repositoryFailedPhaseTemplateConstant, state.RepositoryName))
		return visibilityError
	}

	state.Repository = resolvedMetadata
	environment.Progress.CompletePhase(fmt.Sprintf(repositoryCreatedPhaseTemplateConstant, state.RepositoryName))
	return nil
}

// awaitVisibility polls the freshly created repository until GitHub reports it.
func (operation *EnsureRepositoryOperation) awaitVisibility(executionContext context.Context, environment *Environment, state *State) (githubcli.RepositoryMetadata, error) {
	polling := environment.Configuration.Population
	for attemptIndex := 1; attemptIndex <= polling.Attempts; attemptIndex++ {
		metadata, resolveError := environment.GitHubClient.ResolveRepository(executionContext, state.RepositoryName)
		if resolveError == nil {
			return metadata, nil
		}
		if !errors.Is(resolveError, githubcli.ErrRepositoryNotFound) {
			return githubcli.RepositoryMetadata{}, resolveError
		}
		if attemptIndex == polling.Attempts {
			break
		}
		environment.Progress.UpdatePhase(fmt.Sprintf(awaitingVisibilityPhaseTemplateConstant, state.RepositoryName, attemptIndex, polling.Attempts))
		if sleepError := environment.Clock.Sleep(executionContext, polling.Interval); sleepError != nil {
			return githubcli.RepositoryMetadata{}, sleepError
		}
	}

	return githubcli.RepositoryMetadata{}, RecoveryError{
		Step:      ensureRepositoryOperationNameConstant,
		Diagnosis: fmt.Sprintf(creationVisibilityDiagnosisTemplateConstant, state.RepositoryName, polling.Attempts),
		Instructions: []string{
			fmt.Sprintf("Check https://github.com/%s in a browser.", state.RepositoryName),
			fmt.Sprintf("If the repository is missing, create it manually: gh repo create %s --template %s --private", state.RepositoryName, environment.Configuration.TemplateRepository),
			fmt.Sprintf("Re-run: ciweb provision %s", state.Domain),
		},
	}
}

// AwaitPopulationOperation waits until the template contents land in the new
// repository, observed through the remote HEAD advertisement.
type AwaitPopulationOperation struct{}

// Name identifies the operation.
func (operation *AwaitPopulationOperation) Name() string {
	return awaitPopulationOperationNameConstant
}

// Execute polls the remote until it advertises a HEAD ref.
func (operation *AwaitPopulationOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if !state.Repository.IsEmpty {
		environment.Progress.StartPhase(fmt.Sprintf(populationCompletePhaseTemplateConstant, state.RepositoryName))
		environment.Progress.CompletePhase(fmt.Sprintf(populationCompletePhaseTemplateConstant, state.RepositoryName))
		return nil
	}

	polling := environment.Configuration.Population
	environment.Progress.StartPhase(fmt.Sprintf(populationWaitPhaseTemplateConstant, state.RepositoryName, 1, polling.Attempts))

	for attemptIndex := 1; attemptIndex <= polling.Attempts; attemptIndex++ {
		populated, probeError := environment.RepositoryManager.ProbeRemoteHead(executionContext, state.CloneURL)
		if probeError != nil {
			environment.Logger.Warn("population probe failed",
				zap.String("remote", state.CloneURL),
				zap.Error(probeError),
			)
		}
		if populated {
			metadata, resolveError := environment.GitHubClient.ResolveRepository(executionContext, state.RepositoryName)
			if resolveError != nil {
				environment.Progress.FailPhase(fmt.Sprintf(populationFailedPhaseTemplateConstant, state.RepositoryName))
				return resolveError
			}
			state.Repository = metadata
			environment.Progress.CompletePhase(fmt.Sprintf(populationCompletePhaseTemplateConstant, state.RepositoryName))
			return nil
		}
		if attemptIndex == polling.Attempts {
			break
		}
		environment.Progress.UpdatePhase(fmt.Sprintf(populationWaitPhaseTemplateConstant, state.RepositoryName, attemptIndex+1, polling.Attempts))
		if sleepError := environment.Clock.Sleep(executionContext, polling.Interval); sleepError != nil {
			environment.Progress.FailPhase(fmt.Sprintf(populationFailedPhaseTemplateConstant, state.RepositoryName))
			return sleepError
		}
	}

	environment.Progress.FailPhase(fmt.Sprintf(populationFailedPhaseTemplateConstant, state.RepositoryName))
	return RecoveryError{
		Step:      awaitPopulationOperationNameConstant,
		Diagnosis: fmt.Sprintf(populationDiagnosisTemplateConstant, state.RepositoryName, polling.Attempts),
		Instructions: []string{
			fmt.Sprintf("Confirm %s is marked as a template repository and has at least one commit.", environment.Configuration.TemplateRepository),
			fmt.Sprintf("Check %s for a generated commit.", repositoryWebAddress(state)),
			fmt.Sprintf("Once the repository has content, re-run: ciweb provision %s", state.Domain),
		},
	}
}

func repositoryWebAddress(state *State) string {
	if len(state.Repository.WebURL) > 0 {
		return state.Repository.WebURL
	}
	return "https://github.com/" + state.RepositoryName
}
