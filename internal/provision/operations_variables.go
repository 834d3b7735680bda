package provision

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	configureVariablesOperationNameConstant = "configure-variables"

	settingVariablesPhaseTemplateConstant = "Setting repository variables on %s"
	settingVariablePhaseTemplateConstant  = "Setting variable %s (%d/%d)"
	variablesReadyPhaseTemplateConstant   = "%d repository variables configured on %s"
	variablesFailedPhaseTemplateConstant  = "Repository variables could not be configured on %s"
	variableSetDiagnosisTemplateConstant  = "setting variable %s on %s failed"
	manualVariableCommandTemplateConstant = "gh variable set %s --repo %s --body %q"
	verificationFailedTemplateConstant    = "variables missing on %s after configuration: %s"
)

// VariableVerificationError reports configured variables that GitHub does not list back.
type VariableVerificationError struct {
	RepositoryName string
	MissingNames   []string
}

// Error describes the verification mismatch.
func (verificationError VariableVerificationError) Error() string {
	return fmt.Sprintf(verificationFailedTemplateConstant, verificationError.RepositoryName, strings.Join(verificationError.MissingNames, ", "))
}

// ConfigureVariablesOperation writes the domain and slug Actions variables,
// plus any operator-configured extras, then verifies GitHub lists them back.
type ConfigureVariablesOperation struct{}

// Name identifies the operation.
func (operation *ConfigureVariablesOperation) Name() string {
	return configureVariablesOperationNameConstant
}

// Execute upserts every variable and verifies the result.
func (operation *ConfigureVariablesOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	environment.Progress.StartPhase(fmt.Sprintf(settingVariablesPhaseTemplateConstant, state.RepositoryName))

	variableValues := operation.collectVariables(environment, state)
	variableNames := make([]string, 0, len(variableValues))
	for variableName := range variableValues {
		variableNames = append(variableNames, variableName)
	}
	sort.Strings(variableNames)

	for variableIndex, variableName := range variableNames {
		environment.Progress.UpdatePhase(fmt.Sprintf(settingVariablePhaseTemplateConstant, variableName, variableIndex+1, len(variableNames)))
		setError := environment.GitHubClient.SetVariable(executionContext, state.RepositoryName, variableName, variableValues[variableName])
		if setError != nil {
			environment.Progress.FailPhase(fmt.Sprintf(variablesFailedPhaseTemplateConstant, state.RepositoryName))
			return operation.buildRecoveryError(state, variableNames, variableValues, variableName, setError)
		}
	}

	if verificationError := operation.verifyVariables(executionContext, environment, state, variableNames); verificationError != nil {
		environment.Progress.FailPhase(fmt.Sprintf(variablesFailedPhaseTemplateConstant, state.RepositoryName))
		return verificationError
	}

	environment.Progress.CompletePhase(fmt.Sprintf(variablesReadyPhaseTemplateConstant, len(variableNames), state.RepositoryName))
	return nil
}

// collectVariables merges the built-in domain and slug variables with the
// configured extras, normalizing names to the upper-case form GitHub stores.
func (operation *ConfigureVariablesOperation) collectVariables(environment *Environment, state *State) map[string]string {
	variableValues := map[string]string{
		strings.ToUpper(environment.Configuration.DomainVariable): state.Domain,
		strings.ToUpper(environment.Configuration.SlugVariable):   state.Slug.String(),
	}
	for extraName, extraValue := range environment.Configuration.ExtraVariables {
		trimmedName := strings.TrimSpace(extraName)
		if len(trimmedName) == 0 {
			continue
		}
		variableValues[strings.ToUpper(trimmedName)] = extraValue
	}
	return variableValues
}

func (operation *ConfigureVariablesOperation) buildRecoveryError(state *State, variableNames []string, variableValues map[string]string, failedName string, cause error) error {
	instructions := make([]string, 0, len(variableNames)+1)
	for _, variableName := range variableNames {
		instructions = append(instructions, fmt.Sprintf(manualVariableCommandTemplateConstant, variableName, state.RepositoryName, variableValues[variableName]))
	}
	instructions = append(instructions, fmt.Sprintf("Re-run: ciweb provision %s", state.Domain))

	return RecoveryError{
		Step:         configureVariablesOperationNameConstant,
		Diagnosis:    fmt.Sprintf(variableSetDiagnosisTemplateConstant, failedName, state.RepositoryName),
		Instructions: instructions,
		Cause:        cause,
	}
}

func (operation *ConfigureVariablesOperation) verifyVariables(executionContext context.Context, environment *Environment, state *State, expectedNames []string) error {
	listedVariables, listError := environment.GitHubClient.ListVariables(executionContext, state.RepositoryName)
	if listError != nil {
		return listError
	}

	listedNames := make(map[string]struct{}, len(listedVariables))
	for variableIndex := range listedVariables {
		listedNames[strings.ToUpper(listedVariables[variableIndex].Name)] = struct{}{}
	}

	missingNames := make([]string, 0)
	for _, expectedName := range expectedNames {
		if _, present := listedNames[strings.ToUpper(expectedName)]; !present {
			missingNames = append(missingNames, expectedName)
		}
	}
	if len(missingNames) > 0 {
		return VariableVerificationError{RepositoryName: state.RepositoryName, MissingNames: missingNames}
	}
	return nil
}
