package githubauth

import (
	"os"
	"strings"
)

// Environment variables recognized as GitHub credentials, in preference order.
const (
	CLITokenVariableNameConstant     = "GH_TOKEN"
	GenericTokenVariableNameConstant = "GITHUB_TOKEN"
	APITokenVariableNameConstant     = "GITHUB_API_TOKEN"
)

var preferredTokenVariableNames = []string{
	CLITokenVariableNameConstant,
	GenericTokenVariableNameConstant,
	APITokenVariableNameConstant,
}

// ResolveToken finds the first usable GitHub token, consulting the provided
// environment values before the process environment.
func ResolveToken(environmentValues map[string]string) (string, bool) {
	for _, variableName := range preferredTokenVariableNames {
		if tokenValue := strings.TrimSpace(environmentValues[variableName]); len(tokenValue) > 0 {
			return tokenValue, true
		}
	}
	for _, variableName := range preferredTokenVariableNames {
		if tokenValue := strings.TrimSpace(os.Getenv(variableName)); len(tokenValue) > 0 {
			return tokenValue, true
		}
	}
	return "", false
}
