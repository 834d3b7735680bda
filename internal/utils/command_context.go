package utils

import "context"

type commandContextKey int

const configurationFilePathContextKey commandContextKey = iota

// WithConfigurationFilePath attaches the resolved configuration file path to the provided context.
func WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePathFromContext reports the configuration file path recorded by
// WithConfigurationFilePath. A recorded empty path means no file was used and
// reports false.
func ConfigurationFilePathFromContext(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, pathRecorded := executionContext.Value(configurationFilePathContextKey).(string)
	if !pathRecorded || len(configurationFilePath) == 0 {
		return "", false
	}
	return configurationFilePath, true
}
