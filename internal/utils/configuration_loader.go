package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
)

// ConfigurationLoaderOptions describes where configuration files are discovered,
// which environment prefix binds overrides, and the embedded defaults merged
// beneath every other source.
type ConfigurationLoaderOptions struct {
	ConfigurationName         string
	ConfigurationType         string
	EnvironmentPrefix         string
	SearchPaths               []string
	EmbeddedConfiguration     []byte
	EmbeddedConfigurationType string
}

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	options                ConfigurationLoaderOptions
	environmentKeyReplacer *strings.Replacer
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader honoring the provided discovery options.
func NewConfigurationLoader(options ConfigurationLoaderOptions) *ConfigurationLoader {
	options.SearchPaths = append([]string(nil), options.SearchPaths...)
	options.EmbeddedConfiguration = append([]byte(nil), options.EmbeddedConfiguration...)
	options.EmbeddedConfigurationType = strings.TrimSpace(options.EmbeddedConfigurationType)

	return &ConfigurationLoader{
		options:                options,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// LoadConfiguration populates targetConfiguration from embedded defaults, configuration
// files, explicit default values, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.options.ConfigurationName)
	viperInstance.SetConfigType(loader.options.ConfigurationType)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	for _, searchPath := range loader.options.SearchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	loader.bindEnvironment(viperInstance)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(readError, &configFileNotFound) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// mergeEmbeddedConfiguration seeds the configuration layer with the embedded defaults
// so later file merges override them key by key.
func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.options.EmbeddedConfiguration) == 0 {
		return nil
	}

	embeddedType := loader.options.EmbeddedConfigurationType
	if len(embeddedType) == 0 {
		embeddedType = loader.options.ConfigurationType
	}

	viperInstance.SetConfigType(embeddedType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.options.EmbeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	viperInstance.SetConfigType(loader.options.ConfigurationType)

	return nil
}

func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper) {
	viperInstance.SetEnvPrefix(loader.options.EnvironmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()
}
