package cli

import (
	"bytes"
	_ "embed"
)

const configurationTypeConstant = "yaml"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration hands out a copy of the built-in configuration
// together with its Viper configuration type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(embeddedDefaultConfigurationContent), configurationTypeConstant
}
