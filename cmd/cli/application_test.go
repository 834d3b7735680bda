package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/ciwebgroup/cli-tools/cmd/cli"
	"github.com/ciwebgroup/cli-tools/internal/provision"
)

const (
	workspaceRootPlaceholderConstant = "@WORKSPACE_ROOT@"

	provisionedWorkspaceArchiveConstant = `-- config/config.yaml --
common:
  log_format: structured
provision:
  workspace_root: @WORKSPACE_ROOT@
-- workspace/existing-site/index.html --
<!doctype html>
`
)

// extractFixtureArchive materializes a txtar archive under the target
// directory, substituting placeholders before each file is written.
func extractFixtureArchive(t *testing.T, targetDirectory string, archiveText string, replacements map[string]string) {
	t.Helper()

	archive := txtar.Parse([]byte(archiveText))
	require.NotEmpty(t, archive.Files)

	for _, archiveFile := range archive.Files {
		fileContent := string(archiveFile.Data)
		for placeholder, replacement := range replacements {
			fileContent = strings.ReplaceAll(fileContent, placeholder, replacement)
		}

		filePath := filepath.Join(targetDirectory, archiveFile.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(fileContent), 0o644))
	}
}

func decodeConfigurationSettings(t *testing.T, settings map[string]any, target any) {
	t.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     target,
	})
	require.NoError(t, decoderError)
	require.NoError(t, decoder.Decode(settings))
}

func decodeEmbeddedApplicationConfiguration(t *testing.T) cli.ApplicationConfiguration {
	t.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(t, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	applicationConfiguration := cli.ApplicationConfiguration{}
	decodeConfigurationSettings(t, viperInstance.AllSettings(), &applicationConfiguration)
	return applicationConfiguration
}

func TestEmbeddedDefaultConfigurationMatchesCodeDefaults(t *testing.T) {
	embeddedConfiguration := decodeEmbeddedApplicationConfiguration(t)
	codeDefaults := provision.DefaultConfiguration()

	require.Equal(t, "info", embeddedConfiguration.Common.LogLevel)
	require.Equal(t, "console", embeddedConfiguration.Common.LogFormat)

	require.Equal(t, codeDefaults.Organization, embeddedConfiguration.Provision.Organization)
	require.Equal(t, codeDefaults.TemplateRepository, embeddedConfiguration.Provision.TemplateRepository)
	require.Equal(t, codeDefaults.WorkspaceRoot, embeddedConfiguration.Provision.WorkspaceRoot)
	require.Equal(t, codeDefaults.StageBranch, embeddedConfiguration.Provision.StageBranch)
	require.Equal(t, codeDefaults.InfraWorkflow, embeddedConfiguration.Provision.InfraWorkflow)
	require.Equal(t, codeDefaults.DomainVariable, embeddedConfiguration.Provision.DomainVariable)
	require.Equal(t, codeDefaults.SlugVariable, embeddedConfiguration.Provision.SlugVariable)
	require.Equal(t, codeDefaults.RecognizedSuffixes, embeddedConfiguration.Provision.RecognizedSuffixes)
	require.Equal(t, codeDefaults.CloneProtocol, embeddedConfiguration.Provision.CloneProtocol)
	require.Equal(t, codeDefaults.OpenEditor, embeddedConfiguration.Provision.OpenEditor)
	require.Equal(t, codeDefaults.Population, embeddedConfiguration.Provision.Population)
	require.Equal(t, codeDefaults.Dispatch, embeddedConfiguration.Provision.Dispatch)
	require.Equal(t, codeDefaults.Completion, embeddedConfiguration.Provision.Completion)
	require.Empty(t, embeddedConfiguration.Provision.ExtraVariables)

	require.False(t, embeddedConfiguration.Doctor.AssumeYes)
	require.Empty(t, embeddedConfiguration.Editor.Command)
}

func TestApplicationResolvesWorkspaceRootFromConfigurationFile(t *testing.T) {
	fixtureDirectory := t.TempDir()
	workspaceRoot := filepath.Join(fixtureDirectory, "workspace")
	extractFixtureArchive(t, fixtureDirectory, provisionedWorkspaceArchiveConstant, map[string]string{
		workspaceRootPlaceholderConstant: workspaceRoot,
	})
	t.Setenv("CIWEB_CONFIG_SEARCH_PATH", filepath.Join(fixtureDirectory, "config"))

	application := cli.NewApplication()

	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()
	os.Args = []string{"ciweb", "open", "missing-site"}

	executionError := application.Execute()
	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), filepath.Join(workspaceRoot, "missing-site"))
	require.Contains(t, executionError.Error(), "does not exist")
}

func TestApplicationPrefersEnvironmentOverConfigurationFile(t *testing.T) {
	fixtureDirectory := t.TempDir()
	workspaceRoot := filepath.Join(fixtureDirectory, "workspace")
	extractFixtureArchive(t, fixtureDirectory, provisionedWorkspaceArchiveConstant, map[string]string{
		workspaceRootPlaceholderConstant: workspaceRoot,
	})
	t.Setenv("CIWEB_CONFIG_SEARCH_PATH", filepath.Join(fixtureDirectory, "config"))

	environmentWorkspaceRoot := filepath.Join(fixtureDirectory, "environment-workspace")
	t.Setenv("CIWEB_PROVISION_WORKSPACE_ROOT", environmentWorkspaceRoot)

	application := cli.NewApplication()

	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()
	os.Args = []string{"ciweb", "open", "missing-site"}

	executionError := application.Execute()
	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), filepath.Join(environmentWorkspaceRoot, "missing-site"))
}
