package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/doctor"
	"github.com/ciwebgroup/cli-tools/internal/editor"
	"github.com/ciwebgroup/cli-tools/internal/execshell"
	"github.com/ciwebgroup/cli-tools/internal/provision"
	"github.com/ciwebgroup/cli-tools/internal/ui"
	"github.com/ciwebgroup/cli-tools/internal/utils"
	"github.com/ciwebgroup/cli-tools/internal/utils/flags"
)

const (
	applicationNameConstant                    = "ciweb"
	applicationShortDescriptionConstant        = "Command-line interface for CI Web Group site provisioning"
	applicationLongDescriptionConstant         = "ciweb provisions client website repositories from the organization template, verifies tooling prerequisites, and opens client workspaces in the editor."
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level."
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                  = "CIWEB"
	configurationSearchPathEnvironmentConstant = "CIWEB_CONFIG_SEARCH_PATH"
	configurationNameConstant                  = "config"
	configurationDirectoryNameConstant         = "ciweb"
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	rootCommandInfoMessageConstant             = "ciweb CLI executed"
	rootCommandDebugMessageConstant            = "ciweb CLI diagnostics"
	logFieldCommandNameConstant                = "command_name"
	logFieldArgumentCountConstant              = "argument_count"
	logFieldArgumentsConstant                  = "arguments"
	loggerNotInitializedMessageConstant        = "logger not initialized"
	defaultConfigurationSearchPathConstant     = "."
	versionCommandUseConstant                  = "version"
	versionCommandShortDescriptionConstant     = "Print the ciweb version"
	versionOutputTemplateConstant              = "ciweb version: %s\n"
	versionFlagArgumentConstant                = "--version"
	developmentVersionConstant                 = "dev"
	unversionedModuleVersionConstant           = "(devel)"
	buildInfoRevisionSettingConstant           = "vcs.revision"
	buildInfoModifiedSettingConstant           = "vcs.modified"
	buildInfoModifiedTrueConstant              = "true"
	buildInfoModifiedRevisionTemplateConstant  = "%s-dirty"
	abbreviatedRevisionLengthConstant          = 7
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Provision provision.Configuration        `mapstructure:"provision"`
	Doctor    doctor.Configuration           `mapstructure:"doctor"`
	Editor    editor.Configuration           `mapstructure:"editor"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	consoleEventLogger    *ui.ConsoleCommandEventLogger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	versionResolver       func(executionContext context.Context) string
	exitFunction          func(exitCode int)
	arguments             []string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName:         configurationNameConstant,
		ConfigurationType:         embeddedConfigurationType,
		EnvironmentPrefix:         environmentPrefixConstant,
		SearchPaths:               configurationSearchPaths(),
		EmbeddedConfiguration:     embeddedConfiguration,
		EmbeddedConfigurationType: embeddedConfigurationType,
	})

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	provisionBuilder := provision.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() provision.Configuration {
			return application.configuration.Provision
		},
		EditorConfigurationProvider: func() editor.Configuration {
			return application.configuration.Editor
		},
		CommandEventsObserver: consoleEventObserverAdapter{application: application},
	}
	provisionCommand, provisionBuildError := provisionBuilder.Build()
	if provisionBuildError == nil {
		cobraCommand.AddCommand(provisionCommand)
	}

	doctorBuilder := doctor.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() doctor.Configuration {
			return application.configuration.Doctor
		},
		CommandEventsObserver: consoleEventObserverAdapter{application: application},
	}
	doctorCommand, doctorBuildError := doctorBuilder.Build()
	if doctorBuildError == nil {
		cobraCommand.AddCommand(doctorCommand)
	}

	openBuilder := editor.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() editor.Configuration {
			return application.configuration.Editor
		},
		WorkspaceRootProvider: func() string {
			return application.configuration.Provision.WorkspaceRoot
		},
		CommandEventsObserver: consoleEventObserverAdapter{application: application},
	}
	openCommand, openBuildError := openBuilder.Build()
	if openBuildError == nil {
		cobraCommand.AddCommand(openCommand)
	}

	cobraCommand.AddCommand(application.buildVersionCommand())

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	arguments := application.arguments
	if arguments == nil {
		arguments = os.Args[1:]
	}

	if versionFlagRequested(arguments) {
		fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, application.resolveVersion(application.rootCommand.Context()))
		application.exit(0)
		return nil
	}

	application.rootCommand.SetArgs(flags.NormalizeToggleArguments(arguments))
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	application.consoleEventLogger = nil
	if application.humanReadableLoggingEnabled() {
		application.consoleEventLogger = ui.NewConsoleCommandEventLogger(logger)
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := utils.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) buildVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, application.resolveVersion(command.Context()))
			return nil
		},
	}
}

func (application *Application) resolveVersion(executionContext context.Context) string {
	if application.versionResolver != nil {
		return application.versionResolver(executionContext)
	}
	return resolveVersionFromBuildInfo()
}

func (application *Application) exit(exitCode int) {
	if application.exitFunction != nil {
		application.exitFunction(exitCode)
		return
	}
	os.Exit(exitCode)
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// consoleEventObserverAdapter forwards shell command events to the console event
// logger once configuration initialization has selected human-readable output.
type consoleEventObserverAdapter struct {
	application *Application
}

// CommandStarted implements execshell.CommandEventObserver.
func (adapter consoleEventObserverAdapter) CommandStarted(command execshell.ShellCommand) {
	if adapter.application != nil && adapter.application.consoleEventLogger != nil {
		adapter.application.consoleEventLogger.CommandStarted(command)
	}
}

// CommandCompleted implements execshell.CommandEventObserver.
func (adapter consoleEventObserverAdapter) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if adapter.application != nil && adapter.application.consoleEventLogger != nil {
		adapter.application.consoleEventLogger.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (adapter consoleEventObserverAdapter) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if adapter.application != nil && adapter.application.consoleEventLogger != nil {
		adapter.application.consoleEventLogger.CommandExecutionFailed(command, failure)
	}
}

func configurationSearchPaths() []string {
	searchPaths := []string{
		defaultConfigurationSearchPathConstant,
		filepath.Join(xdg.ConfigHome, configurationDirectoryNameConstant),
	}

	environmentSearchPath := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentConstant))
	if len(environmentSearchPath) > 0 {
		searchPaths = append([]string{environmentSearchPath}, searchPaths...)
	}

	return searchPaths
}

func versionFlagRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == versionFlagArgumentConstant {
			return true
		}
	}
	return false
}

func resolveVersionFromBuildInfo() string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if !buildInformationAvailable {
		return developmentVersionConstant
	}

	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) > 0 && moduleVersion != unversionedModuleVersionConstant {
		return moduleVersion
	}

	revision := ""
	modified := false
	for _, buildSetting := range buildInformation.Settings {
		switch buildSetting.Key {
		case buildInfoRevisionSettingConstant:
			revision = buildSetting.Value
		case buildInfoModifiedSettingConstant:
			modified = buildSetting.Value == buildInfoModifiedTrueConstant
		}
	}

	if len(revision) == 0 {
		return developmentVersionConstant
	}
	if len(revision) > abbreviatedRevisionLengthConstant {
		revision = revision[:abbreviatedRevisionLengthConstant]
	}
	if modified {
		return fmt.Sprintf(buildInfoModifiedRevisionTemplateConstant, revision)
	}
	return revision
}
