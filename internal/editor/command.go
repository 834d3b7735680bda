package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
	pathutils "github.com/ciwebgroup/cli-tools/internal/utils/path"
)

const (
	commandUseConstant   = "open [slug]"
	commandShortConstant = "Open a client workspace in the editor"
	commandLongConstant  = "Open launches the configured editor for a provisioned client workspace, trying cursor and code before falling back to the platform file browser."

	workspaceRootMissingMessageConstant = "workspace root is not configured"
	workspaceMissingTemplateConstant    = "workspace %s does not exist; run 'ciweb provision' first"
	openedMessageTemplateConstant       = "Opened %s with %s\n"
)

// ErrWorkspaceRootNotConfigured indicates the open command has no workspace root to resolve against.
var ErrWorkspaceRootNotConfigured = errors.New(workspaceRootMissingMessageConstant)

// WorkspaceMissingError reports an open request for a directory that has not been provisioned yet.
type WorkspaceMissingError struct {
	Path string
}

// Error describes the missing workspace directory.
func (missingError WorkspaceMissingError) Error() string {
	return fmt.Sprintf(workspaceMissingTemplateConstant, missingError.Path)
}

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Configuration models editor settings sourced from configuration files.
type Configuration struct {
	Command string `mapstructure:"command"`
}

// ConfigurationProvider supplies editor configuration during command execution.
type ConfigurationProvider func() Configuration

// WorkspaceRootProvider supplies the directory that client workspaces live under.
type WorkspaceRootProvider func() string

// DirectoryChecker reports whether the path exists and is a directory.
type DirectoryChecker func(candidatePath string) bool

// CommandBuilder assembles the open cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	WorkspaceRootProvider WorkspaceRootProvider
	Finder                ExecutableFinder
	Executor              CommandExecutor
	Platform              string
	DirectoryChecker      DirectoryChecker
	HomeExpander          *pathutils.HomeExpander
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command launching editors for client workspaces.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	configuration := Configuration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	targetPath, pathError := builder.resolveTargetPath(arguments)
	if pathError != nil {
		return pathError
	}

	executor := builder.Executor
	if executor == nil {
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.CommandEventsObserver)
		if executorError != nil {
			return executorError
		}
		executor = shellExecutor
	}

	finder := builder.Finder
	if finder == nil {
		finder = exec.LookPath
	}

	platform := builder.Platform
	if len(platform) == 0 {
		platform = runtime.GOOS
	}

	launcher, launcherError := NewLauncher(LauncherDependencies{
		Logger:            logger,
		Finder:            finder,
		Executor:          executor,
		Platform:          platform,
		ConfiguredCommand: configuration.Command,
	})
	if launcherError != nil {
		return launcherError
	}

	launcherName, openError := launcher.Open(command.Context(), targetPath)
	if openError != nil {
		return openError
	}

	fmt.Fprintf(command.OutOrStdout(), openedMessageTemplateConstant, targetPath, launcherName)
	return nil
}

// resolveTargetPath joins the workspace root with the optional slug argument
// and verifies the directory exists.
func (builder *CommandBuilder) resolveTargetPath(arguments []string) (string, error) {
	workspaceRoot := ""
	if builder.WorkspaceRootProvider != nil {
		workspaceRoot = strings.TrimSpace(builder.WorkspaceRootProvider())
	}
	if len(workspaceRoot) == 0 {
		return "", ErrWorkspaceRootNotConfigured
	}

	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	workspaceRoot = homeExpander.Expand(workspaceRoot)

	targetPath := workspaceRoot
	if len(arguments) > 0 {
		targetPath = filepath.Join(workspaceRoot, strings.TrimSpace(arguments[0]))
	}

	directoryChecker := builder.DirectoryChecker
	if directoryChecker == nil {
		directoryChecker = directoryExists
	}
	if !directoryChecker(targetPath) {
		return "", WorkspaceMissingError{Path: targetPath}
	}
	return targetPath, nil
}

func directoryExists(candidatePath string) bool {
	pathInformation, statError := os.Stat(candidatePath)
	if statError != nil {
		return false
	}
	return pathInformation.IsDir()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
