package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

const (
	cursorExecutableConstant        = "cursor"
	codeExecutableConstant          = "code"
	darwinOpenerExecutableConstant  = "open"
	linuxOpenerExecutableConstant   = "xdg-open"
	windowsOpenerExecutableConstant = "explorer.exe"

	platformDarwinConstant  = "darwin"
	platformWindowsConstant = "windows"

	finderMissingMessageConstant     = "executable finder must be configured"
	executorMissingMessageConstant   = "command executor must be configured"
	targetPathMissingMessageConstant = "target path must be provided"
	noLauncherMessageConstant        = "no editor or file browser found on PATH"
	launchFailedTemplateConstant     = "launching %s failed: %w"
)

var (
	// ErrFinderNotConfigured indicates the launcher was constructed without an executable finder.
	ErrFinderNotConfigured = errors.New(finderMissingMessageConstant)
	// ErrExecutorNotConfigured indicates the launcher was constructed without a command executor.
	ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)
	// ErrTargetPathRequired indicates Open was invoked without a directory to open.
	ErrTargetPathRequired = errors.New(targetPathMissingMessageConstant)
	// ErrNoLauncherAvailable indicates no candidate editor or opener executable exists on PATH.
	ErrNoLauncherAvailable = errors.New(noLauncherMessageConstant)
)

// ExecutableFinder locates an executable on PATH, mirroring exec.LookPath.
type ExecutableFinder func(executableName string) (string, error)

// CommandExecutor runs launcher executables.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// LauncherDependencies carries the collaborators required to construct a Launcher.
type LauncherDependencies struct {
	Logger            *zap.Logger
	Finder            ExecutableFinder
	Executor          CommandExecutor
	Platform          string
	ConfiguredCommand string
}

// Launcher opens workspace directories in the operator's editor, falling back
// to the platform file browser when no editor is installed.
type Launcher struct {
	logger            *zap.Logger
	finder            ExecutableFinder
	executor          CommandExecutor
	platform          string
	configuredCommand string
}

// NewLauncher validates the dependencies and assembles a Launcher.
func NewLauncher(dependencies LauncherDependencies) (*Launcher, error) {
	if dependencies.Finder == nil {
		return nil, ErrFinderNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		logger:            logger,
		finder:            dependencies.Finder,
		executor:          dependencies.Executor,
		platform:          dependencies.Platform,
		configuredCommand: strings.TrimSpace(dependencies.ConfiguredCommand),
	}, nil
}

// Open launches the first available candidate executable with the target path
// as its sole argument and reports the executable that was used.
func (launcher *Launcher) Open(executionContext context.Context, targetPath string) (string, error) {
	if len(strings.TrimSpace(targetPath)) == 0 {
		return "", ErrTargetPathRequired
	}

	for _, candidateName := range launcher.candidateExecutables() {
		if _, lookupError := launcher.finder(candidateName); lookupError != nil {
			continue
		}

		launchCommand := execshell.ShellCommand{
			Name:    execshell.CommandName(candidateName),
			Details: execshell.CommandDetails{Arguments: []string{targetPath}},
		}
		if _, executionError := launcher.executor.Execute(executionContext, launchCommand); executionError != nil {
			return candidateName, fmt.Errorf(launchFailedTemplateConstant, candidateName, executionError)
		}

		launcher.logger.Debug("opened workspace",
			zap.String("path", targetPath),
			zap.String("launcher", candidateName),
		)
		return candidateName, nil
	}

	return "", ErrNoLauncherAvailable
}

// candidateExecutables orders the launch candidates: the configured override,
// known editors, then the platform file browser.
func (launcher *Launcher) candidateExecutables() []string {
	candidateNames := make([]string, 0, 4)
	if len(launcher.configuredCommand) > 0 {
		candidateNames = append(candidateNames, launcher.configuredCommand)
	}
	candidateNames = append(candidateNames, cursorExecutableConstant, codeExecutableConstant)
	candidateNames = append(candidateNames, launcher.platformOpener())
	return candidateNames
}

func (launcher *Launcher) platformOpener() string {
	switch launcher.platform {
	case platformDarwinConstant:
		return darwinOpenerExecutableConstant
	case platformWindowsConstant:
		return windowsOpenerExecutableConstant
	default:
		return linuxOpenerExecutableConstant
	}
}
