package provision

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/ciwebgroup/cli-tools/internal/editor"
	"github.com/ciwebgroup/cli-tools/internal/githubcli"
	"github.com/ciwebgroup/cli-tools/internal/gitrepo"
	"github.com/ciwebgroup/cli-tools/internal/slug"
	"github.com/ciwebgroup/cli-tools/internal/ui"
)

// Operation advances a single provisioning step.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// Environment exposes shared dependencies for provisioning operations.
type Environment struct {
	Configuration     Configuration
	RepositoryManager *gitrepo.RepositoryManager
	GitHubClient      *githubcli.Client
	EditorLauncher    *editor.Launcher
	FileSystem        FileSystem
	Clock             Clock
	Prompter          ui.ConfirmationPrompter
	Progress          ui.ProgressReporter
	Output            io.Writer
	Errors            io.Writer
	Logger            *zap.Logger
	Interactive       bool
	SkipDeploy        bool
	OpenEditor        bool
}

// State carries the facts accumulated while provisioning a single client site.
type State struct {
	Domain         string
	Slug           slug.Slug
	RepositoryName string
	Repository     githubcli.RepositoryMetadata
	CloneURL       string
	ClonePath      string
	CompletedRun   *githubcli.WorkflowRun
	RunPreexisting bool
}
