package provision

import (
	"strings"
	"time"
)

const (
	defaultOrganizationConstant       = "ciwebgroup"
	defaultTemplateRepositoryConstant = "ciwebgroup/www-template"
	defaultWorkspaceRootConstant      = "~/sites"
	defaultStageBranchConstant        = "stage"
	defaultInfraWorkflowConstant      = "infra-init.yml"
	defaultDomainVariableConstant     = "PRODUCTION_DOMAIN"
	defaultSlugVariableConstant       = "SITE_SLUG"
	defaultCloneProtocolConstant      = "ssh"

	defaultPopulationAttemptsConstant = 30
	defaultPopulationIntervalConstant = 10 * time.Second
	defaultDispatchAttemptsConstant   = 6
	defaultDispatchIntervalConstant   = 10 * time.Second
	defaultCompletionAttemptsConstant = 120
	defaultCompletionIntervalConstant = 30 * time.Second
	defaultCompletionStuckConstant    = 5 * time.Minute
)

var defaultRecognizedSuffixes = []string{"com", "net", "org", "biz", "us", "co", "io"}

// PollingConfiguration bounds a retry loop with an attempt count and delay.
type PollingConfiguration struct {
	Attempts int           `mapstructure:"attempts"`
	Interval time.Duration `mapstructure:"interval"`
}

// CompletionConfiguration bounds the workflow completion wait, including the
// threshold after which a still-queued run is diagnosed as lacking a runner.
type CompletionConfiguration struct {
	Attempts   int           `mapstructure:"attempts"`
	Interval   time.Duration `mapstructure:"interval"`
	StuckAfter time.Duration `mapstructure:"stuck_after"`
}

// Configuration stores provisioning settings sourced from configuration files.
type Configuration struct {
	Organization       string                  `mapstructure:"organization"`
	TemplateRepository string                  `mapstructure:"template_repository"`
	WorkspaceRoot      string                  `mapstructure:"workspace_root"`
	StageBranch        string                  `mapstructure:"stage_branch"`
	InfraWorkflow      string                  `mapstructure:"infra_workflow"`
	DomainVariable     string                  `mapstructure:"domain_variable"`
	SlugVariable       string                  `mapstructure:"slug_variable"`
	ExtraVariables     map[string]string       `mapstructure:"extra_variables"`
	RecognizedSuffixes []string                `mapstructure:"recognized_suffixes"`
	CloneProtocol      string                  `mapstructure:"clone_protocol"`
	OpenEditor         bool                    `mapstructure:"open_editor"`
	Population         PollingConfiguration    `mapstructure:"population"`
	Dispatch           PollingConfiguration    `mapstructure:"dispatch"`
	Completion         CompletionConfiguration `mapstructure:"completion"`
}

// DefaultConfiguration supplies baseline values for provisioning configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		Organization:       defaultOrganizationConstant,
		TemplateRepository: defaultTemplateRepositoryConstant,
		WorkspaceRoot:      defaultWorkspaceRootConstant,
		StageBranch:        defaultStageBranchConstant,
		InfraWorkflow:      defaultInfraWorkflowConstant,
		DomainVariable:     defaultDomainVariableConstant,
		SlugVariable:       defaultSlugVariableConstant,
		RecognizedSuffixes: append([]string{}, defaultRecognizedSuffixes...),
		CloneProtocol:      defaultCloneProtocolConstant,
		OpenEditor:         true,
		Population:         PollingConfiguration{Attempts: defaultPopulationAttemptsConstant, Interval: defaultPopulationIntervalConstant},
		Dispatch:           PollingConfiguration{Attempts: defaultDispatchAttemptsConstant, Interval: defaultDispatchIntervalConstant},
		Completion:         CompletionConfiguration{Attempts: defaultCompletionAttemptsConstant, Interval: defaultCompletionIntervalConstant, StuckAfter: defaultCompletionStuckConstant},
	}
}

// Sanitize trims configured values and backfills zero polling bounds with defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	sanitized.TemplateRepository = strings.TrimSpace(configuration.TemplateRepository)
	sanitized.WorkspaceRoot = strings.TrimSpace(configuration.WorkspaceRoot)
	sanitized.StageBranch = strings.TrimSpace(configuration.StageBranch)
	sanitized.InfraWorkflow = strings.TrimSpace(configuration.InfraWorkflow)
	sanitized.DomainVariable = strings.TrimSpace(configuration.DomainVariable)
	sanitized.SlugVariable = strings.TrimSpace(configuration.SlugVariable)
	sanitized.CloneProtocol = strings.ToLower(strings.TrimSpace(configuration.CloneProtocol))
	sanitized.RecognizedSuffixes = sanitizeSuffixList(configuration.RecognizedSuffixes)
	sanitized.Population = configuration.Population.sanitize(defaultPopulationAttemptsConstant, defaultPopulationIntervalConstant)
	sanitized.Dispatch = configuration.Dispatch.sanitize(defaultDispatchAttemptsConstant, defaultDispatchIntervalConstant)
	sanitized.Completion = configuration.Completion.sanitize()
	return sanitized
}

func (configuration PollingConfiguration) sanitize(defaultAttempts int, defaultInterval time.Duration) PollingConfiguration {
	sanitized := configuration
	if sanitized.Attempts <= 0 {
		sanitized.Attempts = defaultAttempts
	}
	if sanitized.Interval <= 0 {
		sanitized.Interval = defaultInterval
	}
	return sanitized
}

func (configuration CompletionConfiguration) sanitize() CompletionConfiguration {
	sanitized := configuration
	if sanitized.Attempts <= 0 {
		sanitized.Attempts = defaultCompletionAttemptsConstant
	}
	if sanitized.Interval <= 0 {
		sanitized.Interval = defaultCompletionIntervalConstant
	}
	if sanitized.StuckAfter <= 0 {
		sanitized.StuckAfter = defaultCompletionStuckConstant
	}
	return sanitized
}

func sanitizeSuffixList(suffixes []string) []string {
	sanitized := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		trimmed := strings.TrimSpace(suffix)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	if len(sanitized) == 0 {
		sanitized = append(sanitized, defaultRecognizedSuffixes...)
	}
	return sanitized
}
