package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderOpenConstant  = "<"
	choicePlaceholderCloseConstant = ">"
	choiceSeparatorConstant        = "|"
	bareUsageTemplateConstant      = "`%s`"
	describedUsageTemplateConstant = "`%s` %s"
)

// FormatChoiceUsage renders a usage string whose placeholder lists the accepted values with the
// default choice capitalized.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderOpenConstant + strings.Join(renderChoices(defaultChoice, choices), choiceSeparatorConstant) + choicePlaceholderCloseConstant
	return formatPlaceholderUsage(placeholder, description)
}

func formatPlaceholderUsage(placeholder string, description string) string {
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(bareUsageTemplateConstant, placeholder)
	}
	return fmt.Sprintf(describedUsageTemplateConstant, placeholder, trimmedDescription)
}

func renderChoices(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(choices))
	included := make(map[string]struct{}, len(choices))

	for _, candidate := range choices {
		trimmedChoice := strings.TrimSpace(candidate)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadyIncluded := included[normalizedChoice]; alreadyIncluded {
			continue
		}
		included[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			rendered = append(rendered, strings.ToUpper(trimmedChoice))
			continue
		}
		rendered = append(rendered, trimmedChoice)
	}

	return rendered
}
