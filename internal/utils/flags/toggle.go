package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalConstant        = "true"
	toggleFalseCanonicalConstant       = "false"
	toggleValueTypeNameConstant        = "bool"
	invalidToggleValueTemplateConstant = "invalid toggle value %q"
	enabledTogglePlaceholderConstant   = "<YES|no>"
	disabledTogglePlaceholderConstant  = "<yes|NO>"
)

var toggleLiteralValues = map[string]bool{
	"true":  true,
	"t":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"1":     true,
	"false": false,
	"f":     false,
	"no":    false,
	"n":     false,
	"off":   false,
	"0":     false,
}

// AddToggleFlag registers a boolean flag that accepts yes/no style literals in addition to true/false.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := newToggleValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(value, name, shorthand, usage)
	} else {
		flagSet.Var(value, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalConstant
	registeredFlag.Usage = formatToggleUsage(usage, defaultValue)

	registeredToggleFlags.record(name, shorthand)
}

// NormalizeToggleArguments rewrites registered toggle flags given as "--flag value" into the
// "--flag=value" form so pflag does not treat the literal as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			normalized = append(normalized, arguments[index:]...)
			return normalized
		}
		if !expectsToggleValue(current) || index+1 >= len(arguments) || strings.HasPrefix(arguments[index+1], "-") {
			normalized = append(normalized, current)
			continue
		}
		normalized = append(normalized, current+"="+arguments[index+1])
		index++
	}
	return normalized
}

func expectsToggleValue(argument string) bool {
	if strings.Contains(argument, "=") {
		return false
	}
	if strings.HasPrefix(argument, "--") {
		name := strings.TrimPrefix(argument, "--")
		return len(name) > 0 && registeredToggleFlags.containsName(name)
	}
	if strings.HasPrefix(argument, "-") {
		shorthand := strings.TrimPrefix(argument, "-")
		return len(shorthand) == 1 && registeredToggleFlags.containsShorthand(shorthand)
	}
	return false
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := disabledTogglePlaceholderConstant
	if defaultValue {
		placeholder = enabledTogglePlaceholderConstant
	}
	return formatPlaceholderUsage(placeholder, description)
}

type toggleValue struct {
	enabled     bool
	destination *bool
}

func newToggleValue(defaultValue bool, destination *bool) *toggleValue {
	if destination != nil {
		*destination = defaultValue
	}
	return &toggleValue{enabled: defaultValue, destination: destination}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleLiteral(rawValue)
	if parseError != nil {
		return parseError
	}

	value.enabled = parsedValue
	if value.destination != nil {
		*value.destination = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.enabled {
		return toggleTrueCanonicalConstant
	}
	return toggleFalseCanonicalConstant
}

func (value *toggleValue) Type() string {
	return toggleValueTypeNameConstant
}

func parseToggleLiteral(rawValue string) (bool, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return true, nil
	}

	parsedValue, recognized := toggleLiteralValues[strings.ToLower(trimmedValue)]
	if !recognized {
		return false, fmt.Errorf(invalidToggleValueTemplateConstant, rawValue)
	}
	return parsedValue, nil
}

type toggleFlagRegistry struct {
	mutex      sync.RWMutex
	names      map[string]struct{}
	shorthands map[string]struct{}
}

var registeredToggleFlags = &toggleFlagRegistry{
	names:      map[string]struct{}{},
	shorthands: map[string]struct{}{},
}

func (registry *toggleFlagRegistry) record(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.names[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleFlagRegistry) containsName(name string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, registered := registry.names[name]
	return registered
}

func (registry *toggleFlagRegistry) containsShorthand(shorthand string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, registered := registry.shorthands[shorthand]
	return registered
}
