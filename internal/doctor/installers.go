package doctor

import (
	"github.com/ciwebgroup/cli-tools/internal/execshell"
)

const (
	platformDarwinConstant  = "darwin"
	platformLinuxConstant   = "linux"
	platformWindowsConstant = "windows"

	homebrewDisplayNameConstant   = "Homebrew"
	aptDisplayNameConstant        = "APT"
	dnfDisplayNameConstant        = "DNF"
	yumDisplayNameConstant        = "YUM"
	wingetDisplayNameConstant     = "winget"
	chocolateyDisplayNameConstant = "Chocolatey"
	scoopDisplayNameConstant      = "Scoop"

	homebrewExecutableConstant   = "brew"
	aptGetExecutableConstant     = "apt-get"
	dnfExecutableConstant        = "dnf"
	yumExecutableConstant        = "yum"
	wingetExecutableConstant     = "winget"
	chocolateyExecutableConstant = "choco"
	scoopExecutableConstant      = "scoop"
	sudoExecutableConstant       = "sudo"

	installSubcommandConstant         = "install"
	assumeYesShortFlagConstant        = "-y"
	wingetIdentifierFlagConstant      = "--id"
	gitWingetIdentifierConstant       = "Git.Git"
	githubCLIWingetIdentifierConstant = "GitHub.cli"
)

// installerDefinition describes how a platform package manager installs a missing tool.
type installerDefinition struct {
	displayName      string
	executableName   string
	useSudo          bool
	argumentsPrefix  []string
	argumentsSuffix  []string
	usesWingetNaming bool
}

var installerDefinitionsByPlatform = map[string][]installerDefinition{
	platformDarwinConstant: {
		{displayName: homebrewDisplayNameConstant, executableName: homebrewExecutableConstant, argumentsPrefix: []string{installSubcommandConstant}},
	},
	platformLinuxConstant: {
		{displayName: aptDisplayNameConstant, executableName: aptGetExecutableConstant, useSudo: true, argumentsPrefix: []string{installSubcommandConstant, assumeYesShortFlagConstant}},
		{displayName: dnfDisplayNameConstant, executableName: dnfExecutableConstant, useSudo: true, argumentsPrefix: []string{installSubcommandConstant, assumeYesShortFlagConstant}},
		{displayName: yumDisplayNameConstant, executableName: yumExecutableConstant, useSudo: true, argumentsPrefix: []string{installSubcommandConstant, assumeYesShortFlagConstant}},
	},
	platformWindowsConstant: {
		{displayName: wingetDisplayNameConstant, executableName: wingetExecutableConstant, argumentsPrefix: []string{installSubcommandConstant, wingetIdentifierFlagConstant}, usesWingetNaming: true},
		{displayName: chocolateyDisplayNameConstant, executableName: chocolateyExecutableConstant, argumentsPrefix: []string{installSubcommandConstant}, argumentsSuffix: []string{assumeYesShortFlagConstant}},
		{displayName: scoopDisplayNameConstant, executableName: scoopExecutableConstant, argumentsPrefix: []string{installSubcommandConstant}},
	},
}

var wingetIdentifiersByTool = map[string]string{
	gitToolNameConstant:    gitWingetIdentifierConstant,
	githubToolNameConstant: githubCLIWingetIdentifierConstant,
}

// buildInstallCommand renders the shell command installing the named tool through the manager.
func (definition installerDefinition) buildInstallCommand(toolName string) execshell.ShellCommand {
	packageReference := toolName
	if definition.usesWingetNaming {
		if wingetIdentifier, identifierKnown := wingetIdentifiersByTool[toolName]; identifierKnown {
			packageReference = wingetIdentifier
		}
	}

	arguments := make([]string, 0, len(definition.argumentsPrefix)+len(definition.argumentsSuffix)+1)
	arguments = append(arguments, definition.argumentsPrefix...)
	arguments = append(arguments, packageReference)
	arguments = append(arguments, definition.argumentsSuffix...)

	executableName := definition.executableName
	if definition.useSudo {
		arguments = append([]string{definition.executableName}, arguments...)
		executableName = sudoExecutableConstant
	}

	return execshell.ShellCommand{
		Name:    execshell.CommandName(executableName),
		Details: execshell.CommandDetails{Arguments: arguments},
	}
}
