// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and lifecycle observers via ShellExecutor,
// exposes OSCommandRunner for default process execution, and defines the
// abstractions used throughout cli-tools to run git, gh, package managers,
// and editor launchers in a testable manner.
package execshell
