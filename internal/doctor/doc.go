// Package doctor verifies the external tools provisioning depends on.
//
// It checks for git and the GitHub CLI on the PATH, confirms GitHub
// authentication, and can install missing tools through the platform
// package manager after operator confirmation.
package doctor
