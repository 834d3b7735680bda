// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for probing remotes, cloning, and synchronizing
// branches, along with remote URL parsing utilities consumed by the
// provisioning workflow.
package gitrepo
