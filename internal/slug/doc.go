// Package slug derives repository-safe slugs from client domain names.
//
// A slug is the domain with its recognized top-level suffix removed and any
// remaining labels joined with hyphens; it names the client repository and
// the workspace directory holding its clone.
package slug
