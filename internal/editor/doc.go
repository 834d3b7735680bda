// Package editor launches client workspaces in the operator's editor. It
// resolves a launcher by preference (configured command, cursor, code, then
// the platform file browser) and exposes the open command built on it.
package editor
