// Package ui provides helpers for interacting with the operator at the console.
//
// It formats command lifecycle events into concise human-readable messages,
// collects confirmations and free-form input, and reports long-running
// provisioning phases through a terminal spinner with a structured-log
// fallback for non-interactive sessions.
package ui
