// Package githubcli drives the gh executable for the provisioning pipeline:
// creating repositories from the site template, managing repository
// variables, dispatching workflows, and polling run status. Every operation
// goes through execshell, so tests substitute scripted executors instead of
// talking to GitHub.
package githubcli
