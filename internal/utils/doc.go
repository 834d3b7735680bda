// Package utils collects the cross-command plumbing for the CLI: the Viper
// configuration loader with its embedded defaults and environment bindings,
// the zap logger factory, the context carrier for the configuration file
// path, and a flushing writer for prompt output.
package utils
