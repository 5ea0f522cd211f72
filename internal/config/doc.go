// Package config manages manbook configuration and settings.
//
// Configuration comes from three layers with increasing precedence:
// built-in defaults, the optional .manbook YAML file, and CLI flags.
// The Config struct is assembled once in the command layer and passed
// through the application by dependency injection; there is no global
// configuration state.
//
// The package also provides XDG base directory helpers used for the run
// history database and the sidecar trace file.
package config
