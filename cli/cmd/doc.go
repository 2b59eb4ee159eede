// Package cmd implements the optbind commands: check, parse, help, repl,
// init and version.
//
// Commands receive a [context.Context] carrying the [kong.Context] (see
// [WithContext]), through which they reach kong variables and writers.
package cmd

const (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)
