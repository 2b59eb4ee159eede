// Package cli contains the command line interface for optbind.
//
// # Usage
//
// Each command works on a spec file declaring a program's switches and
// positional arguments (see package specfile):
//
//	optbind check meow.yaml
//	optbind parse meow.yaml -- -v --output=out.txt in.txt
//	optbind help --width=72 meow.yaml
//	optbind repl meow.yaml
//
// A spec read from stdin is named "-" and its format given with --as:
//
//	cat meow.json | optbind parse --as=json - -- -v
//
// # Configuration
//
// Global flags (logging and profiling) may be persisted with "optbind init"
// to config.yaml in the configuration directory. A config.json next to it
// is also read. Keys are flag names; nested YAML mappings are joined with
// "-", so
//
//	log:
//	  level: debug
//
// sets --log-level. Flags on the command line take precedence.
//
// The logger is configured from the --log-* flags before the command line
// is parsed, so parse errors are already reported in the requested format.
package cli
