// Package bind binds command-line switches and positional arguments to
// variables declared by the caller.
//
// Switches are defined with a compact grammar,
//
//	-o --output=<file>     Output file.
//	--trim[=<size:Integer>]
//	--sort=(asc|desc)
//	--[no-]color
//
// or with an equivalent [Spec] map. A definition string may start with the
// name of the variable it binds:
//
//	var opts = map[string]any{"o": "STDOUT"}
//
//	b, _ := bind.New(opts)
//	b.MustOption("o -o --output=<file> Output file.")
//	b.MustArgument("files <file>...")
//	rest, err := b.Parse(os.Args[1:])
//
// The target holding the variables may be a map or [Indexer], an object
// with accessor methods, a [*Scope] of pointers, a pointer to a struct, or
// a [*Class] of shared variables; see [Mode].
//
// Values are converted by the [Pattern] of each definition, named types
// come from a [TypeRegistry], and errors carry one of the kinds declared
// in this package so callers can test them with errors.Is.
package bind
