// Package specfile loads switch and argument definitions from YAML, JSON,
// TOML or HCL files and registers them with a [bind.Binder].
//
// A spec file names the program, its usage lines, the defaults of the
// variables it binds, and lists of options and arguments. Each list entry
// is a definition string or a map of the keys accepted by [bind.Spec]:
//
//	program: meow
//	usage: ["[<options>] <file>"]
//	defaults: {o: STDOUT}
//	options:
//	  - "o -o --output=<file>   Output file."
//	  - {variable: t, long: trim, argument: "[=<size>]", type: Integer}
//	  - {variable: n, long: count, argument: "=<n>", expr: "int(value) * 2"}
//	arguments:
//	  - "file <file>"
//
// Maps may also carry handler keys, applied in this order:
//
//	list     type name; the value is split on commas and each element converted
//	matches  regular expression the value must match
//	in       list of accepted values
//	expr     expression over value whose result is stored instead
//
// Expressions may call mung.prefix(list, items...) to put items at the
// front of a path list such as $PATH.
//
// Whole numbers decode as int in every format.
package specfile
