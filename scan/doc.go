// Package scan splits a command line into switch occurrences and positional
// tokens.
//
// It recognizes GNU-style long names (--output, --output=FILE, unique
// abbreviations such as --out, and --no-output for negatable names) and
// POSIX-style short names (-o FILE, -oFILE, -o=FILE, clusters like -vq).
// Whether a switch takes a value is described by [Arg]: a required value is
// taken from the next token when not attached, an optional one only when
// attached.
//
// The scanner neither converts values nor remembers them. Each occurrence is
// passed to a callback as a [Match], in command-line order, and the caller
// decides what it means.
package scan
