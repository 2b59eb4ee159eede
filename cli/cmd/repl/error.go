package repl

import "github.com/ardnew/optbind/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrNoPath       = pkg.NewError("spec was not read from a file")
	ErrSplit        = pkg.NewError("split command line")
)
