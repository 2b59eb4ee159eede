package specfile

import "github.com/ardnew/optbind/pkg"

// Errors returned while loading a spec file. Each carries the offending
// path, format or definition as its [pkg.Error.Arg].
var (
	ErrFormat     = pkg.NewError("unsupported spec file format")
	ErrDecode     = pkg.NewError("decode spec file")
	ErrDefinition = pkg.NewError("invalid definition")
)
