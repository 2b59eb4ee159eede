package bind

import (
	"github.com/ardnew/optbind/pkg"
	"github.com/ardnew/optbind/scan"
)

// Registration errors.
var (
	ErrInvalidSpecification = pkg.NewError("invalid specification")
	ErrInvalidTarget        = pkg.NewError("invalid target")
)

// Parse errors. The scanning errors are shared with package scan, so
// errors.Is matches either spelling.
var (
	ErrMissingArgument  = scan.ErrMissingArgument
	ErrMissingArguments = pkg.NewError("missing arguments")
	ErrTooManyArguments = pkg.NewError("too many arguments")
	ErrInvalidArgument  = pkg.NewError("invalid argument")
	ErrInvalidOption    = scan.ErrInvalidOption
	ErrAmbiguousOption  = scan.ErrAmbiguousOption
	ErrNeedlessArgument = scan.ErrNeedlessArgument
)
