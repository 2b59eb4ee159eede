package scan

import (
	"strings"

	"github.com/ardnew/optbind/pkg"
)

// Errors reported while scanning. Each carries the offending switch as its
// [pkg.Error.Arg].
var (
	ErrInvalidOption    = pkg.NewError("invalid option")
	ErrAmbiguousOption  = pkg.NewError("ambiguous option")
	ErrNeedlessArgument = pkg.NewError("needless argument")
	ErrMissingArgument  = pkg.NewError("missing argument")
)

// Suggestions lists known switches that resemble an unknown one.
// It is wrapped by [ErrInvalidOption] when any are found.
type Suggestions []string

// Error implements the error interface.
func (s Suggestions) Error() string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return "did you mean " + s[0] + "?"
	default:
		return "did you mean " + strings.Join(s[:len(s)-1], ", ") +
			" or " + s[len(s)-1] + "?"
	}
}
