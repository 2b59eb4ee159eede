package bind

import (
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/ardnew/optbind/scan"
)

// Style reports whether a switch or argument takes a value, and whether the
// value may be omitted.
type Style int

const (
	StyleNone     Style = iota // flag; takes no value
	StyleOptional              // value may be omitted
	StyleRequired              // value must be given
)

// String returns the lowercase name of the style.
func (s Style) String() string {
	switch s {
	case StyleOptional:
		return "optional"
	case StyleRequired:
		return "required"
	default:
		return "none"
	}
}

// Multiplicity reports whether a descriptor takes one value or collects many.
type Multiplicity int

const (
	Single Multiplicity = iota
	Multiple
)

// String returns the lowercase name of the multiplicity.
func (m Multiplicity) String() string {
	if m == Multiple {
		return "multiple"
	}

	return "single"
}

// Name is one spelling of a switch.
type Name = scan.Name

// Handler transforms a converted value before it is stored.
// A nil Handler stores the value unchanged.
type Handler func(any) (any, error)

// identity is the transform applied when a descriptor has no handler.
func identity(v any) (any, error) { return v, nil }

// Descriptor is the compiled form of a switch or positional argument.
//
// Argument descriptors have no Names; their position is the order in which
// they were registered.
type Descriptor struct {
	Style        Style
	Multiplicity Multiplicity

	// Pattern converts and validates a value. It is nil when Values is set.
	Pattern Pattern
	// Values lists the accepted values in order. ValueMap, when set, maps
	// each to the value stored in its place.
	Values   []string
	ValueMap map[string]any

	Names []Name
	// Argument is the canonical placeholder: "=<x>", "=[<x>]", "=(a|b)",
	// "=[(a|b)]", possibly with "..." after the placeholder.
	Argument    string
	Description string
	Handler     Handler

	Bound    bool
	Variable string
	Default  any
}

// Equal reports whether d and o describe the same switch or argument.
// Patterns compare by their text and handlers by presence.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Style == o.Style &&
		d.Multiplicity == o.Multiplicity &&
		patternText(d.Pattern) == patternText(o.Pattern) &&
		(d.Pattern == nil) == (o.Pattern == nil) &&
		slices.Equal(d.Values, o.Values) &&
		reflect.DeepEqual(d.ValueMap, o.ValueMap) &&
		slices.Equal(d.Names, o.Names) &&
		d.Argument == o.Argument &&
		d.Description == o.Description &&
		(d.Handler == nil) == (o.Handler == nil) &&
		d.Bound == o.Bound &&
		d.Variable == o.Variable &&
		reflect.DeepEqual(d.Default, o.Default)
}

func patternText(p Pattern) string {
	if p == nil {
		return ""
	}

	return p.String()
}

// LongestName returns the longest spelling of the switch, the later one on
// a tie, or "" for an argument descriptor.
func (d Descriptor) LongestName() string {
	var longest string

	for _, n := range d.Names {
		if s := spelled(n); len(s) >= len(longest) {
			longest = s
		}
	}

	return longest
}

// spelled returns the name as typed on a command line, without the [no-]
// negation marker.
func spelled(n Name) string {
	if n.Long {
		return "--" + n.Text
	}

	return "-" + n.Text
}

// Placeholder returns the argument clause in its display form, with the
// optional bracket outside the "=": "[=<x>]" rather than "=[<x>]".
func (d Descriptor) Placeholder() string {
	if rest, ok := strings.CutPrefix(d.Argument, "=["); ok {
		return "[=" + rest
	}

	return d.Argument
}

// takes returns the scanner's view of the descriptor's value.
func (d Descriptor) takes() scan.Arg {
	switch d.Style {
	case StyleRequired:
		return scan.ArgRequired
	case StyleOptional:
		return scan.ArgOptional
	default:
		return scan.ArgNone
	}
}

// LogValue implements slog.LogValuer.
func (d Descriptor) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("style", d.Style.String())}

	if len(d.Names) > 0 {
		names := make([]string, len(d.Names))
		for i, n := range d.Names {
			names[i] = n.String()
		}

		attrs = append(attrs, slog.Any("names", names))
	}

	if d.Argument != "" {
		attrs = append(attrs, slog.String("argument", d.Argument))
	}

	if d.Multiplicity == Multiple {
		attrs = append(attrs, slog.Bool("multiple", true))
	}

	if d.Bound {
		attrs = append(attrs, slog.String("variable", d.Variable))
	}

	return slog.GroupValue(attrs...)
}

// validate checks the invariants every compiled descriptor must hold.
func (d Descriptor) validate() error {
	switch {
	case d.Bound && d.Variable == "":
		return ErrInvalidSpecification.WithArg("bound without a variable")
	case d.Pattern != nil && len(d.Values) > 0:
		return ErrInvalidSpecification.WithArg("both pattern and values")
	case d.Multiplicity == Multiple && d.Style == StyleNone:
		return ErrInvalidSpecification.WithArg("multiple values without an argument")
	}

	return nil
}
