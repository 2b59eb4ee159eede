package bind

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"

	"github.com/ardnew/optbind/log"
)

// Binder owns the switch and argument definitions of one command line and
// writes parsed values through to its target.
//
// A Binder is not safe for concurrent use; callers sharing one between
// goroutines must serialize access.
type Binder struct {
	target    Target
	mode      Mode
	types     *TypeRegistry
	logger    log.Logger
	program   string
	version   string
	usage     []string
	describe  bool
	switches  []Descriptor
	arguments []Descriptor
	bound     []string       // bound variables in registration order
	defaults  map[string]any // bound variable to default
	assigned  map[string]any // bound variable to value from the command line
}

// Option configures a [Binder].
type Option func(*Binder)

// WithMode selects how the target is accessed. The default is [ModeAuto].
func WithMode(mode Mode) Option { return func(b *Binder) { b.mode = mode } }

// WithTypes sets the registry used to resolve "<name:Type>" clauses.
func WithTypes(types *TypeRegistry) Option {
	return func(b *Binder) {
		if types != nil {
			b.types = types
		}
	}
}

// WithProgram sets the program name shown in usage lines.
func WithProgram(name string) Option { return func(b *Binder) { b.program = name } }

// WithVersion sets the program version.
func WithVersion(version string) Option { return func(b *Binder) { b.version = version } }

// WithLogger sets the logger that traces registrations and dispatches.
func WithLogger(logger log.Logger) Option { return func(b *Binder) { b.logger = logger } }

// WithDefaultDescriptions appends the default value of each bound
// definition to its description, e.g. "Output file, default STDOUT".
func WithDefaultDescriptions(enable bool) Option {
	return func(b *Binder) { b.describe = enable }
}

// New returns a binder writing to target. The target is required; there
// is no implicit global scope.
func New(target any, opts ...Option) (*Binder, error) {
	b := &Binder{
		types:    DefaultTypes(),
		program:  filepath.Base(os.Args[0]),
		defaults: map[string]any{},
		assigned: map[string]any{},
	}

	for _, opt := range opts {
		opt(b)
	}

	t, err := Resolve(target, b.mode)
	if err != nil {
		return nil, err
	}

	b.target = t

	b.logger.Trace("binder created",
		slog.String("target", fmt.Sprintf("%T", target)),
		slog.String("mode", t.Mode().String()))

	return b, nil
}

// Option registers a switch. spec is a definition string, optionally
// prefixed by the variable to bind ("o -o --output=<file>"), a [Spec], a
// map[string]any, or a [Descriptor]. A handler, if given, replaces the
// one in spec.
func (b *Binder) Option(spec any, handler ...Handler) error {
	d, err := b.define(spec, handler, false)
	if err != nil {
		return err
	}

	b.switches = append(b.switches, d)
	b.logger.Trace("option", slog.Any("descriptor", d))

	return nil
}

// Argument registers a positional argument. spec takes the same forms as
// in [Binder.Option]. An argument registered after a [Multiple] one is an
// error, since the multiple argument takes every remaining token.
func (b *Binder) Argument(spec any, handler ...Handler) error {
	if n := len(b.arguments); n > 0 && b.arguments[n-1].Multiplicity == Multiple {
		return ErrInvalidSpecification.WithArg(fmt.Sprint(spec)).
			Wrap(errors.New("argument after multiple argument"))
	}

	d, err := b.define(spec, handler, true)
	if err != nil {
		return err
	}

	b.arguments = append(b.arguments, d)
	b.logger.Trace("argument", slog.Any("descriptor", d))

	return nil
}

// MustOption is like [Binder.Option] but panics on error, and returns b
// for chaining.
func (b *Binder) MustOption(spec any, handler ...Handler) *Binder {
	if err := b.Option(spec, handler...); err != nil {
		panic(err)
	}

	return b
}

// MustArgument is like [Binder.Argument] but panics on error, and returns
// b for chaining.
func (b *Binder) MustArgument(spec any, handler ...Handler) *Binder {
	if err := b.Argument(spec, handler...); err != nil {
		panic(err)
	}

	return b
}

// define compiles spec and binds its variable, reading the default from
// the target when the definition has none.
func (b *Binder) define(spec any, handler []Handler, argument bool) (Descriptor, error) {
	d, text, err := b.compile(spec)
	if err != nil {
		return Descriptor{}, err
	}

	if argument {
		err = asArgument(d, text)
	} else {
		err = asSwitch(d, text)
	}

	if err != nil {
		return Descriptor{}, err
	}

	if len(handler) > 0 && handler[0] != nil {
		d.Handler = handler[0]
	}

	if d.Bound && d.Default == nil {
		if d.Default, err = b.target.Read(d.Variable); err != nil {
			return Descriptor{}, err
		}
	}

	if b.describe {
		d.Description = describeDefault(d.Description, d.Default)
	}

	if d.Bound {
		if _, ok := b.defaults[d.Variable]; !ok {
			b.bound = append(b.bound, d.Variable)
		}

		b.defaults[d.Variable] = d.Default
	}

	return d, nil
}

func (b *Binder) compile(spec any) (Descriptor, string, error) {
	switch s := spec.(type) {
	case string:
		variable, text := splitVariable(s)

		d, err := compile(text, b.types)
		if err != nil {
			return Descriptor{}, s, err
		}

		d.Variable, d.Bound = variable, variable != ""

		return d, s, nil

	case Spec:
		d, err := CompileSpec(s, b.types)

		return d, s.String(), err

	case map[string]any:
		d, err := CompileSpec(Spec(s), b.types)

		return d, Spec(s).String(), err

	case Descriptor:
		return s, s.LongestName(), s.validate()
	}

	return Descriptor{}, "", ErrInvalidSpecification.WithArg(fmt.Sprintf("%T", spec))
}

// Usage adds a usage line, e.g. "[<options>] <file>".
func (b *Binder) Usage(line string) *Binder {
	b.usage = append(b.usage, line)

	return b
}

// Program returns the program name shown in usage lines.
func (b *Binder) Program() string { return b.program }

// Version returns the program version.
func (b *Binder) Version() string { return b.version }

// Target returns the resolved binding target.
func (b *Binder) Target() Target { return b.target }

// Switches returns the registered switches in registration order.
func (b *Binder) Switches() []Descriptor { return slices.Clone(b.switches) }

// Arguments returns the registered arguments in position order.
func (b *Binder) Arguments() []Descriptor { return slices.Clone(b.arguments) }

// BoundDefaults returns each bound variable with its default.
func (b *Binder) BoundDefaults() map[string]any { return maps.Clone(b.defaults) }

// BoundVariables returns each bound variable with its current value in the
// target.
func (b *Binder) BoundVariables() (map[string]any, error) {
	out := make(map[string]any, len(b.bound))

	for _, name := range b.bound {
		v, err := b.target.Read(name)
		if err != nil {
			return nil, err
		}

		out[name] = v
	}

	return out, nil
}

// AssignedVariables returns each bound variable that received a value
// from the command line, with that value.
func (b *Binder) AssignedVariables() map[string]any { return maps.Clone(b.assigned) }

// IsBound reports whether name is a bound variable.
func (b *Binder) IsBound(name string) bool {
	_, ok := b.defaults[name]

	return ok
}

// IsDefault reports whether the bound variable name still holds its
// default. The second result is false when name is not bound.
func (b *Binder) IsDefault(name string) (isDefault, bound bool) {
	def, ok := b.defaults[name]
	if !ok {
		return false, false
	}

	v, err := b.target.Read(name)
	if err != nil {
		return false, true
	}

	return reflect.DeepEqual(def, v), true
}

// IsAssigned reports whether the bound variable name received a value from
// the command line. The second result is false when name is not bound.
func (b *Binder) IsAssigned(name string) (assigned, bound bool) {
	if !b.IsBound(name) {
		return false, false
	}

	_, ok := b.assigned[name]

	return ok, true
}
