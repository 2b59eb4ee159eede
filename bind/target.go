package bind

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Mode selects how bound variables are read from and written to a target.
type Mode int

const (
	// ModeAuto picks ModeIndexed for targets with subscript access and
	// ModeMember otherwise.
	ModeAuto Mode = iota
	// ModeIndexed uses an [Indexer] or a map with string keys.
	ModeIndexed
	// ModeMember calls accessor methods: Name() and SetName(v).
	ModeMember
	// ModeLocalScope uses the variables registered in a [*Scope].
	ModeLocalScope
	// ModeInstanceScope uses the exported fields of a struct pointer.
	ModeInstanceScope
	// ModeClassScope uses the shared variables of a [*Class] or [Classed].
	ModeClassScope
)

var modeName = map[Mode]string{
	ModeAuto:          "auto",
	ModeIndexed:       "indexed",
	ModeMember:        "member",
	ModeLocalScope:    "local",
	ModeInstanceScope: "instance",
	ModeClassScope:    "class",
}

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if s, ok := modeName[m]; ok {
		return s
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode named s, as printed by [Mode.String].
func ParseMode(s string) (Mode, error) {
	for m, name := range modeName {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return m, nil
		}
	}

	return ModeAuto, ErrInvalidTarget.WithArg(s).Wrap(errors.New("unknown mode"))
}

// Indexer is a target with subscript access.
type Indexer interface {
	Index(name string) (any, error)
	SetIndex(name string, v any) error
}

// Target is a resolved binding target. Its read and write functions are
// fixed at resolution and shared by every bound variable.
type Target struct {
	value any
	mode  Mode
	read  func(name string) (any, error)
	write func(name string, v any) error
}

// Resolve probes target for the access that mode requires. Explicit scope
// modes fail on targets of the wrong shape.
func Resolve(target any, mode Mode) (Target, error) {
	if target == nil {
		return Target{}, ErrInvalidTarget.WithArg("nil")
	}

	t := Target{value: target, mode: mode}

	var err error

	switch mode {
	case ModeAuto:
		if t, err = Resolve(target, ModeIndexed); err != nil {
			return Resolve(target, ModeMember)
		}

	case ModeIndexed:
		t.read, t.write, err = indexed(target)

	case ModeMember:
		t.read, t.write, err = member(target)

	case ModeLocalScope:
		s, ok := target.(*Scope)
		if !ok || s == nil {
			err = fmt.Errorf("want *bind.Scope, got %T", target)

			break
		}

		t.read, t.write = s.get, s.set

	case ModeInstanceScope:
		t.read, t.write, err = instance(target)

	case ModeClassScope:
		c := classOf(target)
		if c == nil {
			err = fmt.Errorf("want *bind.Class or bind.Classed, got %T", target)

			break
		}

		t.read, t.write = c.get, c.set

	default:
		err = fmt.Errorf("unknown mode %d", int(mode))
	}

	if err != nil {
		return Target{}, ErrInvalidTarget.WithArg(mode.String()).Wrap(err)
	}

	return t, nil
}

// Read returns the value of the named variable.
func (t Target) Read(name string) (any, error) {
	if t.read == nil {
		return nil, ErrInvalidTarget.WithArg(name)
	}

	return t.read(name)
}

// Write stores v in the named variable, converting it to the variable's
// type where Go allows.
func (t Target) Write(name string, v any) error {
	if t.write == nil {
		return ErrInvalidTarget.WithArg(name)
	}

	return t.write(name, v)
}

// Mode returns the resolved access mode.
func (t Target) Mode() Mode { return t.mode }

// Value returns the underlying target.
func (t Target) Value() any { return t.value }

type (
	reader func(string) (any, error)
	writer func(string, any) error
)

func indexed(target any) (reader, writer, error) {
	if ix, ok := target.(Indexer); ok {
		return ix.Index, ix.SetIndex, nil
	}

	m := reflect.ValueOf(target)
	if m.Kind() == reflect.Pointer && m.Elem().Kind() == reflect.Map {
		m = m.Elem()
	}

	if m.Kind() != reflect.Map || m.Type().Key().Kind() != reflect.String {
		return nil, nil, fmt.Errorf("no subscript access on %T", target)
	}

	if m.IsNil() {
		return nil, nil, fmt.Errorf("nil %T", target)
	}

	key := func(name string) reflect.Value {
		return reflect.ValueOf(name).Convert(m.Type().Key())
	}

	read := func(name string) (any, error) {
		v := m.MapIndex(key(name))
		if !v.IsValid() {
			return nil, nil
		}

		return v.Interface(), nil
	}

	write := func(name string, x any) error {
		v, err := convertTo(m.Type().Elem(), x)
		if err != nil {
			return ErrInvalidTarget.WithArg(name).Wrap(err)
		}

		m.SetMapIndex(key(name), v)

		return nil
	}

	return read, write, nil
}

func member(target any) (reader, writer, error) {
	v := reflect.ValueOf(target)

	read := func(name string) (any, error) {
		fn := v.MethodByName(exported(name))
		if !fn.IsValid() || fn.Type().NumIn() != 0 || fn.Type().NumOut() == 0 {
			return nil, ErrInvalidTarget.WithArg(name).
				Wrap(fmt.Errorf("no method %s() on %T", exported(name), target))
		}

		return results(fn.Call(nil))
	}

	write := func(name string, x any) error {
		method := "Set" + exported(name)

		fn := v.MethodByName(method)
		if !fn.IsValid() || fn.Type().NumIn() != 1 {
			return ErrInvalidTarget.WithArg(name).
				Wrap(fmt.Errorf("no method %s(v) on %T", method, target))
		}

		arg, err := convertTo(fn.Type().In(0), x)
		if err != nil {
			return ErrInvalidTarget.WithArg(name).Wrap(err)
		}

		_, err = results(fn.Call([]reflect.Value{arg}))

		return err
	}

	return read, write, nil
}

var errorType = reflect.TypeFor[error]()

// results unpacks the returns of an accessor: a value, an error, or both.
func results(out []reflect.Value) (any, error) {
	var v any

	for _, r := range out {
		if r.Type() == errorType {
			if !r.IsNil() {
				return nil, r.Interface().(error)
			}

			continue
		}

		v = r.Interface()
	}

	return v, nil
}

func instance(target any) (reader, writer, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("want pointer to struct, got %T", target)
	}

	s := v.Elem()

	field := func(name string) (reflect.Value, error) {
		if i := fieldIndex(s.Type(), name); i >= 0 {
			return s.Field(i), nil
		}

		return reflect.Value{}, ErrInvalidTarget.WithArg(name).
			Wrap(fmt.Errorf("no field for %q in %s", name, s.Type()))
	}

	read := func(name string) (any, error) {
		f, err := field(name)
		if err != nil {
			return nil, err
		}

		return f.Interface(), nil
	}

	write := func(name string, x any) error {
		f, err := field(name)
		if err != nil {
			return err
		}

		val, err := convertTo(f.Type(), x)
		if err != nil {
			return ErrInvalidTarget.WithArg(name).Wrap(err)
		}

		f.Set(val)

		return nil
	}

	return read, write, nil
}

// fieldIndex finds the exported field for name: by `optbind` tag, then
// exact field name, then a case-insensitive match ignoring '-' and '_'.
func fieldIndex(t reflect.Type, name string) int {
	fold := -1

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if tag, _, _ := strings.Cut(f.Tag.Get("optbind"), ","); tag == name {
			return i
		}
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if f.Name == name {
			return i
		}

		if fold < 0 && strings.EqualFold(squash(f.Name), squash(name)) {
			fold = i
		}
	}

	return fold
}

func squash(s string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

// exported converts a variable name to its accessor method name:
// "output_file" and "output-file" become "OutputFile".
func exported(name string) string {
	var b strings.Builder

	upper := true

	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true

			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		b.WriteRune(r)
	}

	return b.String()
}

// convertTo returns x as a value of type t. Nil becomes the zero value;
// slices convert element by element. Numbers are never converted to
// strings.
func convertTo(t reflect.Type, x any) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(x)

	switch {
	case v.Type().AssignableTo(t):
		return v, nil

	case t.Kind() == reflect.Slice && v.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, v.Len(), v.Len())

		for i := range v.Len() {
			e, err := convertTo(t.Elem(), v.Index(i).Interface())
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(e)
		}

		return out, nil

	case t.Kind() == reflect.String && v.Kind() != reflect.String:

	case v.Type().ConvertibleTo(t) && v.Kind() != reflect.Slice:
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", x, t)
}
