package bind

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Scope is an explicit handle on a set of the caller's variables, bound by
// name to pointers:
//
//	var output string
//	scope := bind.NewScope().Var("o", &output)
type Scope struct {
	vars map[string]reflect.Value
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{vars: map[string]reflect.Value{}}
}

// Var adds the variable ptr points to under name. It panics if ptr is not
// a non-nil pointer.
func (s *Scope) Var(name string, ptr any) *Scope {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic(fmt.Sprintf("bind: Scope.Var(%q): want non-nil pointer, got %T", name, ptr))
	}

	s.vars[name] = v.Elem()

	return s
}

// Names returns the variable names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

func (s *Scope) lookup(name string) (reflect.Value, error) {
	v, ok := s.vars[name]
	if !ok {
		return reflect.Value{}, ErrInvalidTarget.WithArg(name).
			Wrap(errors.New("undefined variable"))
	}

	return v, nil
}

func (s *Scope) get(name string) (any, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func (s *Scope) set(name string, x any) error {
	v, err := s.lookup(name)
	if err != nil {
		return err
	}

	val, err := convertTo(v.Type(), x)
	if err != nil {
		return ErrInvalidTarget.WithArg(name).Wrap(err)
	}

	v.Set(val)

	return nil
}

// Class holds variables shared by every object of one kind. Objects expose
// their class by implementing [Classed].
type Class struct {
	name string
	vars map[string]any
}

// Classed is implemented by objects whose bound variables live in a shared
// [Class].
type Classed interface {
	Class() *Class
}

// NewClass returns a class with the given variables defined.
func NewClass(name string, vars map[string]any) *Class {
	c := &Class{name: name, vars: map[string]any{}}
	maps.Copy(c.vars, vars)

	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Define adds a class variable holding v.
func (c *Class) Define(name string, v any) *Class {
	c.vars[name] = v

	return c
}

// Get returns a class variable.
func (c *Class) Get(name string) (any, bool) {
	v, ok := c.vars[name]

	return v, ok
}

func (c *Class) get(name string) (any, error) {
	v, ok := c.vars[name]
	if !ok {
		return nil, ErrInvalidTarget.WithArg(name).
			Wrap(fmt.Errorf("undefined variable in class %s", c.name))
	}

	return v, nil
}

// set replaces a defined class variable. The stored value keeps the type
// of the previous one when it had a concrete type.
func (c *Class) set(name string, x any) error {
	old, ok := c.vars[name]
	if !ok {
		return ErrInvalidTarget.WithArg(name).
			Wrap(fmt.Errorf("undefined variable in class %s", c.name))
	}

	if old != nil && x != nil {
		v, err := convertTo(reflect.TypeOf(old), x)
		if err != nil {
			return ErrInvalidTarget.WithArg(name).Wrap(err)
		}

		x = v.Interface()
	}

	c.vars[name] = x

	return nil
}

func classOf(target any) *Class {
	switch t := target.(type) {
	case *Class:
		return t
	case Classed:
		return t.Class()
	}

	return nil
}
