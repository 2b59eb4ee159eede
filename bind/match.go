package bind

import (
	"reflect"
	"slices"
)

// Resolved is the share of positional tokens matched to one argument.
// Raw is a string, a []string for a [Multiple] argument, or nil when the
// argument received no tokens.
type Resolved struct {
	Descriptor Descriptor
	Raw        any
}

// Present reports whether the argument received tokens.
func (r Resolved) Present() bool { return r.Raw != nil }

// Match distributes tokens across argument descriptors in order. Each
// argument takes one token; a [Multiple] argument takes all that remain
// and must be last, which registration enforces.
//
// A required argument left without tokens or a default fails with
// [ErrMissingArguments]. Tokens left over fail with [ErrTooManyArguments]
// carrying the first of them.
func Match(descs []Descriptor, tokens []string) ([]Resolved, error) {
	out := make([]Resolved, 0, len(descs))

	for _, d := range descs {
		r := Resolved{Descriptor: d}

		switch {
		case d.Multiplicity == Multiple:
			if len(tokens) > 0 {
				r.Raw = slices.Clone(tokens)
				tokens = nil
			}

		case len(tokens) > 0:
			r.Raw, tokens = tokens[0], tokens[1:]
		}

		if !r.Present() && d.Style == StyleRequired && isEmpty(d.Default) {
			return nil, ErrMissingArguments
		}

		out = append(out, r)
	}

	if len(tokens) > 0 {
		return nil, ErrTooManyArguments.WithArg(tokens[0])
	}

	return out, nil
}

// isEmpty reports whether v is nil, an empty string, or an empty list or
// map.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}

	return false
}
