package bind

import (
	"errors"
	"slices"
	"strings"

	"github.com/ardnew/optbind/pkg"
)

// convert turns the text given for a descriptor into its value.
//
// Present text is checked against Values, accepting a unique prefix, or
// converted by Pattern. An omitted optional value converts to true when
// the descriptor has neither, and to nil otherwise so the default applies.
func convert(d Descriptor, text string, present bool) (any, error) {
	switch {
	case len(d.Values) > 0:
		if !present {
			return nil, nil
		}

		return enumerated(d, text)

	case d.Pattern != nil:
		v, err := d.Pattern.Convert(text, present)
		if err != nil {
			return nil, invalidArgument(text, err)
		}

		return v, nil

	case !present:
		return true, nil
	}

	return text, nil
}

// enumerated resolves text to one of the descriptor's values, by exact
// match or unique prefix.
func enumerated(d Descriptor, text string) (any, error) {
	match := ""

	if slices.Contains(d.Values, text) {
		match = text
	} else {
		for _, v := range d.Values {
			if text == "" || !strings.HasPrefix(v, text) {
				continue
			}

			if match != "" {
				return nil, ErrInvalidArgument.WithArg(text).
					Wrap(errors.New("ambiguous value"))
			}

			match = v
		}
	}

	if match == "" {
		return nil, ErrInvalidArgument.WithArg(text)
	}

	if r, ok := d.ValueMap[match]; ok {
		return r, nil
	}

	return match, nil
}

// invalidArgument reports text as an invalid argument, keeping errors that
// already carry a kind.
func invalidArgument(text string, err error) error {
	var e *pkg.Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, errMismatch) {
		return ErrInvalidArgument.WithArg(text)
	}

	return ErrInvalidArgument.WithArg(text).Wrap(err)
}

// list converts every token for a multiple descriptor.
func list(d Descriptor, tokens []string) (any, error) {
	out := make([]any, len(tokens))

	for i, t := range tokens {
		v, err := convert(d, t, true)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return compact(out), nil
}

// compact returns a []string when every element is a string.
func compact(values []any) any {
	strs := make([]string, len(values))

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return values
		}

		strs[i] = s
	}

	return strs
}
