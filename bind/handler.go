package bind

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// MatchedBy returns a handler accepting values whose text matches re.
// Nil passes through.
func MatchedBy(re *regexp.Regexp) Handler {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}

		if s := fmt.Sprint(v); !re.MatchString(s) {
			return nil, ErrInvalidArgument.WithArg(s)
		}

		return v, nil
	}
}

// IncludedIn returns a handler accepting only the given strings.
// Nil passes through.
func IncludedIn(values ...string) Handler {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}

		if s, ok := v.(string); ok && slices.Contains(values, s) {
			return v, nil
		}

		return nil, ErrInvalidArgument.WithArg(fmt.Sprint(v))
	}
}

// ListedAs returns a handler that splits a comma-separated value, or takes
// a []string as is, and converts every element with p. Nil passes through.
func ListedAs(p Pattern) Handler {
	return func(v any) (any, error) {
		var items []string

		switch l := v.(type) {
		case nil:
			return nil, nil
		case string:
			items = strings.Split(l, ",")
		case []string:
			items = l
		default:
			return nil, ErrInvalidArgument.WithArg(fmt.Sprint(v))
		}

		out := make([]any, len(items))

		for i, item := range items {
			x, err := p.Convert(item, true)
			if err != nil {
				return nil, invalidArgument(item, err)
			}

			out[i] = x
		}

		return compact(out), nil
	}
}
