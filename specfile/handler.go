package specfile

import (
	"fmt"
	"os"
	"regexp"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/optbind/bind"
)

// handlerKeys are the map keys that build a handler, in the order the
// handlers apply.
var handlerKeys = []string{"list", "matches", "in", "expr"}

// handlers removes the handler keys from spec and returns the handler
// they describe, or nil when there are none. Expressions compile here, so
// a broken one fails the load rather than the parse.
func handlers(spec bind.Spec, types *bind.TypeRegistry) (bind.Handler, error) {
	var chain []bind.Handler

	for _, key := range handlerKeys {
		v, ok := spec[key]
		if !ok {
			continue
		}

		delete(spec, key)

		h, err := handler(key, v, types)
		if err != nil {
			return nil, bind.ErrInvalidSpecification.WithArg(key).Wrap(err)
		}

		chain = append(chain, h)
	}

	switch len(chain) {
	case 0:
		return nil, nil
	case 1:
		return chain[0], nil
	}

	return func(v any) (any, error) {
		var err error

		for _, h := range chain {
			if v, err = h(v); err != nil {
				return nil, err
			}
		}

		return v, nil
	}, nil
}

func handler(key string, v any, types *bind.TypeRegistry) (bind.Handler, error) {
	switch key {
	case "list":
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want type name, got %T", v)
		}

		p, err := types.Resolve(name)
		if err != nil {
			return nil, err
		}

		return bind.ListedAs(p), nil

	case "matches":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want regular expression, got %T", v)
		}

		re, err := regexp.Compile(s)
		if err != nil {
			return nil, err
		}

		return bind.MatchedBy(re), nil

	case "in":
		values, err := stringList(v)
		if err != nil {
			return nil, err
		}

		return bind.IncludedIn(values...), nil

	case "expr":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want expression, got %T", v)
		}

		return compileExpr(s)
	}

	return nil, fmt.Errorf("unknown handler %q", key)
}

// exprEnv is the environment an expression is compiled and run in.
type exprEnv struct {
	Value any     `expr:"value"`
	Mung  mungEnv `expr:"mung"`
}

// mungEnv holds the path-list builtins, e.g. mung.prefix(value, "/opt/bin").
type mungEnv struct {
	Prefix func(string, ...string) string `expr:"prefix"`
}

//nolint:gochecknoglobals
var builtins = mungEnv{Prefix: pathPrefix}

// pathPrefix puts items at the front of the path list, separated by the
// OS path list separator.
func pathPrefix(list string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// compileExpr compiles source into a handler that evaluates it with value
// bound to the converted value. Nil passes through.
func compileExpr(source string) (bind.Handler, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}))
	if err != nil {
		return nil, err
	}

	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}

		return run(program, v)
	}, nil
}

func run(program *vm.Program, v any) (any, error) {
	return vm.Run(program, exprEnv{Value: v, Mung: builtins})
}
