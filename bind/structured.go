package bind

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Spec is the structured form of a definition, for callers that build
// switches from configuration rather than text.
//
// Recognized keys:
//
//	style, mode       "required" or "optional" (style wins)
//	pattern, type     Pattern, *regexp.Regexp, or a type name or expression
//	values            []string, []any, or map[string]any of replacements
//	short, shorts     short names; dashes are normalized to one
//	long, longs       long names; dashes are normalized to two
//	name, names       "-x" and "--x" pass through; bare names of one
//	                  character are short, longer ones long
//	argument          placeholder clause, e.g. "[=<size>]"
//	description       string, or a list joined by spaces
//	handler           Handler or func(any) (any, error)
//	variable, bind    bound variable name
//	default           default value of the bound variable
//	bound             false keeps the variable unbound
type Spec map[string]any

var specKeys = []string{
	"style", "mode", "pattern", "type", "values",
	"short", "shorts", "long", "longs", "name", "names",
	"argument", "description", "handler",
	"variable", "bind", "default", "bound",
}

// CompileSpec compiles a structured definition. It accepts switches and
// arguments alike; the binder checks which one it got.
func CompileSpec(spec Spec, types *TypeRegistry) (Descriptor, error) {
	if types == nil {
		types = DefaultTypes()
	}

	sc := specCompiler{spec: spec, types: types}

	d, err := sc.compile()
	if err != nil {
		return Descriptor{}, ErrInvalidSpecification.WithArg(spec.String()).Wrap(err)
	}

	if err := d.validate(); err != nil {
		return Descriptor{}, err
	}

	return d, nil
}

// String renders the spec with sorted keys, for error messages.
func (s Spec) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, k := range slices.Sorted(maps.Keys(s)) {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s: %v", k, s[k])
	}

	b.WriteByte('}')

	return b.String()
}

type specCompiler struct {
	spec  Spec
	types *TypeRegistry
}

// first returns the value of the first key present.
func (sc specCompiler) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := sc.spec[k]; ok {
			return v, true
		}
	}

	return nil, false
}

func (sc specCompiler) compile() (Descriptor, error) {
	var d Descriptor

	for k := range sc.spec {
		if !slices.Contains(specKeys, k) {
			return d, fmt.Errorf("unknown key %q", k)
		}
	}

	if err := sc.names(&d); err != nil {
		return d, err
	}

	if v, ok := sc.spec["argument"]; ok {
		if err := sc.argument(&d, v); err != nil {
			return d, err
		}
	}

	steps := []func(*Descriptor) error{
		sc.style, sc.pattern, sc.values, sc.description, sc.handler, sc.binding,
	}

	for _, step := range steps {
		if err := step(&d); err != nil {
			return d, err
		}
	}

	if d.Style == StyleNone && (d.Pattern != nil || len(d.Values) > 0) {
		d.Style = StyleRequired
	}

	d.Argument = restyle(d.Argument, d.Style)

	return d, nil
}

// restyle rewrites a canonical argument clause in the form the grammar
// gives style: "=[<x>]" when optional, "=<x>" when required, and nothing
// without an argument.
func restyle(argument string, style Style) string {
	body := strings.TrimPrefix(argument, "=")
	if strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]") {
		body = body[1 : len(body)-1]
	}

	switch {
	case body == "", style == StyleNone:
		return ""
	case style == StyleOptional:
		return "=[" + body + "]"
	}

	return "=" + body
}

func (sc specCompiler) names(d *Descriptor) error {
	add := func(keys []string, fn func(string) string) error {
		for _, k := range keys {
			v, ok := sc.spec[k]
			if !ok {
				continue
			}

			list, err := stringList(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}

			for _, s := range list {
				n, err := parseName(fn(s))
				if err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}

				d.Names = append(d.Names, n)
			}
		}

		return nil
	}

	short := func(s string) string { return "-" + trimDashes(s) }
	long := func(s string) string { return "--" + trimDashes(s) }
	bare := func(s string) string {
		switch {
		case strings.HasPrefix(s, "-"):
			return s
		case len(s) == 1:
			return "-" + s
		default:
			return "--" + s
		}
	}

	if err := add([]string{"short", "shorts"}, short); err != nil {
		return err
	}

	if err := add([]string{"long", "longs"}, long); err != nil {
		return err
	}

	return add([]string{"name", "names"}, bare)
}

// argument parses the clause text with the grammar, so style, values,
// type and multiplicity follow from it exactly as in a string definition.
func (sc specCompiler) argument(d *Descriptor, v any) error {
	text, ok := v.(string)
	if !ok {
		return fmt.Errorf("argument: want string, got %T", v)
	}

	g := grammar{types: sc.types}
	c := cursor{s: strings.TrimSpace(text)}

	if _, ok := c.clausePrefix(); !ok {
		return fmt.Errorf("malformed argument %q", text)
	}

	c, _, err := g.argument(c)
	if err != nil {
		return err
	}

	if !c.skipSpace().eof() {
		return fmt.Errorf("malformed argument %q", text)
	}

	d.Style = g.desc.Style
	d.Multiplicity = g.desc.Multiplicity
	d.Argument = g.desc.Argument
	d.Pattern = g.desc.Pattern
	d.Values = g.desc.Values

	return nil
}

func (sc specCompiler) style(d *Descriptor) error {
	v, ok := sc.first("style", "mode")
	if !ok {
		return nil
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("style: want string, got %T", v)
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		d.Style = StyleRequired
	case "optional":
		d.Style = StyleOptional
	case "none":
		d.Style = StyleNone
	case "":
	default:
		return fmt.Errorf("style: unknown style %q", s)
	}

	return nil
}

func (sc specCompiler) pattern(d *Descriptor) error {
	v, ok := sc.first("pattern", "type")
	if !ok {
		return nil
	}

	switch p := v.(type) {
	case Pattern:
		d.Pattern = p
	case *regexp.Regexp:
		d.Pattern = MatchPattern(p)
	case string:
		r, err := sc.types.resolve(p)
		if err != nil {
			return err
		}

		d.Pattern = r
	default:
		return fmt.Errorf("pattern: unsupported %T", v)
	}

	d.Values = nil

	return nil
}

func (sc specCompiler) values(d *Descriptor) error {
	v, ok := sc.spec["values"]
	if !ok {
		return nil
	}

	if m, ok := v.(map[string]any); ok {
		d.Values = slices.Sorted(maps.Keys(m))
		d.ValueMap = maps.Clone(m)
	} else {
		list, err := stringList(v)
		if err != nil {
			return fmt.Errorf("values: %w", err)
		}

		d.Values = list
	}

	if len(d.Values) == 0 {
		return errors.New("values: empty list")
	}

	if _, explicit := sc.first("pattern", "type"); explicit {
		return errors.New("both pattern and values")
	}

	d.Pattern = nil

	return nil
}

func (sc specCompiler) description(d *Descriptor) error {
	v, ok := sc.spec["description"]
	if !ok {
		return nil
	}

	list, err := stringList(v)
	if err != nil {
		return fmt.Errorf("description: %w", err)
	}

	d.Description = strings.Join(list, " ")

	return nil
}

func (sc specCompiler) handler(d *Descriptor) error {
	v, ok := sc.spec["handler"]
	if !ok || v == nil {
		return nil
	}

	switch h := v.(type) {
	case Handler:
		d.Handler = h
	case func(any) (any, error):
		d.Handler = h
	default:
		return fmt.Errorf("handler: unsupported %T", v)
	}

	return nil
}

func (sc specCompiler) binding(d *Descriptor) error {
	if v, ok := sc.first("variable", "bind"); ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("variable: want string, got %T", v)
		}

		d.Variable = s
	}

	d.Bound = d.Variable != ""

	if v, ok := sc.spec["bound"]; ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("bound: want bool, got %T", v)
		}

		d.Bound = d.Bound && b
	}

	d.Default = sc.spec["default"]

	return nil
}

// parseName parses one written name: "-x", "--name" or "--[no-]name".
func parseName(s string) (Name, error) {
	switch {
	case strings.HasPrefix(s, "--[no-]"):
		text := s[len("--[no-]"):]

		return Name{Text: text, Long: true, Negatable: true}, checkName(s, text, isNameByte)

	case strings.HasPrefix(s, "--"):
		return Name{Text: s[2:], Long: true}, checkName(s, s[2:], isNameByte)

	case strings.HasPrefix(s, "-"):
		return Name{Text: s[1:]}, checkName(s, s[1:], isWord)
	}

	return Name{}, fmt.Errorf("malformed name %q", s)
}

func checkName(s, text string, valid func(byte) bool) error {
	if text == "" {
		return fmt.Errorf("malformed name %q", s)
	}

	for i := range len(text) {
		if !valid(text[i]) {
			return fmt.Errorf("malformed name %q", s)
		}
	}

	return nil
}

func trimDashes(s string) string {
	for range 2 {
		s = strings.TrimPrefix(s, "-")
	}

	return s
}

// stringList accepts a string or a list of values, formatting non-string
// elements with fmt.
func stringList(v any) ([]string, error) {
	switch l := v.(type) {
	case string:
		return []string{l}, nil
	case []string:
		return slices.Clone(l), nil
	case []any:
		out := make([]string, len(l))
		for i, e := range l {
			out[i] = fmt.Sprint(e)
		}

		return out, nil
	}

	return nil, fmt.Errorf("want string or list, got %T", v)
}
