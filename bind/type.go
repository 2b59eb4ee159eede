package bind

import (
	"errors"
	"maps"
	"math/big"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Pattern converts the text given for a switch or argument into its value.
//
// Convert is called with present false when an optional value was omitted;
// patterns then return nil, which the binder replaces with the default.
type Pattern interface {
	Convert(text string, present bool) (any, error)
	String() string
}

// Type is a named [Pattern] kept in a [TypeRegistry] and referenced from a
// switch definition as "<name:Type>".
type Type struct {
	Name  string
	Match *regexp.Regexp // optional; text must match before conversion
	Conv  func(string) (any, error)
}

// Convert implements [Pattern].
func (t *Type) Convert(text string, present bool) (any, error) {
	if !present {
		return nil, nil
	}

	if t.Match != nil && !t.Match.MatchString(text) {
		return nil, errMismatch
	}

	if t.Conv == nil {
		return text, nil
	}

	return t.Conv(text)
}

// String implements [Pattern].
func (t *Type) String() string { return t.Name }

var errMismatch = errors.New("does not match")

// regexpPattern accepts text matching a regular expression unchanged.
type regexpPattern struct{ re *regexp.Regexp }

// MatchPattern returns a [Pattern] accepting the text matched by re.
func MatchPattern(re *regexp.Regexp) Pattern { return regexpPattern{re} }

func (p regexpPattern) Convert(text string, present bool) (any, error) {
	if !present {
		return nil, nil
	}

	if !p.re.MatchString(text) {
		return nil, errMismatch
	}

	return text, nil
}

func (p regexpPattern) String() string { return p.re.String() }

// TypeRegistry resolves the type names used in "<name:Type>" clauses.
// Names not in the registry are compiled as regular expressions.
type TypeRegistry struct {
	types map[string]*Type
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: map[string]*Type{}}
}

// DefaultTypes returns a fresh registry holding the built-in types.
func DefaultTypes() *TypeRegistry {
	r := NewTypeRegistry()

	for _, t := range builtin() {
		r.types[t.Name] = t
	}

	return r
}

// Accept registers a type. A nil re accepts any text; a nil conv keeps the
// text as a string.
func (r *TypeRegistry) Accept(
	name string,
	re *regexp.Regexp,
	conv func(string) (any, error),
) *TypeRegistry {
	r.types[name] = &Type{Name: name, Match: re, Conv: conv}

	return r
}

// Reject removes a type.
func (r *TypeRegistry) Reject(name string) *TypeRegistry {
	delete(r.types, name)

	return r
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]

	return t, ok
}

// Names returns the registered type names in sorted order.
func (r *TypeRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.types))
}

// Resolve returns the registered type called text, or a pattern matching
// the regular expression text.
func (r *TypeRegistry) Resolve(text string) (Pattern, error) {
	p, err := r.resolve(text)
	if err != nil {
		return nil, ErrInvalidSpecification.WithArg(text).Wrap(err)
	}

	return p, nil
}

func (r *TypeRegistry) resolve(text string) (Pattern, error) {
	if t, ok := r.Lookup(text); ok {
		return t, nil
	}

	re, err := regexp.Compile(text)
	if err != nil {
		return nil, err
	}

	return regexpPattern{re}, nil
}

const (
	binaryDigits  = `(?:0b)?[01]+(?:_[01]+)*`
	octalDigits   = `(?:0o?)?[0-7]+(?:_[0-7]+)*`
	decimalDigits = `\d+(?:_\d+)*`
	hexDigits     = `(?:0x)?[\da-f]+(?:_[\da-f]+)*`
	floatDigits   = `(?:` + decimalDigits + `(?:\.(?:` + decimalDigits + `)?)?|\.` +
		decimalDigits + `)(?:e[-+]?` + decimalDigits + `)?`
	realDigits = `[-+]?(?:` + binaryDigits + `|` + octalDigits + `|` + hexDigits +
		`|` + floatDigits + `)`
)

var (
	reInteger = regexp.MustCompile(`(?i)\A[-+]?(?:` + binaryDigits + `|` +
		octalDigits + `|` + hexDigits + `|` + decimalDigits + `)\z`)
	reBinary  = regexp.MustCompile(`(?i)\A[-+]?` + binaryDigits + `\z`)
	reOctal   = regexp.MustCompile(`(?i)\A[-+]?` + octalDigits + `\z`)
	reDecimal = regexp.MustCompile(`(?i)\A[-+]?` + decimalDigits + `\z`)
	reHex     = regexp.MustCompile(`(?i)\A[-+]?` + hexDigits + `\z`)
	reFloat   = regexp.MustCompile(`(?i)\A[-+]?` + floatDigits + `\z`)
	reNumeric = regexp.MustCompile(`(?i)\A(` + realDigits + `)(?:/(` + realDigits + `))?\z`)
	reRegexp  = regexp.MustCompile(`\A/((?:\\.|[^\\])*)/([[:alpha:]]+)?\z`)
)

func builtin() []*Type {
	return []*Type{
		{Name: "String"},
		{Name: "Symbol", Match: regexp.MustCompile(`(?s).+`)},
		{Name: "Integer", Match: reInteger, Conv: parseInteger},
		{Name: "BinaryInteger", Match: reBinary, Conv: withBase(2, "0b")},
		{Name: "OctalInteger", Match: reOctal, Conv: withBase(8, "0o")},
		{Name: "DecimalInteger", Match: reDecimal, Conv: withBase(10, "")},
		{Name: "HexadecimalInteger", Match: reHex, Conv: withBase(16, "0x")},
		{Name: "Float", Match: reFloat, Conv: parseFloat},
		{Name: "Numeric", Match: reNumeric, Conv: parseNumeric},
		{Name: "Bool", Conv: parseBool},
		{Name: "Regexp", Conv: parseRegexp},
		{Name: "ShellWords", Conv: parseShellWords},
		{Name: "URI", Conv: parseURI},
		{Name: "Time", Conv: parseTime},
		{Name: "Date", Conv: parseDate},
		{Name: "Duration", Conv: parseDuration},
	}
}

// parseInteger accepts the prefixes 0b, 0o, 0 and 0x and "_" separators.
func parseInteger(s string) (any, error) {
	n, err := strconv.ParseInt(s, 0, 0)
	if err != nil {
		return nil, err
	}

	return int(n), nil
}

// withBase parses integers in one base, with or without its prefix.
func withBase(base int, prefix string) func(string) (any, error) {
	return func(s string) (any, error) {
		sign := ""
		if s != "" && (s[0] == '-' || s[0] == '+') {
			sign, s = s[:1], s[1:]
		}

		lower := strings.ToLower(s)
		if prefix != "" && strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
		}

		n, err := strconv.ParseInt(sign+strings.ReplaceAll(s, "_", ""), base, 0)
		if err != nil {
			return nil, err
		}

		return int(n), nil
	}
}

func parseFloat(s string) (any, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

// parseNumeric returns an int, a float64, or a *big.Rat for "a/b".
func parseNumeric(s string) (any, error) {
	s = strings.ReplaceAll(s, "_", "")

	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, errMismatch
		}

		return r, nil
	}

	if n, err := strconv.ParseInt(s, 0, 0); err == nil {
		return int(n), nil
	}

	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) (any, error) {
	switch strings.ToLower(s) {
	case "yes", "on", "+":
		return true, nil
	case "no", "off", "-":
		return false, nil
	}

	return strconv.ParseBool(s)
}

// parseRegexp accepts "/re/flags" or a bare expression. Flag i ignores case
// and m lets "." match newlines; other letters are ignored, except x, which
// has no equivalent.
func parseRegexp(s string) (any, error) {
	m := reRegexp.FindStringSubmatch(s)
	if m == nil {
		return regexp.Compile(s)
	}

	var flags string

	for _, f := range m[2] {
		switch f {
		case 'i':
			flags += "i"
		case 'm':
			flags += "s"
		case 'x':
			return nil, errors.New("extended syntax is not supported")
		}
	}

	if flags != "" {
		return regexp.Compile("(?" + flags + ")" + m[1])
	}

	return regexp.Compile(m[1])
}

func parseShellWords(s string) (any, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}

	if words == nil {
		words = []string{}
	}

	return words, nil
}

func parseURI(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty URI")
	}

	return url.Parse(s)
}

func parseTime(s string) (any, error) {
	var err error

	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		var t time.Time

		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return nil, err
}

func parseDate(s string) (any, error) {
	return time.Parse(time.DateOnly, s)
}

func parseDuration(s string) (any, error) {
	return time.ParseDuration(s)
}
