package scan

import (
	"log/slog"
	"strings"
)

// Arg reports whether and how a switch takes a value.
type Arg int

const (
	ArgNone     Arg = iota // flag; never takes a value
	ArgOptional            // value only when attached: --name=v, -nv
	ArgRequired            // attached value or the next token
)

// Name is one spelling of a switch without its leading dashes.
type Name struct {
	Text      string
	Long      bool
	Negatable bool // --[no-]text
}

// String returns the name as written in a switch definition, e.g. "-v",
// "--verbose" or "--[no-]color".
func (n Name) String() string {
	switch {
	case !n.Long:
		return "-" + n.Text
	case n.Negatable:
		return "--[no-]" + n.Text
	default:
		return "--" + n.Text
	}
}

// Switch is one recognizable switch.
type Switch struct {
	Names []Name
	Arg   Arg
}

// Mode selects how non-switch tokens are handled.
type Mode int

const (
	// Permute scans the whole list, collecting non-switch tokens.
	Permute Mode = iota
	// Order stops scanning at the first non-switch token.
	Order
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if m == Order {
		return "order"
	}

	return "permute"
}

// Match is one switch occurrence found on the command line.
type Match struct {
	Index   int    // index of the switch in the scanned list
	Name    string // canonical spelling, e.g. "--output"
	Token   string // spelling as typed, e.g. "--out"
	Value   string
	Present bool // Value was supplied
	Negated bool // matched through a --no- form
}

// LogValue implements slog.LogValuer.
func (m Match) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", m.Name),
		slog.String("token", m.Token),
	}

	if m.Present {
		attrs = append(attrs, slog.String("value", m.Value))
	}

	if m.Negated {
		attrs = append(attrs, slog.Bool("negated", true))
	}

	return slog.GroupValue(attrs...)
}

// Separator ends switch scanning; every token after it is positional.
const Separator = "--"

// Scan walks args, calling fn for each switch occurrence in command-line
// order, and returns the tokens that are not switches.
//
// In [Order] mode the first non-switch token and everything after it are
// returned unscanned. In [Permute] mode switches may appear anywhere.
// In both modes [Separator] is consumed and ends scanning.
//
// An error returned by fn stops the scan and is returned unchanged.
func Scan(
	args []string,
	switches []Switch,
	mode Mode,
	fn func(Match) error,
) ([]string, error) {
	s := newScanner(args, switches, fn)

	if err := s.run(mode, nil); err != nil {
		return nil, err
	}

	return s.rest, nil
}

// Each scans args in order like [Scan] in [Order] mode, but calls arg for
// every non-switch token instead of stopping. Tokens after [Separator] are
// also passed to arg.
func Each(
	args []string,
	switches []Switch,
	fn func(Match) error,
	arg func(string) error,
) error {
	return newScanner(args, switches, fn).run(Order, arg)
}

// entry is one spelling in the lookup tables.
type entry struct {
	text    string
	index   int
	negated bool
}

// scanner holds the scanner state.
type scanner struct {
	args  []string
	pos   int
	rest  []string
	long  []entry
	short map[string]entry
	sw    []Switch
	fn    func(Match) error
}

func newScanner(args []string, switches []Switch, fn func(Match) error) *scanner {
	s := &scanner{
		args:  args,
		rest:  []string{},
		short: map[string]entry{},
		sw:    switches,
		fn:    fn,
	}

	for i, sw := range switches {
		for _, n := range sw.Names {
			if !n.Long {
				s.short[n.Text] = entry{text: n.Text, index: i}

				continue
			}

			s.long = append(s.long, entry{text: n.Text, index: i})

			if n.Negatable {
				s.long = append(s.long,
					entry{text: "no-" + n.Text, index: i, negated: true})
			}
		}
	}

	return s
}

func (s *scanner) run(mode Mode, arg func(string) error) error {
	for !s.eof() {
		tok := s.next()

		switch {
		case tok == Separator:
			return s.positional(s.args[s.pos:], arg)

		case strings.HasPrefix(tok, "--"):
			if err := s.scanLong(tok); err != nil {
				return err
			}

		case s.isShort(tok):
			if err := s.scanShort(tok); err != nil {
				return err
			}

		case arg != nil:
			if err := arg(tok); err != nil {
				return err
			}

		case mode == Order:
			s.rest = append(s.rest, s.args[s.pos-1:]...)
			s.pos = len(s.args)

		default:
			s.rest = append(s.rest, tok)
		}
	}

	return nil
}

func (s *scanner) positional(tokens []string, arg func(string) error) error {
	s.pos = len(s.args)

	if arg == nil {
		s.rest = append(s.rest, tokens...)

		return nil
	}

	for _, tok := range tokens {
		if err := arg(tok); err != nil {
			return err
		}
	}

	return nil
}

// isShort reports whether tok should be scanned as short switches.
// A lone "-" is positional, and so is a negative number unless its first
// digit is itself a short switch.
func (s *scanner) isShort(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}

	if isNumeric(tok[1:]) {
		_, ok := s.short[tok[1:2]]

		return ok
	}

	return true
}

func (s *scanner) scanLong(tok string) error {
	body, value, present := strings.Cut(tok[2:], "=")

	e, err := s.lookupLong(body)
	if err != nil {
		return err
	}

	return s.emit(e, "--", "--"+body, tok, value, present)
}

// emit reports one occurrence of the switch in e, taking its value from the
// attached text or, for a required value, the next token.
func (s *scanner) emit(e entry, dash, typed, tok, value string, attached bool) error {
	m := Match{
		Index:   e.index,
		Name:    dash + e.text,
		Token:   typed,
		Negated: e.negated,
	}

	arg := s.sw[e.index].Arg

	switch {
	case attached && (e.negated || arg == ArgNone):
		return ErrNeedlessArgument.WithArg(tok)

	case attached:
		m.Value, m.Present = value, true

	case arg == ArgRequired && !e.negated:
		if s.eof() {
			return ErrMissingArgument.WithArg(m.Name)
		}

		m.Value, m.Present = s.next(), true
	}

	return s.fn(m)
}

// lookupLong resolves a long spelling by exact match, then unique prefix.
// A prefix reaching several spellings of one switch with the same polarity
// is not ambiguous.
func (s *scanner) lookupLong(body string) (entry, error) {
	for _, e := range s.long {
		if e.text == body {
			return e, nil
		}
	}

	var (
		found     *entry
		hits      []string
		ambiguous bool
	)

	for i := range s.long {
		e := &s.long[i]
		if body == "" || !strings.HasPrefix(e.text, body) {
			continue
		}

		hits = append(hits, "--"+e.text)

		switch {
		case found == nil:
			found = e
		case e.index != found.index || e.negated != found.negated:
			ambiguous = true
		}
	}

	switch {
	case found == nil:
		return entry{}, s.invalid("--" + body)

	case ambiguous:
		return entry{}, ErrAmbiguousOption.WithArg("--" + body).
			With(slog.Any("candidates", hits))

	default:
		return *found, nil
	}
}

func (s *scanner) scanShort(tok string) error {
	// Multi-character short names (-verbose) match whole, never as clusters.
	if name, value, attached := strings.Cut(tok[1:], "="); len(name) > 1 {
		if e, ok := s.short[name]; ok {
			return s.emit(e, "-", "-"+name, tok, value, attached)
		}
	}

	cluster := tok[1:]

	for len(cluster) > 0 {
		c := cluster[:1]
		cluster = cluster[1:]

		e, ok := s.short[c]
		if !ok {
			return s.invalid("-" + c)
		}

		m := Match{Index: e.index, Name: "-" + c, Token: "-" + c}

		switch s.sw[e.index].Arg {
		case ArgNone:
			if strings.HasPrefix(cluster, "=") {
				return ErrNeedlessArgument.WithArg(tok)
			}

		case ArgOptional:
			if cluster != "" {
				m.Value, m.Present = strings.TrimPrefix(cluster, "="), true
				cluster = ""
			}

		case ArgRequired:
			switch {
			case cluster != "":
				m.Value, m.Present = strings.TrimPrefix(cluster, "="), true
				cluster = ""

			case s.eof():
				return ErrMissingArgument.WithArg(m.Name)

			default:
				m.Value, m.Present = s.next(), true
			}
		}

		if err := s.fn(m); err != nil {
			return err
		}
	}

	return nil
}

// invalid builds the error for an unknown switch, suggesting near names.
func (s *scanner) invalid(name string) error {
	err := ErrInvalidOption.WithArg(name)

	if sug := suggest(name, s.names()); len(sug) > 0 {
		return err.Wrap(sug).With(slog.Any("suggestions", []string(sug)))
	}

	return err
}

func (s *scanner) names() []string {
	out := make([]string, 0, len(s.long)+len(s.short))

	for _, e := range s.long {
		out = append(out, "--"+e.text)
	}

	for c := range s.short {
		out = append(out, "-"+c)
	}

	return out
}

func (s *scanner) next() string {
	tok := s.args[s.pos]
	s.pos++

	return tok
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.args)
}

// isNumeric reports whether s is a decimal number like "10" or "3.14".
func isNumeric(s string) bool {
	digit, dot := false, false

	for i := range len(s) {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digit = true
		case s[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}

	return digit
}
