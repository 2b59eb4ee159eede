package bind

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// CompileSwitch compiles a switch definition such as
//
//	-f --file=<path> Path to file.
//
// Short names come first, then long names with at most one argument
// clause among them, then the description. A nil types uses
// [DefaultTypes].
func CompileSwitch(s string, types *TypeRegistry) (Descriptor, error) {
	d, err := compile(s, types)
	if err != nil {
		return Descriptor{}, err
	}

	return d, asSwitch(d, s)
}

// CompileArgument compiles a positional argument definition such as
// "<file>", "[<file>]" or "<item>...". Names are not allowed.
func CompileArgument(s string, types *TypeRegistry) (Descriptor, error) {
	d, err := compile(s, types)
	if err != nil {
		return Descriptor{}, err
	}

	return d, asArgument(d, s)
}

func asSwitch(d Descriptor, s string) error {
	if len(d.Names) == 0 {
		return ErrInvalidSpecification.WithArg(s).Wrap(errors.New("no switch names"))
	}

	return nil
}

func asArgument(d Descriptor, s string) error {
	switch {
	case len(d.Names) > 0:
		return ErrInvalidSpecification.WithArg(s).
			Wrap(errors.New("arguments take no names"))
	case d.Style == StyleNone:
		return ErrInvalidSpecification.WithArg(s).
			Wrap(errors.New("argument without placeholder"))
	}

	return nil
}

// state is a step of the definition grammar.
type state int

const (
	stateShort state = iota
	stateLong
	stateClause
	stateDescription
	stateDone
)

// cursor is an immutable position in a definition string. Every move
// returns a new cursor, so a failed step never disturbs the caller's.
type cursor struct {
	s   string
	pos int
}

func (c cursor) eof() bool { return c.pos >= len(c.s) }

func (c cursor) peek() byte {
	if c.eof() {
		return 0
	}

	return c.s[c.pos]
}

func (c cursor) rest() string { return c.s[c.pos:] }

func (c cursor) has(prefix string) bool { return strings.HasPrefix(c.rest(), prefix) }

func (c cursor) advance(n int) cursor {
	c.pos = min(c.pos+n, len(c.s))

	return c
}

func (c cursor) skipSpace() cursor {
	for !c.eof() && isSpace(c.peek()) {
		c.pos++
	}

	return c
}

// skipWhile advances past bytes accepted by fn.
func (c cursor) skipWhile(fn func(byte) bool) cursor {
	for !c.eof() && fn(c.peek()) {
		c.pos++
	}

	return c
}

// boundary reports whether a token may end here.
func (c cursor) boundary() bool { return c.eof() || isSpace(c.peek()) }

// clausePrefix returns the opening of an argument clause at c: one of
// "=[", "[=", "[", "=" or "", followed by "<" or "(".
func (c cursor) clausePrefix() (string, bool) {
	for _, p := range []string{"=[", "[=", "[", "=", ""} {
		if !c.has(p) {
			continue
		}

		if next := c.advance(len(p)).peek(); next == '<' || next == '(' {
			return p, true
		}
	}

	return "", false
}

// grammar accumulates the descriptor while the cursor walks a definition.
type grammar struct {
	types  *TypeRegistry
	desc   Descriptor
	clause bool
}

func compile(s string, types *TypeRegistry) (Descriptor, error) {
	if types == nil {
		types = DefaultTypes()
	}

	g := grammar{types: types}
	c := cursor{s: s}.skipSpace()

	for st := stateShort; st != stateDone; {
		var err error

		switch st {
		case stateShort:
			c, st, err = g.short(c)
		case stateLong:
			c, st, err = g.long(c)
		case stateClause:
			c, st, err = g.argument(c)
		case stateDescription:
			g.desc.Description = strings.TrimSpace(c.rest())
			st = stateDone
		}

		if err != nil {
			return Descriptor{}, ErrInvalidSpecification.WithArg(s).Wrap(err)
		}
	}

	if err := g.desc.validate(); err != nil {
		return Descriptor{}, err
	}

	return g.desc, nil
}

// short reads one short name "-x".
func (g *grammar) short(c cursor) (cursor, state, error) {
	if c.peek() != '-' || c.has("--") {
		return c, stateLong, nil
	}

	start := c.advance(1)
	end := start.skipWhile(isWord)

	if end.pos == start.pos {
		return c, stateDescription, nil
	}

	g.desc.Names = append(g.desc.Names, Name{Text: c.s[start.pos:end.pos]})

	if end.boundary() {
		return end.skipSpace(), stateShort, nil
	}

	if _, ok := end.clausePrefix(); ok {
		return end, stateClause, nil
	}

	return c, stateShort, fmt.Errorf("malformed short name %q", c.rest())
}

// long reads one long name "--name" or "--[no-]name", or hands over to the
// clause or description.
func (g *grammar) long(c cursor) (cursor, state, error) {
	c = c.skipSpace()

	if c.eof() {
		return c, stateDone, nil
	}

	if _, ok := c.clausePrefix(); ok {
		return g.detached(c)
	}

	if !c.has("--") {
		return c, stateDescription, nil
	}

	start := c.advance(2)
	negatable := start.has("[no-]")

	if negatable {
		start = start.advance(len("[no-]"))
	}

	end := start.skipWhile(isNameByte)
	if end.pos == start.pos {
		return c, stateDescription, nil
	}

	g.desc.Names = append(g.desc.Names, Name{
		Text:      c.s[start.pos:end.pos],
		Long:      true,
		Negatable: negatable,
	})

	if end.boundary() {
		return end, stateLong, nil
	}

	if _, ok := end.clausePrefix(); ok {
		return end, stateClause, nil
	}

	return c, stateLong, fmt.Errorf("malformed long name %q", c.rest())
}

// detached reads a clause standing apart from the names. Text that only
// looks like one, such as "(default: a.txt)", starts the description.
func (g *grammar) detached(c cursor) (cursor, state, error) {
	saved := *g

	next, st, err := g.argument(c)
	if err != nil {
		*g = saved

		return c, stateDescription, nil
	}

	return next, st, nil
}

// argument reads the argument clause: a placeholder or value list with an
// optional outer bracket and an optional "..." marking multiple values.
func (g *grammar) argument(c cursor) (cursor, state, error) {
	if g.clause {
		return c, stateLong, errors.New("more than one argument clause")
	}

	g.clause = true

	prefix, _ := c.clausePrefix()
	optional := strings.Contains(prefix, "[")
	c = c.advance(len(prefix))

	var (
		body string
		err  error
	)

	switch c.peek() {
	case '<':
		c, body, err = g.placeholder(c)
	case '(':
		c, body, err = g.values(c)
	}

	if err != nil {
		return c, stateLong, err
	}

	multiple := c.has("...")
	if multiple {
		c = c.advance(3)
	}

	if optional {
		if c.peek() != ']' {
			return c, stateLong, errors.New("unbalanced brackets")
		}

		c = c.advance(1)

		if !multiple && c.has("...") {
			multiple = true
			c = c.advance(3)
		}
	}

	if !c.boundary() {
		if c.peek() == ']' {
			return c, stateLong, errors.New("unbalanced brackets")
		}

		return c, stateLong, fmt.Errorf("malformed argument clause near %q", c.rest())
	}

	if multiple {
		body += "..."
		g.desc.Multiplicity = Multiple
	}

	if optional {
		g.desc.Style = StyleOptional
		g.desc.Argument = "=[" + body + "]"
	} else {
		g.desc.Style = StyleRequired
		g.desc.Argument = "=" + body
	}

	return c, stateLong, nil
}

// placeholder reads "<name>" or "<name:Type>". The type is resolved through
// the registry and dropped from the canonical placeholder.
func (g *grammar) placeholder(c cursor) (cursor, string, error) {
	end := strings.IndexByte(c.rest(), '>')
	if end < 0 {
		return c, "", errors.New("unterminated placeholder")
	}

	inner := c.rest()[1:end]
	if inner == "" || strings.ContainsAny(inner, " \t\n\r\v\f") {
		return c, "", fmt.Errorf("malformed placeholder %q", "<"+inner+">")
	}

	name, typ, typed := strings.Cut(inner, ":")
	if typed {
		p, err := g.types.resolve(typ)
		if err != nil {
			return c, "", err
		}

		g.desc.Pattern = p
	}

	return c.advance(end + 1), "<" + name + ">", nil
}

// values reads an enumeration "(a|b|c)".
func (g *grammar) values(c cursor) (cursor, string, error) {
	end := strings.IndexByte(c.rest(), ')')
	if end < 0 {
		return c, "", errors.New("unbalanced parentheses")
	}

	inner := c.rest()[1:end]
	if strings.ContainsAny(inner, " \t\n\r\v\f") {
		return c, "", fmt.Errorf("malformed value list %q", "("+inner+")")
	}

	values := strings.Split(inner, "|")

	if slices.Contains(values, "") {
		return c, "", fmt.Errorf("empty value in %q", "("+inner+")")
	}

	g.desc.Values = values

	return c.advance(end + 1), "(" + inner + ")", nil
}

// splitVariable separates a leading variable name from a definition:
// "o -o --output=<file>" binds o. A lone word is a definition, not a
// variable.
func splitVariable(s string) (variable, rest string) {
	s = strings.TrimSpace(s)

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 || !isIdentifier(s[:i]) {
		return "", s
	}

	return s[:i], strings.TrimSpace(s[i:])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isWord(b byte) bool { return isLetter(b) || isDigit(b) || b == '_' }

func isNameByte(b byte) bool { return isWord(b) || b == '-' }

func isIdentifier(s string) bool {
	if s == "" || !(isLetter(s[0]) || s[0] == '_') {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}

	return true
}
