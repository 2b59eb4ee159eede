package bind

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/optbind/pkg"
	"github.com/ardnew/optbind/scan"
)

// Parse scans args for switches anywhere on the command line, then matches
// the remaining tokens to the registered arguments. It returns the tokens
// no argument absorbed: all of them when no arguments are registered, and
// none otherwise. args is not modified.
//
// Values are written through in command-line order for switches, then in
// position order for arguments. A failure stops the parse; values already
// written stay written, but [Binder.AssignedVariables] still reports the
// last successful parse.
func (b *Binder) Parse(args []string) ([]string, error) {
	return b.Permute(args)
}

// ParseInPlace is like [Binder.Parse] but leaves the residue in *args.
func (b *Binder) ParseInPlace(args *[]string) error {
	return b.PermuteInPlace(args)
}

// Permute is [Binder.Parse]; switches may follow positional tokens.
func (b *Binder) Permute(args []string) ([]string, error) {
	return b.parse(slices.Clone(args), scan.Permute)
}

// PermuteInPlace is like [Binder.Permute] but leaves the residue in *args.
func (b *Binder) PermuteInPlace(args *[]string) error {
	return inPlace(args, b.Permute)
}

// Order stops scanning for switches at the first positional token, which
// begins the residue matched to arguments.
func (b *Binder) Order(args []string) ([]string, error) {
	return b.parse(slices.Clone(args), scan.Order)
}

// OrderInPlace is like [Binder.Order] but leaves the residue in *args.
func (b *Binder) OrderInPlace(args *[]string) error {
	return inPlace(args, b.Order)
}

// OrderFunc scans args in order, calling fn for each positional token
// instead of stopping there. Arguments then receive no tokens, so they
// take their defaults.
func (b *Binder) OrderFunc(args []string, fn func(string) error) ([]string, error) {
	p := b.newPass()

	if err := scan.Each(args, b.scanSwitches(), p.option, fn); err != nil {
		return nil, err
	}

	return p.commit(p.arguments(nil))
}

func inPlace(args *[]string, parse func([]string) ([]string, error)) error {
	rest, err := parse(*args)
	if err != nil {
		return err
	}

	*args = rest

	return nil
}

func (b *Binder) parse(args []string, mode scan.Mode) ([]string, error) {
	b.logger.Trace("parse",
		slog.String("mode", mode.String()),
		slog.Any("args", args))

	p := b.newPass()

	rest, err := scan.Scan(args, b.scanSwitches(), mode, p.option)
	if err != nil {
		return nil, err
	}

	return p.commit(p.arguments(rest))
}

func (b *Binder) scanSwitches() []scan.Switch {
	out := make([]scan.Switch, len(b.switches))

	for i, d := range b.switches {
		out[i] = scan.Switch{Names: d.Names, Arg: d.takes()}
	}

	return out
}

// pass is the state of one parse: the values collected so far by each
// multiple switch, and the bound variables given on the command line.
type pass struct {
	*Binder

	collected map[int][]any
	assigned  map[string]any
}

func (b *Binder) newPass() *pass {
	return &pass{Binder: b, collected: map[int][]any{}, assigned: map[string]any{}}
}

// commit replaces the binder's assigned variables with those of a
// successful pass. A failed pass leaves them as they were.
func (p *pass) commit(rest []string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}

	p.Binder.assigned = p.assigned

	return rest, nil
}

// option converts and dispatches one switch occurrence.
func (p *pass) option(m scan.Match) error {
	d := p.switches[m.Index]

	var (
		raw any
		err error
	)

	switch {
	case d.Style == StyleNone:
		raw = !m.Negated
	case m.Negated:
		raw = false
	default:
		if raw, err = convert(d, m.Value, m.Present); err != nil {
			return err
		}
	}

	if d.Multiplicity == Multiple && raw != nil {
		p.collected[m.Index] = append(p.collected[m.Index], raw)
		raw = compact(p.collected[m.Index])
	}

	p.logger.Trace("match", slog.Any("switch", m))

	_, err = p.dispatch(d, raw, m.Value, true)

	return err
}

// arguments matches positional tokens to the registered arguments and
// dispatches each in position order.
func (p *pass) arguments(tokens []string) ([]string, error) {
	if len(p.Binder.arguments) == 0 {
		return tokens, nil
	}

	resolved, err := Match(p.Binder.arguments, tokens)
	if err != nil {
		return nil, err
	}

	for _, r := range resolved {
		var (
			raw  any
			text string
		)

		switch v := r.Raw.(type) {
		case string:
			text = v
			if raw, err = convert(r.Descriptor, v, true); err != nil {
				return nil, err
			}

		case []string:
			text = fmt.Sprint(v)
			if raw, err = list(r.Descriptor, v); err != nil {
				return nil, err
			}
		}

		if _, err := p.dispatch(r.Descriptor, raw, text, r.Present()); err != nil {
			return nil, err
		}
	}

	return []string{}, nil
}

// dispatch substitutes the default for an absent value, enforces required
// values, applies the handler, and writes the result through when the
// descriptor is bound. Only values given on the command line are recorded
// as assigned.
func (p *pass) dispatch(d Descriptor, raw any, text string, given bool) (any, error) {
	v := raw
	if v == nil {
		v = d.Default
	}

	if d.Style == StyleRequired && isEmpty(v) {
		if len(d.Names) > 0 {
			return nil, ErrMissingArgument.WithArg(d.LongestName())
		}

		return nil, ErrMissingArguments
	}

	handler := d.Handler
	if handler == nil {
		handler = identity
	}

	x, err := handler(v)
	if err != nil {
		var e *pkg.Error
		if errors.As(err, &e) {
			return nil, e
		}

		return nil, ErrInvalidArgument.WithArg(text).Wrap(err)
	}

	if !d.Bound {
		return x, nil
	}

	if err := p.target.Write(d.Variable, x); err != nil {
		return nil, err
	}

	if given {
		p.assigned[d.Variable] = x
	}

	p.logger.Trace("assign",
		slog.String("variable", d.Variable),
		slog.Any("value", x),
		slog.Bool("given", given))

	return x, nil
}
