package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/optbind/bind"
	"github.com/ardnew/optbind/cli/cmd/repl"
	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/scan"
)

// Parse parses a command line against a spec file and prints the variables
// it assigned and the tokens left over.
type Parse struct {
	Order   bool   `help:"Stop scanning switches at the first non-switch token." xor:"scan"`
	Permute bool   `help:"Scan switches anywhere on the command line (default)."  xor:"scan"`
	All     bool   `help:"Print every bound variable, not only assigned ones."     short:"a"`
	Format  string `default:"text" enum:"text,json,yaml" help:"Output format." short:"f"`

	Source `embed:""`

	Args []string `arg:"" help:"Command line to parse." optional:"" passthrough:""`
}

// parseView is the serialized result of parse.
type parseView struct {
	Variables map[string]any `json:"variables" yaml:"variables"`
	Rest      []string       `json:"rest"      yaml:"rest"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, err := p.binder(ctx, os.Stdin)
	if err != nil {
		return err
	}

	view, err := p.parse(ctx, l.binder)
	if err != nil {
		return err
	}

	if p.Format == formatText {
		return writeParse(stdout(ctx), view)
	}

	return encode(stdout(ctx), p.Format, view)
}

func (p *Parse) parse(ctx context.Context, b *bind.Binder) (parseView, error) {
	parse := b.Parse
	if p.Order {
		parse = b.Order
	}

	// Kong keeps the separator in front of a passthrough argument.
	args := p.Args
	if len(args) > 0 && args[0] == scan.Separator {
		args = args[1:]
	}

	rest, err := parse(args)
	if err != nil {
		return parseView{}, ErrParse.With(slog.Any("args", args)).Wrap(err)
	}

	vars := b.AssignedVariables()

	if p.All {
		if vars, err = b.BoundVariables(); err != nil {
			return parseView{}, ErrParse.Wrap(err)
		}
	}

	log.DebugContext(ctx, "command line parsed",
		slog.Int("assigned", len(b.AssignedVariables())),
		slog.Int("rest", len(rest)),
	)

	return parseView{Variables: vars, Rest: rest}, nil
}

// writeParse writes the text form of a parse result.
func writeParse(w io.Writer, v parseView) error {
	_, err := io.WriteString(w, repl.FormatResult(v.Variables, v.Rest))

	return err
}
