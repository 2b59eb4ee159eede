package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/ardnew/optbind/log"
)

// Check compiles a spec file and prints its switches and arguments.
type Check struct {
	Source `embed:""`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format." short:"f"`
}

// checkView is the serialized result of check.
type checkView struct {
	Program   string           `json:"program,omitempty" yaml:"program,omitempty"`
	Version   string           `json:"version,omitempty" yaml:"version,omitempty"`
	Mode      string           `json:"mode"              yaml:"mode"`
	Usage     []string         `json:"usage,omitempty"   yaml:"usage,omitempty"`
	Options   []descriptorView `json:"options"           yaml:"options"`
	Arguments []descriptorView `json:"arguments"         yaml:"arguments"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, err := c.binder(ctx, os.Stdin)
	if err != nil {
		return err
	}

	b := l.binder

	view := checkView{
		Program:   b.Program(),
		Version:   b.Version(),
		Mode:      b.Target().Mode().String(),
		Usage:     l.file.Usage,
		Options:   viewsOf(b.Switches()),
		Arguments: viewsOf(b.Arguments()),
	}

	log.DebugContext(ctx, "spec checked",
		slog.String("spec", c.Spec),
		slog.Int("options", len(view.Options)),
		slog.Int("arguments", len(view.Arguments)),
	)

	if c.Format == formatText {
		return writeCheck(stdout(ctx), view)
	}

	return encode(stdout(ctx), c.Format, view)
}

// writeCheck writes the text form of a check result.
func writeCheck(w io.Writer, v checkView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if v.Program != "" {
		fmt.Fprintf(tw, "program:\t%s %s\n", v.Program, v.Version)
	}

	fmt.Fprintf(tw, "mode:\t%s\n\n", v.Mode)
	fmt.Fprintln(tw, "KIND\tSPELLING\tSTYLE\tVARIABLE\tDEFAULT")

	rows := func(kind string, views []descriptorView) {
		for _, d := range views {
			style := d.Style
			if d.Multiple {
				style += ",multiple"
			}

			def := ""
			if d.Default != nil {
				def = fmt.Sprint(d.Default)
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", kind, d.spelling(), style, d.Variable, def)
		}
	}

	rows("option", v.Options)
	rows("argument", v.Arguments)

	return tw.Flush()
}
