package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/optbind/log"
)

// defaultWidth is the help width when output is not a terminal.
const defaultWidth = 80

// Help prints the help generated from a spec file.
type Help struct {
	Width int `help:"Wrap descriptions to this width (0: terminal width, <0: never)." short:"w"`

	Source `embed:""`
}

// Run executes the help command.
func (h *Help) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, err := h.binder(ctx, os.Stdin)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	width := h.width(w)

	log.TraceContext(ctx, "help width", slog.Int("width", width))

	text := l.binder.Help()
	if width > 0 {
		text = l.binder.Help(width)
	}

	_, err = io.WriteString(w, text)

	return err
}

// width returns the wrap width: the flag when set, else the width of the
// terminal behind w, else [defaultWidth].
func (h *Help) width(w io.Writer) int {
	if h.Width != 0 {
		return h.Width
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}

	return defaultWidth
}
