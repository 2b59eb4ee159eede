package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/specfile"
)

const defaultEditor = "vi"

// editSpecCommand implements [tea.ExecCommand] for the edit-load-retry loop.
// It opens the spec file in the user's editor and loads the result. On a
// load error the user is prompted to re-edit; declining exits the program.
type editSpecCommand struct {
	path    string
	ctxFunc func() context.Context
	logger  log.Logger
	loaded  *specfile.File
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editSpecCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editSpecCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editSpecCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. If the user declines to re-edit a
// broken file, it returns [ErrEditDeclined].
func (c *editSpecCommand) Run() error {
	ctx := c.ctxFunc()

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, c.path); err != nil {
			return err
		}

		f, err := load(c.path)

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.String("path", c.path),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.loaded = f

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// load loads the spec file at path and checks that every definition
// compiles.
func load(path string) (*specfile.File, error) {
	f, err := specfile.Load(path)
	if err != nil {
		return nil, err
	}

	if _, err := f.Binder(f.Target()); err != nil {
		return nil, err
	}

	return f, nil
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
