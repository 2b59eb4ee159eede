package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/optbind/cli/cmd/repl"
	"github.com/ardnew/optbind/log"
)

// Repl starts an interactive session parsing command lines against a spec
// file.
type Repl struct {
	NoHistory bool `help:"Do not read or record line history."`

	Source `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, err := r.binder(ctx, os.Stdin)
	if err != nil {
		return err
	}

	return repl.Run(ctx, l.file, r.historyPath(ctx), log.Default())
}

// historyPath returns the history file in the cache directory, or "" when
// history is disabled or no cache directory is known.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	dir, ok := variable(ctx, CacheIdentifier)
	if !ok || dir == "" {
		log.DebugContext(ctx, "repl history disabled", slog.String("reason", "no cache directory"))

		return ""
	}

	return filepath.Join(dir, repl.BaseHistory)
}
