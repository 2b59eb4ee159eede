package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/optbind/pkg"
)

// Version prints the version and authors of optbind.
type Version struct {
	Short bool `help:"Print only the version number." short:"s"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	if v.Short {
		_, err := fmt.Fprintln(stdout(ctx), pkg.VersionString())

		return err
	}

	w := stdout(ctx)

	if _, err := fmt.Fprintf(w, "%s %s\n", pkg.Name, pkg.VersionString()); err != nil {
		return err
	}

	for _, a := range pkg.Author {
		if _, err := fmt.Fprintf(w, "author: %s\n", a); err != nil {
			return err
		}
	}

	return nil
}
