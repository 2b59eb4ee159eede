package cmd

import "github.com/ardnew/optbind/pkg"

// Command errors. Each wraps its cause and carries slog attributes naming
// the file or input involved.
var (
	ErrLoadSpec    = pkg.NewError("load spec file")
	ErrParse       = pkg.NewError("parse command line")
	ErrMarshal     = pkg.NewError("marshal output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrUndefined   = pkg.NewError("undefined kong variable")
)
