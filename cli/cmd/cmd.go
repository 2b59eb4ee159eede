package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/optbind/bind"
	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/specfile"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// variable returns the kong variable named id.
func variable(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

// stdinSource is the spec path that reads standard input.
const stdinSource = "-"

// Source names the spec file a command works on.
type Source struct {
	Spec string `arg:"" help:"Spec file (.yaml, .yml, .json, .toml, .hcl), or '-' for stdin." name:"spec"`
	As   string `default:"yaml" enum:"yaml,json,toml,hcl" help:"Format of a spec read from stdin."`
}

// load loads the spec file. stdin is read when the path is "-".
func (s Source) load(ctx context.Context, stdin io.Reader) (*specfile.File, error) {
	var (
		f   *specfile.File
		err error
	)

	if s.Spec == stdinSource {
		f, err = decodeStdin(stdin, s.As)
	} else {
		f, err = specfile.Load(s.Spec)
	}

	if err != nil {
		return nil, ErrLoadSpec.With(slog.String("spec", s.Spec)).Wrap(err)
	}

	log.DebugContext(ctx, "spec loaded",
		slog.String("spec", s.Spec),
		slog.String("format", f.Format.String()),
		slog.Int("options", len(f.Options)),
		slog.Int("arguments", len(f.Arguments)),
	)

	return f, nil
}

func decodeStdin(r io.Reader, as string) (*specfile.File, error) {
	format, err := specfile.ParseFormat(as)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return specfile.Decode(data, format)
}

// loaded is a spec file with a binder writing to a map seeded with the
// file's defaults.
type loaded struct {
	file   *specfile.File
	binder *bind.Binder
	target map[string]any
}

// binder loads the spec file and builds its binder.
func (s Source) binder(ctx context.Context, stdin io.Reader) (loaded, error) {
	f, err := s.load(ctx, stdin)
	if err != nil {
		return loaded{}, err
	}

	target := f.Target()

	b, err := f.Binder(target, bind.WithLogger(log.Default()))
	if err != nil {
		return loaded{}, ErrLoadSpec.With(slog.String("spec", s.Spec)).Wrap(err)
	}

	return loaded{file: f, binder: b, target: target}, nil
}
