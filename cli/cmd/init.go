package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/profile"
)

// Init writes a configuration file holding the current global flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := variable(ctx, ConfigIdentifier)
	if !ok {
		return ErrUndefined.WithArg(ConfigIdentifier)
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.Marshal(flagValues(kongContextFrom(ctx)))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagValues returns the value of every global flag worth persisting,
// keyed by flag name. Help, hidden and profiling flags are skipped, and so
// are empty strings and lists.
func flagValues(ktx *kong.Context) map[string]any {
	out := map[string]any{}
	if ktx == nil {
		return out
	}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || flag.Name == "help" || strings.HasPrefix(flag.Name, profile.Tag) {
			continue
		}

		if v, ok := persistable(ktx.FlagValue(flag)); ok {
			out[flag.Name] = v
		}
	}

	return out
}

// persistable converts a flag value to a plain YAML value.
func persistable(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false

	case bool, int, int64, uint64, float64:
		return x, true

	case string:
		return x, x != ""

	case []string:
		return x, len(x) > 0

	case interface{ String() string }:
		return x.String(), true
	}

	// Named string kinds such as the log level and format.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), rv.Len() > 0
	}

	return fmt.Sprint(v), true
}
