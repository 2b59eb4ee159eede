package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/optbind/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration
// files, as written by the init command.
//
// Keys are flag names, either flat or nested by group:
//
//	log-level: debug
//	log:
//	  format: json
//	  pretty: false
//
// Underscores may stand in for hyphens. Command-line flags override the
// file. A file that fails to decode is logged and ignored, so a broken
// configuration never locks the user out of the CLI.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var raw map[string]any

		if err := yaml.Unmarshal(data, &raw); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		out := config{}
		flatten(out, "", raw)

		return out, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration map.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flagKey(flag.Name)]; ok {
		return v, nil
	}

	return nil, nil
}

// flagKey normalizes a flag or configuration key.
func flagKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// flatten copies src into dst, joining nested keys with "-". Numbers are
// rendered as strings, which is what kong's mappers parse.
func flatten(dst config, prefix string, src map[string]any) {
	for k, v := range src {
		key := flagKey(k)
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch x := v.(type) {
		case map[string]any:
			flatten(dst, key, x)

		case int:
			dst[key] = strconv.Itoa(x)

		case int64:
			dst[key] = strconv.FormatInt(x, 10)

		case uint64:
			dst[key] = strconv.FormatUint(x, 10)

		case float64:
			dst[key] = strconv.FormatFloat(x, 'f', -1, 64)

		default:
			dst[key] = v
		}
	}
}
