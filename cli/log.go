package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/scan"
)

// logFormat configures the default logger's format as a side effect of
// parsing, so that kong's own parse errors are already formatted.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger's level as a side effect of
// parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies every parsed logger flag and returns a func logging the
// end of the run.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// logSwitches are the logger flags recognized by [logConfig.scan], indexed
// by the logSwitch constants.
var logSwitches = []scan.Switch{
	{Names: []scan.Name{{Text: "log-level", Long: true}}, Arg: scan.ArgRequired},
	{Names: []scan.Name{{Text: "log-format", Long: true}}, Arg: scan.ArgRequired},
	{Names: []scan.Name{{Text: "log-pretty", Long: true, Negatable: true}}, Arg: scan.ArgOptional},
	{Names: []scan.Name{{Text: "log-caller", Long: true, Negatable: true}}, Arg: scan.ArgOptional},
}

const (
	logSwitchLevel = iota
	logSwitchFormat
	logSwitchPretty
	logSwitchCaller
)

// scan applies logger flags before kong parses the command line, so the
// logger is configured regardless of flag position. Boolean flags do not go
// through encoding.TextUnmarshaler, which is why this pass exists.
//
// Only tokens spelled --log-* or --no-log-* (and the value following a
// detached --log-level or --log-format) are handed to the scanner; anything
// it rejects is left for kong to report.
func (f *logConfig) scan(args []string) {
	var picked []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == scan.Separator {
			break
		}

		if !strings.HasPrefix(arg, "--log-") && !strings.HasPrefix(arg, "--no-log-") {
			continue
		}

		picked = append(picked, arg)

		detached := arg == "--log-level" || arg == "--log-format"
		if detached && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			picked = append(picked, args[i+1])
			i++
		}
	}

	for _, arg := range splitPicked(picked) {
		_, _ = scan.Scan(arg, logSwitches, scan.Permute, f.apply)
	}
}

// splitPicked groups picked tokens into one slice per flag, so a malformed
// flag does not stop the ones after it from applying.
func splitPicked(picked []string) [][]string {
	var out [][]string

	for _, tok := range picked {
		if strings.HasPrefix(tok, "-") || len(out) == 0 {
			out = append(out, []string{tok})

			continue
		}

		out[len(out)-1] = append(out[len(out)-1], tok)
	}

	return out
}

func (f *logConfig) apply(m scan.Match) error {
	switch m.Index {
	case logSwitchLevel:
		return f.Level.UnmarshalText([]byte(m.Value))

	case logSwitchFormat:
		return f.Format.UnmarshalText([]byte(m.Value))
	}

	v := true

	if m.Present {
		b, err := strconv.ParseBool(m.Value)
		if err != nil {
			return err
		}

		v = b
	}

	if m.Negated {
		v = !v
	}

	switch m.Index {
	case logSwitchPretty:
		f.Pretty = v
		log.Config(log.WithPretty(v))

	case logSwitchCaller:
		f.Caller = v
		log.Config(log.WithCaller(v))
	}

	return nil
}
