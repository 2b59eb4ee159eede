package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// levels lists the defined levels, least severe first.
var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lowercase name of a defined level, or the slog
// rendering (e.g. "INFO+2") of any other value.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return strings.ToLower(slog.Level(l).String())
	}

	return slog.Level(l).String()
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// Levels returns the names of the defined levels, least severe first.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel parses a level name in any case, optionally followed by a
// signed offset as accepted by [slog.Level.UnmarshalText]. "trace" is also
// accepted. Anything else yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

var formats = []Format{FormatText, FormatJSON}

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the names of the defined formats.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat parses a format name in any case. Anything else yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	if i := slices.IndexFunc(formats, func(f Format) bool { return f.String() == s }); i >= 0 {
		return formats[i]
	}

	return DefaultFormat
}

func names[T interface{ String() string }](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime formats a record timestamp. An empty result drops the
// timestamp from the record.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout used unless configured.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller reports whether records include their source location
// unless configured.
const DefaultCaller = false

// DefaultPretty reports whether text output is colorized unless configured.
const DefaultPretty = true

// Option applies a configuration option to config.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// config holds the configuration options for a Logger.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// makeConfig returns the defaults for w overridden by opts.
func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{mutex: &sync.RWMutex{}}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone returns a copy of c under a fresh lock with opts applied.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// replaceAttr formats timestamps with the configured layout and renders
// levels by name, so trace records read "TRACE" instead of "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			formatted := c.formatTime(t)
			if formatted == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(formatted)
		}

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// handler returns the slog.Handler for c overridden by opts. Only text
// output is ever pretty.
func (c config) handler(opts ...Option) slog.Handler {
	override := apply(c, opts...)

	hopts := &slog.HandlerOptions{
		AddSource:   override.caller,
		Level:       slog.Level(override.level),
		ReplaceAttr: override.replaceAttr,
	}

	switch {
	case override.format == FormatJSON:
		return slog.NewJSONHandler(override.output, hopts)
	case override.format != FormatText:
		return slog.DiscardHandler
	case override.pretty:
		return newPrettyHandler(override.output, hopts)
	}

	return slog.NewTextHandler(override.output, hopts)
}

// set returns an Option that applies fn while holding the config's lock.
func set(fn func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		fn(&c)

		return c
	}
}

// orDiscard returns w, or [io.Discard] when w is nil.
func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// WithDefaults resets every setting to its Default constant and the output
// to w.
func WithDefaults(w io.Writer) Option {
	w = orDiscard(w)

	return set(func(c *config) {
		*c = config{
			mutex:      c.mutex,
			output:     w,
			formatTime: layoutFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}
	})
}

// WithOutput sets the writer records go to. Nil discards them.
func WithOutput(w io.Writer) Option {
	w = orDiscard(w)

	return set(func(c *config) { c.output = w })
}

// WithLevel sets the minimum level logged.
func WithLevel(level Level) Option {
	return set(func(c *config) { c.level = level })
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return set(func(c *config) { c.format = format })
}

// WithTimeLayout sets the timestamp layout: the name of a [time] package
// layout such as "RFC3339" or "Kitchen" in any case, or a layout passed
// verbatim to [time.Time.Format]. An empty layout or "none" drops
// timestamps.
func WithTimeLayout(layout string) Option {
	format := layoutFunc(layout)

	return set(func(c *config) { c.formatTime = format })
}

// WithCaller sets whether records include their source location.
func WithCaller(enable bool) Option {
	return set(func(c *config) { c.caller = enable })
}

// WithPretty sets whether text output is colorized and unquoted.
func WithPretty(enable bool) Option {
	return set(func(c *config) { c.pretty = enable })
}

// namedLayouts maps normalized layout names to layouts. The empty layout
// drops timestamps.
var namedLayouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
}

// layoutKey lowercases layout and drops everything but letters and digits.
func layoutKey(layout string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, strings.ToLower(layout))
}

func layoutFunc(layout string) FormatTime {
	key := layoutKey(layout)

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
