// Package log wraps [log/slog] with a trace level, named time layouts and
// a colorized text handler for terminals.
//
// A [Logger] is built from functional options and can be copied freely:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.Debug("switch matched", slog.String("name", "--output"))
//
// The package-level functions ([Trace], [Debug], [Info], [Warn], [Error] and
// their Context variants) write through a default logger on [os.Stderr].
// [Config] reconfigures it in place; the optbind command does so from its
// --log-* flags before anything else runs.
//
// Methods without a context use the one returned by
// [DefaultContextProvider].
//
// # Time layouts
//
// [WithTimeLayout] accepts the names of the [time] package layouts in any
// case or punctuation ("RFC3339", "rfc-3339-nano", "DateTime"), the
// shorthands "ms", "us" and "ns" for the Stamp layouts, or a layout string
// used verbatim. An empty layout or "none" drops timestamps.
//
// # Formats
//
// [FormatText] is the default. With [WithPretty] it is colorized when the
// writer is a terminal and plain otherwise. [FormatJSON] writes one object
// per record.
package log
