package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/optbind/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("binder ready", slog.Int("switches", 3))

	// Output:
	// level=INFO msg="binder ready" switches=3
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false),
	)

	logger.Debug("dropped")
	logger.Warn("unknown switch", slog.String("token", "--bogus"))

	// Output:
	// level=WARN msg="unknown switch" token=--bogus
}

func Example_json() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatJSON), log.WithTimeLayout("none"))
	logger = logger.With(slog.String("spec", "meow.yaml"))

	logger.Trace("dropped")
	logger.Info("spec loaded")

	// Output:
	// {"level":"INFO","msg":"spec loaded","spec":"meow.yaml"}
}
