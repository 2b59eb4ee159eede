package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// record decodes the single JSON record in buf.
func record(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}

	return entry
}

func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithFormat(FormatJSON), WithTimeLayout("none")}, opts...)...)
}

func TestMake_Defaults(t *testing.T) {
	l := Make(nil)

	got := struct {
		Level  Level
		Format Format
		Caller bool
		Pretty bool
	}{l.Level(), l.Format(), l.caller, l.pretty}

	want := struct {
		Level  Level
		Format Format
		Caller bool
		Pretty bool
	}{DefaultLevel, DefaultFormat, DefaultCaller, DefaultPretty}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	type logFunc func(Logger, string, ...slog.Attr)

	levels := []struct {
		level Level
		log   logFunc
	}{
		{LevelTrace, Logger.Trace},
		{LevelDebug, Logger.Debug},
		{LevelInfo, Logger.Info},
		{LevelWarn, Logger.Warn},
		{LevelError, Logger.Error},
	}

	for _, floor := range levels {
		t.Run(floor.level.String(), func(t *testing.T) {
			for _, at := range levels {
				var buf bytes.Buffer

				at.log(jsonLogger(&buf, WithLevel(floor.level)), "switch bound")

				logged := buf.Len() > 0
				if want := at.level >= floor.level; logged != want {
					t.Errorf("%s record at minimum %s: logged = %v, want %v",
						at.level, floor.level, logged, want)
				}

				if logged {
					if got := record(t, &buf)["level"]; got != strings.ToUpper(at.level.String()) {
						t.Errorf("level = %v, want %s", got, strings.ToUpper(at.level.String()))
					}
				}
			}
		})
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	ctx := t.Context()

	methods := map[string]func(Logger, string){
		"TRACE": func(l Logger, msg string) { l.TraceContext(ctx, msg) },
		"DEBUG": func(l Logger, msg string) { l.DebugContext(ctx, msg) },
		"INFO":  func(l Logger, msg string) { l.InfoContext(ctx, msg) },
		"WARN":  func(l Logger, msg string) { l.WarnContext(ctx, msg) },
		"ERROR": func(l Logger, msg string) { l.ErrorContext(ctx, msg) },
	}

	for level, fn := range methods {
		t.Run(level, func(t *testing.T) {
			var buf bytes.Buffer

			fn(jsonLogger(&buf, WithLevel(LevelTrace)), "parsed")

			entry := record(t, &buf)
			if entry["level"] != level || entry["msg"] != "parsed" {
				t.Errorf("record = %v, want level %s msg parsed", entry, level)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	l := jsonLogger(&buf).With(slog.String("spec", "meow.yaml"))
	l.Info("spec loaded", slog.Int("options", 3))

	entry := record(t, &buf)
	if entry["spec"] != "meow.yaml" || entry["options"] != float64(3) {
		t.Errorf("record = %v, want spec and options attributes", entry)
	}

	if l.Level() != DefaultLevel {
		t.Errorf("With() level = %v, want %v", l.Level(), DefaultLevel)
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	l := jsonLogger(&buf).Wrap(WithLevel(LevelDebug))
	if l.Level() != LevelDebug || l.Format() != FormatJSON {
		t.Errorf("Wrap() = level %v format %v, want debug json", l.Level(), l.Format())
	}

	l.Debug("wrapped")

	if got := record(t, &buf)["msg"]; got != "wrapped" {
		t.Errorf("msg = %v, want wrapped", got)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	jsonLogger(&buf, WithCaller(true)).Info("where")

	source, ok := record(t, &buf)[slog.SourceKey].(map[string]any)
	if !ok {
		t.Fatalf("record has no %s object", slog.SourceKey)
	}

	if file, _ := source["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_TimeOmitted(t *testing.T) {
	var buf bytes.Buffer

	jsonLogger(&buf).Info("no time")

	if _, ok := record(t, &buf)[slog.TimeKey]; ok {
		t.Errorf("record has a %s field: %s", slog.TimeKey, buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("dropped")
	l.Error("dropped")
	l.InfoContext(t.Context(), "dropped")

	if got := l.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With() on zero Logger built a logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger = level %v format %v, want defaults", l.Level(), l.Format())
	}

	if w := l.Wrap(WithOutput(nil)); w.Logger == nil {
		t.Error("Wrap() on zero Logger returned no logger")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
	)

	l := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithFormat(FormatJSON))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Info("parse")
			_ = l.Wrap(WithLevel(LevelDebug)).Level()
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("records = %d, want 16", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func BenchmarkLogger_Info(b *testing.B) {
	l := Make(nil, WithFormat(FormatJSON))

	for b.Loop() {
		l.Info("bench", slog.String("switch", "--output"))
	}
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l := Make(nil, WithLevel(LevelError))

	for b.Loop() {
		l.Debug("bench", slog.String("switch", "--output"))
	}
}
