package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// useDefault points the package-level logger at buf for the test.
func useDefault(t *testing.T, buf *bytes.Buffer, opts ...Option) {
	t.Helper()

	original := Default()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	defaultMu.Lock()
	defaultLog = Make(buf, append([]Option{WithFormat(FormatJSON), WithTimeLayout("none")}, opts...)...)
	defaultMu.Unlock()
}

func TestPackage_Functions(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		level string
		fn    func(string, ...slog.Attr)
	}{
		{"TRACE", Trace},
		{"DEBUG", Debug},
		{"INFO", Info},
		{"WARN", Warn},
		{"ERROR", Error},
		{"TRACE", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }},
		{"DEBUG", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }},
		{"INFO", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }},
		{"WARN", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }},
		{"ERROR", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer

			useDefault(t, &buf, WithLevel(LevelTrace))

			tt.fn("spec checked", slog.String("spec", "meow.yaml"))

			out := buf.String()
			for _, want := range []string{`"level":"` + tt.level + `"`, `"msg":"spec checked"`, `"spec":"meow.yaml"`} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %s", out, want)
				}
			}
		})
	}
}

func TestPackage_ConfigAndEnabled(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, &buf)

	if Enabled(LevelDebug) {
		t.Error("Enabled(debug) at default level = true")
	}

	Config(WithLevel(LevelDebug))

	if !Enabled(LevelDebug) || Enabled(LevelTrace) {
		t.Error("Config(WithLevel(debug)) did not move the threshold to debug")
	}

	if got := Default().Format(); got != FormatJSON {
		t.Errorf("Config() reset format to %v", got)
	}

	With(slog.String("k", "v")).Debug("with")

	if !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("With() output = %q, want k=v", buf.String())
	}
}
