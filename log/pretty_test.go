package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_PlainWriterHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	logger.Info("hello", slog.String("name", "world"), slog.Int("n", 3))

	got := strings.TrimSpace(buf.String())
	want := "level=INFO msg=hello name=world n=3"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	logger = logger.With(slog.String("component", "bind"))

	logger.Warn("dispatch",
		slog.Group("switch", slog.String("name", "--output"), slog.Bool("bound", true)),
		slog.Any("err", errors.New("boom")),
		slog.Any("value", nil),
	)

	got := strings.TrimSpace(buf.String())

	for _, want := range []string{
		"level=WARN",
		"msg=dispatch",
		"component=bind",
		"switch.name=--output",
		"switch.bound=true",
		"err=boom",
		"value=nil",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}

	if strings.Index(got, "component=bind") > strings.Index(got, "switch.name") {
		t.Errorf("logger attributes should precede record attributes: %q", got)
	}
}

func TestPrettyHandler_WithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.New(h.WithGroup("req")).Debug("x", slog.String("id", "7"))

	if !strings.Contains(buf.String(), "req.id=7") {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "INFO+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if got := ParseLevel(" TRACE "); got != LevelTrace {
		t.Errorf("ParseLevel(trace) = %v", got)
	}

	if got := ParseLevel("warn"); got != LevelWarn {
		t.Errorf("ParseLevel(warn) = %v", got)
	}

	if got := ParseLevel("loud"); got != DefaultLevel {
		t.Errorf("ParseLevel(loud) = %v, want default", got)
	}

	if got := ParseFormat("JSON"); got != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v", got)
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v, want default", got)
	}
}
