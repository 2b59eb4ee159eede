package log

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name   string
		opt    Option
		check  func(config) any
		expect any
	}{
		{"level", WithLevel(LevelTrace), func(c config) any { return c.level }, LevelTrace},
		{"format", WithFormat(FormatJSON), func(c config) any { return c.format }, FormatJSON},
		{"caller", WithCaller(true), func(c config) any { return c.caller }, true},
		{"pretty", WithPretty(false), func(c config) any { return c.pretty }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.check(makeConfig(nil, tt.opt))
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Errorf("option mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithTimeLayout(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2026-10-18T14:30:45Z"},
		{"rfc3339nano", "2026-10-18T14:30:45.123456789Z"},
		{"Kitchen", "2:30PM"},
		{"ms", "Oct 18 14:30:45.123"},
		{"date-time", "2026-10-18 14:30:45"},
		{"15:04", "14:30"},
		{"none", ""},
		{"", ""},
		{" \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestWithOutput_NilDiscards(t *testing.T) {
	c := WithOutput(nil)(config{})
	if c.output == nil {
		t.Error("WithOutput(nil) left output nil")
	}
}

func TestLevels(t *testing.T) {
	var got []string
	for l := range Levels() {
		got = append(got, l)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Levels() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormats(t *testing.T) {
	var got []string
	for f := range Formats() {
		got = append(got, f)
	}

	if diff := cmp.Diff([]string{"text", "json"}, got); diff != "" {
		t.Errorf("Formats() mismatch (-want +got):\n%s", diff)
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("WARN")); err != nil || l != LevelWarn {
		t.Errorf("UnmarshalText(WARN) = %v, %v; want warn", l, err)
	}
}
