package pkg

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvName(t *testing.T) {
	got := EnvName("config-dir")

	if !strings.HasSuffix(got, "_CONFIG_DIR") {
		t.Errorf("EnvName(config-dir) = %q, want suffix _CONFIG_DIR", got)
	}

	if got != strings.ToUpper(got) || strings.ContainsAny(got, "-.") {
		t.Errorf("EnvName(config-dir) = %q, want an upper-case identifier", got)
	}
}

func TestUserDir(t *testing.T) {
	failing := func() (string, error) { return "", errors.New("no dir") }
	fixed := func() (string, error) { return "/base", nil }

	t.Run("override", func(t *testing.T) {
		t.Setenv(EnvName("test-dir"), "/elsewhere")

		if got := userDir("test-dir", fixed, ".test"); got != "/elsewhere" {
			t.Errorf("userDir() = %q, want /elsewhere", got)
		}
	})

	t.Run("base", func(t *testing.T) {
		if got, want := userDir("test-dir", fixed, ".test"), filepath.Join("/base", Prefix()); got != want {
			t.Errorf("userDir() = %q, want %q", got, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("HOME", "/home/meow")

		want := filepath.Join("/home/meow", ".test", Prefix())
		if got := userDir("test-dir", failing, ".test"); got != want {
			t.Errorf("userDir() = %q, want %q", got, want)
		}
	})
}

func TestPrefix(t *testing.T) {
	tests := map[string]string{
		"__debug_bin3047": Name,
		"..hidden":        "hidden",
		"optbind":         "optbind",
	}

	for in, want := range tests {
		got := leadingDots.ReplaceAllString(debugBin.ReplaceAllString(in, Name), "")
		if got != want {
			t.Errorf("substitute(%q) = %q, want %q", in, got, want)
		}
	}

	if Prefix() == "" {
		t.Error("Prefix() is empty")
	}
}
