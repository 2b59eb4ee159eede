package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "optbind"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from VERSION file, so it should not be empty.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	content := strings.TrimSpace(string(buf))
	if strings.TrimSpace(Version) != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	v, err := SemVer()
	if err != nil {
		t.Fatalf("embedded version is not semantic: %v", err)
	}

	if got, want := VersionString(), "v"+v.String(); got != want {
		t.Errorf("VersionString() = %q, want %q", got, want)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	expectedName := "ardnew"
	expectedEmail := "andrew@ardnew.com"

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == expectedName && a.Email == expectedEmail
	}) {
		t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
	}

	if got, want := Author[0].String(), "ardnew <andrew@ardnew.com>"; got != want {
		t.Errorf("AuthorInfo.String() = %q, want %q", got, want)
	}
}

func TestError_KindSurvivesDerivation(t *testing.T) {
	base := NewError("missing argument")
	other := NewError("missing arguments")

	derived := base.WithArg("--output").
		With(slog.String("option", "--output")).
		Wrap(errors.New("end of input"))

	if !errors.Is(derived, base) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, other) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := fmt.Errorf("parse: %w", derived)
	if !errors.Is(wrapped, base) {
		t.Error("fmt-wrapped error does not match its sentinel")
	}

	if got, want := derived.Error(), "missing argument: --output: end of input"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if derived.Arg() != "--output" {
		t.Errorf("Arg() = %q, want %q", derived.Arg(), "--output")
	}

	v, ok := derived.Attr("option")
	if !ok || v.String() != "--output" {
		t.Errorf("Attr(option) = %v, %v", v, ok)
	}
}

func TestWrapError_ReusesError(t *testing.T) {
	base := NewError("invalid argument").WithArg("size")

	if got := WrapError(fmt.Errorf("ctx: %w", base)); got != base {
		t.Errorf("WrapError did not return the wrapped *Error")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("WrapError lost the plain cause")
	}
}
