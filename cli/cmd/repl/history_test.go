package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_AddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"-v in.txt", modeParse},
		{"usage", modeCtrl},
		{"usage", modeCtrl}, // repeat of the last entry
		{"  ", modeParse},   // blank
		{"-o x", modeParse},
		{"-v in.txt", modeParse}, // moves to the end
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"usage", modeCtrl},
		{"-o x", modeParse},
		{"-v in.txt", modeParse},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "C:usage\nP:-o x\nP:-v in.txt\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	if err := h.Add("-x", modeParse); err != nil {
		t.Fatal(err)
	}

	got, err := h.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0) error = %v", err)
	}

	if got != (HistoryEntry{"-x", modeParse}) {
		t.Errorf("Entry(0) = %+v", got)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistory_Trim(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), BaseHistory))

	for i := range maxHistory + 5 {
		if err := h.Add(strconv.Itoa(i), modeParse); err != nil {
			t.Fatal(err)
		}
	}

	if got := h.Len(); got != maxHistory {
		t.Errorf("Len() = %d, want %d", got, maxHistory)
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		in   string
		want HistoryEntry
	}{
		{"P:-v", HistoryEntry{"-v", modeParse}},
		{"C:quit", HistoryEntry{"quit", modeCtrl}},
		{"-v", HistoryEntry{"-v", modeParse}},
	}

	for _, tt := range tests {
		if got := parseEntry(tt.in); got != tt.want {
			t.Errorf("parseEntry(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
