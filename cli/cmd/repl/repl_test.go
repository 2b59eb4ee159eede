package repl

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/optbind/log"
	"github.com/ardnew/optbind/specfile"
)

const testSpec = `
program: meow
defaults: {o: STDOUT}
options:
  - "o -o --output=<file>  Output file."
  - "v -v --verbose  Be loud."
`

func newTestModel(t *testing.T) model {
	t.Helper()

	f, err := specfile.Decode([]byte(testSpec), specfile.FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	m, err := newModel(t.Context(), f, NewHistory(""), log.Default())
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	return m
}

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		order bool
		line  string
		want  string
	}{
		{
			name: "permute",
			line: "-v in.txt --output 'out file.txt'",
			want: "o = \"out file.txt\"\nv = true\nrest: [\"in.txt\"]",
		},
		{
			name:  "order",
			order: true,
			line:  "in.txt -v",
			want:  "rest: [\"in.txt\" \"-v\"]",
		},
		{
			name: "nothing",
			line: "",
			want: "(nothing assigned)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.order = tt.order

			got, err := m.evaluate(tt.line)
			if err != nil {
				t.Fatalf("evaluate(%q) error = %v", tt.line, err)
			}

			if got != tt.want {
				t.Errorf("evaluate(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestModel_EvaluateErrors(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.evaluate(`-o "unterminated`); !errors.Is(err, ErrSplit) {
		t.Errorf("evaluate(unterminated) error = %v, want %v", err, ErrSplit)
	}

	if _, err := m.evaluate("--bogus"); err == nil {
		t.Error("evaluate(--bogus) error = nil, want unknown switch")
	}
}

func TestModel_EvaluateIsolated(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.evaluate("-o a.txt"); err != nil {
		t.Fatal(err)
	}

	got, err := m.evaluate("-v")
	if err != nil {
		t.Fatal(err)
	}

	if want := "v = true"; got != want {
		t.Errorf("second evaluate() = %q, want %q", got, want)
	}
}

func TestModel_Switches(t *testing.T) {
	m := newTestModel(t)

	if got := len(m.switches()); got != 2 {
		t.Errorf("len(switches()) = %d, want 2", got)
	}
}

func TestModel_ModeToggleKeepsInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("-v")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl {
		t.Fatalf("mode after Esc = %v, want ctrl", m.mode)
	}

	if got := m.input.Value(); got != "" {
		t.Errorf("ctrl input = %q, want empty", got)
	}

	m.input.SetValue("us")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeParse {
		t.Fatalf("mode after second Esc = %v, want parse", m.mode)
	}

	if got := m.input.Value(); got != "-v" {
		t.Errorf("parse input = %q, want %q", got, "-v")
	}

	if m.ctrlText != "us" {
		t.Errorf("saved ctrl text = %q, want %q", m.ctrlText, "us")
	}
}

func TestModel_TabCycle(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("--")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	if len(m.matches) < 2 {
		t.Fatalf("matches for -- = %d, want at least 2", len(m.matches))
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if !m.tabActive {
		t.Fatal("Tab did not start cycling")
	}

	if got, want := m.input.Value(), m.matches[0].Str; got != want {
		t.Errorf("input after Tab = %q, want %q", got, want)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got, want := m.input.Value(), m.matches[1].Str; got != want {
		t.Errorf("input after second Tab = %q, want %q", got, want)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "--" {
		t.Errorf("input after Esc = %q, want %q", got, "--")
	}

	if m.mode != modeParse {
		t.Error("Esc while cycling changed mode")
	}
}

func TestModel_HistoryMove(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{{"-v", modeParse}, {"usage", modeCtrl}} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		step   int
		inMode bool
		line   string
		mode   inputMode
	}{
		{-1, false, "usage", modeCtrl},
		{-1, true, "usage", modeCtrl}, // no older ctrl entry
		{-1, false, "-v", modeParse},
		{1, false, "usage", modeCtrl},
		{1, false, "", modeCtrl},
	}

	for i, s := range steps {
		m = m.historyMove(s.step, s.inMode)

		if got := m.input.Value(); got != s.line {
			t.Errorf("step %d: input = %q, want %q", i, got, s.line)
		}

		if m.mode != s.mode {
			t.Errorf("step %d: mode = %v, want %v", i, m.mode, s.mode)
		}
	}
}

func TestModel_ExecuteOrderCommand(t *testing.T) {
	m := newTestModel(t)
	m = m.switchToMode(modeCtrl)
	m.input.SetValue("order")

	m, cmd := m.executeInput()
	if cmd == nil {
		t.Error("executeInput() returned no command")
	}

	if !m.order {
		t.Error("order command did not enable order scanning")
	}

	if got := m.history.Len(); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}

	if got := m.input.Value(); got != "" {
		t.Errorf("input after execute = %q, want empty", got)
	}
}

func TestModel_QuitCommand(t *testing.T) {
	m := newTestModel(t)
	m = m.switchToMode(modeCtrl)
	m.input.SetValue("quit")

	m, _ = m.executeInput()
	if !m.quitting {
		t.Error("quit command did not set quitting")
	}

	if got := m.View(); got != "" {
		t.Errorf("View() after quit = %q, want empty", got)
	}
}

func TestModel_EditWithoutPath(t *testing.T) {
	m := newTestModel(t)

	if cmd := m.edit(); cmd == nil {
		t.Error("edit() without a path returned no command")
	}
}
