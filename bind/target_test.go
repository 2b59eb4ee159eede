package bind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// record is a member-mode target with accessor methods.
type record struct {
	output string
	level  int
}

func (r *record) Output() string { return r.output }

func (r *record) SetOutput(s string) { r.output = s }

func (r *record) Level() (int, error) { return r.level, nil }

func (r *record) SetLevel(n int) error {
	r.level = n

	return nil
}

func (r *record) DryRun() bool { return false }

func (r *record) SetDryRun(bool) error { return errors.New("read-only") }

// store is an Indexer.
type store struct{ m map[string]any }

func (s *store) Index(name string) (any, error) { return s.m[name], nil }

func (s *store) SetIndex(name string, v any) error {
	s.m[name] = v

	return nil
}

// settings is an instance-scope target.
type settings struct {
	Output  string `optbind:"o"`
	DryRun  bool
	Retries int
	Tags    []string
	hidden  string
}

// widget is a Classed object.
type widget struct{ class *Class }

func (w widget) Class() *Class { return w.class }

func TestResolve_Auto(t *testing.T) {
	tests := []struct {
		name   string
		target any
		want   Mode
	}{
		{"map", map[string]any{}, ModeIndexed},
		{"typed map", map[string]int{}, ModeIndexed},
		{"map pointer", &map[string]string{}, ModeIndexed},
		{"indexer", &store{}, ModeIndexed},
		{"object", &record{}, ModeMember},
		{"int-keyed map", map[int]string{}, ModeMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.target, ModeAuto)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if got.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", got.Mode(), tt.want)
			}
		})
	}
}

func TestResolve_Incompatible(t *testing.T) {
	tests := []struct {
		name   string
		target any
		mode   Mode
	}{
		{"nil", nil, ModeAuto},
		{"local on map", map[string]any{}, ModeLocalScope},
		{"instance on map", map[string]any{}, ModeInstanceScope},
		{"instance on struct value", settings{}, ModeInstanceScope},
		{"class on struct", &settings{}, ModeClassScope},
		{"indexed on object", &record{}, ModeIndexed},
		{"indexed on nil map", map[string]any(nil), ModeIndexed},
		{"unknown mode", map[string]any{}, Mode(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.target, tt.mode); !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("Resolve() error = %v, want %v", err, ErrInvalidTarget)
			}
		})
	}
}

func TestTarget_Indexed(t *testing.T) {
	m := map[string]int{"n": 1}

	tg, err := Resolve(m, ModeIndexed)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := tg.Read("n"); v != 1 {
		t.Errorf("Read(n) = %v, want 1", v)
	}

	if v, _ := tg.Read("missing"); v != nil {
		t.Errorf("Read(missing) = %v, want nil", v)
	}

	if err := tg.Write("n", int64(5)); err != nil || m["n"] != 5 {
		t.Errorf("Write(n, 5) = %v, m = %v", err, m)
	}

	if err := tg.Write("n", "five"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Write(n, five) error = %v, want %v", err, ErrInvalidTarget)
	}

	s := &store{m: map[string]any{}}

	tg, err = Resolve(s, ModeAuto)
	if err != nil {
		t.Fatal(err)
	}

	if err := tg.Write("x", []string{"a"}); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(map[string]any{"x": []string{"a"}}, s.m); diff != "" {
		t.Errorf("Indexer mismatch (-want +got):\n%s", diff)
	}
}

func TestTarget_Member(t *testing.T) {
	r := &record{output: "STDOUT"}

	tg, err := Resolve(r, ModeMember)
	if err != nil {
		t.Fatal(err)
	}

	if v, err := tg.Read("output"); err != nil || v != "STDOUT" {
		t.Errorf("Read(output) = (%v, %v)", v, err)
	}

	if err := tg.Write("output", "file"); err != nil || r.output != "file" {
		t.Errorf("Write(output) = %v, output = %q", err, r.output)
	}

	if err := tg.Write("level", 3); err != nil || r.level != 3 {
		t.Errorf("Write(level) = %v, level = %d", err, r.level)
	}

	if err := tg.Write("dry_run", true); err == nil {
		t.Errorf("Write(dry_run) error = nil, want the setter's error")
	}

	if _, err := tg.Read("missing"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Read(missing) error = %v, want %v", err, ErrInvalidTarget)
	}
}

func TestTarget_LocalScope(t *testing.T) {
	var (
		output = "STDOUT"
		count  int
		tags   []string
	)

	scope := NewScope().Var("o", &output).Var("n", &count).Var("tags", &tags)

	tg, err := Resolve(scope, ModeLocalScope)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := tg.Read("o"); v != "STDOUT" {
		t.Errorf("Read(o) = %v", v)
	}

	for name, v := range map[string]any{"o": "file", "n": 4, "tags": []any{"a", "b"}} {
		if err := tg.Write(name, v); err != nil {
			t.Fatalf("Write(%s) error = %v", name, err)
		}
	}

	if output != "file" || count != 4 || !cmp.Equal(tags, []string{"a", "b"}) {
		t.Errorf("variables = %q, %d, %q", output, count, tags)
	}

	if _, err := tg.Read("undefined"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Read(undefined) error = %v, want %v", err, ErrInvalidTarget)
	}

	if diff := cmp.Diff([]string{"n", "o", "tags"}, scope.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestScope_VarPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Var with a non-pointer did not panic")
		}
	}()

	NewScope().Var("x", 1)
}

func TestTarget_InstanceScope(t *testing.T) {
	s := &settings{}

	tg, err := Resolve(s, ModeInstanceScope)
	if err != nil {
		t.Fatal(err)
	}

	writes := map[string]any{
		"o":       "file",
		"dry-run": true,
		"retries": int64(3),
		"Tags":    []string{"x"},
	}

	for name, v := range writes {
		if err := tg.Write(name, v); err != nil {
			t.Fatalf("Write(%s) error = %v", name, err)
		}
	}

	want := &settings{Output: "file", DryRun: true, Retries: 3, Tags: []string{"x"}}
	if diff := cmp.Diff(want, s, cmp.AllowUnexported(settings{})); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	if _, err := tg.Read("hidden"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Read(hidden) error = %v, want %v", err, ErrInvalidTarget)
	}
}

func TestTarget_ClassScope(t *testing.T) {
	class := NewClass("widget", map[string]any{"size": 1, "name": nil})

	for _, target := range []any{class, widget{class}} {
		tg, err := Resolve(target, ModeClassScope)
		if err != nil {
			t.Fatal(err)
		}

		if err := tg.Write("size", int64(7)); err != nil {
			t.Fatal(err)
		}

		if v, _ := class.Get("size"); v != 7 {
			t.Errorf("size = %#v, want int 7", v)
		}

		if err := tg.Write("name", "knob"); err != nil {
			t.Fatal(err)
		}

		if err := tg.Write("color", "red"); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("Write(color) error = %v, want %v", err, ErrInvalidTarget)
		}
	}
}

func TestParseMode(t *testing.T) {
	for m := ModeAuto; m <= ModeClassScope; m++ {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = (%v, %v), want %v", m.String(), got, err, m)
		}
	}

	if _, err := ParseMode("global"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("ParseMode(global) error = %v, want %v", err, ErrInvalidTarget)
	}
}
