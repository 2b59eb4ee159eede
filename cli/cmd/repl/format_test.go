package repl

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"string", "a b", `"a b"`},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"strings", []string{"a", "b"}, `["a" "b"]`},
		{"mixed", []any{1, "x", nil}, `[1 "x" nil]`},
		{"nested", []any{[]any{1}}, "[[1]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatResult(t *testing.T) {
	got := FormatResult(
		map[string]any{"o": "out.txt", "n": 2},
		[]string{"in.txt"},
	)

	want := "n = 2\no = \"out.txt\"\nrest: [\"in.txt\"]\n"
	if got != want {
		t.Errorf("FormatResult() = %q, want %q", got, want)
	}

	if got := FormatResult(nil, nil); got != "" {
		t.Errorf("FormatResult(nil, nil) = %q, want empty", got)
	}
}
