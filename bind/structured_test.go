package bind

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileSpec_MatchesGrammar(t *testing.T) {
	tests := []struct {
		text string
		spec Spec
	}{
		{
			text: "-f --file=<path> Path to file.",
			spec: Spec{
				"short":       "f",
				"long":        "file",
				"argument":    "<path>",
				"description": "Path to file.",
			},
		},
		{
			text: "-f --file[=<path>]",
			spec: Spec{"names": []any{"f", "file"}, "argument": "[=<path>]"},
		},
		{
			text: "-o=(asc|desc) Sort order.",
			spec: Spec{
				"name":        "-o",
				"values":      []string{"asc", "desc"},
				"argument":    "=(asc|desc)",
				"description": []any{"Sort", "order."},
			},
		},
		{
			text: "--[no-]color",
			spec: Spec{"long": "--[no-]color"},
		},
		{
			text: "-t --trim[=<size:Integer>]",
			spec: Spec{"shorts": []string{"-t"}, "longs": []string{"trim"}, "argument": "=[<size:Integer>]"},
		},
		{
			text: "--tag=<t>...",
			spec: Spec{"long": "tag", "argument": "=<t>..."},
		},
		{
			text: "--file[=<path>]",
			spec: Spec{"long": "file", "style": "optional", "argument": "=<path>"},
		},
		{
			text: "--file=<path>",
			spec: Spec{"long": "file", "mode": "required", "argument": "[=<path>]"},
		},
		{
			text: "--tag[=<t>...]",
			spec: Spec{"long": "tag", "style": "optional", "argument": "<t>..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			want, err := CompileSwitch(tt.text, nil)
			if err != nil {
				t.Fatal(err)
			}

			got, err := CompileSpec(tt.spec, nil)
			if err != nil {
				t.Fatalf("CompileSpec() error = %v", err)
			}

			if !want.Equal(got) {
				t.Errorf("CompileSpec() mismatch (-want +got):\n%s",
					cmp.Diff(shapeOf(want), shapeOf(got)))
			}
		})
	}
}

func TestCompileSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want shape
	}{
		{
			name: "style wins over mode",
			spec: Spec{"long": "level", "style": "Optional", "mode": "required", "argument": "<l>"},
			want: shape{Style: StyleOptional, Names: []string{"--level"}, Argument: "=[<l>]"},
		},
		{
			name: "pattern implies a required value",
			spec: Spec{"long": "count", "type": "Integer"},
			want: shape{Style: StyleRequired, Names: []string{"--count"}, Pattern: "Integer"},
		},
		{
			name: "pattern wins over type",
			spec: Spec{"long": "id", "pattern": regexp.MustCompile(`\d+`), "type": "Integer", "argument": "<id>"},
			want: shape{Style: StyleRequired, Names: []string{"--id"}, Argument: "=<id>", Pattern: `\d+`},
		},
		{
			name: "explicit type replaces the clause type",
			spec: Spec{"long": "n", "argument": "<n:Float>", "type": "Integer"},
			want: shape{Style: StyleRequired, Names: []string{"--n"}, Argument: "=<n>", Pattern: "Integer"},
		},
		{
			name: "dashes are normalized",
			spec: Spec{"short": "--v", "long": "-verbose", "name": []string{"q", "quiet", "--loud"}},
			want: shape{Names: []string{"-v", "--verbose", "-q", "--quiet", "--loud"}},
		},
		{
			name: "value map sorts values",
			spec: Spec{"long": "size", "values": map[string]any{"small": 1, "large": 3}},
			want: shape{Style: StyleRequired, Names: []string{"--size"}, Values: []string{"large", "small"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := CompileSpec(tt.spec, nil)
			if err != nil {
				t.Fatalf("CompileSpec() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, shapeOf(d)); diff != "" {
				t.Errorf("CompileSpec() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileSpec_Binding(t *testing.T) {
	h := func(v any) (any, error) { return v, nil }

	d, err := CompileSpec(Spec{
		"bind":    "out",
		"long":    "output",
		"default": "STDOUT",
		"handler": h,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !d.Bound || d.Variable != "out" || d.Default != "STDOUT" || d.Handler == nil {
		t.Errorf("CompileSpec() = %+v", d)
	}

	d, err = CompileSpec(Spec{"variable": "out", "long": "output", "bound": false}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if d.Bound {
		t.Errorf("Bound = true with bound: false")
	}
}

func TestCompileSpec_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown key", Spec{"long": "x", "colour": "red"}},
		{"bad style", Spec{"long": "x", "style": "sometimes"}},
		{"pattern and values", Spec{"long": "x", "type": "Integer", "values": []string{"a"}}},
		{"empty values", Spec{"long": "x", "values": []string{}}},
		{"malformed argument", Spec{"long": "x", "argument": "FILE"}},
		{"trailing argument text", Spec{"long": "x", "argument": "<a> <b>"}},
		{"bad name", Spec{"long": "a b"}},
		{"bad handler", Spec{"long": "x", "handler": "upper"}},
		{"multiple without value", Spec{"long": "x", "argument": "<x>...", "style": "none"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSpec(tt.spec, nil)
			if !errors.Is(err, ErrInvalidSpecification) {
				t.Errorf("CompileSpec() error = %v, want %v", err, ErrInvalidSpecification)
			}
		})
	}
}
