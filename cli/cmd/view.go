package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/optbind/bind"
)

// Output formats of check and parse.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// descriptorView is the serialized form of a [bind.Descriptor].
type descriptorView struct {
	Names       []string `json:"names,omitempty"       yaml:"names,omitempty"`
	Argument    string   `json:"argument,omitempty"    yaml:"argument,omitempty"`
	Style       string   `json:"style"                 yaml:"style"`
	Multiple    bool     `json:"multiple,omitempty"    yaml:"multiple,omitempty"`
	Pattern     string   `json:"pattern,omitempty"     yaml:"pattern,omitempty"`
	Values      []string `json:"values,omitempty"      yaml:"values,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Variable    string   `json:"variable,omitempty"    yaml:"variable,omitempty"`
	Default     any      `json:"default,omitempty"     yaml:"default,omitempty"`
	Handler     bool     `json:"handler,omitempty"     yaml:"handler,omitempty"`
}

func viewOf(d bind.Descriptor) descriptorView {
	v := descriptorView{
		Argument:    d.Placeholder(),
		Style:       d.Style.String(),
		Multiple:    d.Multiplicity == bind.Multiple,
		Values:      slices.Clone(d.Values),
		Description: d.Description,
		Handler:     d.Handler != nil,
	}

	for _, n := range d.Names {
		v.Names = append(v.Names, n.String())
	}

	if len(d.Names) == 0 {
		v.Argument = strings.TrimPrefix(d.Argument, "=")
	}

	if d.Pattern != nil {
		v.Pattern = d.Pattern.String()
	}

	if d.Bound {
		v.Variable = d.Variable
		v.Default = d.Default
	}

	return v
}

func viewsOf(descs []bind.Descriptor) []descriptorView {
	out := make([]descriptorView, len(descs))
	for i, d := range descs {
		out[i] = viewOf(d)
	}

	return out
}

// spelling renders the names and argument as they appear in help, or the
// bare placeholder of a positional argument.
func (v descriptorView) spelling() string {
	if len(v.Names) == 0 {
		return v.Argument
	}

	return strings.Join(v.Names, ", ") + v.Argument
}

// encode writes v to w as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case formatYAML:
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}

	if err != nil {
		return ErrMarshal.With(slog.String("format", format)).Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
