package specfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

// document is the decoded form shared by every format.
type document struct {
	Program   string         `json:"program"   toml:"program"   yaml:"program"`
	Version   string         `json:"version"   toml:"version"   yaml:"version"`
	Usage     []string       `json:"usage"     toml:"usage"     yaml:"usage"`
	Mode      string         `json:"mode"      toml:"mode"      yaml:"mode"`
	Defaults  map[string]any `json:"defaults"  toml:"defaults"  yaml:"defaults"`
	Options   []any          `json:"options"   toml:"options"   yaml:"options"`
	Arguments []any          `json:"arguments" toml:"arguments" yaml:"arguments"`
}

// hclDocument is the HCL schema. The dynamic parts decode as cty values and
// are converted afterwards.
type hclDocument struct {
	Program   string    `hcl:"program,optional"`
	Version   string    `hcl:"version,optional"`
	Usage     []string  `hcl:"usage,optional"`
	Mode      string    `hcl:"mode,optional"`
	Defaults  cty.Value `hcl:"defaults,optional"`
	Options   cty.Value `hcl:"options,optional"`
	Arguments cty.Value `hcl:"arguments,optional"`
}

func decode(data []byte, format Format) (document, error) {
	var (
		doc document
		err error
	)

	switch format {
	case FormatYAML:
		err = yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField())

	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)

	case FormatTOML:
		var md toml.MetaData

		md, err = toml.Decode(string(data), &doc)
		if err == nil {
			if keys := md.Undecoded(); len(keys) > 0 {
				err = fmt.Errorf("unknown key %q", keys[0].String())
			}
		}

	case FormatHCL:
		doc, err = decodeHCL(data)

	default:
		return doc, ErrFormat.WithArg(format.String())
	}

	if err != nil {
		return doc, ErrDecode.WithArg(format.String()).Wrap(err)
	}

	doc.Defaults, _ = normalize(doc.Defaults).(map[string]any)
	doc.Options, _ = normalize(doc.Options).([]any)
	doc.Arguments, _ = normalize(doc.Arguments).([]any)

	return doc, nil
}

func decodeHCL(data []byte) (document, error) {
	var h hclDocument

	if err := hclsimple.Decode("spec.hcl", data, nil, &h); err != nil {
		return document{}, err
	}

	doc := document{
		Program: h.Program,
		Version: h.Version,
		Usage:   h.Usage,
		Mode:    h.Mode,
	}

	var err error

	if doc.Defaults, err = ctyMap("defaults", h.Defaults); err != nil {
		return document{}, err
	}

	if doc.Options, err = ctyList("options", h.Options); err != nil {
		return document{}, err
	}

	if doc.Arguments, err = ctyList("arguments", h.Arguments); err != nil {
		return document{}, err
	}

	return doc, nil
}

func ctyMap(name string, val cty.Value) (map[string]any, error) {
	v, err := fromCty(val)
	if err != nil || v == nil {
		return nil, err
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: want object, got %T", name, v)
	}

	return m, nil
}

func ctyList(name string, val cty.Value) ([]any, error) {
	v, err := fromCty(val)
	if err != nil || v == nil {
		return nil, err
	}

	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want list, got %T", name, v)
	}

	return l, nil
}

// fromCty converts a cty value to plain Go values: strings, bools, ints or
// float64s, []any and map[string]any.
func fromCty(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}

	t := val.Type()

	switch {
	case t.Equals(cty.String):
		return val.AsString(), nil

	case t.Equals(cty.Bool):
		return val.True(), nil

	case t.Equals(cty.Number):
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == big.Exact {
				return int(n), nil
			}
		}

		f, _ := bf.Float64()

		return f, nil

	case t.IsObjectType() || t.IsMapType():
		out := map[string]any{}

		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()

			x, err := fromCty(v)
			if err != nil {
				return nil, err
			}

			out[k.AsString()] = x
		}

		return out, nil

	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		out := []any{}

		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()

			x, err := fromCty(v)
			if err != nil {
				return nil, err
			}

			out = append(out, x)
		}

		return out, nil
	}

	return nil, errors.New("unsupported value of type " + t.FriendlyName())
}

// normalize converts decoded numbers to int where they are whole, and
// nested maps to map[string]any, so every format yields the same values.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}

		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}

		return out

	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}

		return out

	case []any:
		if x == nil {
			return x
		}

		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}

		return out

	case int64:
		return int(x)

	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}

	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= 1<<53 {
			return int(x)
		}
	}

	return v
}

// stringList returns v as a list of strings.
func stringList(v any) ([]string, error) {
	switch l := v.(type) {
	case string:
		return []string{l}, nil

	case []string:
		return slices.Clone(l), nil

	case []any:
		out := make([]string, len(l))

		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("want strings, got %T", e)
			}

			out[i] = s
		}

		return out, nil
	}

	return nil, fmt.Errorf("want string or list, got %T", v)
}

// quoted renders a definition for error messages.
func quoted(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return strings.TrimSpace(fmt.Sprint(v))
}
