package specfile

import (
	"fmt"
	"maps"
	"os"

	"github.com/ardnew/optbind/bind"
)

// File is a loaded spec file.
type File struct {
	Path      string
	Format    Format
	Program   string
	Version   string
	Usage     []string
	Mode      bind.Mode
	Defaults  map[string]any
	Options   []Definition
	Arguments []Definition
}

// Definition is one option or argument of a spec file.
type Definition struct {
	// Spec is a definition string or a [bind.Spec].
	Spec any
	// Handler is built from the handler keys of a map definition.
	Handler bind.Handler
}

// String returns the definition string, or the structured spec rendered
// with sorted keys.
func (d Definition) String() string { return quoted(d.Spec) }

// Load reads the spec file at path, choosing the format by extension.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrDecode.WithArg(path).Wrap(err)
	}

	f, err := Decode(data, format)
	if err != nil {
		return nil, err
	}

	f.Path = path

	return f, nil
}

// Decode decodes a spec file from data.
func Decode(data []byte, format Format) (*File, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	f := &File{
		Format:   format,
		Program:  doc.Program,
		Version:  doc.Version,
		Usage:    doc.Usage,
		Defaults: doc.Defaults,
	}

	if doc.Mode != "" {
		if f.Mode, err = bind.ParseMode(doc.Mode); err != nil {
			return nil, ErrDecode.WithArg(format.String()).Wrap(err)
		}
	}

	types := bind.DefaultTypes()

	if f.Options, err = definitions(doc.Options, types); err != nil {
		return nil, err
	}

	if f.Arguments, err = definitions(doc.Arguments, types); err != nil {
		return nil, err
	}

	return f, nil
}

func definitions(raw []any, types *bind.TypeRegistry) ([]Definition, error) {
	out := make([]Definition, 0, len(raw))

	for _, r := range raw {
		d, err := definition(r, types)
		if err != nil {
			return nil, ErrDefinition.WithArg(quoted(r)).Wrap(err)
		}

		out = append(out, d)
	}

	return out, nil
}

func definition(raw any, types *bind.TypeRegistry) (Definition, error) {
	switch r := raw.(type) {
	case string:
		return Definition{Spec: r}, nil

	case map[string]any:
		spec := bind.Spec(maps.Clone(r))

		h, err := handlers(spec, types)
		if err != nil {
			return Definition{}, err
		}

		return Definition{Spec: spec, Handler: h}, nil
	}

	return Definition{}, fmt.Errorf("want string or map, got %T", raw)
}

// Target returns a new map seeded with the file's defaults, for use as a
// binder target.
func (f *File) Target() map[string]any {
	t := maps.Clone(f.Defaults)
	if t == nil {
		t = map[string]any{}
	}

	return t
}

// Binder returns a binder writing to target with every option, argument
// and usage line of the file registered. opts apply after the file's own
// program, version and mode.
func (f *File) Binder(target any, opts ...bind.Option) (*bind.Binder, error) {
	var base []bind.Option

	if f.Program != "" {
		base = append(base, bind.WithProgram(f.Program))
	}

	if f.Version != "" {
		base = append(base, bind.WithVersion(f.Version))
	}

	base = append(base, bind.WithMode(f.Mode))

	b, err := bind.New(target, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, d := range f.Options {
		if err := b.Option(d.Spec, d.Handler); err != nil {
			return nil, err
		}
	}

	for _, d := range f.Arguments {
		if err := b.Argument(d.Spec, d.Handler); err != nil {
			return nil, err
		}
	}

	for _, line := range f.Usage {
		b.Usage(line)
	}

	return b, nil
}
