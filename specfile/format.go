package specfile

import (
	"path/filepath"
	"slices"
	"strings"
)

// Format is the encoding of a spec file.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatJSON               // json
	FormatTOML               // toml
	FormatHCL                // hcl
)

var formatName = map[Format]string{
	FormatYAML: "yaml",
	FormatJSON: "json",
	FormatTOML: "toml",
	FormatHCL:  "hcl",
}

// String returns the lowercase name of the format.
func (f Format) String() string {
	if s, ok := formatName[f]; ok {
		return s
	}

	return "unknown"
}

// Formats returns the format names in order.
func Formats() []string {
	return []string{"yaml", "json", "toml", "hcl"}
}

// ParseFormat parses a format name or file extension, with or without its
// leading dot.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if name == "yml" {
		name = "yaml"
	}

	if i := slices.Index(Formats(), name); i >= 0 {
		return Format(i), nil
	}

	return 0, ErrFormat.WithArg(s)
}

// FormatOf returns the format of path by its extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, ErrFormat.WithArg(path)
	}

	f, err := ParseFormat(ext)
	if err != nil {
		return 0, ErrFormat.WithArg(path)
	}

	return f, nil
}
