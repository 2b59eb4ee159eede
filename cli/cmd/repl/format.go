package repl

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// FormatResult renders parsed variables as one "name = value" line each,
// in name order, followed by a "rest: [...]" line when tokens were left.
func FormatResult(vars map[string]any, rest []string) string {
	var sb strings.Builder

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		sb.WriteString(name + " = " + FormatValue(vars[name]) + "\n")
	}

	if len(rest) > 0 {
		sb.WriteString("rest: " + FormatValue(rest) + "\n")
	}

	return sb.String()
}

// FormatValue renders strings quoted, lists element-wise in brackets and
// anything else with fmt.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"

	case string:
		return strconv.Quote(x)

	case []string:
		return formatList(len(x), func(i int) string { return strconv.Quote(x[i]) })

	case []any:
		return formatList(len(x), func(i int) string { return FormatValue(x[i]) })
	}

	return fmt.Sprint(v)
}

func formatList(n int, item func(int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = item(i)
	}

	return "[" + strings.Join(parts, " ") + "]"
}
