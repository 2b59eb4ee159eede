package bind

import (
	"fmt"
	"reflect"
	"strings"
)

// describeDefault appends def to a description: "Output file, default
// STDOUT", or "Default STDOUT" when there is no description. Nil and
// empty defaults leave the description alone.
func describeDefault(desc string, def any) string {
	if isEmpty(def) {
		return desc
	}

	if desc == "" {
		return "Default " + formatDefault(def)
	}

	return desc + ", default " + formatDefault(def)
}

// formatDefault renders lists joined by commas.
func formatDefault(def any) string {
	v := reflect.ValueOf(def)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Sprint(def)
	}

	parts := make([]string, v.Len())
	for i := range v.Len() {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}

	return strings.Join(parts, ",")
}
