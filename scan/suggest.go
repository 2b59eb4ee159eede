package scan

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the names offered for one unknown switch.
const maxSuggestions = 3

// suggest returns the known names that best resemble name.
//
// A known name matches when one of the two, stripped of dashes, is a fuzzy
// subsequence of the other, which catches both dropped and stray characters.
// Long names only suggest long names.
func suggest(name string, known []string) Suggestions {
	long := strings.HasPrefix(name, "--")
	typed := strings.TrimLeft(name, "-")

	if typed == "" {
		return nil
	}

	var cands, bare []string

	for _, k := range known {
		if strings.HasPrefix(k, "--") != long {
			continue
		}

		cands = append(cands, k)
		bare = append(bare, strings.TrimLeft(k, "-"))
	}

	var out Suggestions

	for _, m := range fuzzy.Find(typed, bare) {
		out = append(out, cands[m.Index])
	}

	for i, b := range bare {
		if len(b) > 1 && len(fuzzy.Find(b, []string{typed})) > 0 &&
			!slices.Contains(out, cands[i]) {
			out = append(out, cands[i])
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return out
}
