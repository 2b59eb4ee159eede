package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/optbind/bind"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "usage", "vars", "order", "edit", "clear", "quit"}

// wordBounds returns the whitespace-delimited word at cursor and its byte
// boundaries within input. The word is empty when the cursor sits between
// spaces or at the start of an empty line.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if unicode.IsSpace(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// switchCandidates returns every spelling a command line may use for the
// switches: short and long names, the --no- form of negatable names, and
// "--name=value" for each enumerated value of a long name.
func switchCandidates(switches []bind.Descriptor) []string {
	var out []string

	for _, d := range switches {
		for _, n := range d.Names {
			if !n.Long {
				out = append(out, "-"+n.Text)

				continue
			}

			out = append(out, "--"+n.Text)

			if n.Negatable {
				out = append(out, "--no-"+n.Text)
			}

			for _, v := range d.Values {
				out = append(out, "--"+n.Text+"="+v)
			}
		}
	}

	return slices.Compact(out)
}

// candidates returns the completion candidates for word in mode.
func candidates(mode inputMode, word string, switches []bind.Descriptor) []string {
	switch {
	case word == "":
		return nil

	case mode == modeCtrl:
		return ctrlCommands

	case strings.HasPrefix(word, "-"):
		return switchCandidates(switches)
	}

	return nil
}

// computeMatches finds the candidates matching the word at the cursor,
// ranked best first, and the word's boundaries.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, ws, we := wordBounds(m.input.Value(), m.input.Position())

	list := candidates(m.mode, word, m.switches())
	if len(list) == 0 {
		return nil, ws, we
	}

	return fuzzy.Find(word, list), ws, we
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		if i > 0 && used+entryWidth+ellipsisWidth > width && !(last && used+entryWidth <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
