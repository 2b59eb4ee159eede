package bind

import (
	"slices"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	helpIndent  = "    "
	helpSummary = 32 // width of the names column
	helpMinWrap = 20 // narrowest description column worth wrapping to
)

// Help renders the usage lines followed by one row per switch:
//
//	usage: meow [<options>]
//
//	    -o, --output=<file>              Output file.
//	        --trim[=<size>]              Trim long lines.
//
// Descriptions start in one column; a row whose names overflow it puts
// the description on the next line. If width is given, descriptions are
// wrapped to fit it.
func (b *Binder) Help(width ...int) string {
	var sb strings.Builder

	lines := b.usage
	if len(lines) == 0 {
		lines = []string{"[<options>]"}
	}

	for i, line := range lines {
		prefix := "usage: "
		if i > 0 {
			prefix = "   or: "
		}

		sb.WriteString(prefix + b.program + " " + line + "\n")
	}

	if len(b.switches) > 0 {
		sb.WriteByte('\n')
	}

	wrap := 0
	if len(width) > 0 {
		wrap = width[0] - len(helpIndent) - helpSummary - 1
	}

	for _, d := range b.switches {
		writeRow(&sb, names(d), wrapText(d.Description, wrap))
	}

	return sb.String()
}

// names renders the names column, with the argument attached to the last
// name. Rows without a short name are indented to line up long names.
func names(d Descriptor) string {
	parts := make([]string, len(d.Names))
	for i, n := range d.Names {
		parts[i] = n.String()
	}

	left := strings.Join(parts, ", ") + d.Placeholder()

	if !slices.ContainsFunc(d.Names, func(n Name) bool { return !n.Long }) {
		left = helpIndent + left
	}

	return left
}

func writeRow(sb *strings.Builder, left string, desc []string) {
	pad := strings.Repeat(" ", len(helpIndent)+helpSummary+1)

	sb.WriteString(helpIndent + left)

	if len(desc) == 0 {
		sb.WriteByte('\n')

		return
	}

	if len(left) > helpSummary {
		sb.WriteString("\n" + pad)
	} else {
		sb.WriteString(strings.Repeat(" ", helpSummary-len(left)+1))
	}

	sb.WriteString(desc[0] + "\n")

	for _, line := range desc[1:] {
		sb.WriteString(pad + line + "\n")
	}
}

// wrapText splits text into lines of at most width characters, breaking
// between words. Widths too narrow to be useful leave text on one line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	text = strings.Join(words, " ")
	if width < helpMinWrap {
		return []string{text}
	}

	return strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
}
