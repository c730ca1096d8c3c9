package codegen

import "strings"

// DefaultWidth is the column limit for formatted output.
const DefaultWidth = 80

// Format renders a compiled program: a bracketed header line with the
// program name, then the instruction stream sliced into lines of at most
// width characters. The header is inert on the tape machine because the
// first cell is zero, so the bracket pair is skipped.
func Format(name, code string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(name)
	b.WriteString("]\n")
	for len(code) > width {
		b.WriteString(code[:width])
		b.WriteString("\n")
		code = code[width:]
	}
	if len(code) > 0 {
		b.WriteString(code)
		b.WriteString("\n")
	}
	return b.String()
}
