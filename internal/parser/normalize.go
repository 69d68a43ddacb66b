package parser

import (
	"regexp"
	"strings"
)

// commaSpacing matches a comma together with any blanks already following it
var commaSpacing = regexp.MustCompile(`,[ \t]*`)

// protectedTypes are type names whose argument lists contain commas that must
// survive the ", " column split
var protectedTypes = []string{"DECIMAL", "ENUM"}

// Normalize rewrites a script so that every comma is followed by exactly one
// space, except inside DECIMAL(...) and ENUM(...) argument lists, which are
// stripped of spaces entirely. The script is processed line by line.
//
// An argument list is assumed to end at the first ")" after its keyword, so
// nested parentheses are not supported. A keyword whose list is not closed on
// the same line leaves the remainder of that line unchanged.
func Normalize(script string) string {
	var b strings.Builder
	b.Grow(len(script) + len(script)/8)

	for _, line := range strings.SplitAfter(script, "\n") {
		line = commaSpacing.ReplaceAllString(line, ", ")
		for _, keyword := range protectedTypes {
			line = compactTypeArguments(line, keyword)
		}
		b.WriteString(line)
	}
	return b.String()
}

// compactTypeArguments removes spaces from every "<keyword>(...)" span of line
func compactTypeArguments(line, keyword string) string {
	from := 0
	for {
		i := strings.Index(line[from:], keyword)
		if i < 0 {
			return line
		}
		start := from + i

		open := start + len(keyword)
		for open < len(line) && line[open] == ' ' {
			open++
		}
		if open >= len(line) || line[open] != '(' {
			// Not a type specifier, e.g. an identifier containing the keyword.
			from = start + len(keyword)
			continue
		}

		closing := strings.IndexByte(line[open:], ')')
		if closing < 0 {
			return line
		}
		end := open + closing + 1

		span := strings.ReplaceAll(line[start:end], " ", "")
		line = line[:start] + span + line[end:]
		from = start + len(span)
	}
}
