package data

import (
	"strings"
)

// SplitLines normalizes CRLF and lone CR line endings before splitting, so
// model output produced on any platform scans the same way.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// NormalizeHeading reduces a markdown heading line to lower-case words so that
// "## Final-Answer:" and "#  **final answer**" compare equal.
func NormalizeHeading(line string) string {
	line = strings.ToLower(line)
	line = strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '_', '-', ':', '：', '【', '】', '[', ']':
			return ' '
		}
		return r
	}, line)
	return strings.Join(strings.Fields(line), " ")
}
