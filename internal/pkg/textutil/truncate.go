// Package textutil fits free-form text (ticket subjects, notification messages) into table cells.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis marks truncated text
const Ellipsis = "…"

// SingleLine collapses all whitespace runs, newlines included, into single spaces
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most max runes, ending in Ellipsis when cut.
// A max below 1 disables truncation.
func Truncate(text string, max int) string {
	if max < 1 || utf8.RuneCountInString(text) <= max {
		return text
	}
	if max == 1 {
		return Ellipsis
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:max-1]), " ") + Ellipsis
}

// Cell prepares text for a table column: one line, at most max runes
func Cell(text string, max int) string {
	return Truncate(SingleLine(text), max)
}
