package report

import (
	"fmt"
	"strings"
	"unicode"
)

// Label renders a token or n-gram so that whitespace and control runes are
// visible.
func Label(ngram string) string {
	var b strings.Builder
	for _, r := range ngram {
		b.WriteString(runeLabel(r))
	}
	return b.String()
}

func runeLabel(r rune) string {
	switch r {
	case ' ':
		return "<space>"
	case '\t':
		return "<tab>"
	case '\n':
		return "<nl>"
	case '\r':
		return "<cr>"
	}
	if unicode.IsSpace(r) || unicode.IsControl(r) || !unicode.IsPrint(r) {
		return fmt.Sprintf("<U+%04X>", r)
	}
	return string(r)
}
