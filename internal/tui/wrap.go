package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// cell pairs a cipher rune with its current decoding.
type cell struct {
	cipher rune
	plain  rune
	mapped bool
	width  int
}

func (c cell) isSpace() bool {
	return unicode.IsSpace(c.cipher)
}

func buildCells(cipher, plain []rune, key map[rune]rune, keepWhitespace bool) []cell {
	out := make([]cell, 0, len(cipher))
	for i, c := range cipher {
		p := plain[i]
		_, mapped := key[c]
		if keepWhitespace && !mapped && unicode.IsSpace(c) {
			p = c
		}
		w := runewidth.RuneWidth(displayRune(c))
		if pw := runewidth.RuneWidth(displayRune(p)); pw > w {
			w = pw
		}
		out = append(out, cell{cipher: c, plain: p, mapped: mapped, width: w})
	}
	return out
}

// wrapCells splits cells into lines no wider than width, breaking after
// whitespace when possible.
func wrapCells(cells []cell, width int) [][]cell {
	if width <= 0 || len(cells) == 0 {
		return [][]cell{cells}
	}
	var lines [][]cell
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 && lastSpaceIdx < len(line)-1 {
				lines = append(lines, line[:lastSpaceIdx+1])
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
			} else {
				lines = append(lines, line)
				line = []cell{}
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace() {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(lines, line)
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace() {
			return i
		}
	}
	return -1
}

// renderCells writes the cipher row above the plain row, each cell padded so
// both rows stay aligned.
func renderCells(line []cell) (string, string) {
	var cipherRow, plainRow strings.Builder
	for _, item := range line {
		cipherRow.WriteString(cipherStyle.Render(padRune(displayRune(item.cipher), item.width)))
		style := unmappedStyle
		if item.mapped {
			style = mappedStyle
		}
		plainRow.WriteString(style.Render(padRune(displayRune(item.plain), item.width)))
	}
	return cipherRow.String(), plainRow.String()
}

func displayRune(r rune) rune {
	switch {
	case unicode.IsSpace(r):
		return ' '
	case !unicode.IsPrint(r):
		return '·'
	default:
		return r
	}
}

func padRune(r rune, width int) string {
	s := string(r)
	if pad := width - runewidth.RuneWidth(r); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
