package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Bar is one row of a histogram.
type Bar struct {
	Label string
	Value int
}

const (
	barChar             = "█"
	minBarWidth         = 10
	terminalWidthBackup = 80
	barColor            = "\x1b[36m"
	colorReset          = "\x1b[0m"
)

// RenderHistogram draws a horizontal bar chart scaled to the largest value.
// A non-positive width uses the terminal width.
func RenderHistogram(w io.Writer, title string, bars []Bar, width int, color bool) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = TerminalWidth()
	}

	labelWidth, valueWidth, maxValue := 0, 0, 0
	for _, bar := range bars {
		if lw := displayWidth(bar.Label); lw > labelWidth {
			labelWidth = lw
		}
		if vw := len(humanize.Comma(int64(bar.Value))); vw > valueWidth {
			valueWidth = vw
		}
		if bar.Value > maxValue {
			maxValue = bar.Value
		}
	}
	barWidth := width - labelWidth - valueWidth - 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, bar := range bars {
		n := 0
		if maxValue > 0 {
			n = bar.Value * barWidth / maxValue
		}
		if n == 0 && bar.Value > 0 {
			n = 1
		}
		fill := strings.Repeat(barChar, n)
		if color && fill != "" {
			fill = barColor + fill + colorReset
		}
		line := fmt.Sprintf("%s %*s %s",
			padCell(bar.Label, labelWidth, false),
			valueWidth, humanize.Comma(int64(bar.Value)),
			fill)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// TerminalWidth returns the width of stdout or a fallback when it is not a
// terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colour should be written to w. NO_COLOR
// always disables colour; force enables it for non-terminals.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
