package report

import (
	"fmt"
	"io"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/reference"
)

// RenderComparison lists cipher tokens next to the reference letters of the
// same rank. Whitespace tokens are left out.
func RenderComparison(w io.Writer, a freq.Analysis, ref reference.Reference, n int) error {
	var cipher []rune
	for _, r := range a.TokensByFrequency {
		if !unicode.IsSpace(r) {
			cipher = append(cipher, r)
		}
	}
	rowCount := len(cipher)
	if len(ref.Letters) > rowCount {
		rowCount = len(ref.Letters)
	}
	if n > 0 && n < rowCount {
		rowCount = n
	}

	title := "Cipher vs reference"
	if ref.Lang != "" {
		title = fmt.Sprintf("Cipher vs reference (%s)", ref.Lang)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rows := make([][]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		row := []string{fmt.Sprintf("%d", i+1), "", "", ""}
		if i < len(cipher) {
			row[1] = Label(string(cipher[i]))
			row[2] = humanize.Comma(int64(a.TokenCount[cipher[i]]))
		}
		if i < len(ref.Letters) {
			row[3] = string(ref.Letters[i])
		}
		rows = append(rows, row)
	}
	headers := []string{"Rank", "Cipher", "Count", "Reference"}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
