// Package textprep reads and normalizes cipher text before analysis.
package textprep

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts s to Unicode NFC so that composed and decomposed forms
// of a letter are the same token.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// StripLineEndings removes carriage returns and new-lines.
func StripLineEndings(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// ReadInput returns the text to work on. An explicit text wins, then a single
// file argument ("-" reads stdin), then stdin.
func ReadInput(text string, args []string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}
	if len(args) > 1 {
		return "", fmt.Errorf("expected at most one input file, got %d", len(args))
	}
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}
	if stdin == nil {
		return "", fmt.Errorf("no input: pass --text, a file or pipe stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
