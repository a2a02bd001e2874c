// Package encoder runs per-character transforms over text.
package encoder

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidArgument reports a missing required input.
var ErrInvalidArgument = errors.New("invalid argument")

// Encoder applies a transform to every character of a text.
type Encoder interface {
	// Encode returns the text produced by applying transform to each rune of input.
	Encode(input string, transform func(rune) rune) (string, error)
}

// CharacterEncoder maps one output rune per input rune, preserving order.
// It can be used for encoding or decoding.
type CharacterEncoder struct{}

// New returns a CharacterEncoder.
func New() *CharacterEncoder {
	return &CharacterEncoder{}
}

// Encode implements Encoder.
func (e *CharacterEncoder) Encode(input string, transform func(rune) rune) (string, error) {
	if transform == nil {
		return "", fmt.Errorf("%w: transform is nil", ErrInvalidArgument)
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		out := transform(r)
		if !utf8.ValidRune(out) {
			out = utf8.RuneError
		}
		b.WriteRune(out)
	}
	return b.String(), nil
}
