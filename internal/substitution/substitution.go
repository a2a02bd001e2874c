// Package substitution applies character substitution keys to text to
// produce clear text or cipher text.
package substitution

import (
	"fmt"

	"github.com/verte-zerg/subcrack/internal/encoder"
)

// ErrInvalidArgument reports a missing required input.
var ErrInvalidArgument = encoder.ErrInvalidArgument

// DefaultUnmapped is written for characters that have no mapping.
const DefaultUnmapped = '-'

// Options controls substitution output.
type Options struct {
	// DefaultForUnmapped replaces any character absent from the mapping.
	DefaultForUnmapped rune
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{DefaultForUnmapped: DefaultUnmapped}
}

// Cipher substitutes one character for another.
type Cipher interface {
	Apply(input string, mapping map[rune]rune, opts *Options) (string, error)
}

// Service implements Cipher on top of an encoder.
type Service struct {
	encoder encoder.Encoder
}

// New returns a Service that runs substitutions through enc.
func New(enc encoder.Encoder) (*Service, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: encoder is nil", ErrInvalidArgument)
	}
	return &Service{encoder: enc}, nil
}

// Apply replaces each rune of input by its mapping, or by the default rune
// when unmapped. The mapping is only read. A nil opts uses DefaultOptions.
func (s *Service) Apply(input string, mapping map[rune]rune, opts *Options) (string, error) {
	if mapping == nil {
		return "", fmt.Errorf("%w: substitution mapping is nil", ErrInvalidArgument)
	}
	filler := DefaultUnmapped
	if opts != nil && opts.DefaultForUnmapped != 0 {
		filler = opts.DefaultForUnmapped
	}
	return s.encoder.Encode(input, func(r rune) rune {
		if out, ok := mapping[r]; ok {
			return out
		}
		return filler
	})
}
