// Package freq performs frequency analysis of cipher text by counting
// tokens, bigrams, trigrams and doubled tokens.
//
// See https://en.wikipedia.org/wiki/Frequency_analysis.
package freq

import (
	"unicode"
	"unicode/utf8"
)

// Options controls what contributes to an analysis.
type Options struct {
	// IgnoreWhitespace drops spaces, new-lines and other whitespace runes
	// from counting and from n-gram context.
	IgnoreWhitespace bool
	// IgnoreCase lowers every rune before it is counted.
	IgnoreCase bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{}
}

// Analysis is the result of analyzing a cipher text.
type Analysis struct {
	// TokenCount maps each token to its number of occurrences.
	TokenCount map[rune]int
	// TokensByFrequency lists tokens from most to least frequent.
	TokensByFrequency []rune
	// BigramsByFrequency lists repeated bigrams, most frequent first.
	// Bigrams that occur once are excluded.
	BigramsByFrequency []string
	// TrigramsByFrequency lists repeated trigrams, most frequent first.
	// Trigrams that occur once are excluded.
	TrigramsByFrequency []string
	// Doubles lists doubled tokens ("ee", "88"), most frequent first.
	Doubles []string

	BigramCount  map[string]int
	TrigramCount map[string]int
	DoubleCount  map[string]int
	// Total is the number of tokens counted.
	Total int
}

// Count returns the occurrences of a token or n-gram in the analysis.
func (a Analysis) Count(ngram string) int {
	switch utf8.RuneCountInString(ngram) {
	case 1:
		r, _ := utf8.DecodeRuneInString(ngram)
		return a.TokenCount[r]
	case 2:
		return a.BigramCount[ngram]
	case 3:
		return a.TrigramCount[ngram]
	default:
		return 0
	}
}

// Analyzer produces frequency analyses.
type Analyzer interface {
	Analyze(cipherText string, opts *Options) Analysis
}

// Counter performs frequency analysis in a single pass over the text.
type Counter struct{}

// NewCounter returns a Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Analyze implements Analyzer. A nil opts uses DefaultOptions.
func (c *Counter) Analyze(cipherText string, opts *Options) Analysis {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	tokens := newCounter[rune]()
	bigrams := newCounter[string]()
	trigrams := newCounter[string]()
	doubles := newCounter[string]()

	// ctx holds the previous two tokens; seen is how many of them are set.
	var ctx [2]rune
	seen := 0
	total := 0
	for _, token := range cipherText {
		if o.IgnoreWhitespace && unicode.IsSpace(token) {
			continue
		}
		if o.IgnoreCase {
			token = unicode.ToLower(token)
		}
		total++
		tokens.inc(token)
		if seen >= 1 {
			bigram := string([]rune{ctx[1], token})
			bigrams.inc(bigram)
			if ctx[1] == token {
				doubles.inc(bigram)
			}
		}
		if seen >= 2 {
			trigrams.inc(string([]rune{ctx[0], ctx[1], token}))
		}
		ctx[0], ctx[1] = ctx[1], token
		if seen < 2 {
			seen++
		}
	}

	return Analysis{
		TokenCount:          tokens.snapshot(),
		TokensByFrequency:   tokens.byFrequency(1),
		BigramsByFrequency:  bigrams.byFrequency(2),
		TrigramsByFrequency: trigrams.byFrequency(2),
		Doubles:             doubles.byFrequency(1),
		BigramCount:         bigrams.snapshot(),
		TrigramCount:        trigrams.snapshot(),
		DoubleCount:         doubles.snapshot(),
		Total:               total,
	}
}
