// Package reference holds letter frequency rankings of natural languages and
// derives starting keys from them.
package reference

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/wordlist"
)

// Reference is a ranking of plain letters, most frequent first.
type Reference struct {
	Lang    string
	Letters []rune
}

const englishLetters = "etaoinshrdlcumwfgypbvkjxqz"

// English returns the classic English letter ranking.
func English() Reference {
	return Reference{Lang: "en", Letters: []rune(englishLetters)}
}

// Builtin returns the built-in ranking for a language.
func Builtin(lang string) (Reference, bool) {
	switch strings.ToLower(lang) {
	case "en", "":
		return English(), true
	default:
		return Reference{}, false
	}
}

// FromText ranks the letters of a plain text corpus.
func FromText(lang, text string) Reference {
	analysis := freq.NewCounter().Analyze(text, &freq.Options{IgnoreWhitespace: true, IgnoreCase: true})
	letters := make([]rune, 0, len(analysis.TokensByFrequency))
	for _, r := range analysis.TokensByFrequency {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	return Reference{Lang: lang, Letters: letters}
}

// FromWordList ranks the letters of a word list file. Words are filtered for
// the language first.
func FromWordList(lang, path string) (Reference, error) {
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return Reference{}, fmt.Errorf("load word list: %w", err)
	}
	kept := wordlist.Filter(words, wordlist.FilterForLang(lang))
	if len(kept) == 0 {
		return Reference{}, fmt.Errorf("word list %s has no words for %q", path, lang)
	}
	return FromText(lang, strings.Join(kept, " ")), nil
}

// Suggest extends existing with guesses that pair cipher tokens and
// reference letters by rank. Cipher tokens already mapped and plain letters
// already used are skipped. existing is not modified.
func Suggest(a freq.Analysis, ref Reference, existing map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(existing)+len(ref.Letters))
	used := make(map[rune]bool, len(existing))
	for c, p := range existing {
		out[c] = p
		used[p] = true
	}

	next := 0
	for _, c := range a.TokensByFrequency {
		if unicode.IsSpace(c) {
			continue
		}
		if _, ok := out[c]; ok {
			continue
		}
		for next < len(ref.Letters) && used[ref.Letters[next]] {
			next++
		}
		if next >= len(ref.Letters) {
			break
		}
		out[c] = ref.Letters[next]
		used[ref.Letters[next]] = true
		next++
	}
	return out
}
