package substitution

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ParseKey reads pairs like "a=t b=h" or "xyz=the" into a mapping. Pairs are
// separated by commas or whitespace; both sides of a pair must have the same
// number of characters and are matched position by position.
func ParseKey(s string) (map[rune]rune, error) {
	key := map[rune]rune{}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, field := range fields {
		cipherSide, plainSide, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("invalid key pair %q: expected CIPHER=PLAIN", field)
		}
		from := []rune(cipherSide)
		to := []rune(plainSide)
		if len(from) == 0 || len(from) != len(to) {
			return nil, fmt.Errorf("invalid key pair %q: both sides need the same length", field)
		}
		for i, r := range from {
			key[r] = to[i]
		}
	}
	return key, nil
}

// FormatKey renders a mapping as space separated "c=p" pairs sorted by the
// cipher character.
func FormatKey(key map[rune]rune) string {
	cipherRunes := SortedRunes(key)
	parts := make([]string, 0, len(cipherRunes))
	for _, r := range cipherRunes {
		parts = append(parts, string(r)+"="+string(key[r]))
	}
	return strings.Join(parts, " ")
}

// SortedRunes returns the keys of a mapping in ascending order.
func SortedRunes(key map[rune]rune) []rune {
	out := make([]rune, 0, len(key))
	for r := range key {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge returns a new mapping with update applied over base.
func Merge(base, update map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(base)+len(update))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range update {
		out[k] = v
	}
	return out
}

// Invert turns a decryption key into an encryption key.
func Invert(key map[rune]rune) (map[rune]rune, error) {
	if conflicts := Conflicts(key); len(conflicts) > 0 {
		plain := make([]rune, 0, len(conflicts))
		for r := range conflicts {
			plain = append(plain, r)
		}
		sort.Slice(plain, func(i, j int) bool { return plain[i] < plain[j] })
		return nil, fmt.Errorf("key is not invertible: %q assigned more than once", string(plain))
	}
	out := make(map[rune]rune, len(key))
	for c, p := range key {
		out[p] = c
	}
	return out, nil
}

// Conflicts lists plain characters that more than one cipher character maps to.
func Conflicts(key map[rune]rune) map[rune][]rune {
	byPlain := map[rune][]rune{}
	for c, p := range key {
		byPlain[p] = append(byPlain[p], c)
	}
	out := map[rune][]rune{}
	for p, cs := range byPlain {
		if len(cs) < 2 {
			continue
		}
		sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
		out[p] = cs
	}
	return out
}
