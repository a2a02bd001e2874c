package freq

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAnalyzeEmpty(t *testing.T) {
	a := NewCounter().Analyze("", nil)
	if len(a.TokenCount) != 0 {
		t.Fatalf("expected no tokens, got %v", a.TokenCount)
	}
	if len(a.TokensByFrequency) != 0 || len(a.BigramsByFrequency) != 0 || len(a.TrigramsByFrequency) != 0 || len(a.Doubles) != 0 {
		t.Fatalf("expected empty orderings, got %+v", a)
	}
	if a.Total != 0 {
		t.Fatalf("expected total 0, got %d", a.Total)
	}
}

func TestAnalyzeOneToken(t *testing.T) {
	a := NewCounter().Analyze("a", nil)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 1}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.TokensByFrequency, []rune{'a'}) {
		t.Fatalf("unexpected tokens: %q", a.TokensByFrequency)
	}
	if len(a.BigramsByFrequency) != 0 || len(a.TrigramsByFrequency) != 0 {
		t.Fatalf("expected no n-grams, got %v %v", a.BigramsByFrequency, a.TrigramsByFrequency)
	}
}

func TestAnalyzeThreeTokens(t *testing.T) {
	a := NewCounter().Analyze("abc", nil)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 1, 'b': 1, 'c': 1}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.TokensByFrequency, []rune{'a', 'b', 'c'}) {
		t.Fatalf("unexpected tokens: %q", a.TokensByFrequency)
	}
	if len(a.BigramsByFrequency) != 0 || len(a.TrigramsByFrequency) != 0 {
		t.Fatalf("expected no repeated n-grams")
	}
	if a.BigramCount["ab"] != 1 || a.TrigramCount["abc"] != 1 {
		t.Fatalf("unexpected raw counts: %v %v", a.BigramCount, a.TrigramCount)
	}
}

func TestAnalyzeRepeatToken(t *testing.T) {
	a := NewCounter().Analyze("aa", nil)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 2}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if len(a.BigramsByFrequency) != 0 {
		t.Fatalf("expected single bigram to be filtered, got %v", a.BigramsByFrequency)
	}
	if !reflect.DeepEqual(a.Doubles, []string{"aa"}) {
		t.Fatalf("expected doubles [aa], got %v", a.Doubles)
	}
}

func TestAnalyzeRepeatTokens(t *testing.T) {
	a := NewCounter().Analyze("abcabc", nil)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 2, 'b': 2, 'c': 2}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.TokensByFrequency, []rune{'a', 'b', 'c'}) {
		t.Fatalf("unexpected tokens: %q", a.TokensByFrequency)
	}
	if !reflect.DeepEqual(a.BigramsByFrequency, []string{"ab", "bc"}) {
		t.Fatalf("unexpected bigrams: %v", a.BigramsByFrequency)
	}
	if !reflect.DeepEqual(a.TrigramsByFrequency, []string{"abc"}) {
		t.Fatalf("unexpected trigrams: %v", a.TrigramsByFrequency)
	}
	if a.Count("ca") != 1 {
		t.Fatalf("expected ca counted once, got %d", a.Count("ca"))
	}
}

func TestAnalyzeSortTokensByFrequency(t *testing.T) {
	a := NewCounter().Analyze("abccac", nil)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 2, 'b': 1, 'c': 3}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.TokensByFrequency, []rune{'c', 'a', 'b'}) {
		t.Fatalf("unexpected tokens: %q", a.TokensByFrequency)
	}
	if len(a.BigramsByFrequency) != 0 || len(a.TrigramsByFrequency) != 0 {
		t.Fatalf("expected no repeated n-grams")
	}
	if !reflect.DeepEqual(a.Doubles, []string{"cc"}) {
		t.Fatalf("unexpected doubles: %v", a.Doubles)
	}
}

func TestAnalyzeIgnoreWhitespace(t *testing.T) {
	opts := Options{IgnoreWhitespace: true}
	a := NewCounter().Analyze("a b c c a c\n", &opts)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 2, 'b': 1, 'c': 3}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.TokensByFrequency, []rune{'c', 'a', 'b'}) {
		t.Fatalf("unexpected tokens: %q", a.TokensByFrequency)
	}
	if a.Total != 6 {
		t.Fatalf("expected total 6, got %d", a.Total)
	}
	// Adjacency is computed over the filtered stream.
	if !reflect.DeepEqual(a.Doubles, []string{"cc"}) {
		t.Fatalf("unexpected doubles: %v", a.Doubles)
	}
}

func TestAnalyzeWhitespaceCountedByDefault(t *testing.T) {
	a := NewCounter().Analyze("a a", nil)
	if a.TokenCount[' '] != 1 {
		t.Fatalf("expected space to be counted, got %v", a.TokenCount)
	}
	if len(a.Doubles) != 0 {
		t.Fatalf("expected no doubles across a space, got %v", a.Doubles)
	}
}

func TestAnalyzeIgnoreCase(t *testing.T) {
	opts := Options{IgnoreCase: true}
	a := NewCounter().Analyze("AbaB", &opts)
	if !reflect.DeepEqual(a.TokenCount, map[rune]int{'a': 2, 'b': 2}) {
		t.Fatalf("unexpected token count: %v", a.TokenCount)
	}
	if !reflect.DeepEqual(a.BigramsByFrequency, []string{"ab"}) {
		t.Fatalf("unexpected bigrams: %v", a.BigramsByFrequency)
	}
}

func TestAnalyzeSortBigramsByFrequency(t *testing.T) {
	a := NewCounter().Analyze("abc42abx42aby4242", nil)
	if !reflect.DeepEqual(a.BigramsByFrequency, []string{"42", "ab", "2a"}) {
		t.Fatalf("unexpected bigrams: %v", a.BigramsByFrequency)
	}
}

func TestAnalyzeSortBigramsByFrequencyIgnoreWhitespace(t *testing.T) {
	opts := Options{IgnoreWhitespace: true}
	a := NewCounter().Analyze(" abc  42  a b x 4 \n\n\n 2  a b y 4 2 4 2  ", &opts)
	if !reflect.DeepEqual(a.BigramsByFrequency, []string{"42", "ab", "2a"}) {
		t.Fatalf("unexpected bigrams: %v", a.BigramsByFrequency)
	}
}

func TestAnalyzeNoBoundaryArtifacts(t *testing.T) {
	// U+0000 is a common sentinel choice; a leading NUL must count as a
	// real token and never pair with an unset context.
	a := NewCounter().Analyze("\x00\x00a", nil)
	if a.TokenCount[0] != 2 {
		t.Fatalf("expected two NUL tokens, got %v", a.TokenCount)
	}
	if a.DoubleCount["\x00\x00"] != 1 {
		t.Fatalf("expected one NUL double, got %v", a.DoubleCount)
	}
	total := 0
	for _, n := range a.BigramCount {
		total += n
	}
	if total != 2 {
		t.Fatalf("expected 2 bigrams for 3 tokens, got %d", total)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	text := "Over many a quaint and curious volume of forgotten lore"
	opts := Options{IgnoreWhitespace: true}
	a := NewCounter().Analyze(text, &opts)
	if len(a.TokensByFrequency) != len(a.TokenCount) {
		t.Fatalf("token ordering and counts differ: %d vs %d", len(a.TokensByFrequency), len(a.TokenCount))
	}
	sum := 0
	for _, r := range a.TokensByFrequency {
		n, ok := a.TokenCount[r]
		if !ok {
			t.Fatalf("ordered token %q missing from counts", r)
		}
		sum += n
	}
	if sum != a.Total {
		t.Fatalf("expected counts to sum to %d, got %d", a.Total, sum)
	}
	for _, b := range a.BigramsByFrequency {
		if len([]rune(b)) != 2 || a.BigramCount[b] <= 1 {
			t.Fatalf("invalid bigram entry %q (%d)", b, a.BigramCount[b])
		}
	}
	for _, tri := range a.TrigramsByFrequency {
		if len([]rune(tri)) != 3 || a.TrigramCount[tri] <= 1 {
			t.Fatalf("invalid trigram entry %q (%d)", tri, a.TrigramCount[tri])
		}
	}
	for _, d := range a.Doubles {
		rs := []rune(d)
		if len(rs) != 2 || rs[0] != rs[1] {
			t.Fatalf("invalid double %q", d)
		}
	}
}

func TestAnalyzeTheRaven(t *testing.T) {
	const cipherText = `
Once upon a midnight dreary, while I pondered, weak and weary,
Over many a quaint and curious volume of forgotten lore—
    While I nodded, nearly napping, suddenly there came a tapping,
As of some one gently rapping, rapping at my chamber door.
’Tis some visitor, I muttered, tapping at my chamber door—
    Only this and nothing more.`
	opts := Options{IgnoreWhitespace: true}
	a := NewCounter().Analyze(cipherText, &opts)

	if got := a.TokensByFrequency[:5]; !reflect.DeepEqual(got, []rune{'e', 'n', 'a', 'o', 'r'}) {
		t.Fatalf("unexpected top tokens: %q", got)
	}
	if got := a.BigramsByFrequency[:5]; !reflect.DeepEqual(got, []string{"in", "re", "er", "or", "ng"}) {
		t.Fatalf("unexpected top bigrams: %v", got)
	}
	if got := a.TrigramsByFrequency[:5]; !reflect.DeepEqual(got, []string{"ing", "app", "ppi", "pin", "ear"}) {
		t.Fatalf("unexpected top trigrams: %v", got)
	}
	if got := a.Doubles[:3]; !reflect.DeepEqual(got, []string{"pp", "tt", "dd"}) {
		t.Fatalf("unexpected doubles: %v", got)
	}
}

func TestAnalyzeTheGoldBug(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "goldbug.txt"))
	if err != nil {
		t.Fatalf("read test data: %v", err)
	}
	// "You observe there are no divisions between the words", so the
	// line breaks carry no meaning.
	opts := Options{IgnoreWhitespace: true}
	a := NewCounter().Analyze(string(data), &opts)

	if a.TokenCount['8'] != 33 {
		t.Fatalf("expected 33 of '8', got %d", a.TokenCount['8'])
	}
	if a.TokenCount[';'] != 26 {
		t.Fatalf("expected 26 of ';', got %d", a.TokenCount[';'])
	}
	if a.TokenCount['.'] != 1 {
		t.Fatalf("expected 1 of '.', got %d", a.TokenCount['.'])
	}
	if got := a.TokensByFrequency[:5]; !reflect.DeepEqual(got, []rune{'8', ';', '4', '‡', ')'}) {
		t.Fatalf("unexpected top tokens: %q", got)
	}
	if got := a.BigramsByFrequency[:3]; !reflect.DeepEqual(got, []string{";4", "48", "6*"}) {
		t.Fatalf("unexpected top bigrams: %v", got)
	}
	if a.TrigramsByFrequency[0] != ";48" {
		t.Fatalf("expected ;48 first, got %v", a.TrigramsByFrequency[:3])
	}
	found := false
	for _, tri := range a.TrigramsByFrequency {
		if tri == "5*†" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected 5*† among repeated trigrams")
	}
	if !reflect.DeepEqual(a.Doubles, []string{"88", "‡‡", "))"}) {
		t.Fatalf("unexpected doubles: %v", a.Doubles)
	}
}
