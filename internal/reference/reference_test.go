package reference

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/subcrack/internal/freq"
)

func TestBuiltin(t *testing.T) {
	ref, ok := Builtin("EN")
	if !ok {
		t.Fatalf("expected english to be built in")
	}
	if len(ref.Letters) != 26 || ref.Letters[0] != 'e' || ref.Letters[25] != 'z' {
		t.Fatalf("unexpected english ranking: %q", string(ref.Letters))
	}
	if _, ok := Builtin("xx"); ok {
		t.Fatalf("expected unknown language to be missing")
	}
}

func TestFromText(t *testing.T) {
	ref := FromText("en", "Eek! a BEE, 3 bees.")
	if string(ref.Letters) != "ebkas" {
		t.Fatalf("unexpected ranking: %q", string(ref.Letters))
	}
}

func TestFromWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("zoo\n\nzonk\nZEBRA\nzz\n"), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	ref, err := FromWordList("en", path)
	if err != nil {
		t.Fatalf("from word list: %v", err)
	}
	if string(ref.Letters) != "zonk" {
		t.Fatalf("unexpected ranking: %q", string(ref.Letters))
	}
}

func TestFromWordListMissing(t *testing.T) {
	if _, err := FromWordList("en", filepath.Join(t.TempDir(), "none.txt")); err == nil {
		t.Fatalf("expected error for missing word list")
	}
}

func TestSuggest(t *testing.T) {
	analysis := freq.NewCounter().Analyze("xxx yy z", nil)
	got := Suggest(analysis, English(), nil)
	expected := map[rune]rune{'x': 'e', 'y': 't', 'z': 'a'}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestSuggestKeepsExisting(t *testing.T) {
	analysis := freq.NewCounter().Analyze("xxx yy z", nil)
	existing := map[rune]rune{'y': 'e'}
	got := Suggest(analysis, English(), existing)
	expected := map[rune]rune{'x': 't', 'y': 'e', 'z': 'a'}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if len(existing) != 1 {
		t.Fatalf("existing key was modified: %v", existing)
	}
}

func TestSuggestRunsOutOfLetters(t *testing.T) {
	analysis := freq.NewCounter().Analyze("aab", nil)
	got := Suggest(analysis, Reference{Letters: []rune("q")}, nil)
	if !reflect.DeepEqual(got, map[rune]rune{'a': 'q'}) {
		t.Fatalf("unexpected suggestion: %v", got)
	}
}
