package encoder

import (
	"errors"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestEncodeEmpty(t *testing.T) {
	out, err := New().Encode("", func(r rune) rune { return r })
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestEncodeIdentity(t *testing.T) {
	input := "53‡‡†305))6*;4826 Once upon a midnight dreary"
	out, err := New().Encode(input, func(r rune) rune { return r })
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != input {
		t.Fatalf("expected %q, got %q", input, out)
	}
}

func TestEncodeToUpper(t *testing.T) {
	out, err := New().Encode("a B c D e", unicode.ToUpper)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != "A B C D E" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEncodeKeepsRuneCount(t *testing.T) {
	input := "ab€𝄞c"
	out, err := New().Encode(input, func(rune) rune { return 'x' })
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if utf8.RuneCountInString(out) != utf8.RuneCountInString(input) {
		t.Fatalf("expected %d runes, got %d", utf8.RuneCountInString(input), utf8.RuneCountInString(out))
	}
	if out != "xxxxx" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEncodeNilTransform(t *testing.T) {
	_, err := New().Encode("abc", nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
