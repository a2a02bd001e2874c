package tui

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want command
	}{
		{"q", command{kind: cmdQuit}},
		{"!quit", command{kind: cmdQuit}},
		{" !reset ", command{kind: cmdReset}},
		{"!suggest", command{kind: cmdSuggest}},
		{"-xy z", command{kind: cmdUnassign, runes: []rune("xyz")}},
		{";48=the", command{kind: cmdAssign, assign: map[rune]rune{';': 't', '4': 'h', '8': 'e'}}},
		{"-=x", command{kind: cmdAssign, assign: map[rune]rune{'-': 'x'}}},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.line)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.line, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("parse %q: expected %+v, got %+v", tc.line, tc.want, got)
		}
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{"", "!nope", "-", "ab=c"} {
		if _, err := parseCommand(line); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}
