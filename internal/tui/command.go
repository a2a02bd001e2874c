package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/subcrack/internal/substitution"
)

type commandKind int

const (
	cmdAssign commandKind = iota
	cmdUnassign
	cmdReset
	cmdSuggest
	cmdQuit
)

type command struct {
	kind   commandKind
	assign map[rune]rune
	runes  []rune
}

// parseCommand reads one line typed into the command input.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return command{}, fmt.Errorf("empty command")
	case "q", "!quit":
		return command{kind: cmdQuit}, nil
	case "!reset":
		return command{kind: cmdReset}, nil
	case "!suggest":
		return command{kind: cmdSuggest}, nil
	}
	if strings.HasPrefix(line, "!") {
		return command{}, fmt.Errorf("unknown command %q", line)
	}
	if rest, ok := strings.CutPrefix(line, "-"); ok && !strings.Contains(rest, "=") {
		runes := []rune(strings.Join(strings.Fields(rest), ""))
		if len(runes) == 0 {
			return command{}, fmt.Errorf("nothing to unassign")
		}
		return command{kind: cmdUnassign, runes: runes}, nil
	}
	key, err := substitution.ParseKey(line)
	if err != nil {
		return command{}, err
	}
	return command{kind: cmdAssign, assign: key}, nil
}
