package tui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/subcrack/internal/reference"
)

type fakePersister struct {
	saved []map[rune]rune
	err   error
}

func (f *fakePersister) ReplaceMappings(_ context.Context, _ int64, key map[rune]rune) error {
	copied := make(map[rune]rune, len(key))
	for c, p := range key {
		copied[c] = p
	}
	f.saved = append(f.saved, copied)
	return f.err
}

func newTestModel(t *testing.T, persister Persister) *Model {
	t.Helper()
	m, err := NewModel(Options{
		SessionID:        1,
		Name:             "goldbug",
		CipherText:       ";48 ;48\n8‡",
		IgnoreWhitespace: true,
		Key:              map[rune]rune{},
		Reference:        reference.English(),
		Persister:        persister,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func submit(m *Model, line string) (tea.Model, tea.Cmd) {
	m.input.SetValue(line)
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestAssignPersistsKey(t *testing.T) {
	persister := &fakePersister{}
	m := newTestModel(t, persister)

	if _, cmd := submit(m, ";48=the"); cmd != nil {
		t.Fatalf("expected no command after assigning")
	}
	want := map[rune]rune{';': 't', '4': 'h', '8': 'e'}
	if !reflect.DeepEqual(m.Key(), want) {
		t.Fatalf("expected key %v, got %v", want, m.Key())
	}
	if len(persister.saved) != 1 || !reflect.DeepEqual(persister.saved[0], want) {
		t.Fatalf("expected key to be persisted, got %v", persister.saved)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input to be cleared")
	}
	if !strings.Contains(m.renderText(0), mappedStyle.Render("t")) {
		t.Fatalf("expected decoded text to contain the mapped t")
	}
}

func TestUnassignAndReset(t *testing.T) {
	persister := &fakePersister{}
	m := newTestModel(t, persister)
	submit(m, ";48=the")

	submit(m, "-4")
	if !reflect.DeepEqual(m.Key(), map[rune]rune{';': 't', '8': 'e'}) {
		t.Fatalf("unexpected key after unassign: %v", m.Key())
	}
	submit(m, "!reset")
	if len(m.Key()) != 0 {
		t.Fatalf("expected empty key after reset, got %v", m.Key())
	}
	if len(persister.saved) != 3 || len(persister.saved[2]) != 0 {
		t.Fatalf("expected every change to be persisted, got %v", persister.saved)
	}
}

func TestSuggestFillsFromReference(t *testing.T) {
	m := newTestModel(t, nil)
	submit(m, "8=x")
	submit(m, "!suggest")
	key := m.Key()
	if key['8'] != 'x' {
		t.Fatalf("expected existing pair to be kept, got %v", key)
	}
	// Remaining tokens by frequency are ; 4 ‡ and take e t a.
	if key[';'] != 'e' || key['4'] != 't' || key['‡'] != 'a' {
		t.Fatalf("unexpected suggestion: %v", key)
	}
	if !strings.Contains(m.status, "suggested 3 pairs") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestInvalidCommandSetsError(t *testing.T) {
	persister := &fakePersister{}
	m := newTestModel(t, persister)
	submit(m, "ab=c")
	if !m.statusErr || m.status == "" {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if len(persister.saved) != 0 {
		t.Fatalf("expected nothing to be persisted")
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	m := newTestModel(t, &fakePersister{err: errors.New("disk full")})
	submit(m, "8=e")
	if !m.statusErr || !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected save failure status, got %q", m.status)
	}
}

func TestQuitCommands(t *testing.T) {
	m := newTestModel(t, nil)
	if _, cmd := submit(m, "q"); cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("expected quit command on ctrl+c")
	}
}

func TestHeaderShowsConflicts(t *testing.T) {
	m := newTestModel(t, nil)
	submit(m, "8=e 4=e")
	header := m.renderHeader()
	for _, want := range []string{"Session goldbug", "2 pairs", "8 tokens", "conflicts e"} {
		if !strings.Contains(header, want) {
			t.Fatalf("expected %q in header %q", want, header)
		}
	}
}

func TestViewWithSize(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := m.View()
	if !strings.Contains(view, "Session goldbug") || !strings.Contains(view, "Tok") {
		t.Fatalf("unexpected view: %s", view)
	}
}

func TestNewModelCopiesKey(t *testing.T) {
	initial := map[rune]rune{'8': 'e'}
	m, err := NewModel(Options{CipherText: "88", Key: initial})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	submit(m, "8=x")
	if initial['8'] != 'e' {
		t.Fatalf("expected caller key to be untouched")
	}
	if m.opts.Default != '-' {
		t.Fatalf("expected default filler, got %q", m.opts.Default)
	}
}
