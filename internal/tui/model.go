// Package tui provides the Bubble Tea solver interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/encoder"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/reference"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/substitution"
)

const (
	tokenPanelWidth = 26
	tokenRows       = 26
	chromeHeight    = 4
)

// Persister stores the key of a session after every change.
type Persister interface {
	ReplaceMappings(ctx context.Context, sessionID int64, key map[rune]rune) error
}

// Options configures a solver model.
type Options struct {
	SessionID        int64
	Name             string
	CipherText       string
	IgnoreWhitespace bool
	Default          rune
	Key              map[rune]rune
	Reference        reference.Reference
	// Persister may be nil for throw-away solves.
	Persister Persister
}

// Model implements the Bubble Tea solver UI.
type Model struct {
	opts     Options
	svc      *substitution.Service
	analysis freq.Analysis
	key      map[rune]rune
	lines    [][]rune

	input    textinput.Model
	viewport viewport.Model
	tokens   table.Model

	status    string
	statusErr bool

	width  int
	height int
}

var (
	cipherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	mappedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	unmappedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a solver model.
func NewModel(opts Options) (*Model, error) {
	svc, err := substitution.New(encoder.New())
	if err != nil {
		return nil, err
	}
	if opts.Default == 0 {
		opts.Default = substitution.DefaultUnmapped
	}
	if len(opts.Reference.Letters) == 0 {
		opts.Reference = reference.English()
	}
	key := make(map[rune]rune, len(opts.Key))
	for c, p := range opts.Key {
		key[c] = p
	}

	m := &Model{
		opts:     opts,
		svc:      svc,
		key:      key,
		analysis: freq.NewCounter().Analyze(opts.CipherText, &freq.Options{IgnoreWhitespace: opts.IgnoreWhitespace}),
		viewport: viewport.New(0, 0),
	}
	for _, line := range strings.Split(strings.TrimRight(opts.CipherText, "\n"), "\n") {
		m.lines = append(m.lines, []rune(line))
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "xy=th  -x  !suggest  !reset  q"
	input.CharLimit = 0
	input.Focus()
	m.input = input

	m.tokens = table.New(
		table.WithColumns([]table.Column{
			{Title: "Tok", Width: 7},
			{Title: "Count", Width: 7},
			{Title: "Plain", Width: 6},
		}),
		table.WithHeight(tokenRows),
		table.WithStyles(tokenTableStyles()),
	)
	m.refresh()
	return m, nil
}

// Key returns a copy of the current key.
func (m *Model) Key() map[rune]rune {
	return substitution.Merge(nil, m.key)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			if m.execute(line) {
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyEsc:
			m.input.SetValue("")
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// execute runs one command line and reports whether the solver should quit.
func (m *Model) execute(line string) bool {
	cmd, err := parseCommand(line)
	if err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	switch cmd.kind {
	case cmdQuit:
		return true
	case cmdReset:
		m.key = map[rune]rune{}
		m.setStatus("key cleared", false)
	case cmdSuggest:
		before := len(m.key)
		m.key = reference.Suggest(m.analysis, m.opts.Reference, m.key)
		m.setStatus(fmt.Sprintf("suggested %d pairs", len(m.key)-before), false)
	case cmdUnassign:
		for _, r := range cmd.runes {
			delete(m.key, r)
		}
		m.setStatus(fmt.Sprintf("unassigned %s", report.Label(string(cmd.runes))), false)
	case cmdAssign:
		m.key = substitution.Merge(m.key, cmd.assign)
		m.setStatus(substitution.FormatKey(cmd.assign), false)
	}
	m.persist()
	m.refresh()
	return false
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) persist() {
	if m.opts.Persister == nil {
		return
	}
	if err := m.opts.Persister.ReplaceMappings(context.Background(), m.opts.SessionID, m.key); err != nil {
		logErrf("failed to save key: %v\n", err)
		m.setStatus(fmt.Sprintf("save failed: %v", err), true)
	}
}

// refresh rebuilds the decoded text and the token table from the key.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderText(m.viewport.Width))

	conflicts := substitution.Conflicts(m.key)
	rows := make([]table.Row, 0, tokenRows)
	for _, r := range m.analysis.TokensByFrequency {
		if len(rows) == tokenRows {
			break
		}
		plain := ""
		if p, ok := m.key[r]; ok {
			plain = string(p)
			if _, clash := conflicts[p]; clash {
				plain += " !"
			}
		}
		rows = append(rows, table.Row{
			report.Label(string(r)),
			humanize.Comma(int64(m.analysis.TokenCount[r])),
			plain,
		})
	}
	m.tokens.SetRows(rows)
}

func (m *Model) renderText(width int) string {
	var out []string
	for _, line := range m.lines {
		plain, err := m.svc.Apply(string(line), m.key, &substitution.Options{DefaultForUnmapped: m.opts.Default})
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		cells := buildCells(line, []rune(plain), m.key, m.opts.IgnoreWhitespace)
		for _, wrapped := range wrapCells(cells, width) {
			cipherRow, plainRow := renderCells(wrapped)
			out = append(out, cipherRow, plainRow, "")
		}
	}
	return strings.Join(out, "\n")
}

func (m *Model) updateLayout() {
	textWidth := m.width - tokenPanelWidth - 2
	if textWidth < 10 {
		textWidth = m.width
	}
	textHeight := m.height - chromeHeight
	if textHeight < 1 {
		textHeight = 1
	}
	m.viewport.Width = textWidth
	m.viewport.Height = textHeight
	m.input.Width = m.width - 4
	m.tokens.SetHeight(textHeight)
	m.refresh()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{header, m.renderText(0), m.input.View(), footer}, "\n")
	}
	body := m.viewport.View()
	if m.viewport.Width < m.width {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.tokens.View())
	}
	return strings.Join([]string{header, body, m.input.View(), footer}, "\n")
}

func (m *Model) renderHeader() string {
	name := m.opts.Name
	if name == "" {
		name = "unsaved"
	}
	segments := []string{
		fmt.Sprintf("Session %s", name),
		fmt.Sprintf("%d pairs", len(m.key)),
		fmt.Sprintf("%s tokens", humanize.Comma(int64(m.analysis.Total))),
	}
	if conflicts := substitution.Conflicts(m.key); len(conflicts) > 0 {
		plain := make([]rune, 0, len(conflicts))
		for p := range conflicts {
			plain = append(plain, p)
		}
		sort.Slice(plain, func(i, j int) bool { return plain[i] < plain[j] })
		segments = append(segments, errorStyle.Render(fmt.Sprintf("conflicts %s", string(plain))))
	}
	return headerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderFooter() string {
	if m.status == "" {
		return footerStyle.Render("enter to apply · pgup/pgdn to scroll · ctrl+c to quit")
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return footerStyle.Render(m.status)
}

func tokenTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()
	return styles
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
