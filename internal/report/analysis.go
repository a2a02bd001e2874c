package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/freq"
)

// Section names accepted in RenderOptions.Sections.
const (
	SectionTokens   = "tokens"
	SectionBigrams  = "bigrams"
	SectionTrigrams = "trigrams"
	SectionDoubles  = "doubles"
)

// AllSections lists the sections in the order they are rendered.
var AllSections = []string{SectionTokens, SectionBigrams, SectionTrigrams, SectionDoubles}

// RenderOptions controls RenderAnalysis output.
type RenderOptions struct {
	// Top limits every section to its first entries; zero shows all.
	Top int
	// Sections selects what to render; empty renders AllSections.
	Sections []string
	// Histogram adds a bar chart below each table.
	Histogram bool
	// Width of histograms; zero uses the terminal width.
	Width int
	Color bool
}

// ParseSections splits a comma separated section list and validates it.
func ParseSections(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !isSection(name) {
			return nil, fmt.Errorf("unknown section %q (want %s)", name, strings.Join(AllSections, ", "))
		}
		out = append(out, name)
	}
	return out, nil
}

func isSection(name string) bool {
	for _, s := range AllSections {
		if s == name {
			return true
		}
	}
	return false
}

type section struct {
	name    string
	title   string
	header  string
	entries []string
	counts  func(string) int
	// positions is the number of places an entry of this section can occupy.
	positions int
}

func sectionsFor(a freq.Analysis) map[string]section {
	tokens := make([]string, len(a.TokensByFrequency))
	for i, r := range a.TokensByFrequency {
		tokens[i] = string(r)
	}
	return map[string]section{
		SectionTokens: {
			name: SectionTokens, title: "Tokens", header: "Token",
			entries: tokens, counts: a.Count, positions: a.Total,
		},
		SectionBigrams: {
			name: SectionBigrams, title: "Bigrams", header: "Bigram",
			entries: a.BigramsByFrequency, counts: a.Count, positions: a.Total - 1,
		},
		SectionTrigrams: {
			name: SectionTrigrams, title: "Trigrams", header: "Trigram",
			entries: a.TrigramsByFrequency, counts: a.Count, positions: a.Total - 2,
		},
		SectionDoubles: {
			name: SectionDoubles, title: "Doubles", header: "Double",
			entries: a.Doubles, counts: func(s string) int { return a.DoubleCount[s] }, positions: a.Total - 1,
		},
	}
}

// RenderAnalysis prints one table per selected section.
func RenderAnalysis(w io.Writer, a freq.Analysis, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "Total tokens: %s\n\n", humanize.Comma(int64(a.Total))); err != nil {
		return err
	}
	names := opts.Sections
	if len(names) == 0 {
		names = AllSections
	}
	all := sectionsFor(a)
	for _, name := range names {
		sec, ok := all[name]
		if !ok {
			return fmt.Errorf("unknown section %q", name)
		}
		if err := renderSection(w, sec, opts); err != nil {
			return err
		}
	}
	return nil
}

func renderSection(w io.Writer, sec section, opts RenderOptions) error {
	if _, err := fmt.Fprintln(w, sec.title); err != nil {
		return err
	}
	entries := TopN(sec.entries, opts.Top)
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No repeated %s.\n\n", sec.name)
		return err
	}

	headers := []string{"Rank", sec.header, "Count", "Share"}
	rows := make([][]string, 0, len(entries))
	bars := make([]Bar, 0, len(entries))
	for i, entry := range entries {
		count := sec.counts(entry)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Label(entry),
			humanize.Comma(int64(count)),
			formatShare(count, sec.positions),
		})
		bars = append(bars, Bar{Label: Label(entry), Value: count})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if opts.Histogram {
		return RenderHistogram(w, "", bars, opts.Width, opts.Color)
	}
	return nil
}

func formatShare(count, positions int) string {
	if positions <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", float64(count)/float64(positions)*100)
}
