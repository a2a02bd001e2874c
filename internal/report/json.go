package report

import (
	"encoding/json"
	"io"

	"github.com/verte-zerg/subcrack/internal/freq"
)

// Entry is a ranked token or n-gram in JSON output.
type Entry struct {
	Rank  int    `json:"rank"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AnalysisJSON is the JSON form of an analysis.
type AnalysisJSON struct {
	Total    int     `json:"total"`
	Tokens   []Entry `json:"tokens"`
	Bigrams  []Entry `json:"bigrams"`
	Trigrams []Entry `json:"trigrams"`
	Doubles  []Entry `json:"doubles"`
}

// NewAnalysisJSON converts an analysis, keeping the first top entries of
// each list (all when top is zero).
func NewAnalysisJSON(a freq.Analysis, top int) AnalysisJSON {
	tokens := make([]string, len(a.TokensByFrequency))
	for i, r := range a.TokensByFrequency {
		tokens[i] = string(r)
	}
	return AnalysisJSON{
		Total:    a.Total,
		Tokens:   entries(TopN(tokens, top), a.Count),
		Bigrams:  entries(TopN(a.BigramsByFrequency, top), a.Count),
		Trigrams: entries(TopN(a.TrigramsByFrequency, top), a.Count),
		Doubles:  entries(TopN(a.Doubles, top), func(s string) int { return a.DoubleCount[s] }),
	}
}

func entries(values []string, count func(string) int) []Entry {
	out := make([]Entry, 0, len(values))
	for i, v := range values {
		out = append(out, Entry{Rank: i + 1, Value: v, Count: count(v)})
	}
	return out
}

// ToJSON writes the analysis as indented JSON.
func ToJSON(w io.Writer, a freq.Analysis, top int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewAnalysisJSON(a, top))
}
