package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/textprep"
)

var (
	analyzeText             string
	analyzeIgnoreWhitespace bool
	analyzeIgnoreCase       bool
	analyzeNFC              bool
	analyzeTop              int
	analyzeSections         string
	analyzeHistogram        bool
	analyzeJSON             bool
	analyzeCompare          bool
	analyzeLang             string
	analyzeCorpus           string
	analyzeWordList         string
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Count tokens, bigrams, trigrams and doubles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeText, "text", "", "cipher text (instead of a file or stdin)")
	cmd.Flags().BoolVar(&analyzeIgnoreWhitespace, "ignore-whitespace", false, "skip whitespace")
	cmd.Flags().BoolVar(&analyzeIgnoreCase, "ignore-case", false, "count upper and lower case as one token")
	cmd.Flags().BoolVar(&analyzeNFC, "nfc", false, "normalize to Unicode NFC first")
	cmd.Flags().IntVar(&analyzeTop, "top", defaultTop, "entries per section (0 for all)")
	cmd.Flags().StringVar(&analyzeSections, "section", "", "comma separated sections: tokens,bigrams,trigrams,doubles")
	cmd.Flags().BoolVar(&analyzeHistogram, "histogram", false, "draw histograms")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&analyzeCompare, "compare", false, "compare token ranks with a reference ranking")
	cmd.Flags().StringVar(&analyzeLang, "lang", defaultLang, "reference language for --compare")
	cmd.Flags().StringVar(&analyzeCorpus, "corpus", "", "plain text file to rank reference letters")
	cmd.Flags().StringVar(&analyzeWordList, "wordlist", "", "word list file to rank reference letters")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	fileCfg := rt.fileCfg
	applyBoolConfig(cmd, "ignore-whitespace", &analyzeIgnoreWhitespace, fileCfg.Analyze.IgnoreWhitespace)
	applyBoolConfig(cmd, "ignore-case", &analyzeIgnoreCase, fileCfg.Analyze.IgnoreCase)
	applyBoolConfig(cmd, "nfc", &analyzeNFC, fileCfg.Analyze.NFC)
	applyIntConfig(cmd, "top", &analyzeTop, fileCfg.Analyze.Top)
	applyReferenceConfig(cmd, fileCfg.Reference, &analyzeLang, &analyzeCorpus, &analyzeWordList)

	sections, err := report.ParseSections(analyzeSections)
	if err != nil {
		return err
	}
	cfg := model.AnalyzeConfig{
		IgnoreWhitespace: analyzeIgnoreWhitespace,
		IgnoreCase:       analyzeIgnoreCase,
		NFC:              analyzeNFC,
		Top:              analyzeTop,
		Sections:         sections,
		Histogram:        analyzeHistogram,
		JSON:             analyzeJSON,
		Compare:          analyzeCompare,
	}
	if err := validateAnalyzeConfig(cfg); err != nil {
		return err
	}

	text, err := readCipherText(cmd, analyzeText, args)
	if err != nil {
		return err
	}
	return analyze(cmd, rt, cfg, text)
}

func validateAnalyzeConfig(cfg model.AnalyzeConfig) error {
	if cfg.Top < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	if cfg.JSON && (cfg.Histogram || cfg.Compare) {
		return fmt.Errorf("--json cannot be combined with --histogram or --compare")
	}
	return nil
}

func analyze(cmd *cobra.Command, rt runtimeEnv, cfg model.AnalyzeConfig, text string) error {
	if cfg.NFC {
		text = textprep.Normalize(text)
	}
	analysis := freq.NewCounter().Analyze(text, &freq.Options{
		IgnoreWhitespace: cfg.IgnoreWhitespace,
		IgnoreCase:       cfg.IgnoreCase,
	})

	out := cmd.OutOrStdout()
	if cfg.JSON {
		return report.ToJSON(out, analysis, cfg.Top)
	}
	opts := report.RenderOptions{
		Top:       cfg.Top,
		Sections:  cfg.Sections,
		Histogram: cfg.Histogram,
		Color:     !rt.env.NoColor && report.ShouldUseColor(out, false),
	}
	if err := report.RenderAnalysis(out, analysis, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !cfg.Compare {
		return nil
	}
	ref, err := resolveReference(analyzeLang, analyzeCorpus, analyzeWordList)
	if err != nil {
		return err
	}
	if err := report.RenderComparison(out, analysis, ref, cfg.Top); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
