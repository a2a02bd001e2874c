package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/encoder"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/reference"
	"github.com/verte-zerg/subcrack/internal/substitution"
)

var (
	suggestText             string
	suggestKey              string
	suggestLang             string
	suggestCorpus           string
	suggestWordList         string
	suggestIgnoreWhitespace bool
	suggestDefault          string
)

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Suggest a starting key from letter frequencies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSuggestCmd,
	}
	cmd.Flags().StringVar(&suggestText, "text", "", "cipher text (instead of a file or stdin)")
	cmd.Flags().StringVar(&suggestKey, "key", "", "pairs to keep, such as \"8=e ;=t\"")
	cmd.Flags().StringVar(&suggestLang, "lang", defaultLang, "reference language")
	cmd.Flags().StringVar(&suggestCorpus, "corpus", "", "plain text file to rank reference letters")
	cmd.Flags().StringVar(&suggestWordList, "wordlist", "", "word list file to rank reference letters")
	cmd.Flags().BoolVar(&suggestIgnoreWhitespace, "ignore-whitespace", true, "skip whitespace in the cipher text")
	cmd.Flags().StringVar(&suggestDefault, "default", string(substitution.DefaultUnmapped), "character for unmapped tokens")
	return cmd
}

func runSuggestCmd(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyReferenceConfig(cmd, rt.fileCfg.Reference, &suggestLang, &suggestCorpus, &suggestWordList)
	applyBoolConfig(cmd, "ignore-whitespace", &suggestIgnoreWhitespace, rt.fileCfg.Analyze.IgnoreWhitespace)
	applyStringConfig(cmd, "default", &suggestDefault, rt.fileCfg.Substitute.Default)

	existing, err := substitution.ParseKey(suggestKey)
	if err != nil {
		return err
	}
	defaultChar, err := parseDefaultRune(suggestDefault)
	if err != nil {
		return err
	}
	ref, err := resolveReference(suggestLang, suggestCorpus, suggestWordList)
	if err != nil {
		return err
	}
	text, err := readCipherText(cmd, suggestText, args)
	if err != nil {
		return err
	}

	analysis := freq.NewCounter().Analyze(text, &freq.Options{IgnoreWhitespace: suggestIgnoreWhitespace})
	key := reference.Suggest(analysis, ref, existing)
	warnConflicts(key)

	svc, err := substitution.New(encoder.New())
	if err != nil {
		return err
	}
	decoded, err := svc.Apply(text, key, &substitution.Options{DefaultForUnmapped: defaultChar})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Key: %s\n\n%s\n", substitution.FormatKey(key), decoded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
