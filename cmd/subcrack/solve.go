package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/store"
	"github.com/verte-zerg/subcrack/internal/substitution"
	"github.com/verte-zerg/subcrack/internal/tui"
)

var (
	solveText             string
	solveSession          string
	solveIgnoreWhitespace bool
	solveDefault          string
	solveLang             string
	solveCorpus           string
	solveWordList         string
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Solve a cipher text interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolveCmd,
	}
	cmd.Flags().StringVar(&solveText, "text", "", "cipher text (instead of a file or stdin)")
	cmd.Flags().StringVar(&solveSession, "session", "", "create or resume a named session")
	cmd.Flags().BoolVar(&solveIgnoreWhitespace, "ignore-whitespace", true, "keep whitespace as is and skip it in counts")
	cmd.Flags().StringVar(&solveDefault, "default", string(substitution.DefaultUnmapped), "character for unmapped tokens")
	cmd.Flags().StringVar(&solveLang, "lang", defaultLang, "reference language for !suggest")
	cmd.Flags().StringVar(&solveCorpus, "corpus", "", "plain text file to rank reference letters")
	cmd.Flags().StringVar(&solveWordList, "wordlist", "", "word list file to rank reference letters")
	return cmd
}

func runSolveCmd(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "ignore-whitespace", &solveIgnoreWhitespace, rt.fileCfg.Analyze.IgnoreWhitespace)
	applyStringConfig(cmd, "default", &solveDefault, rt.fileCfg.Substitute.Default)
	applyReferenceConfig(cmd, rt.fileCfg.Reference, &solveLang, &solveCorpus, &solveWordList)

	defaultChar, err := parseDefaultRune(solveDefault)
	if err != nil {
		return err
	}
	ref, err := resolveReference(solveLang, solveCorpus, solveWordList)
	if err != nil {
		return err
	}

	opts := tui.Options{
		IgnoreWhitespace: solveIgnoreWhitespace,
		Default:          defaultChar,
		Reference:        ref,
	}
	if solveSession == "" {
		text, err := readCipherText(cmd, solveText, args)
		if err != nil {
			return err
		}
		opts.CipherText = text
		return runSolver(cmd, opts)
	}

	st, err := openStore(rt)
	if err != nil {
		return err
	}
	defer closeStore(st)
	session, err := loadOrCreateSession(cmd, st, opts, args)
	if err != nil {
		return err
	}
	opts.SessionID = session.ID
	opts.Name = session.Name
	opts.CipherText = session.CipherText
	opts.IgnoreWhitespace = session.IgnoreWhitespace
	opts.Key = session.Key
	if session.DefaultChar != 0 && !cmd.Flags().Changed("default") {
		opts.Default = session.DefaultChar
	}
	opts.Persister = st
	return runSolver(cmd, opts)
}

func loadOrCreateSession(cmd *cobra.Command, st *store.Store, opts tui.Options, args []string) (model.Session, error) {
	ctx := contextOrBackground(cmd.Context())
	session, err := st.GetSession(ctx, solveSession)
	if err == nil {
		if hasInput(solveText, args) {
			logErrf("resuming session %s; ignoring the given cipher text\n", solveSession)
		}
		return session, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Session{}, err
	}

	text, err := readCipherText(cmd, solveText, args)
	if err != nil {
		return model.Session{}, err
	}
	if _, err := st.CreateSession(ctx, model.Session{
		Name:             solveSession,
		CipherText:       text,
		IgnoreWhitespace: opts.IgnoreWhitespace,
		DefaultChar:      opts.Default,
		Key:              map[rune]rune{},
	}); err != nil {
		return model.Session{}, err
	}
	logErrf("created session %s\n", solveSession)
	return st.GetSession(ctx, solveSession)
}

func runSolver(cmd *cobra.Command, opts tui.Options) error {
	m, err := tui.NewModel(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(contextOrBackground(cmd.Context())))
	if _, err := program.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Key: %s\n", substitution.FormatKey(m.Key())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
