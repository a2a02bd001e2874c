// Package main provides the CLI entrypoint for subcrack.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/reference"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/store"
	"github.com/verte-zerg/subcrack/internal/substitution"
	"github.com/verte-zerg/subcrack/internal/textprep"
)

const (
	defaultLang = "en"
	defaultTop  = 10
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "subcrack",
		Short:         "Frequency analysis and substitution cipher solving",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// runtimeEnv holds the environment and config file shared by commands.
type runtimeEnv struct {
	env     config.Env
	fileCfg config.FileConfig
}

func loadRuntime() (runtimeEnv, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return runtimeEnv{}, err
	}
	fileCfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("failed to load config: %w", err)
	}
	return runtimeEnv{env: env, fileCfg: fileCfg}, nil
}

func openStore(rt runtimeEnv) (*store.Store, error) {
	st, err := store.Open(rt.env.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// readCipherText reads --text, a file argument or piped stdin. An interactive
// stdin is never read.
func readCipherText(cmd *cobra.Command, text string, args []string) (string, error) {
	var stdin io.Reader = cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		stdin = nil
	}
	return textprep.ReadInput(text, args, stdin)
}

func hasInput(text string, args []string) bool {
	return text != "" || len(args) > 0
}

func parseDefaultRune(value string) (rune, error) {
	if value == "" {
		return substitution.DefaultUnmapped, nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--default must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// resolveReference picks the letter ranking: a corpus file, then a word list,
// then the built-in ranking, then the default word list for lang.
func resolveReference(lang, corpus, wordList string) (reference.Reference, error) {
	if lang == "" {
		lang = defaultLang
	}
	if corpus != "" {
		data, err := os.ReadFile(corpus)
		if err != nil {
			return reference.Reference{}, fmt.Errorf("failed to read corpus: %w", err)
		}
		return reference.FromText(lang, textprep.Normalize(string(data))), nil
	}
	if wordList != "" {
		return reference.FromWordList(lang, wordList)
	}
	if ref, ok := reference.Builtin(lang); ok {
		return ref, nil
	}
	path := config.DefaultWordListPath(lang)
	ref, err := reference.FromWordList(lang, path)
	if err != nil {
		return reference.Reference{}, fmt.Errorf("no reference for language %q: %w (pass --corpus or --wordlist, or place a word list at %s)", lang, err, path)
	}
	return ref, nil
}

func warnConflicts(key map[rune]rune) {
	conflicts := substitution.Conflicts(key)
	plain := make([]rune, 0, len(conflicts))
	for p := range conflicts {
		plain = append(plain, p)
	}
	sort.Slice(plain, func(i, j int) bool { return plain[i] < plain[j] })
	for _, p := range plain {
		logErrf("warning: %s is assigned to %s\n", report.Label(string(p)), report.Label(string(conflicts[p])))
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	path := env.ConfigPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	parts := strings.Fields(env.Editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyReferenceConfig(cmd *cobra.Command, cfg config.ReferenceConfig, lang, corpus, wordList *string) {
	applyStringConfig(cmd, "lang", lang, cfg.Lang)
	applyStringConfig(cmd, "corpus", corpus, cfg.Corpus)
	applyStringConfig(cmd, "wordlist", wordList, cfg.WordList)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
