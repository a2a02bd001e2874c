package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/encoder"
	"github.com/verte-zerg/subcrack/internal/keyfile"
	"github.com/verte-zerg/subcrack/internal/substitution"
	"github.com/verte-zerg/subcrack/internal/textprep"
)

var (
	applyText          string
	applyKey           string
	applyKeyFile       string
	applySession       string
	applyDefault       string
	applyStripNewlines bool
	applyEncrypt       bool
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Decode a cipher text with a key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runApplyCmd,
	}
	cmd.Flags().StringVar(&applyText, "text", "", "cipher text (instead of a file or stdin)")
	cmd.Flags().StringVar(&applyKey, "key", "", "key pairs such as \"xyz=the a=b\"")
	cmd.Flags().StringVar(&applyKeyFile, "key-file", "", "YAML key file")
	cmd.Flags().StringVar(&applySession, "session", "", "use the key (and cipher text) of a saved session")
	cmd.Flags().StringVar(&applyDefault, "default", string(substitution.DefaultUnmapped), "character for unmapped tokens")
	cmd.Flags().BoolVar(&applyStripNewlines, "strip-newlines", false, "remove line breaks before decoding")
	cmd.Flags().BoolVar(&applyEncrypt, "encrypt", false, "invert the key and encrypt plain text")
	return cmd
}

// keySource is a key together with the filler it was saved with.
type keySource struct {
	key         map[rune]rune
	defaultChar rune
	cipherText  string
}

func runApplyCmd(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "default", &applyDefault, rt.fileCfg.Substitute.Default)

	src, err := loadApplyKey(cmd.Context(), rt)
	if err != nil {
		return err
	}

	var text string
	if !hasInput(applyText, args) && src.cipherText != "" {
		text = src.cipherText
	} else if text, err = readCipherText(cmd, applyText, args); err != nil {
		return err
	}
	if applyStripNewlines {
		text = textprep.StripLineEndings(text)
	}

	defaultChar, err := parseDefaultRune(applyDefault)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("default") && src.defaultChar != 0 {
		defaultChar = src.defaultChar
	}

	key := src.key
	if applyEncrypt {
		if key, err = substitution.Invert(key); err != nil {
			return err
		}
	} else {
		warnConflicts(key)
	}

	svc, err := substitution.New(encoder.New())
	if err != nil {
		return err
	}
	out, err := svc.Apply(text, key, &substitution.Options{DefaultForUnmapped: defaultChar})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadApplyKey merges the session key, the key file and --key in that order.
func loadApplyKey(ctx context.Context, rt runtimeEnv) (keySource, error) {
	src := keySource{key: map[rune]rune{}}
	if applySession != "" {
		st, err := openStore(rt)
		if err != nil {
			return keySource{}, err
		}
		defer closeStore(st)
		session, err := st.GetSession(contextOrBackground(ctx), applySession)
		if err != nil {
			return keySource{}, err
		}
		src.key = substitution.Merge(src.key, session.Key)
		src.defaultChar = session.DefaultChar
		src.cipherText = session.CipherText
	}
	if applyKeyFile != "" {
		session, err := keyfile.Load(applyKeyFile)
		if err != nil {
			return keySource{}, fmt.Errorf("failed to load key file: %w", err)
		}
		src.key = substitution.Merge(src.key, session.Key)
		if session.DefaultChar != 0 {
			src.defaultChar = session.DefaultChar
		}
		if src.cipherText == "" {
			src.cipherText = session.CipherText
		}
	}
	if applyKey != "" {
		key, err := substitution.ParseKey(applyKey)
		if err != nil {
			return keySource{}, err
		}
		src.key = substitution.Merge(src.key, key)
	}
	if applySession == "" && applyKeyFile == "" && applyKey == "" {
		return keySource{}, errors.New("no key: pass --key, --key-file or --session")
	}
	return src, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
