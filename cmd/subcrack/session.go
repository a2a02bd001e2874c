package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/encoder"
	"github.com/verte-zerg/subcrack/internal/keyfile"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/store"
	"github.com/verte-zerg/subcrack/internal/substitution"
)

var (
	sessionExportOut   string
	sessionImportName  string
	sessionImportForce bool
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved solving sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Show a session's key and decoding",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionDeleteCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME PAIRS...",
		Short: "Assign key pairs such as \"xyz=the\"",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSessionSetCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unset NAME RUNES",
		Short: "Remove the pairs of the given cipher characters",
		Args:  cobra.ExactArgs(2),
		RunE:  runSessionUnsetCmd,
	})

	exportCmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write a session as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionExportCmd,
	}
	exportCmd.Flags().StringVarP(&sessionExportOut, "out", "o", "", "output file (default stdout)")
	cmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a session from a YAML key file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionImportCmd,
	}
	importCmd.Flags().StringVar(&sessionImportName, "name", "", "session name (default: name in the file)")
	importCmd.Flags().BoolVar(&sessionImportForce, "force", false, "replace an existing session")
	cmd.AddCommand(importCmd)

	return cmd
}

func withStore(fn func(st *store.Store) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, err := openStore(rt)
	if err != nil {
		return err
	}
	defer closeStore(st)
	return fn(st)
}

func runSessionListCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		sessions, err := st.ListSessions(contextOrBackground(cmd.Context()))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			_, err := fmt.Fprintln(out, "No sessions found.")
			return err
		}
		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{
				s.Name,
				fmt.Sprintf("%d", s.Pairs),
				humanize.Comma(int64(s.Length)),
				humanize.Time(s.UpdatedAt),
			})
		}
		return report.RenderTable(out, []string{"Name", "Pairs", "Length", "Updated"}, rows, map[int]bool{1: true, 2: true})
	})
}

func runSessionShowCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		session, err := st.GetSession(contextOrBackground(cmd.Context()), args[0])
		if err != nil {
			return err
		}
		svc, err := substitution.New(encoder.New())
		if err != nil {
			return err
		}
		decoded, err := svc.Apply(session.CipherText, session.Key, &substitution.Options{DefaultForUnmapped: session.DefaultChar})
		if err != nil {
			return err
		}
		warnConflicts(session.Key)
		out := cmd.OutOrStdout()
		_, err = fmt.Fprintf(out, "Session: %s\nPairs: %d\nUpdated: %s\nKey: %s\n\n%s\n",
			session.Name,
			len(session.Key),
			humanize.Time(session.UpdatedAt),
			substitution.FormatKey(session.Key),
			decoded)
		return err
	})
}

func runSessionDeleteCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		if err := st.DeleteSession(contextOrBackground(cmd.Context()), args[0]); err != nil {
			return err
		}
		logErrln("deleted session", args[0])
		return nil
	})
}

func runSessionSetCmd(cmd *cobra.Command, args []string) error {
	key, err := substitution.ParseKey(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		ctx := contextOrBackground(cmd.Context())
		session, err := st.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		if err := st.SetMappings(ctx, session.ID, key); err != nil {
			return err
		}
		warnConflicts(substitution.Merge(session.Key, key))
		return nil
	})
}

func runSessionUnsetCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		ctx := contextOrBackground(cmd.Context())
		session, err := st.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		return st.RemoveMappings(ctx, session.ID, []rune(args[1]))
	})
}

func runSessionExportCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		session, err := st.GetSession(contextOrBackground(cmd.Context()), args[0])
		if err != nil {
			return err
		}
		if sessionExportOut == "" {
			return keyfile.Encode(cmd.OutOrStdout(), session)
		}
		file, err := os.Create(sessionExportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", sessionExportOut, err)
		}
		if err := keyfile.Encode(file, session); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	})
}

func runSessionImportCmd(cmd *cobra.Command, args []string) error {
	session, err := keyfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load key file: %w", err)
	}
	if sessionImportName != "" {
		session.Name = sessionImportName
	}
	if session.Name == "" {
		return fmt.Errorf("key file has no name; pass --name")
	}
	return withStore(func(st *store.Store) error {
		ctx := contextOrBackground(cmd.Context())
		_, err := st.CreateSession(ctx, session)
		if errors.Is(err, store.ErrSessionExists) && sessionImportForce {
			if err := st.DeleteSession(ctx, session.Name); err != nil {
				return err
			}
			_, err = st.CreateSession(ctx, session)
		}
		if err != nil {
			return err
		}
		logErrf("imported session %s (%d pairs)\n", session.Name, len(session.Key))
		return nil
	})
}
