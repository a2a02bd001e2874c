// Package store handles SQLite persistence of solving sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/subcrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a session whose name is taken.
	ErrSessionExists = errors.New("session already exists")
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for session data.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			ciphertext TEXT NOT NULL,
			ignore_whitespace INTEGER NOT NULL,
			default_char TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_mappings (
			session_id INTEGER NOT NULL,
			cipher_char TEXT NOT NULL,
			plain_char TEXT NOT NULL,
			PRIMARY KEY (session_id, cipher_char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

func runeString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

func stringRune(v string) (rune, error) {
	if v == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(v)
	if size != len(v) {
		return 0, fmt.Errorf("stored value %q is not a single character", v)
	}
	return r, nil
}

// CreateSession stores a new session with its initial key.
func (s *Store) CreateSession(ctx context.Context, session model.Session) (id int64, err error) {
	if session.Name == "" {
		return 0, fmt.Errorf("session name is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, session.Name).Scan(&existing)
	switch {
	case err == nil:
		return 0, fmt.Errorf("%w: %s", ErrSessionExists, session.Name)
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	now := s.timestamp()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (name, ciphertext, ignore_whitespace, default_char, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.Name,
		session.CipherText,
		session.IgnoreWhitespace,
		runeString(session.DefaultChar),
		now,
		now,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = upsertMappings(ctx, tx, id, session.Key); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertMappings(ctx context.Context, tx *sql.Tx, sessionID int64, key map[rune]rune) error {
	if len(key) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO session_mappings (session_id, cipher_char, plain_char) VALUES (?, ?, ?)
		 ON CONFLICT (session_id, cipher_char) DO UPDATE SET plain_char = excluded.plain_char`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for c, p := range key {
		if _, err := stmt.ExecContext(ctx, sessionID, string(c), string(p)); err != nil {
			return err
		}
	}
	return nil
}

// GetSession loads a session and its key by name.
func (s *Store) GetSession(ctx context.Context, name string) (model.Session, error) {
	var (
		session              model.Session
		defaultChar          string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, ciphertext, ignore_whitespace, default_char, created_at, updated_at
		 FROM sessions WHERE name = ?`, name).
		Scan(&session.ID, &session.Name, &session.CipherText, &session.IgnoreWhitespace, &defaultChar, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return model.Session{}, err
	}
	if session.DefaultChar, err = stringRune(defaultChar); err != nil {
		return model.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Session{}, err
	}
	if session.Key, err = s.loadMappings(ctx, session.ID); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

func (s *Store) loadMappings(ctx context.Context, sessionID int64) (map[rune]rune, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cipher_char, plain_char FROM session_mappings WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	key := map[rune]rune{}
	for rows.Next() {
		var cipherChar, plainChar string
		if err := rows.Scan(&cipherChar, &plainChar); err != nil {
			return nil, err
		}
		c, err := stringRune(cipherChar)
		if err != nil {
			return nil, err
		}
		p, err := stringRune(plainChar)
		if err != nil {
			return nil, err
		}
		key[c] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return key, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.name, length(s.ciphertext), s.created_at, s.updated_at, COUNT(m.cipher_char)
		 FROM sessions s
		 LEFT JOIN session_mappings m ON m.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.updated_at DESC, s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var summary model.SessionSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Length, &createdAt, &updatedAt, &summary.Pairs); err != nil {
			return nil, err
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if summary.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SetMappings adds or replaces pairs of a session's key.
func (s *Store) SetMappings(ctx context.Context, sessionID int64, key map[rune]rune) error {
	return s.update(ctx, sessionID, func(tx *sql.Tx) error {
		return upsertMappings(ctx, tx, sessionID, key)
	})
}

// RemoveMappings drops the pairs for the given cipher runes.
func (s *Store) RemoveMappings(ctx context.Context, sessionID int64, cipherRunes []rune) error {
	return s.update(ctx, sessionID, func(tx *sql.Tx) error {
		for _, c := range cipherRunes {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM session_mappings WHERE session_id = ? AND cipher_char = ?`, sessionID, string(c)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ResetMappings clears a session's key.
func (s *Store) ResetMappings(ctx context.Context, sessionID int64) error {
	return s.update(ctx, sessionID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session_mappings WHERE session_id = ?`, sessionID)
		return err
	})
}

// ReplaceMappings stores key as the complete key of a session.
func (s *Store) ReplaceMappings(ctx context.Context, sessionID int64, key map[rune]rune) error {
	return s.update(ctx, sessionID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_mappings WHERE session_id = ?`, sessionID); err != nil {
			return err
		}
		return upsertMappings(ctx, tx, sessionID, key)
	})
}

// update runs fn in a transaction and bumps the session's updated_at.
func (s *Store) update(ctx context.Context, sessionID int64, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, s.timestamp(), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, sessionID)
	}
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSession removes a session and its key.
func (s *Store) DeleteSession(ctx context.Context, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM session_mappings WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
