// Package sqlite persists system settings, users and sequence counters in a
// SQLite database (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formkit/pkg/action"
	"github.com/goliatone/go-formkit/pkg/log"
	"github.com/goliatone/go-formkit/pkg/sequence"
)

const MemoryPath = ":memory:"

var ErrNotFound = errors.New("sqlite: not found")

// Store implements appinfo.SettingsStore, user lookup and
// sequence.CounterStore.
type Store struct {
	db     *sql.DB
	path   string
	logger log.Logger
}

// Open opens (creating when needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string, logger log.Logger) (*Store, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// one connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, logger: log.ForModule(logger, "store")}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug("store opened", log.Fields{"path": path})
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS system_settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	enabled_languages TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	app_lang TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sequence_counters (
	counter_key TEXT PRIMARY KEY,
	value INTEGER NOT NULL,
	issued_at INTEGER NOT NULL
);
`

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		return fmt.Errorf("sqlite: pragma: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// EnabledLanguages returns the configured languages, or nil when the
// settings row does not exist.
func (s *Store) EnabledLanguages(ctx context.Context) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT enabled_languages FROM system_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: enabled languages: %w", err)
	}
	var langs []string
	if err := json.Unmarshal([]byte(raw), &langs); err != nil {
		return nil, fmt.Errorf("sqlite: decode enabled languages: %w", err)
	}
	return langs, nil
}

func (s *Store) SetEnabledLanguages(ctx context.Context, langs []string) error {
	if langs == nil {
		langs = []string{}
	}
	raw, err := json.Marshal(langs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO system_settings (id, enabled_languages) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET enabled_languages = excluded.enabled_languages, updated_at = CURRENT_TIMESTAMP`,
		string(raw))
	if err != nil {
		return fmt.Errorf("sqlite: set enabled languages: %w", err)
	}
	return nil
}

// User returns the user with id, or nil when it does not exist.
func (s *Store) User(ctx context.Context, id string) (*action.User, error) {
	u := action.User{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT app_lang FROM users WHERE id = ?`, id).Scan(&u.AppLang)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: user %q: %w", id, err)
	}
	return &u, nil
}

func (s *Store) PutUser(ctx context.Context, u action.User) error {
	if u.ID == "" {
		return fmt.Errorf("sqlite: put user: empty id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, app_lang) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET app_lang = excluded.app_lang`,
		u.ID, u.AppLang)
	if err != nil {
		return fmt.Errorf("sqlite: put user: %w", err)
	}
	return nil
}

// Counter returns the stored counter for key.
func (s *Store) Counter(ctx context.Context, key string) (sequence.Counter, error) {
	var (
		value    int64
		issuedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT value, issued_at FROM sequence_counters WHERE counter_key = ?`, key).Scan(&value, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sequence.Counter{}, fmt.Errorf("%w: counter %q", ErrNotFound, key)
	}
	if err != nil {
		return sequence.Counter{}, fmt.Errorf("sqlite: counter %q: %w", key, err)
	}
	return sequence.Counter{Value: value, IssuedAt: time.Unix(0, issuedAt).UTC()}, nil
}

// Advance runs fn inside a transaction and stores its result.
func (s *Store) Advance(ctx context.Context, key string, fn sequence.AdvanceFunc) (out sequence.Counter, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sequence.Counter{}, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		current  sequence.Counter
		found    = true
		value    int64
		issuedAt int64
	)
	err = tx.QueryRowContext(ctx, `SELECT value, issued_at FROM sequence_counters WHERE counter_key = ?`, key).Scan(&value, &issuedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		found = false
	case err != nil:
		return sequence.Counter{}, fmt.Errorf("sqlite: read counter %q: %w", key, err)
	default:
		current = sequence.Counter{Value: value, IssuedAt: time.Unix(0, issuedAt).UTC()}
	}

	out, err = fn(current, found)
	if err != nil {
		return sequence.Counter{}, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sequence_counters (counter_key, value, issued_at) VALUES (?, ?, ?)
		ON CONFLICT(counter_key) DO UPDATE SET value = excluded.value, issued_at = excluded.issued_at`,
		key, out.Value, out.IssuedAt.UnixNano())
	if err != nil {
		return sequence.Counter{}, fmt.Errorf("sqlite: write counter %q: %w", key, err)
	}
	if err = tx.Commit(); err != nil {
		return sequence.Counter{}, fmt.Errorf("sqlite: commit: %w", err)
	}
	return out, nil
}
