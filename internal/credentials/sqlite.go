package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SqliteStore persists tokens across process restarts.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (or creates) the token database at dbPath.
func NewSqliteStore(ctx context.Context, dbPath string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	store := &SqliteStore{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SqliteStore) migrate(ctx context.Context) error {
	statements := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
	}
	return nil
}

func (s *SqliteStore) Get(ctx context.Context) (Tokens, error) {
	row := s.db.QueryRowContext(ctx, `SELECT access_token, refresh_token FROM credentials WHERE id = 1;`)
	var tokens Tokens
	if err := row.Scan(&tokens.Access, &tokens.Refresh); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tokens{}, nil
		}
		return Tokens{}, err
	}
	return tokens, nil
}

func (s *SqliteStore) Set(ctx context.Context, tokens Tokens) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at;`,
		tokens.Access, tokens.Refresh, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1;`)
	return err
}
