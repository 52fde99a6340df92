package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/serroba/shortlink/internal/shortener"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteStore is a single-file embedded implementation of shortener.Repository.
// WAL mode and a busy timeout let several worker processes share one file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database file at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS short_links (
			code TEXT PRIMARY KEY,
			url  TEXT NOT NULL
		)
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create short_links table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Find(ctx context.Context, code shortener.Code) (string, bool, error) {
	var url string

	err := s.db.QueryRowContext(ctx, `SELECT url FROM short_links WHERE code = ?`, string(code)).Scan(&url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, shortener.StoreError("find", err)
	}

	return url, true, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO short_links (code, url) VALUES (?, ?) ON CONFLICT (code) DO NOTHING`,
		string(link.Code), link.OriginalURL,
	)
	if err != nil {
		return shortener.StoreError("insert", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return shortener.StoreError("insert", err)
	}

	if n == 0 {
		return shortener.ErrCodeTaken
	}

	return nil
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, codes []shortener.Code) error {
	if len(codes) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	args := make([]any, len(codes))

	for i, code := range codes {
		args[i] = string(code)
	}

	query := `DELETE FROM short_links WHERE code IN (` + placeholders + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return shortener.StoreError("delete", err)
	}

	return nil
}

// Ping checks the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

var _ shortener.Repository = (*SQLiteStore)(nil)
