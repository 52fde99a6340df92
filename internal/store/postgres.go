package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Find(ctx context.Context, code shortener.Code) (string, bool, error) {
	query := `
		SELECT url
		FROM short_links
		WHERE code = $1
	`

	var url string

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, shortener.StoreError("find", err)
	}

	return url, true, nil
}

// Insert relies on the primary key: a concurrent insert of the same code fails with ErrCodeTaken.
func (p *PostgresStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (code, url)
		VALUES ($1, $2)
	`

	_, err := p.pool.Exec(ctx, query, string(link.Code), link.OriginalURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return shortener.ErrCodeTaken
		}

		return shortener.StoreError("insert", err)
	}

	return nil
}

func (p *PostgresStore) DeleteMany(ctx context.Context, codes []shortener.Code) error {
	if len(codes) == 0 {
		return nil
	}

	query := `
		DELETE FROM short_links
		WHERE code = ANY($1)
	`

	if _, err := p.pool.Exec(ctx, query, shortener.Strings(codes)); err != nil {
		return shortener.StoreError("delete", err)
	}

	return nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

var _ shortener.Repository = (*PostgresStore)(nil)
