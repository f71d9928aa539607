// Package postgres stores hail history in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

// NewPool parses databaseURL and opens a connection pool. An empty URL yields
// domain.ErrNotConfigured.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("hail history: %w", domain.ErrNotConfigured)
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, tagError("open pool", err)
	}
	return pool, nil
}

// tagError attaches a domain.ErrorKind to database failures the caller may
// want to report distinctly.
func tagError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01":
			return &domain.Error{Kind: domain.KindTableNotFound, Op: op, Err: err}
		case "28P01", "28000":
			return &domain.Error{Kind: domain.KindAuth, Op: op, Err: err}
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
