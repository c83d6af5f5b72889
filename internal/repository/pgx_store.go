package repository

import (
	"context"
	"database/sql"
	"fmt"

	"segmentservice/internal/apperror"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pgxRepo runs every query against q, which is either the pool or an open transaction.
type pgxRepo struct {
	q querier
}

type pgxStore struct {
	*pgxRepo
	db *sql.DB
}

func NewPgxStore(db *sql.DB) Store {
	return &pgxStore{pgxRepo: &pgxRepo{q: db}, db: db}
}

func (s *pgxStore) WithinTx(ctx context.Context, fn func(tx Repo) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrFailedBTransaction, err)
	}
	defer tx.Rollback()
	if err := fn(&pgxRepo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrFailedCTransaction, err)
	}
	return nil
}

func (s *pgxStore) Close() error {
	return s.db.Close()
}
