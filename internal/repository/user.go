package repository

import (
	"context"
	"fmt"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

func (r *pgxRepo) CreateUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := r.q.QueryRowContext(ctx,
		"INSERT INTO users DEFAULT VALUES RETURNING id, created_at",
	).Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCannotInsertT, err)
	}
	return &u, nil
}

func (r *pgxRepo) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *pgxRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists)
	return exists, err
}

func (r *pgxRepo) GetUsers(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id, created_at FROM users ORDER BY id LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrDuringRowsIteration, err)
	}
	return users, nil
}

func (r *pgxRepo) EligibleSnapshot(ctx context.Context, segmentID int64) (*EligibleSnapshot, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, EXISTS (
			SELECT 1 FROM user_segments us
			WHERE us.user_id = u.id AND us.segment_id = $1
		)
		FROM users u
		ORDER BY u.id
	`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	defer rows.Close()
	snap := &EligibleSnapshot{Eligible: make([]int64, 0)}
	for rows.Next() {
		var id int64
		var member bool
		if err := rows.Scan(&id, &member); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		snap.Total++
		if !member {
			snap.Eligible = append(snap.Eligible, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrDuringRowsIteration, err)
	}
	return snap, nil
}

func (r *pgxRepo) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrDuringRowsIteration, err)
	}
	return ids, nil
}
