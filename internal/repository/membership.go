package repository

import (
	"context"
	"fmt"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

func (r *pgxRepo) AddUserToSegment(ctx context.Context, userID, segmentID int64) error {
	// ON CONFLICT keeps the transaction usable when the pair already exists.
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO user_segments(user_id, segment_id) VALUES($1, $2)
		ON CONFLICT (user_id, segment_id) DO NOTHING
	`, userID, segmentID)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return apperror.ErrUserNotFound
		}
		return fmt.Errorf("%w: %w", apperror.ErrCannotInsertT, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCannotInsertT, err)
	}
	if n == 0 {
		return apperror.ErrDuplicateMembership
	}
	return nil
}

func (r *pgxRepo) RemoveUserFromSegment(ctx context.Context, userID, segmentID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		"DELETE FROM user_segments WHERE user_id = $1 AND segment_id = $2", userID, segmentID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", apperror.ErrCannotDeleteFT, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", apperror.ErrCannotDeleteFT, err)
	}
	return n > 0, nil
}

func (r *pgxRepo) ClearSegment(ctx context.Context, segmentID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM user_segments WHERE segment_id = $1", segmentID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperror.ErrCannotDeleteFT, err)
	}
	return res.RowsAffected()
}

func (r *pgxRepo) CountSegmentMembers(ctx context.Context, segmentID int64) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_segments WHERE segment_id = $1", segmentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

func (r *pgxRepo) GetSegmentMemberIDs(ctx context.Context, segmentID int64) ([]int64, error) {
	return r.queryIDs(ctx,
		"SELECT user_id FROM user_segments WHERE segment_id = $1 ORDER BY user_id", segmentID)
}

func (r *pgxRepo) GetSegmentMemberships(ctx context.Context, segmentID int64) ([]model.Membership, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT user_id, segment_id, assigned_at
		FROM user_segments
		WHERE segment_id = $1
		ORDER BY user_id
	`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	defer rows.Close()
	memberships := make([]model.Membership, 0)
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.UserID, &m.SegmentID, &m.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrDuringRowsIteration, err)
	}
	return memberships, nil
}

func (r *pgxRepo) GetUserSegments(ctx context.Context, userID int64) ([]model.Segment, error) {
	return r.querySegments(ctx, `
		SELECT s.id, s.slug, s.name, s.description, s.created_at, s.updated_at
		FROM segments s
		JOIN user_segments us ON us.segment_id = s.id
		WHERE us.user_id = $1
		ORDER BY s.id
	`, userID)
}
