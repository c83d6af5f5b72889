package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

const segmentColumns = "id, slug, name, description, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSegment(row rowScanner) (*model.Segment, error) {
	var s model.Segment
	var description sql.NullString
	if err := row.Scan(&s.ID, &s.Slug, &s.Name, &description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		s.Description = &description.String
	}
	return &s, nil
}

func (r *pgxRepo) CreateSegment(ctx context.Context, slug, name string, description *string) (*model.Segment, error) {
	row := r.q.QueryRowContext(ctx,
		"INSERT INTO segments(slug, name, description) VALUES($1, $2, $3) RETURNING "+segmentColumns,
		slug, name, description)
	s, err := scanSegment(row)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, apperror.ErrSlugTaken
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrCannotInsertT, err)
	}
	return s, nil
}

func (r *pgxRepo) GetSegmentBySlug(ctx context.Context, slug string) (*model.Segment, error) {
	return r.getSegmentBySlug(ctx, "SELECT "+segmentColumns+" FROM segments WHERE slug = $1", slug)
}

func (r *pgxRepo) GetSegmentBySlugForUpdate(ctx context.Context, slug string) (*model.Segment, error) {
	return r.getSegmentBySlug(ctx, "SELECT "+segmentColumns+" FROM segments WHERE slug = $1 FOR UPDATE", slug)
}

func (r *pgxRepo) getSegmentBySlug(ctx context.Context, query, slug string) (*model.Segment, error) {
	s, err := scanSegment(r.q.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.SegmentNotFound(slug)
	}
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepo) LockSegment(ctx context.Context, segmentID int64) error {
	var id int64
	err := r.q.QueryRowContext(ctx, "SELECT id FROM segments WHERE id = $1 FOR UPDATE", segmentID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrSegmentNotFound
	}
	if err != nil {
		return fmt.Errorf("lock segment %d: %w", segmentID, err)
	}
	return nil
}

func (r *pgxRepo) UpdateSegment(ctx context.Context, segment *model.Segment) error {
	err := r.q.QueryRowContext(ctx, `
		UPDATE segments SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, segment.ID, segment.Name, segment.Description).Scan(&segment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrSegmentNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCannotUpdateT, err)
	}
	return nil
}

func (r *pgxRepo) DeleteSegment(ctx context.Context, segmentID int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM segments WHERE id = $1", segmentID)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCannotDeleteFT, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrSegmentNotFound
	}
	return nil
}

func (r *pgxRepo) GetAllSegments(ctx context.Context) ([]model.Segment, error) {
	return r.querySegments(ctx, "SELECT "+segmentColumns+" FROM segments ORDER BY slug")
}

func (r *pgxRepo) SegmentExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM segments WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

func (r *pgxRepo) querySegments(ctx context.Context, query string, args ...any) ([]model.Segment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db query failed: %w", err)
	}
	defer rows.Close()
	segments := make([]model.Segment, 0)
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		segments = append(segments, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrDuringRowsIteration, err)
	}
	return segments, nil
}
