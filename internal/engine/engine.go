package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"segmentservice/internal/apperror"
	"segmentservice/internal/repository"
)

type Engine struct {
	sampler Sampler
	logger  *slog.Logger
}

func New(sampler Sampler, logger *slog.Logger) *Engine {
	if sampler == nil {
		sampler = NewRandomSampler()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{sampler: sampler, logger: logger}
}

// Assign grows the segment to TargetCount(users, percent) members, sampling only
// users that are not members yet. An empty segment gets exactly the target count;
// a segment already at or above the target is left untouched. It returns the
// number of rows inserted.
func (e *Engine) Assign(ctx context.Context, tx repository.Repo, segmentID int64, percent int) (int, error) {
	if err := ValidatePercent(percent); err != nil {
		return 0, err
	}
	if err := tx.LockSegment(ctx, segmentID); err != nil {
		return 0, err
	}
	return e.assign(ctx, tx, segmentID, percent)
}

// Redistribute replaces the segment's members with a fresh sample sized for
// percent. Both the delete and the inserts go through tx, so an error leaves the
// previous members in place once the caller rolls back.
func (e *Engine) Redistribute(ctx context.Context, tx repository.Repo, segmentID int64, percent int) (int, error) {
	if err := ValidatePercent(percent); err != nil {
		return 0, err
	}
	if err := tx.LockSegment(ctx, segmentID); err != nil {
		return 0, err
	}
	removed, err := tx.ClearSegment(ctx, segmentID)
	if err != nil {
		return 0, fmt.Errorf("clear segment %d: %w", segmentID, err)
	}
	added := 0
	if percent > 0 {
		if added, err = e.assign(ctx, tx, segmentID, percent); err != nil {
			return 0, err
		}
	}
	e.logger.Info("segment redistributed",
		"segment_id", segmentID, "percent", percent, "removed", removed, "added", added)
	return added, nil
}

// SampleUsers returns up to n distinct users that are not members of the segment.
func (e *Engine) SampleUsers(ctx context.Context, tx repository.Repo, segmentID int64, n int) ([]int64, error) {
	snap, err := tx.EligibleSnapshot(ctx, segmentID)
	if err != nil {
		return nil, fmt.Errorf("eligible users for segment %d: %w", segmentID, err)
	}
	return e.sampler.Sample(snap.Eligible, n), nil
}

// assign sizes and samples from a single snapshot, so the user total, the current
// member count and the pool all agree.
func (e *Engine) assign(ctx context.Context, tx repository.Repo, segmentID int64, percent int) (int, error) {
	snap, err := tx.EligibleSnapshot(ctx, segmentID)
	if err != nil {
		return 0, fmt.Errorf("eligible users for segment %d: %w", segmentID, err)
	}
	target := TargetCount(snap.Total, percent)
	need := target - (snap.Total - len(snap.Eligible))
	if need <= 0 {
		return 0, nil
	}
	picked := e.sampler.Sample(snap.Eligible, need)
	added := 0
	for _, userID := range picked {
		err := tx.AddUserToSegment(ctx, userID, segmentID)
		if errors.Is(err, apperror.ErrDuplicateMembership) {
			e.logger.Debug("membership already present, skipping",
				"segment_id", segmentID, "user_id", userID)
			continue
		}
		if err != nil {
			return added, fmt.Errorf("assign user %d to segment %d: %w", userID, segmentID, err)
		}
		added++
	}
	return added, nil
}
