package service

import (
	"context"
	"log/slog"

	"segmentservice/internal/apperror"
	"segmentservice/internal/engine"
	"segmentservice/internal/model"
	"segmentservice/internal/repository"
)

type SegmentService struct {
	store  repository.Store
	engine *engine.Engine
	logger *slog.Logger
}

func NewSegmentService(store repository.Store, eng *engine.Engine, logger *slog.Logger) *SegmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SegmentService{store: store, engine: eng, logger: logger}
}

// CreateSegment stores the segment and, when a positive percentage is given,
// populates it in the same transaction.
func (s *SegmentService) CreateSegment(ctx context.Context, in model.CreateSegmentInput) (*model.Segment, error) {
	if err := slugValidate(in.Slug); err != nil {
		return nil, err
	}
	if err := percentValidate(in.AutoAssignPercent); err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Slug
	}
	description := in.Description
	if description != nil && *description == "" {
		description = nil
	}
	var created *model.Segment
	assigned := 0
	err := s.store.WithinTx(ctx, func(tx repository.Repo) error {
		exists, err := tx.SegmentExists(ctx, in.Slug)
		if err != nil {
			return err
		}
		if exists {
			return apperror.ErrSlugTaken
		}
		seg, err := tx.CreateSegment(ctx, in.Slug, name, description)
		if err != nil {
			return err
		}
		if in.AutoAssignPercent != nil && *in.AutoAssignPercent > 0 {
			if assigned, err = s.engine.Assign(ctx, tx, seg.ID, *in.AutoAssignPercent); err != nil {
				return err
			}
		}
		created = seg
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("segment created", "slug", created.Slug, "id", created.ID, "assigned", assigned)
	return created, nil
}

// UpdateSegment applies name/description changes and, when a percentage is
// given, redistributes the segment. All of it commits or none of it does.
func (s *SegmentService) UpdateSegment(ctx context.Context, slug string, in model.UpdateSegmentInput) (*model.Segment, error) {
	if err := percentValidate(in.AutoAssignPercent); err != nil {
		return nil, err
	}
	var updated *model.Segment
	err := s.store.WithinTx(ctx, func(tx repository.Repo) error {
		seg, err := tx.GetSegmentBySlugForUpdate(ctx, slug)
		if err != nil {
			return err
		}
		changed := in.AutoAssignPercent != nil
		if in.Name != nil && *in.Name != "" {
			seg.Name = *in.Name
			changed = true
		}
		if in.Description != nil {
			seg.Description = in.Description
			if *in.Description == "" {
				seg.Description = nil
			}
			changed = true
		}
		if changed {
			if err := tx.UpdateSegment(ctx, seg); err != nil {
				return err
			}
		}
		if in.AutoAssignPercent != nil {
			if _, err := s.engine.Redistribute(ctx, tx, seg.ID, *in.AutoAssignPercent); err != nil {
				return err
			}
		}
		updated = seg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSegment removes the segment; its memberships go with it.
func (s *SegmentService) DeleteSegment(ctx context.Context, slug string) error {
	return s.store.WithinTx(ctx, func(tx repository.Repo) error {
		seg, err := tx.GetSegmentBySlugForUpdate(ctx, slug)
		if err != nil {
			return err
		}
		if err := tx.DeleteSegment(ctx, seg.ID); err != nil {
			return err
		}
		s.logger.Info("segment deleted", "slug", slug, "id", seg.ID)
		return nil
	})
}

func (s *SegmentService) GetSegment(ctx context.Context, slug string) (*model.SegmentDetails, error) {
	seg, err := s.store.GetSegmentBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountSegmentMembers(ctx, seg.ID)
	if err != nil {
		return nil, err
	}
	return &model.SegmentDetails{Segment: *seg, MemberCount: count}, nil
}

func (s *SegmentService) GetAllSegments(ctx context.Context) ([]model.Segment, error) {
	return s.store.GetAllSegments(ctx)
}

// GetSegmentMemberships lists the segment's memberships ordered by user id.
func (s *SegmentService) GetSegmentMemberships(ctx context.Context, slug string) ([]model.Membership, error) {
	seg, err := s.store.GetSegmentBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.store.GetSegmentMemberships(ctx, seg.ID)
}

func (s *SegmentService) GetSegmentMembers(ctx context.Context, slug string) ([]int64, error) {
	seg, err := s.store.GetSegmentBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.store.GetSegmentMemberIDs(ctx, seg.ID)
}
