package service

import (
	"context"
	"errors"
	"log/slog"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
	"segmentservice/internal/repository"
)

type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: store, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context) (*model.User, error) {
	return s.store.CreateUser(ctx)
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}

func (s *UserService) GetUsers(ctx context.Context, limit int) ([]model.User, error) {
	return s.store.GetUsers(ctx, limit)
}

// AddUserSegments adds the user to each listed segment. Unknown segments and
// existing memberships are reported per slug and do not stop the batch.
func (s *UserService) AddUserSegments(ctx context.Context, userID int64, slugs []string) (*model.MembershipReport, error) {
	if err := userValidate(userID); err != nil {
		return nil, err
	}
	if err := slugsValidate(slugs); err != nil {
		return nil, err
	}
	report := &model.MembershipReport{Added: []string{}, Errors: []error{}}
	err := s.store.WithinTx(ctx, func(tx repository.Repo) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		for _, slug := range slugs {
			seg, err := tx.GetSegmentBySlug(ctx, slug)
			if errors.Is(err, apperror.ErrNotFound) {
				report.Errors = append(report.Errors, apperror.SegmentNotFound(slug))
				continue
			}
			if err != nil {
				return err
			}
			err = tx.AddUserToSegment(ctx, userID, seg.ID)
			if errors.Is(err, apperror.ErrDuplicateMembership) {
				report.Errors = append(report.Errors, apperror.AlreadyHasSegment(slug))
				continue
			}
			if err != nil {
				return err
			}
			report.Added = append(report.Added, slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user segments added", "user_id", userID, "added", len(report.Added), "errors", len(report.Errors))
	return report, nil
}

// RemoveUserSegments is the mirror of AddUserSegments.
func (s *UserService) RemoveUserSegments(ctx context.Context, userID int64, slugs []string) (*model.MembershipReport, error) {
	if err := userValidate(userID); err != nil {
		return nil, err
	}
	if err := slugsValidate(slugs); err != nil {
		return nil, err
	}
	report := &model.MembershipReport{Removed: []string{}, Errors: []error{}}
	err := s.store.WithinTx(ctx, func(tx repository.Repo) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		for _, slug := range slugs {
			seg, err := tx.GetSegmentBySlug(ctx, slug)
			if errors.Is(err, apperror.ErrNotFound) {
				report.Errors = append(report.Errors, apperror.SegmentNotFound(slug))
				continue
			}
			if err != nil {
				return err
			}
			removed, err := tx.RemoveUserFromSegment(ctx, userID, seg.ID)
			if err != nil {
				return err
			}
			if !removed {
				report.Errors = append(report.Errors, apperror.NotAMember(slug))
				continue
			}
			report.Removed = append(report.Removed, slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user segments removed", "user_id", userID, "removed", len(report.Removed), "errors", len(report.Errors))
	return report, nil
}

func (s *UserService) GetUserSegments(ctx context.Context, userID int64) ([]model.Segment, error) {
	if err := userValidate(userID); err != nil {
		return nil, err
	}
	if err := userExists(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.GetUserSegments(ctx, userID)
}

func userExists(ctx context.Context, repo repository.UserRepo, userID int64) error {
	exists, err := repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.ErrUserNotFound
	}
	return nil
}
