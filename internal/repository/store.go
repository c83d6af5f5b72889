package repository

import (
	"context"

	"segmentservice/internal/model"
)

type UserRepo interface {
	CreateUser(ctx context.Context) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	GetUsers(ctx context.Context, limit int) ([]model.User, error)
	// EligibleSnapshot reads, in one statement, the user total and the ids (ordered)
	// of every user that is not yet a member of the segment.
	EligibleSnapshot(ctx context.Context, segmentID int64) (*EligibleSnapshot, error)
}

// EligibleSnapshot is one consistent view of the users relative to a segment.
// Total - len(Eligible) is the number of current members.
type EligibleSnapshot struct {
	Total    int
	Eligible []int64
}

type SegmentRepo interface {
	CreateSegment(ctx context.Context, slug, name string, description *string) (*model.Segment, error)
	GetSegmentBySlug(ctx context.Context, slug string) (*model.Segment, error)
	// GetSegmentBySlugForUpdate reads the segment under the same lock LockSegment
	// takes, so the returned row cannot change before the transaction ends.
	GetSegmentBySlugForUpdate(ctx context.Context, slug string) (*model.Segment, error)
	// LockSegment holds an exclusive lock on the segment until the surrounding
	// transaction ends.
	LockSegment(ctx context.Context, segmentID int64) error
	UpdateSegment(ctx context.Context, segment *model.Segment) error
	DeleteSegment(ctx context.Context, segmentID int64) error
	GetAllSegments(ctx context.Context) ([]model.Segment, error)
	SegmentExists(ctx context.Context, slug string) (bool, error)
}

type MembershipRepo interface {
	// AddUserToSegment returns apperror.ErrDuplicateMembership when the pair exists.
	AddUserToSegment(ctx context.Context, userID, segmentID int64) error
	RemoveUserFromSegment(ctx context.Context, userID, segmentID int64) (bool, error)
	ClearSegment(ctx context.Context, segmentID int64) (int64, error)
	CountSegmentMembers(ctx context.Context, segmentID int64) (int, error)
	GetSegmentMemberIDs(ctx context.Context, segmentID int64) ([]int64, error)
	GetSegmentMemberships(ctx context.Context, segmentID int64) ([]model.Membership, error)
	GetUserSegments(ctx context.Context, userID int64) ([]model.Segment, error)
}

type Repo interface {
	UserRepo
	SegmentRepo
	MembershipRepo
}

// Store is a Repo that can also run a unit of work. fn's Repo is bound to the
// transaction; a non-nil error from fn rolls everything back.
type Store interface {
	Repo
	WithinTx(ctx context.Context, fn func(tx Repo) error) error
	Close() error
}
