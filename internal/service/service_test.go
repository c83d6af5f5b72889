package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmentservice/internal/apperror"
	"segmentservice/internal/engine"
	"segmentservice/internal/model"
	"segmentservice/internal/repository"
)

var ctx = context.Background()

type fixture struct {
	store    *repository.MemoryStore
	segments *SegmentService
	users    *UserService
}

func newFixture(t *testing.T, users int) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	for i := 0; i < users; i++ {
		_, err := store.CreateUser(ctx)
		require.NoError(t, err)
	}
	eng := engine.New(engine.NewSeededSampler(5, 8), nil)
	return &fixture{
		store:    store,
		segments: NewSegmentService(store, eng, nil),
		users:    NewUserService(store, nil),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) create(t *testing.T, slug string, percent *int) *model.Segment {
	t.Helper()
	seg, err := f.segments.CreateSegment(ctx, model.CreateSegmentInput{Slug: slug, AutoAssignPercent: percent})
	require.NoError(t, err)
	return seg
}

func (f *fixture) memberCount(t *testing.T, slug string) int {
	t.Helper()
	ids, err := f.segments.GetSegmentMembers(ctx, slug)
	require.NoError(t, err)
	return len(ids)
}

func messages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func TestSegmentService_Create(t *testing.T) {
	f := newFixture(t, 100)

	t.Run("AutoAssignThirtyPercent", func(t *testing.T) {
		seg := f.create(t, "FOO", ptr(30))
		assert.Equal(t, "FOO", seg.Name, "name defaults to slug")
		ids, err := f.segments.GetSegmentMembers(ctx, "FOO")
		require.NoError(t, err)
		assert.Len(t, ids, 30)
	})
	t.Run("ZeroPercent", func(t *testing.T) {
		f.create(t, "EMPTY", ptr(0))
		assert.Zero(t, f.memberCount(t, "EMPTY"))
	})
	t.Run("NameAndDescription", func(t *testing.T) {
		seg, err := f.segments.CreateSegment(ctx, model.CreateSegmentInput{
			Slug: "MAIL_GPT", Name: "GPT in mail", Description: ptr("Using GPT for writing mail"),
		})
		require.NoError(t, err)
		assert.Equal(t, "GPT in mail", seg.Name)
		require.NotNil(t, seg.Description)
		assert.Equal(t, "Using GPT for writing mail", *seg.Description)
	})

	errCases := []struct {
		name string
		in   model.CreateSegmentInput
		kind error
	}{
		{name: "EmptySlug", in: model.CreateSegmentInput{Slug: ""}, kind: apperror.ErrValidation},
		{name: "BadFormat", in: model.CreateSegmentInput{Slug: "foo"}, kind: apperror.ErrFormat},
		{name: "Duplicate", in: model.CreateSegmentInput{Slug: "FOO"}, kind: apperror.ErrConflict},
		{name: "PercentAbove", in: model.CreateSegmentInput{Slug: "BAR", AutoAssignPercent: ptr(101)}, kind: apperror.ErrRange},
		{name: "PercentBelow", in: model.CreateSegmentInput{Slug: "BAR", AutoAssignPercent: ptr(-5)}, kind: apperror.ErrRange},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.segments.CreateSegment(ctx, tc.in)
			require.ErrorIs(t, err, tc.kind)
		})
	}

	exists, err := f.store.SegmentExists(ctx, "BAR")
	require.NoError(t, err)
	assert.False(t, exists, "rejected create must not leave a segment behind")
}

func TestSegmentService_UpdateRedistributes(t *testing.T) {
	f := newFixture(t, 100)
	f.create(t, "FOO", ptr(30))

	_, err := f.segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{AutoAssignPercent: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, f.memberCount(t, "FOO"))

	_, err = f.segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{AutoAssignPercent: ptr(0)})
	require.NoError(t, err)
	assert.Zero(t, f.memberCount(t, "FOO"))
	details, err := f.segments.GetSegment(ctx, "FOO")
	require.NoError(t, err)
	assert.Zero(t, details.MemberCount)
	assert.Equal(t, "FOO", details.Slug)
}

func TestSegmentService_UpdateFields(t *testing.T) {
	f := newFixture(t, 10)
	seg, err := f.segments.CreateSegment(ctx, model.CreateSegmentInput{
		Slug: "FOO", Name: "Foo", Description: ptr("first"), AutoAssignPercent: ptr(50),
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	t.Run("EmptyNameIgnored", func(t *testing.T) {
		upd, err := f.segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{Name: ptr(""), Description: ptr("second")})
		require.NoError(t, err)
		assert.Equal(t, "Foo", upd.Name)
		require.NotNil(t, upd.Description)
		assert.Equal(t, "second", *upd.Description)
		assert.True(t, upd.UpdatedAt.After(seg.UpdatedAt), "updated_at must be bumped")
		assert.Equal(t, 5, f.memberCount(t, "FOO"), "members untouched without a percentage")
	})
	t.Run("ClearDescription", func(t *testing.T) {
		upd, err := f.segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{Name: ptr("Renamed"), Description: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", upd.Name)
		assert.Nil(t, upd.Description)
	})
	t.Run("RangeErrorHasNoEffect", func(t *testing.T) {
		_, err := f.segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{Name: ptr("Other"), AutoAssignPercent: ptr(150)})
		require.ErrorIs(t, err, apperror.ErrRange)
		details, err := f.segments.GetSegment(ctx, "FOO")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", details.Name)
		assert.Equal(t, 5, details.MemberCount)
	})
	t.Run("UnknownSegment", func(t *testing.T) {
		_, err := f.segments.UpdateSegment(ctx, "NOPE", model.UpdateSegmentInput{Name: ptr("x")})
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestSegmentService_DeleteCascades(t *testing.T) {
	f := newFixture(t, 20)
	foo := f.create(t, "FOO", ptr(50))
	bar := f.create(t, "BAR", ptr(50))
	require.Equal(t, 10, f.memberCount(t, "BAR"))

	require.NoError(t, f.segments.DeleteSegment(ctx, "FOO"))

	left, err := f.store.GetSegmentMemberIDs(ctx, foo.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, 10, f.memberCount(t, "BAR"))
	_, err = f.segments.GetSegment(ctx, "FOO")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.ErrorIs(t, f.segments.DeleteSegment(ctx, "FOO"), apperror.ErrNotFound)

	segs, err := f.segments.GetAllSegments(ctx)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, bar.ID, segs[0].ID)
}

func TestUserService_AddPartialSuccess(t *testing.T) {
	f := newFixture(t, 3)
	f.create(t, "A", nil)
	f.create(t, "C", nil)
	_, err := f.users.AddUserSegments(ctx, 1, []string{"C"})
	require.NoError(t, err)

	report, err := f.users.AddUserSegments(ctx, 1, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, report.Added)
	assert.Equal(t, []string{"Segment 'B' not found", "User already has segment 'C'"}, messages(report.Errors))
	assert.ErrorIs(t, report.Errors[0], apperror.ErrNotFound)
	assert.ErrorIs(t, report.Errors[1], apperror.ErrConflict)

	segs, err := f.users.GetUserSegments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "A", segs[0].Slug)
	assert.Equal(t, "C", segs[1].Slug)
}

func TestUserService_RemoveThenAdd(t *testing.T) {
	f := newFixture(t, 2)
	seg := f.create(t, "FOO", nil)
	_, err := f.users.AddUserSegments(ctx, 2, []string{"FOO"})
	require.NoError(t, err)

	report, err := f.users.RemoveUserSegments(ctx, 2, []string{"FOO", "FOO", "MISSING"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO"}, report.Removed)
	assert.Equal(t, []string{"User doesn't have segment 'FOO'", "Segment 'MISSING' not found"}, messages(report.Errors))

	report, err = f.users.AddUserSegments(ctx, 2, []string{"FOO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO"}, report.Added)
	assert.Empty(t, report.Errors)

	ids, err := f.store.GetSegmentMemberIDs(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestUserService_Errors(t *testing.T) {
	f := newFixture(t, 1)
	f.create(t, "FOO", nil)

	_, err := f.users.AddUserSegments(ctx, 42, []string{"FOO"})
	require.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = f.users.RemoveUserSegments(ctx, 42, []string{"FOO"})
	require.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = f.users.GetUserSegments(ctx, 42)
	require.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = f.users.AddUserSegments(ctx, 0, []string{"FOO"})
	require.ErrorIs(t, err, apperror.ErrUserIDInvalid)
	_, err = f.users.AddUserSegments(ctx, 1, nil)
	require.ErrorIs(t, err, apperror.ErrNoSegmentsProvided)
}

// A random mix of operations must never break uniqueness or the capacity bound.
func TestMembership_RandomOperationsKeepCounts(t *testing.T) {
	const users = 25
	f := newFixture(t, users)
	slugs := []string{"S1", "S2", "S3"}
	for _, slug := range slugs {
		f.create(t, slug, ptr(40))
	}
	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 300; i++ {
		slug := slugs[rng.IntN(len(slugs))]
		userID := int64(rng.IntN(users) + 1)
		switch rng.IntN(4) {
		case 0:
			_, err := f.users.AddUserSegments(ctx, userID, []string{slug})
			require.NoError(t, err)
		case 1:
			_, err := f.users.RemoveUserSegments(ctx, userID, []string{slug})
			require.NoError(t, err)
		case 2:
			p := rng.IntN(101)
			_, err := f.segments.UpdateSegment(ctx, slug, model.UpdateSegmentInput{AutoAssignPercent: &p})
			require.NoError(t, err)
			total, err := f.users.CountUsers(ctx)
			require.NoError(t, err)
			require.Equal(t, engine.TargetCount(total, p), f.memberCount(t, slug))
		case 3:
			_, err := f.store.CreateUser(ctx)
			require.NoError(t, err)
		}
		total, err := f.users.CountUsers(ctx)
		require.NoError(t, err)
		for _, s := range slugs {
			ids, err := f.segments.GetSegmentMembers(ctx, s)
			require.NoError(t, err)
			require.LessOrEqual(t, len(ids), total)
			seen := make(map[int64]bool, len(ids))
			for _, id := range ids {
				require.False(t, seen[id], "duplicate membership %d in %s", id, s)
				seen[id] = true
			}
		}
	}
}

// MockStore overrides single Store methods; anything else panics on the nil embed.
type MockStore struct {
	repository.Store
	userExists       func(ctx context.Context, userID int64) (bool, error)
	getSegmentBySlug func(ctx context.Context, slug string) (*model.Segment, error)
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx repository.Repo) error) error {
	return fn(m)
}
func (m *MockStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	return m.userExists(ctx, userID)
}
func (m *MockStore) GetSegmentBySlug(ctx context.Context, slug string) (*model.Segment, error) {
	return m.getSegmentBySlug(ctx, slug)
}

func TestUserService_StoreFailureAbortsBatch(t *testing.T) {
	dbErr := errors.New("connection reset")
	mock := &MockStore{
		userExists: func(ctx context.Context, userID int64) (bool, error) { return true, nil },
		getSegmentBySlug: func(ctx context.Context, slug string) (*model.Segment, error) {
			return nil, dbErr
		},
	}
	userService := NewUserService(mock, nil)
	_, err := userService.AddUserSegments(ctx, 1000, []string{"FOO"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("Expected store error, got: %v", err)
	}
	_, err = userService.RemoveUserSegments(ctx, 1000, []string{"FOO"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("Expected store error, got: %v", err)
	}
}

// lockRaceStore commits a rename from another writer at the moment the segment
// lock is granted, the way a blocked FOR UPDATE observes it after waiting.
type lockRaceStore struct {
	*repository.MemoryStore
	rename string
}

func (s *lockRaceStore) WithinTx(ctx context.Context, fn func(tx repository.Repo) error) error {
	return s.MemoryStore.WithinTx(ctx, func(tx repository.Repo) error {
		return fn(&lockRaceRepo{Repo: tx, rename: s.rename})
	})
}

type lockRaceRepo struct {
	repository.Repo
	rename string
	done   bool
}

func (r *lockRaceRepo) commitRename(ctx context.Context, slug string) error {
	if r.done {
		return nil
	}
	r.done = true
	seg, err := r.Repo.GetSegmentBySlug(ctx, slug)
	if err != nil {
		return err
	}
	seg.Name = r.rename
	return r.Repo.UpdateSegment(ctx, seg)
}

func (r *lockRaceRepo) GetSegmentBySlugForUpdate(ctx context.Context, slug string) (*model.Segment, error) {
	if err := r.commitRename(ctx, slug); err != nil {
		return nil, err
	}
	return r.Repo.GetSegmentBySlugForUpdate(ctx, slug)
}

func (r *lockRaceRepo) LockSegment(ctx context.Context, segmentID int64) error {
	if !r.done {
		r.done = true
		segs, err := r.Repo.GetAllSegments(ctx)
		if err != nil {
			return err
		}
		for _, seg := range segs {
			if seg.ID == segmentID {
				seg.Name = r.rename
				if err := r.Repo.UpdateSegment(ctx, &seg); err != nil {
					return err
				}
			}
		}
	}
	return r.Repo.LockSegment(ctx, segmentID)
}

func TestSegmentService_UpdateKeepsConcurrentRename(t *testing.T) {
	mem := repository.NewMemoryStore()
	_, err := mem.CreateSegment(ctx, "FOO", "Original", nil)
	require.NoError(t, err)
	store := &lockRaceStore{MemoryStore: mem, rename: "Renamed by T1"}
	segments := NewSegmentService(store, engine.New(engine.NewSeededSampler(1, 2), nil), nil)

	updated, err := segments.UpdateSegment(ctx, "FOO", model.UpdateSegmentInput{Description: ptr("set by T2")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed by T1", updated.Name)

	got, err := mem.GetSegmentBySlug(ctx, "FOO")
	require.NoError(t, err)
	assert.Equal(t, "Renamed by T1", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "set by T2", *got.Description)
}

func TestSegmentService_GetSegmentMemberships(t *testing.T) {
	f := newFixture(t, 10)
	f.create(t, "HALF", ptr(50))
	memberships, err := f.segments.GetSegmentMemberships(ctx, "HALF")
	require.NoError(t, err)
	require.Len(t, memberships, 5)
	for i, m := range memberships {
		assert.False(t, m.AssignedAt.IsZero())
		if i > 0 {
			assert.Less(t, memberships[i-1].UserID, m.UserID)
		}
	}
	_, err = f.segments.GetSegmentMemberships(ctx, "NOPE")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
