package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmentservice/internal/apperror"
)

func TestMemoryStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u, err := s.CreateUser(ctx)
	require.NoError(t, err)
	seg, err := s.CreateSegment(ctx, "KEEP", "Keep", nil)
	require.NoError(t, err)
	require.NoError(t, s.AddUserToSegment(ctx, u.ID, seg.ID))

	errAbort := errors.New("abort")
	err = s.WithinTx(ctx, func(tx Repo) error {
		if _, err := tx.ClearSegment(ctx, seg.ID); err != nil {
			return err
		}
		if _, err := tx.CreateSegment(ctx, "TEMP", "Temp", nil); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	n, err := s.CountSegmentMembers(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	exists, err := s.SegmentExists(ctx, "TEMP")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_Memberships(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 4; i++ {
		_, err := s.CreateUser(ctx)
		require.NoError(t, err)
	}
	b, err := s.CreateSegment(ctx, "B", "B", nil)
	require.NoError(t, err)
	a, err := s.CreateSegment(ctx, "A", "A", nil)
	require.NoError(t, err)
	_, err = s.CreateSegment(ctx, "A", "again", nil)
	require.ErrorIs(t, err, apperror.ErrSlugTaken)

	require.NoError(t, s.AddUserToSegment(ctx, 3, b.ID))
	require.NoError(t, s.AddUserToSegment(ctx, 1, b.ID))
	require.NoError(t, s.AddUserToSegment(ctx, 1, a.ID))
	require.ErrorIs(t, s.AddUserToSegment(ctx, 1, a.ID), apperror.ErrDuplicateMembership)
	require.ErrorIs(t, s.AddUserToSegment(ctx, 42, a.ID), apperror.ErrUserNotFound)

	ids, err := s.GetSegmentMemberIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	snap, err := s.EligibleSnapshot(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, []int64{2, 4}, snap.Eligible)

	memberships, err := s.GetSegmentMemberships(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	assert.Equal(t, int64(1), memberships[0].UserID)
	assert.Equal(t, b.ID, memberships[0].SegmentID)
	assert.False(t, memberships[0].AssignedAt.IsZero())

	all, err := s.GetAllSegments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Slug)

	userSegs, err := s.GetUserSegments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, userSegs, 2)
	assert.Equal(t, b.ID, userSegs[0].ID)

	removed, err := s.RemoveUserFromSegment(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.RemoveUserFromSegment(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.DeleteSegment(ctx, b.ID))
	userSegs, err = s.GetUserSegments(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, userSegs)
	_, err = s.GetSegmentBySlug(ctx, "B")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
