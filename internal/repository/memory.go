package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

type memState struct {
	nextUserID    int64
	nextSegmentID int64
	users         map[int64]model.User
	segments      map[int64]model.Segment
	// members[segmentID][userID] = assigned_at
	members map[int64]map[int64]time.Time
}

func newMemState() *memState {
	return &memState{
		users:    make(map[int64]model.User),
		segments: make(map[int64]model.Segment),
		members:  make(map[int64]map[int64]time.Time),
	}
}

func (st *memState) clone() *memState {
	c := &memState{
		nextUserID:    st.nextUserID,
		nextSegmentID: st.nextSegmentID,
		users:         make(map[int64]model.User, len(st.users)),
		segments:      make(map[int64]model.Segment, len(st.segments)),
		members:       make(map[int64]map[int64]time.Time, len(st.members)),
	}
	for id, u := range st.users {
		c.users[id] = u
	}
	for id, s := range st.segments {
		c.segments[id] = s
	}
	for segID, m := range st.members {
		cm := make(map[int64]time.Time, len(m))
		for userID, at := range m {
			cm[userID] = at
		}
		c.members[segID] = cm
	}
	return c
}

// MemoryStore keeps everything in process. A transaction works on a private copy
// of the state and swaps it in on success, holding the store lock throughout, so
// transactions are serialized and all-or-nothing. Inside fn only the tx argument
// may be used; calling the store itself there blocks forever.
type MemoryStore struct {
	*memRepo
	mu    sync.Mutex
	state *memState
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		state: newMemState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	s.memRepo = &memRepo{store: s}
	return s
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(&memRepo{store: s, tx: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// memRepo operates on tx when bound to a transaction, otherwise on the live
// state under the store lock.
type memRepo struct {
	store *MemoryStore
	tx    *memState
}

func (r *memRepo) acquire() (*memState, func()) {
	if r.tx != nil {
		return r.tx, func() {}
	}
	r.store.mu.Lock()
	return r.store.state, r.store.mu.Unlock
}

func (r *memRepo) CreateUser(_ context.Context) (*model.User, error) {
	st, unlock := r.acquire()
	defer unlock()
	st.nextUserID++
	u := model.User{ID: st.nextUserID, CreatedAt: r.store.now()}
	st.users[u.ID] = u
	return &u, nil
}

func (r *memRepo) CountUsers(_ context.Context) (int, error) {
	st, unlock := r.acquire()
	defer unlock()
	return len(st.users), nil
}

func (r *memRepo) UserExists(_ context.Context, userID int64) (bool, error) {
	st, unlock := r.acquire()
	defer unlock()
	_, ok := st.users[userID]
	return ok, nil
}

func (r *memRepo) GetUsers(_ context.Context, limit int) ([]model.User, error) {
	st, unlock := r.acquire()
	defer unlock()
	users := make([]model.User, 0, len(st.users))
	for _, u := range st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if limit >= 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *memRepo) EligibleSnapshot(_ context.Context, segmentID int64) (*EligibleSnapshot, error) {
	st, unlock := r.acquire()
	defer unlock()
	members := st.members[segmentID]
	ids := make([]int64, 0, len(st.users))
	for id := range st.users {
		if _, ok := members[id]; !ok {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return &EligibleSnapshot{Total: len(st.users), Eligible: ids}, nil
}

func (r *memRepo) CreateSegment(_ context.Context, slug, name string, description *string) (*model.Segment, error) {
	st, unlock := r.acquire()
	defer unlock()
	for _, s := range st.segments {
		if s.Slug == slug {
			return nil, apperror.ErrSlugTaken
		}
	}
	st.nextSegmentID++
	now := r.store.now()
	s := model.Segment{
		ID:          st.nextSegmentID,
		Slug:        slug,
		Name:        name,
		Description: copyString(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.segments[s.ID] = s
	return &s, nil
}

func (r *memRepo) GetSegmentBySlug(_ context.Context, slug string) (*model.Segment, error) {
	st, unlock := r.acquire()
	defer unlock()
	for _, s := range st.segments {
		if s.Slug == slug {
			s.Description = copyString(s.Description)
			return &s, nil
		}
	}
	return nil, apperror.SegmentNotFound(slug)
}

// GetSegmentBySlugForUpdate needs no extra lock: transactions already run one
// at a time.
func (r *memRepo) GetSegmentBySlugForUpdate(ctx context.Context, slug string) (*model.Segment, error) {
	return r.GetSegmentBySlug(ctx, slug)
}

func (r *memRepo) LockSegment(_ context.Context, segmentID int64) error {
	st, unlock := r.acquire()
	defer unlock()
	if _, ok := st.segments[segmentID]; !ok {
		return apperror.ErrSegmentNotFound
	}
	return nil
}

func (r *memRepo) UpdateSegment(_ context.Context, segment *model.Segment) error {
	st, unlock := r.acquire()
	defer unlock()
	s, ok := st.segments[segment.ID]
	if !ok {
		return apperror.ErrSegmentNotFound
	}
	s.Name = segment.Name
	s.Description = copyString(segment.Description)
	s.UpdatedAt = r.store.now()
	st.segments[s.ID] = s
	segment.UpdatedAt = s.UpdatedAt
	return nil
}

func (r *memRepo) DeleteSegment(_ context.Context, segmentID int64) error {
	st, unlock := r.acquire()
	defer unlock()
	if _, ok := st.segments[segmentID]; !ok {
		return apperror.ErrSegmentNotFound
	}
	delete(st.segments, segmentID)
	delete(st.members, segmentID)
	return nil
}

func (r *memRepo) GetAllSegments(_ context.Context) ([]model.Segment, error) {
	st, unlock := r.acquire()
	defer unlock()
	segments := make([]model.Segment, 0, len(st.segments))
	for _, s := range st.segments {
		segments = append(segments, s)
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].Slug < segments[j].Slug })
	return segments, nil
}

func (r *memRepo) SegmentExists(_ context.Context, slug string) (bool, error) {
	st, unlock := r.acquire()
	defer unlock()
	for _, s := range st.segments {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) AddUserToSegment(_ context.Context, userID, segmentID int64) error {
	st, unlock := r.acquire()
	defer unlock()
	if _, ok := st.users[userID]; !ok {
		return apperror.ErrUserNotFound
	}
	if _, ok := st.segments[segmentID]; !ok {
		return apperror.ErrSegmentNotFound
	}
	m := st.members[segmentID]
	if m == nil {
		m = make(map[int64]time.Time)
		st.members[segmentID] = m
	}
	if _, ok := m[userID]; ok {
		return apperror.ErrDuplicateMembership
	}
	m[userID] = r.store.now()
	return nil
}

func (r *memRepo) RemoveUserFromSegment(_ context.Context, userID, segmentID int64) (bool, error) {
	st, unlock := r.acquire()
	defer unlock()
	m := st.members[segmentID]
	if _, ok := m[userID]; !ok {
		return false, nil
	}
	delete(m, userID)
	return true, nil
}

func (r *memRepo) ClearSegment(_ context.Context, segmentID int64) (int64, error) {
	st, unlock := r.acquire()
	defer unlock()
	n := int64(len(st.members[segmentID]))
	delete(st.members, segmentID)
	return n, nil
}

func (r *memRepo) CountSegmentMembers(_ context.Context, segmentID int64) (int, error) {
	st, unlock := r.acquire()
	defer unlock()
	return len(st.members[segmentID]), nil
}

func (r *memRepo) GetSegmentMemberIDs(_ context.Context, segmentID int64) ([]int64, error) {
	st, unlock := r.acquire()
	defer unlock()
	ids := make([]int64, 0, len(st.members[segmentID]))
	for id := range st.members[segmentID] {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids, nil
}

func (r *memRepo) GetSegmentMemberships(_ context.Context, segmentID int64) ([]model.Membership, error) {
	st, unlock := r.acquire()
	defer unlock()
	memberships := make([]model.Membership, 0, len(st.members[segmentID]))
	for userID, at := range st.members[segmentID] {
		memberships = append(memberships, model.Membership{UserID: userID, SegmentID: segmentID, AssignedAt: at})
	}
	sort.Slice(memberships, func(i, j int) bool { return memberships[i].UserID < memberships[j].UserID })
	return memberships, nil
}

func (r *memRepo) GetUserSegments(_ context.Context, userID int64) ([]model.Segment, error) {
	st, unlock := r.acquire()
	defer unlock()
	segments := make([]model.Segment, 0)
	for segID, m := range st.members {
		if _, ok := m[userID]; ok {
			segments = append(segments, st.segments[segID])
		}
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].ID < segments[j].ID })
	return segments, nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
