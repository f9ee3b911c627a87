package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargegrid/internal/models"
	"chargegrid/internal/repository"
)

type fakeTagStore struct {
	tags        map[string]*models.ChargeTag
	setOwnerErr error
	clearCalls  int
	setCalls    int
}

func newFakeTagStore(tags ...models.ChargeTag) *fakeTagStore {
	store := &fakeTagStore{tags: map[string]*models.ChargeTag{}}
	for i := range tags {
		tag := tags[i]
		store.tags[tag.TagID] = &tag
	}
	return store
}

func (f *fakeTagStore) GetByID(_ context.Context, tagID string) (*models.ChargeTag, error) {
	tag, ok := f.tags[tagID]
	if !ok {
		return nil, repository.ErrChargeTagNotFound
	}
	copied := *tag
	return &copied, nil
}

func (f *fakeTagStore) ListOwnedBy(_ context.Context, userID int64) ([]models.ChargeTag, error) {
	var owned []models.ChargeTag
	for _, tag := range f.tags {
		if tag.UserAccountID != nil && *tag.UserAccountID == userID {
			owned = append(owned, *tag)
		}
	}
	return owned, nil
}

func (f *fakeTagStore) ClearOwner(_ context.Context, userID int64) error {
	f.clearCalls++
	for _, tag := range f.tags {
		if tag.UserAccountID != nil && *tag.UserAccountID == userID {
			tag.UserAccountID = nil
		}
	}
	return nil
}

func (f *fakeTagStore) SetOwner(_ context.Context, tagID string, userID int64) error {
	f.setCalls++
	if f.setOwnerErr != nil {
		return f.setOwnerErr
	}
	tag, ok := f.tags[tagID]
	if !ok {
		return repository.ErrChargeTagTaken
	}
	if tag.UserAccountID != nil && *tag.UserAccountID != userID {
		return repository.ErrChargeTagTaken
	}
	tag.UserAccountID = &userID
	return nil
}

func (f *fakeTagStore) owner(tagID string) *int64 {
	return f.tags[tagID].UserAccountID
}

type fakePointStore struct {
	rows       map[string]models.UserChargePoint
	applyCalls int
}

func newFakePointStore() *fakePointStore {
	return &fakePointStore{rows: map[string]models.UserChargePoint{}}
}

func (f *fakePointStore) ListByUser(_ context.Context, userID int64) ([]models.UserChargePoint, error) {
	var out []models.UserChargePoint
	for _, row := range f.rows {
		if row.UserAccountID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakePointStore) Apply(_ context.Context, userID int64, inserts, updates []models.UserChargePoint, deletes []string) error {
	f.applyCalls++
	for _, pointID := range deletes {
		delete(f.rows, pointID)
	}
	for _, row := range inserts {
		row.UserAccountID = userID
		f.rows[row.ChargePointID] = row
	}
	for _, row := range updates {
		row.UserAccountID = userID
		f.rows[row.ChargePointID] = row
	}
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context, int64) error {
	f.calls++
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestAssignChargeTagSuccess(t *testing.T) {
	tags := newFakeTagStore(models.ChargeTag{TagID: "TAG-A", TagUID: "04A1"})
	invalidator := &fakeInvalidator{}
	svc := NewAssignmentService(tags, newFakePointStore(), invalidator, zap.NewNop())

	require.NoError(t, svc.AssignChargeTag(context.Background(), 1, "TAG-A"))
	require.Equal(t, int64(1), *tags.owner("TAG-A"))
	require.Equal(t, 1, invalidator.calls)
}

func TestAssignChargeTagUnknownTag(t *testing.T) {
	svc := NewAssignmentService(newFakeTagStore(), newFakePointStore(), nil, zap.NewNop())

	err := svc.AssignChargeTag(context.Background(), 1, "TAG-MISSING")
	require.ErrorIs(t, err, ErrTagNotFound)
}

func TestAssignChargeTagTakenByOtherUser(t *testing.T) {
	tags := newFakeTagStore(models.ChargeTag{TagID: "TAG-A", UserAccountID: int64Ptr(1)})
	svc := NewAssignmentService(tags, newFakePointStore(), nil, zap.NewNop())

	err := svc.AssignChargeTag(context.Background(), 2, "TAG-A")
	require.ErrorIs(t, err, ErrTagAssigned)
	require.Equal(t, int64(1), *tags.owner("TAG-A"), "owner record unchanged")
}

func TestAssignChargeTagUserAlreadyHasTag(t *testing.T) {
	tags := newFakeTagStore(
		models.ChargeTag{TagID: "TAG-A", UserAccountID: int64Ptr(1)},
		models.ChargeTag{TagID: "TAG-B"},
	)
	svc := NewAssignmentService(tags, newFakePointStore(), nil, zap.NewNop())

	err := svc.AssignChargeTag(context.Background(), 1, "TAG-B")
	require.ErrorIs(t, err, ErrUserHasTag)
	require.Equal(t, int64(1), *tags.owner("TAG-A"), "owner record unchanged")
	require.Nil(t, tags.owner("TAG-B"))
}

func TestAssignChargeTagReassignSameTagIsNoConflict(t *testing.T) {
	tags := newFakeTagStore(models.ChargeTag{TagID: "TAG-A", UserAccountID: int64Ptr(1)})
	svc := NewAssignmentService(tags, newFakePointStore(), nil, zap.NewNop())

	require.NoError(t, svc.AssignChargeTag(context.Background(), 1, "TAG-A"))
}

func TestAssignChargeTagClear(t *testing.T) {
	tags := newFakeTagStore(models.ChargeTag{TagID: "TAG-A", UserAccountID: int64Ptr(1)})
	svc := NewAssignmentService(tags, newFakePointStore(), nil, zap.NewNop())

	require.NoError(t, svc.AssignChargeTag(context.Background(), 1, ""))
	require.Nil(t, tags.owner("TAG-A"))
	require.Equal(t, 1, tags.clearCalls)

	// Clearing again is a no-op.
	require.NoError(t, svc.AssignChargeTag(context.Background(), 1, ""))
	require.Equal(t, 1, tags.clearCalls)
}

func TestAssignChargeTagCommitRaceMapsToConflict(t *testing.T) {
	tags := newFakeTagStore(models.ChargeTag{TagID: "TAG-A"})
	tags.setOwnerErr = repository.ErrOwnerHasTag
	svc := NewAssignmentService(tags, newFakePointStore(), nil, zap.NewNop())

	err := svc.AssignChargeTag(context.Background(), 1, "TAG-A")
	require.ErrorIs(t, err, ErrUserHasTag)

	tags.setOwnerErr = repository.ErrChargeTagTaken
	err = svc.AssignChargeTag(context.Background(), 1, "TAG-A")
	require.ErrorIs(t, err, ErrTagAssigned)
}

func TestSyncChargePointsIsIdempotent(t *testing.T) {
	points := newFakePointStore()
	invalidator := &fakeInvalidator{}
	svc := NewAssignmentService(newFakeTagStore(), points, invalidator, zap.NewNop())

	desired := []models.UserChargePoint{{ChargePointID: "CP001", Hidden: false}}

	require.NoError(t, svc.SyncChargePoints(context.Background(), 1, desired))
	require.Equal(t, 1, points.applyCalls)
	require.Equal(t, 1, invalidator.calls)

	// The second identical call performs zero store writes.
	require.NoError(t, svc.SyncChargePoints(context.Background(), 1, desired))
	require.Equal(t, 1, points.applyCalls)
	require.Equal(t, 1, invalidator.calls)
}

func TestSyncChargePointsDiff(t *testing.T) {
	points := newFakePointStore()
	svc := NewAssignmentService(newFakeTagStore(), points, nil, zap.NewNop())

	require.NoError(t, svc.SyncChargePoints(context.Background(), 1, []models.UserChargePoint{
		{ChargePointID: "CP001", Hidden: false},
		{ChargePointID: "CP002", Hidden: true},
	}))
	require.Len(t, points.rows, 2)

	// Drop CP002, flip CP001 to hidden, add CP003.
	require.NoError(t, svc.SyncChargePoints(context.Background(), 1, []models.UserChargePoint{
		{ChargePointID: "CP001", Hidden: true},
		{ChargePointID: "CP003", Hidden: false},
	}))
	require.Len(t, points.rows, 2)
	require.True(t, points.rows["CP001"].Hidden)
	require.False(t, points.rows["CP003"].Hidden)
	_, ok := points.rows["CP002"]
	require.False(t, ok)
}
