package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargegrid/internal/models"
)

type fakeAccounts struct {
	users map[int64]*models.UserAccount
}

func (f *fakeAccounts) GetByID(_ context.Context, userID int64) (*models.UserAccount, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type fakeTags struct {
	owned map[int64][]models.ChargeTag
}

func (f *fakeTags) ListOwnedBy(_ context.Context, userID int64) ([]models.ChargeTag, error) {
	return f.owned[userID], nil
}

type fakePoints struct {
	assignments map[int64][]models.UserChargePoint
}

func (f *fakePoints) ListByUser(_ context.Context, userID int64) ([]models.UserChargePoint, error) {
	return f.assignments[userID], nil
}

func TestStoreProviderResolvesRestrictedScope(t *testing.T) {
	provider := NewStoreProvider(
		&fakeAccounts{users: map[int64]*models.UserAccount{7: {ID: 7}}},
		&fakeTags{owned: map[int64][]models.ChargeTag{7: {{TagID: "TAG-A"}}}},
		&fakePoints{assignments: map[int64][]models.UserChargePoint{7: {
			{UserAccountID: 7, ChargePointID: "CP001"},
			{UserAccountID: 7, ChargePointID: "CP002", Hidden: true},
		}}},
	)

	sc, err := provider.Resolve(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, sc.IsAdmin)
	require.Equal(t, []string{"TAG-A"}, sc.TagIDs)
	require.Equal(t, []string{"CP001", "CP002"}, sc.PointIDs)
}

func TestStoreProviderAdminScopeIsUnbounded(t *testing.T) {
	provider := NewStoreProvider(
		&fakeAccounts{users: map[int64]*models.UserAccount{1: {ID: 1, IsAdmin: true}}},
		&fakeTags{},
		&fakePoints{},
	)

	sc, err := provider.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, sc.IsAdmin)
	require.Empty(t, sc.TagIDs)
	require.Empty(t, sc.PointIDs)
}

type fakeCache struct {
	entries   map[int64]Scope
	getErr    error
	saveCalls int
}

func (f *fakeCache) Get(_ context.Context, userID int64) (Scope, error) {
	if f.getErr != nil {
		return Scope{}, f.getErr
	}
	sc, ok := f.entries[userID]
	if !ok {
		return Scope{}, ErrCacheMiss
	}
	return sc, nil
}

func (f *fakeCache) Save(_ context.Context, userID int64, sc Scope) error {
	f.saveCalls++
	f.entries[userID] = sc
	return nil
}

type staticProvider struct {
	sc    Scope
	calls int
}

func (p *staticProvider) Resolve(context.Context, int64) (Scope, error) {
	p.calls++
	return p.sc, nil
}

func TestCachedProviderReadThrough(t *testing.T) {
	inner := &staticProvider{sc: Scope{TagIDs: []string{"TAG-A"}}}
	cache := &fakeCache{entries: map[int64]Scope{}}
	provider := NewCachedProvider(inner, cache, zap.NewNop())

	sc, err := provider.Resolve(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []string{"TAG-A"}, sc.TagIDs)
	require.Equal(t, 1, inner.calls)
	require.Equal(t, 1, cache.saveCalls)

	// Second resolve hits the cache.
	_, err = provider.Resolve(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)
}

func TestCachedProviderDegradesOnCacheFailure(t *testing.T) {
	inner := &staticProvider{sc: Scope{IsAdmin: true}}
	cache := &fakeCache{entries: map[int64]Scope{}, getErr: errors.New("redis down")}
	provider := NewCachedProvider(inner, cache, zap.NewNop())

	sc, err := provider.Resolve(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, sc.IsAdmin)
	require.Equal(t, 1, inner.calls)
}
