package scope

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chargegrid/internal/models"
)

// AccountSource yields the account row backing a scope lookup.
type AccountSource interface {
	GetByID(ctx context.Context, userID int64) (*models.UserAccount, error)
}

// TagSource yields the charge tags owned by an account.
type TagSource interface {
	ListOwnedBy(ctx context.Context, userID int64) ([]models.ChargeTag, error)
}

// PointSource yields the charge point assignments of an account.
type PointSource interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserChargePoint, error)
}

// StoreProvider resolves scopes from the relational store: the tags owned by
// the account and its charge point assignments. Admin accounts resolve to an
// unbounded scope (empty sets, IsAdmin set).
type StoreProvider struct {
	accounts AccountSource
	tags     TagSource
	points   PointSource
}

// NewStoreProvider builds a store-backed provider.
func NewStoreProvider(accounts AccountSource, tags TagSource, points PointSource) *StoreProvider {
	return &StoreProvider{accounts: accounts, tags: tags, points: points}
}

// Resolve implements Provider.
func (p *StoreProvider) Resolve(ctx context.Context, userID int64) (Scope, error) {
	account, err := p.accounts.GetByID(ctx, userID)
	if err != nil {
		return Scope{}, err
	}

	if account.IsAdmin {
		return Scope{IsAdmin: true}, nil
	}

	tags, err := p.tags.ListOwnedBy(ctx, userID)
	if err != nil {
		return Scope{}, err
	}
	assignments, err := p.points.ListByUser(ctx, userID)
	if err != nil {
		return Scope{}, err
	}

	sc := Scope{}
	for _, tag := range tags {
		sc.TagIDs = append(sc.TagIDs, tag.TagID)
	}
	for _, assignment := range assignments {
		sc.PointIDs = append(sc.PointIDs, assignment.ChargePointID)
	}
	return sc, nil
}

// Cache is the contract of the scope cache; misses are signalled with
// ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, userID int64) (Scope, error)
	Save(ctx context.Context, userID int64, sc Scope) error
}

// ErrCacheMiss indicates the scope was not cached.
var ErrCacheMiss = errors.New("scope: cache miss")

// CachedProvider is a read-through decorator over another Provider. Cache
// failures degrade to the inner provider and are logged, never surfaced.
type CachedProvider struct {
	inner  Provider
	cache  Cache
	logger *zap.Logger
}

// NewCachedProvider wraps a provider with a cache.
func NewCachedProvider(inner Provider, cache Cache, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, logger: logger}
}

// Resolve implements Provider.
func (p *CachedProvider) Resolve(ctx context.Context, userID int64) (Scope, error) {
	sc, err := p.cache.Get(ctx, userID)
	if err == nil {
		return sc, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		p.logger.Warn("scope cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	sc, err = p.inner.Resolve(ctx, userID)
	if err != nil {
		return Scope{}, err
	}

	if err := p.cache.Save(ctx, userID, sc); err != nil {
		p.logger.Warn("scope cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return sc, nil
}
