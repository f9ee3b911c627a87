package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargegrid/internal/models"
	"chargegrid/internal/repository"
)

// ChargeTagStore is the tag storage contract used by assignment handling.
type ChargeTagStore interface {
	GetByID(ctx context.Context, tagID string) (*models.ChargeTag, error)
	ListOwnedBy(ctx context.Context, userID int64) ([]models.ChargeTag, error)
	ClearOwner(ctx context.Context, userID int64) error
	SetOwner(ctx context.Context, tagID string, userID int64) error
}

// UserChargePointStore is the station assignment storage contract.
type UserChargePointStore interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserChargePoint, error)
	Apply(ctx context.Context, userID int64, inserts, updates []models.UserChargePoint, deletes []string) error
}

// ScopeInvalidator drops a user's cached permission scope after a mutation.
type ScopeInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// AssignmentService enforces the consistency rules around user/tag and
// user/charge-point assignments: one tag per user, one owner per tag,
// at most one association row per (user, station) pair.
type AssignmentService struct {
	tags   ChargeTagStore
	points UserChargePointStore
	scopes ScopeInvalidator
	logger *zap.Logger
}

// NewAssignmentService builds the service. scopes may be nil when no scope
// cache is configured.
func NewAssignmentService(tags ChargeTagStore, points UserChargePointStore, scopes ScopeInvalidator, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		tags:   tags,
		points: points,
		scopes: scopes,
		logger: logger,
	}
}

// AssignChargeTag gives the tag to the user, or clears the user's current
// tag when selectedTagID is empty. The pre-checks make conflicts precise for
// the caller; the store's unique owner index is the final race arbiter, and
// its violations come back as the same conflict errors.
func (s *AssignmentService) AssignChargeTag(ctx context.Context, userID int64, selectedTagID string) error {
	selectedTagID = strings.TrimSpace(selectedTagID)

	owned, err := s.tags.ListOwnedBy(ctx, userID)
	if err != nil {
		return err
	}

	if selectedTagID == "" {
		if len(owned) == 0 {
			return nil
		}
		if err := s.tags.ClearOwner(ctx, userID); err != nil {
			return err
		}
		s.invalidateScope(ctx, userID)
		s.logger.Info("charge tag cleared", zap.Int64("user_id", userID))
		return nil
	}

	tag, err := s.tags.GetByID(ctx, selectedTagID)
	if err != nil {
		if errors.Is(err, repository.ErrChargeTagNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	if len(owned) > 0 && !strings.EqualFold(owned[0].TagID, tag.TagID) {
		return ErrUserHasTag
	}
	if tag.UserAccountID != nil && *tag.UserAccountID != userID {
		return ErrTagAssigned
	}

	if err := s.tags.SetOwner(ctx, tag.TagID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrChargeTagTaken):
			return ErrTagAssigned
		case errors.Is(err, repository.ErrOwnerHasTag):
			return ErrUserHasTag
		}
		return err
	}

	s.invalidateScope(ctx, userID)
	s.logger.Info("charge tag assigned", zap.Int64("user_id", userID), zap.String("tag_id", tag.TagID))
	return nil
}

// SyncChargePoints reconciles the user's station assignments with the
// desired set: removed stations are deleted, new ones inserted, and the
// hidden flag updated where it changed. Re-applying the same desired set
// performs zero writes.
func (s *AssignmentService) SyncChargePoints(ctx context.Context, userID int64, desired []models.UserChargePoint) error {
	existing, err := s.points.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	existingByID := make(map[string]models.UserChargePoint, len(existing))
	for _, assignment := range existing {
		existingByID[assignment.ChargePointID] = assignment
	}

	// Last entry wins when the desired set repeats a station.
	desiredByID := make(map[string]models.UserChargePoint, len(desired))
	for _, assignment := range desired {
		assignment.UserAccountID = userID
		desiredByID[assignment.ChargePointID] = assignment
	}

	var inserts, updates []models.UserChargePoint
	var deletes []string

	for pointID, want := range desiredByID {
		have, ok := existingByID[pointID]
		switch {
		case !ok:
			inserts = append(inserts, want)
		case have.Hidden != want.Hidden:
			updates = append(updates, want)
		}
	}
	for pointID := range existingByID {
		if _, ok := desiredByID[pointID]; !ok {
			deletes = append(deletes, pointID)
		}
	}

	if len(inserts) == 0 && len(updates) == 0 && len(deletes) == 0 {
		return nil
	}

	if err := s.points.Apply(ctx, userID, inserts, updates, deletes); err != nil {
		return err
	}

	s.invalidateScope(ctx, userID)
	s.logger.Info("charge point assignments synced",
		zap.Int64("user_id", userID),
		zap.Int("inserted", len(inserts)),
		zap.Int("updated", len(updates)),
		zap.Int("deleted", len(deletes)),
	)
	return nil
}

// ListUserTags returns the charge tags owned by the user, ordered by name.
func (s *AssignmentService) ListUserTags(ctx context.Context, userID int64) ([]models.ChargeTag, error) {
	return s.tags.ListOwnedBy(ctx, userID)
}

func (s *AssignmentService) invalidateScope(ctx context.Context, userID int64) {
	if s.scopes == nil {
		return
	}
	if err := s.scopes.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate scope cache", zap.Int64("user_id", userID), zap.Error(err))
	}
}
