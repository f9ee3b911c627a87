package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chargegrid/internal/models"
	"chargegrid/internal/scope"
	"chargegrid/internal/service"
)

type assignChargeTagRequest struct {
	UserID int64  `json:"user_id"`
	TagID  string `json:"tag_id"`
}

// NewAssignChargeTagHandler returns POST /users/charge-tag. An empty tag_id
// clears the user's current tag.
func NewAssignChargeTagHandler(assignments *service.AssignmentService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}

		var req assignChargeTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := assignments.AssignChargeTag(r.Context(), req.UserID, req.TagID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}

type chargePointAssignment struct {
	ChargePointID string `json:"charge_point_id"`
	Hidden        bool   `json:"hidden"`
}

type syncChargePointsRequest struct {
	UserID      int64                   `json:"user_id"`
	Assignments []chargePointAssignment `json:"assignments"`
}

// NewSyncChargePointsHandler returns POST /users/charge-points, replacing
// the user's station assignments with the submitted set.
func NewSyncChargePointsHandler(assignments *service.AssignmentService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}

		var req syncChargePointsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		desired := make([]models.UserChargePoint, 0, len(req.Assignments))
		for _, assignment := range req.Assignments {
			desired = append(desired, models.UserChargePoint{
				UserAccountID: req.UserID,
				ChargePointID: assignment.ChargePointID,
				Hidden:        assignment.Hidden,
			})
		}

		if err := assignments.SyncChargePoints(r.Context(), req.UserID, desired); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}

// NewMyChargeTagsHandler returns GET /charge-tags/me.
func NewMyChargeTagsHandler(assignments *service.AssignmentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		tags, err := assignments.ListUserTags(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list charge tags", zap.Int64("user_id", userID), zap.Error(err))
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"charge_tags": tags})
	}
}
