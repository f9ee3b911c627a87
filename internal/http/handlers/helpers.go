package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chargegrid/internal/service"
)

const userIDHeader = "X-User-ID"

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// callerID extracts the authenticated user id resolved by the upstream
// gateway. Writes the error response itself on failure.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "missing user id header")
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return userID, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// writeServiceError maps engine errors onto HTTP statuses: conflicts are
// user-correctable 409s, validation failures 400s, everything else is a
// generic failure for the caller to log.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTagNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserHasTag),
		errors.Is(err, service.ErrTagAssigned),
		errors.Is(err, service.ErrLoginTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
