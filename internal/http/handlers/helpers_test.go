package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chargegrid/internal/service"
)

func TestCallerID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/transactions/me", nil)
	r.Header.Set(userIDHeader, "42")
	w := httptest.NewRecorder()

	userID, ok := callerID(w, r)
	require.True(t, ok)
	require.Equal(t, int64(42), userID)
}

func TestCallerIDMissingHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/transactions/me", nil)
	w := httptest.NewRecorder()

	_, ok := callerID(w, r)
	require.False(t, ok)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCallerIDInvalidHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/transactions/me", nil)
	r.Header.Set(userIDHeader, "not-a-number")
	w := httptest.NewRecorder()

	_, ok := callerID(w, r)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryDate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/reports/charge?startDate=2024-03-01", nil)

	parsed, err := queryDate(r, "startDate")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), *parsed)

	missing, err := queryDate(r, "stopDate")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestQueryDateInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/reports/charge?startDate=03/01/2024", nil)

	_, err := queryDate(r, "startDate")
	require.Error(t, err)
}

func TestWriteServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: login name required", service.ErrValidation), http.StatusBadRequest},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrTagNotFound, http.StatusNotFound},
		{service.ErrUserHasTag, http.StatusConflict},
		{service.ErrTagAssigned, http.StatusConflict},
		{service.ErrLoginTaken, http.StatusConflict},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		writeServiceError(w, tc.err)
		require.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}
