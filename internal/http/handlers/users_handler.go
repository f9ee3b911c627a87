package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargegrid/internal/scope"
	"chargegrid/internal/service"
)

// requireAdmin resolves the caller's scope and rejects non-administrators.
func requireAdmin(w http.ResponseWriter, r *http.Request, scopes scope.Provider, logger *zap.Logger) bool {
	userID, ok := callerID(w, r)
	if !ok {
		return false
	}
	sc, err := scopes.Resolve(r.Context(), userID)
	if err != nil {
		logger.Error("failed to resolve scope", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to resolve permissions")
		return false
	}
	if !sc.IsAdmin {
		logger.Warn("user management request by non-administrator", zap.Int64("user_id", userID))
		writeError(w, http.StatusForbidden, "administrator role required")
		return false
	}
	return true
}

// NewListUsersHandler returns GET /users.
func NewListUsersHandler(accounts *service.AccountService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}
		users, err := accounts.ListUsers(r.Context())
		if err != nil {
			logger.Error("failed to list users", zap.Error(err))
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
	}
}

type createUserRequest struct {
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// NewCreateUserHandler returns POST /users.
func NewCreateUserHandler(accounts *service.AccountService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := accounts.CreateUser(r.Context(), service.CreateUserInput{
			LoginName: req.LoginName,
			Password:  req.Password,
			IsAdmin:   req.IsAdmin,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

type updateUserRequest struct {
	UserID    int64  `json:"user_id"`
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// NewUpdateUserHandler returns PUT /users.
func NewUpdateUserHandler(accounts *service.AccountService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := accounts.UpdateUser(r.Context(), service.UpdateUserInput{
			UserID:    req.UserID,
			LoginName: req.LoginName,
			Password:  req.Password,
			IsAdmin:   req.IsAdmin,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// NewDeleteUserHandler returns DELETE /users?userId=N.
func NewDeleteUserHandler(accounts *service.AccountService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, scopes, logger) {
			return
		}

		userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}

		if err := accounts.DeleteUser(r.Context(), userID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}
