package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"chargegrid/internal/repository"
	"chargegrid/internal/scope"
	"chargegrid/internal/service"
)

// NewTransactionsHandler returns the GET /transactions handler: the flat
// transaction list plus connector statuses visible to the caller.
func NewTransactionsHandler(reports *service.ReportService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		start, err := queryDate(r, "startDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		stop, err := queryDate(r, "stopDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid stopDate")
			return
		}

		sc, err := scopes.Resolve(r.Context(), userID)
		if err != nil {
			logger.Error("failed to resolve scope", zap.Int64("user_id", userID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to resolve permissions")
			return
		}

		view, err := reports.GetTransactions(r.Context(), start, stop, sc)
		if err != nil {
			logger.Error("failed to load transactions", zap.Int64("user_id", userID), zap.Error(err))
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

// NewMyTransactionsHandler returns the GET /transactions/me handler with its
// optional station/status/date filters.
func NewMyTransactionsHandler(reports *service.ReportService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		from, err := queryDate(r, "from")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		to, err := queryDate(r, "to")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}

		sc, err := scopes.Resolve(r.Context(), userID)
		if err != nil {
			logger.Error("failed to resolve scope", zap.Int64("user_id", userID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to resolve permissions")
			return
		}

		query := repository.TransactionQuery{
			ChargePointID: r.URL.Query().Get("chargePointId"),
			Status:        r.URL.Query().Get("status"),
			From:          from,
			To:            to,
		}

		view, err := reports.MyTransactions(r.Context(), sc, query)
		if err != nil {
			logger.Error("failed to load personal transactions", zap.Int64("user_id", userID), zap.Error(err))
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}
