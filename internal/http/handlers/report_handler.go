package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"chargegrid/internal/scope"
	"chargegrid/internal/service"
)

// NewChargeReportHandler returns the GET /reports/charge handler. The
// grouped report is returned as structured JSON; CSV/XLSX rendering is the
// export layer's job.
func NewChargeReportHandler(reports *service.ReportService, scopes scope.Provider, logger *zap.Logger) http.HandlerFunc {
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

		report, err := reports.GenerateReport(r.Context(), start, stop, sc)
		if err != nil {
			logger.Error("failed to generate charge report", zap.Int64("user_id", userID), zap.Error(err))
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
