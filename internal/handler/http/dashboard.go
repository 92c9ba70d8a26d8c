package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
)

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.dashboardStats", service.ErrUnauthorized)
		return
	}

	stats, err := h.services.DashboardService.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.dashboardStats", err)
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) dashboardCharts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.dashboardCharts", service.ErrUnauthorized)
		return
	}

	charts, err := h.services.DashboardService.Charts(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.dashboardCharts", err)
		return
	}

	utils.WriteJSON(w, charts, http.StatusOK)
}

// auditLogs lists the caller's audit trail. ?limit= is optional.
func (h *Handler) auditLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.auditLogs", service.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, "*Handler.auditLogs", ErrInvalidQuery)
			return
		}
		limit = n
	}

	entries, err := h.services.AuditService.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, "*Handler.auditLogs", err)
		return
	}

	utils.WriteJSON(w, entries, http.StatusOK)
}
