package handlers

import (
	"net/http"

	"tracker-backend/internal/middleware"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// Movement serves GET /reports/movement?format=csv|pdf.
func (h *ReportHandler) Movement(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	filter := dashboardFilter(r)

	switch r.URL.Query().Get("format") {
	case "pdf":
		data, err := h.Service.PDF(r.Context(), scope, filter)
		if err != nil {
			utils.Error(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="movement-report.pdf"`)
		w.Write(data)
	default:
		data, err := h.Service.CSV(r.Context(), scope, filter)
		if err != nil {
			utils.Error(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="movement-report.csv"`)
		w.Write(data)
	}
}
