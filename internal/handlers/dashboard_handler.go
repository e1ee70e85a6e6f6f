package handlers

import (
	"net/http"

	"tracker-backend/internal/middleware"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	metrics, err := h.Service.Metrics(r.Context(), scope, dashboardFilter(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, metrics)
}
