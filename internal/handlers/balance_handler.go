package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tracker-backend/internal/middleware"
	"tracker-backend/internal/models"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"
)

type BalanceHandler struct {
	Service *services.BalanceService
}

func NewBalanceHandler(service *services.BalanceService) *BalanceHandler {
	return &BalanceHandler{Service: service}
}

func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := &models.BalanceFilter{Category: q.Get("category")}
	if baseID, err := strconv.Atoi(q.Get("base_id")); err == nil {
		filter.BaseID = &baseID
	}
	if equipmentID, err := strconv.Atoi(q.Get("equipment_id")); err == nil {
		filter.EquipmentID = &equipmentID
	}

	balances, err := h.Service.List(r.Context(), scope, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if balances == nil {
		balances = []models.Balance{}
	}
	utils.JSON(w, http.StatusOK, balances)
}

// Reconcile forces a recompute of one key. Wired admin-only in the router.
func (h *BalanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BaseID      int `json:"base_id"`
		EquipmentID int `json:"equipment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	balance, err := h.Service.Reconcile(r.Context(), req.BaseID, req.EquipmentID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, balance)
}
