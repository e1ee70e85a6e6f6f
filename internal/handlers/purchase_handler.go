package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tracker-backend/internal/middleware"
	"tracker-backend/internal/models"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PurchaseHandler struct {
	Service *services.PurchaseService
	Audit   *services.AuditService
}

func NewPurchaseHandler(service *services.PurchaseService, audit *services.AuditService) *PurchaseHandler {
	return &PurchaseHandler{Service: service, Audit: audit}
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	purchase, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(userID, "purchase.create", map[string]interface{}{
		"purchase_id": purchase.ID, "base_id": purchase.ToBaseID,
		"equipment_id": purchase.EquipmentID, "quantity": purchase.Quantity,
	})
	utils.JSON(w, http.StatusCreated, purchase)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	purchase, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	limit, offset := pagination(r)
	purchases, err := h.Service.List(r.Context(), scope, limit, offset)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	utils.JSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	purchase, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Audit.Record(userID, "purchase.update", map[string]interface{}{
			"purchase_id": purchase.ID, "status": string(purchase.Status),
		})
	}
	utils.JSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Audit.Record(userID, "purchase.delete", map[string]interface{}{"purchase_id": id})
	}
	w.WriteHeader(http.StatusNoContent)
}
