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

type TransferHandler struct {
	Service *services.TransferService
	Audit   *services.AuditService
}

func NewTransferHandler(service *services.TransferService, audit *services.AuditService) *TransferHandler {
	return &TransferHandler{Service: service, Audit: audit}
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	transfer, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(userID, "transfer.create", map[string]interface{}{
		"transfer_id": transfer.ID, "from_base_id": transfer.FromBaseID,
		"to_base_id": transfer.ToBaseID, "quantity": transfer.Quantity,
	})
	utils.JSON(w, http.StatusCreated, transfer)
}

func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	transfer, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	limit, offset := pagination(r)
	transfers, err := h.Service.List(r.Context(), scope, limit, offset)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	utils.JSON(w, http.StatusOK, transfers)
}

// Transition handles PATCH /transfers/{id}/status.
func (h *TransferHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateTransferStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	transfer, err := h.Service.Transition(r.Context(), id, req.Status, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(userID, "transfer.transition", map[string]interface{}{
		"transfer_id": transfer.ID, "status": string(transfer.Status),
	})
	utils.JSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	transfer, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Audit.Record(userID, "transfer.update", map[string]interface{}{"transfer_id": id})
	}
	utils.JSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Audit.Record(userID, "transfer.delete", map[string]interface{}{"transfer_id": id})
	}
	w.WriteHeader(http.StatusNoContent)
}
