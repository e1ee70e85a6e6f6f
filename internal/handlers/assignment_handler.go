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

type AssignmentHandler struct {
	Service *services.AssignmentService
	Audit   *services.AuditService
}

func NewAssignmentHandler(service *services.AssignmentService, audit *services.AuditService) *AssignmentHandler {
	return &AssignmentHandler{Service: service, Audit: audit}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	assignment, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(userID, "assignment.create", map[string]interface{}{
		"assignment_id": assignment.ID, "base_id": assignment.BaseID,
		"equipment_id": assignment.EquipmentID, "quantity": assignment.Quantity,
		"personnel": assignment.Personnel,
	})
	utils.JSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	assignment, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		http.Error(w, "User scope not found in context", http.StatusUnauthorized)
		return
	}

	limit, offset := pagination(r)
	assignments, err := h.Service.List(r.Context(), scope, limit, offset)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	utils.JSON(w, http.StatusOK, assignments)
}

// Transition handles PATCH /assignments/{id}/status (expend or return).
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateAssignmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	assignment, err := h.Service.Transition(r.Context(), id, req.Status)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		h.Audit.Record(userID, "assignment.transition", map[string]interface{}{
			"assignment_id": assignment.ID, "status": string(assignment.Status),
		})
	}
	utils.JSON(w, http.StatusOK, assignment)
}
