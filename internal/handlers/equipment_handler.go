package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
	"tracker-backend/internal/repositories"
	"tracker-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type EquipmentHandler struct {
	Repo *repositories.EquipmentRepository
}

func NewEquipmentHandler(repo *repositories.EquipmentRepository) *EquipmentHandler {
	return &EquipmentHandler{Repo: repo}
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Category == "" {
		utils.Error(w, apperrors.Validation("name and category are required"))
		return
	}

	eq := &models.Equipment{Name: req.Name, Category: req.Category, Unit: req.Unit}
	if eq.Unit == "" {
		eq.Unit = "count"
	}
	if err := h.Repo.Create(r.Context(), eq); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, eq)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	eq, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, eq)
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	if equipment == nil {
		equipment = []models.Equipment{}
	}
	utils.JSON(w, http.StatusOK, equipment)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Category == "" {
		utils.Error(w, apperrors.Validation("name and category are required"))
		return
	}

	eq := &models.Equipment{ID: id, Name: req.Name, Category: req.Category, Unit: req.Unit}
	if err := h.Repo.Update(r.Context(), eq); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, eq)
}
