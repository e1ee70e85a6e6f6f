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

// BaseHandler manages base reference data. Bases have no business rules
// beyond validation, so the handler talks to the repository directly.
type BaseHandler struct {
	Repo *repositories.BaseRepository
}

func NewBaseHandler(repo *repositories.BaseRepository) *BaseHandler {
	return &BaseHandler{Repo: repo}
}

func (h *BaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		utils.Error(w, apperrors.Validation("name is required"))
		return
	}

	base := &models.Base{Name: req.Name, Location: req.Location}
	if err := h.Repo.Create(r.Context(), base); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, base)
}

func (h *BaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	base, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, base)
}

func (h *BaseHandler) List(w http.ResponseWriter, r *http.Request) {
	bases, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	if bases == nil {
		bases = []models.Base{}
	}
	utils.JSON(w, http.StatusOK, bases)
}

func (h *BaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateBaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		utils.Error(w, apperrors.Validation("name is required"))
		return
	}

	base := &models.Base{ID: id, Name: req.Name, Location: req.Location}
	if err := h.Repo.Update(r.Context(), base); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, base)
}
