package handlers

import (
	"encoding/json"
	"net/http"

	"tracker-backend/internal/middleware"
	"tracker-backend/internal/models"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"
)

type AuthHandler struct {
	Users *services.UserService
	Audit *services.AuditService
}

func NewAuthHandler(users *services.UserService, audit *services.AuditService) *AuthHandler {
	return &AuthHandler{Users: users, Audit: audit}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Signup(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(user.ID, "auth.signup", map[string]interface{}{"username": user.Username})
	utils.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Audit.Record(resp.User.ID, "auth.login", nil)
	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
