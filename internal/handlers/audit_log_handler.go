package handlers

import (
	"net/http"
	"strconv"

	"tracker-backend/internal/models"
	"tracker-backend/internal/services"
	"tracker-backend/pkg/utils"
)

// AuditLogHandler exposes the audit trail. Admin-only in the router.
type AuditLogHandler struct {
	Service *services.AuditService
}

func NewAuditLogHandler(service *services.AuditService) *AuditLogHandler {
	return &AuditLogHandler{Service: service}
}

func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)
	filter := &models.AuditLogFilter{
		Action: q.Get("action"),
		From:   parseDate(q.Get("from")),
		To:     parseDate(q.Get("to")),
		Limit:  limit,
		Offset: offset,
	}
	if userID, err := strconv.Atoi(q.Get("user_id")); err == nil {
		filter.UserID = &userID
	}

	logs, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	utils.JSON(w, http.StatusOK, logs)
}
