package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tracker-backend/internal/models"
)

// pagination reads limit/offset query parameters, falling back to repository
// defaults when absent.
func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func dashboardFilter(r *http.Request) *models.DashboardFilter {
	q := r.URL.Query()
	filter := &models.DashboardFilter{
		Category: q.Get("category"),
		From:     parseDate(q.Get("from")),
		To:       parseDate(q.Get("to")),
	}
	if baseID, err := strconv.Atoi(q.Get("base_id")); err == nil {
		filter.BaseID = &baseID
	}
	return filter
}
