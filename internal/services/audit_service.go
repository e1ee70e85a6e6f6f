package services

import (
	"context"
	"log"
	"time"

	"tracker-backend/internal/models"
)

type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, error)
}

// AuditService records who did what. Writes are fire-and-forget so a slow or
// failing audit insert never blocks the request that triggered it.
type AuditService struct {
	Logs AuditStore
}

func NewAuditService(logs AuditStore) *AuditService {
	return &AuditService{Logs: logs}
}

func (s *AuditService) Record(userID int, action string, details map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Logs.Create(ctx, entry); err != nil {
			log.Printf("[Audit] failed to record %q for user %d: %v", action, userID, err)
		}
	}()
}

func (s *AuditService) List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, error) {
	return s.Logs.List(ctx, filter)
}
