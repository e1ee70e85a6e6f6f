package services

import (
	"context"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

type BalanceLister interface {
	List(ctx context.Context, filter *models.BalanceFilter) ([]models.Balance, error)
}

// BalanceService is the read surface for reconciled balances, plus a manual
// re-reconcile hook for operators.
type BalanceService struct {
	Balances   BalanceLister
	Reconciler Reconciler
}

func NewBalanceService(balances BalanceLister, reconciler Reconciler) *BalanceService {
	return &BalanceService{Balances: balances, Reconciler: reconciler}
}

// List returns balance rows visible to the scope.
func (s *BalanceService) List(ctx context.Context, scope models.Scope, filter *models.BalanceFilter) ([]models.Balance, error) {
	if !scope.AllBases() {
		if scope.BaseID == nil {
			return nil, apperrors.AccessDenied("no base assigned to your account")
		}
		if filter.BaseID != nil && *filter.BaseID != *scope.BaseID {
			return nil, apperrors.AccessDenied("base %d is outside your base scope", *filter.BaseID)
		}
		filter.BaseID = scope.BaseID
	}
	return s.Balances.List(ctx, filter)
}

// Reconcile forces a recompute of one key. Admin-only at the HTTP layer.
func (s *BalanceService) Reconcile(ctx context.Context, baseID, equipmentID int) (*models.Balance, error) {
	if baseID <= 0 || equipmentID <= 0 {
		return nil, apperrors.Validation("base_id and equipment_id are required")
	}
	return s.Reconciler.Reconcile(ctx, baseID, equipmentID)
}
