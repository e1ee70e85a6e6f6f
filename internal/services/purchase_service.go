package services

import (
	"context"
	"log"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	Get(ctx context.Context, id int) (*models.Purchase, error)
	Update(ctx context.Context, p *models.Purchase) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, baseID *int, limit, offset int) ([]models.Purchase, error)
}

// PurchaseService owns purchase records and their approval workflow. Every
// mutation re-reconciles the affected keys so balances stay a pure projection
// of the transaction set.
type PurchaseService struct {
	Purchases  PurchaseStore
	Bases      BaseGetter
	Equipment  EquipmentGetter
	Reconciler Reconciler
}

func NewPurchaseService(purchases PurchaseStore, bases BaseGetter, equipment EquipmentGetter, reconciler Reconciler) *PurchaseService {
	return &PurchaseService{
		Purchases:  purchases,
		Bases:      bases,
		Equipment:  equipment,
		Reconciler: reconciler,
	}
}

func (s *PurchaseService) validate(ctx context.Context, equipmentID, toBaseID, quantity int) error {
	if quantity <= 0 {
		return apperrors.Validation("quantity must be positive, got %d", quantity)
	}
	if _, err := s.Equipment.Get(ctx, equipmentID); err != nil {
		return err
	}
	if _, err := s.Bases.Get(ctx, toBaseID); err != nil {
		return err
	}
	return nil
}

func (s *PurchaseService) Create(ctx context.Context, req *models.CreatePurchaseRequest, userID int) (*models.Purchase, error) {
	if err := s.validate(ctx, req.EquipmentID, req.ToBaseID, req.Quantity); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.PurchaseStatusDelivered
	}
	if !status.Valid() {
		return nil, apperrors.Validation("unknown purchase status %q", status)
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	purchase := &models.Purchase{
		EquipmentID:     req.EquipmentID,
		ToBaseID:        req.ToBaseID,
		Quantity:        req.Quantity,
		Status:          status,
		PurchaseDate:    purchaseDate,
		CreatedByUserID: userID,
	}
	if err := s.Purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}

	if purchase.Status == models.PurchaseStatusDelivered {
		if _, err := s.Reconciler.Reconcile(ctx, purchase.ToBaseID, purchase.EquipmentID); err != nil {
			return nil, err
		}
	}

	log.Printf("[Purchase] created purchase %d: %d x equipment %d for base %d (%s)",
		purchase.ID, purchase.Quantity, purchase.EquipmentID, purchase.ToBaseID, purchase.Status)
	return purchase, nil
}

func (s *PurchaseService) Get(ctx context.Context, scope models.Scope, id int) (*models.Purchase, error) {
	purchase, err := s.Purchases.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBase(purchase.ToBaseID) {
		return nil, apperrors.AccessDenied("purchase %d is outside your base scope", id)
	}
	return purchase, nil
}

func (s *PurchaseService) List(ctx context.Context, scope models.Scope, limit, offset int) ([]models.Purchase, error) {
	baseID := scope.BaseID
	if scope.AllBases() {
		baseID = nil
	} else if baseID == nil {
		return nil, apperrors.AccessDenied("no base assigned to your account")
	}
	return s.Purchases.List(ctx, baseID, limit, offset)
}

// Update rewrites a purchase. Both the old and new keys are re-reconciled,
// since an edit can move delivered stock between bases or equipment types.
func (s *PurchaseService) Update(ctx context.Context, id int, req *models.UpdatePurchaseRequest) (*models.Purchase, error) {
	purchase, err := s.Purchases.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req.EquipmentID, req.ToBaseID, req.Quantity); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation("unknown purchase status %q", req.Status)
	}

	oldBaseID, oldEquipmentID := purchase.ToBaseID, purchase.EquipmentID

	purchase.EquipmentID = req.EquipmentID
	purchase.ToBaseID = req.ToBaseID
	purchase.Quantity = req.Quantity
	purchase.Status = req.Status
	if req.PurchaseDate != nil {
		purchase.PurchaseDate = *req.PurchaseDate
	}

	if err := s.Purchases.Update(ctx, purchase); err != nil {
		return nil, err
	}

	if _, err := s.Reconciler.Reconcile(ctx, oldBaseID, oldEquipmentID); err != nil {
		return nil, err
	}
	if purchase.ToBaseID != oldBaseID || purchase.EquipmentID != oldEquipmentID {
		if _, err := s.Reconciler.Reconcile(ctx, purchase.ToBaseID, purchase.EquipmentID); err != nil {
			return nil, err
		}
	}
	return s.Purchases.Get(ctx, id)
}

func (s *PurchaseService) Delete(ctx context.Context, id int) error {
	purchase, err := s.Purchases.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Purchases.Delete(ctx, id); err != nil {
		return err
	}
	_, err = s.Reconciler.Reconcile(ctx, purchase.ToBaseID, purchase.EquipmentID)
	return err
}
