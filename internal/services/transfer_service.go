package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

// Reconciler recomputes the balance for one (base, equipment) key.
type Reconciler interface {
	Reconcile(ctx context.Context, baseID, equipmentID int) (*models.Balance, error)
}

type TransferStore interface {
	Create(ctx context.Context, t *models.Transfer) error
	Get(ctx context.Context, id int) (*models.Transfer, error)
	Update(ctx context.Context, t *models.Transfer) error
	UpdateStatus(ctx context.Context, id int, status models.TransferStatus, approvedBy *int, completedAt *time.Time) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, baseID *int, limit, offset int) ([]models.Transfer, error)
}

type BaseGetter interface {
	Get(ctx context.Context, id int) (*models.Base, error)
}

type EquipmentGetter interface {
	Get(ctx context.Context, id int) (*models.Equipment, error)
}

// TransferService owns the transfer lifecycle. Balance moves only on
// completion, and the reconciliation engine is the sole writer of balances.
type TransferService struct {
	Transfers  TransferStore
	Bases      BaseGetter
	Equipment  EquipmentGetter
	Reconciler Reconciler
}

func NewTransferService(transfers TransferStore, bases BaseGetter, equipment EquipmentGetter, reconciler Reconciler) *TransferService {
	return &TransferService{
		Transfers:  transfers,
		Bases:      bases,
		Equipment:  equipment,
		Reconciler: reconciler,
	}
}

func (s *TransferService) validateEndpoints(ctx context.Context, equipmentID, fromBaseID, toBaseID, quantity int) error {
	if quantity <= 0 {
		return apperrors.Validation("quantity must be positive, got %d", quantity)
	}
	if fromBaseID == toBaseID {
		return apperrors.Validation("source and destination base must differ")
	}
	if _, err := s.Equipment.Get(ctx, equipmentID); err != nil {
		return err
	}
	if _, err := s.Bases.Get(ctx, fromBaseID); err != nil {
		return err
	}
	if _, err := s.Bases.Get(ctx, toBaseID); err != nil {
		return err
	}
	return nil
}

// checkSufficiency compares the requested quantity against the source base's
// current closing balance. Advisory only: concurrent traffic can still drain
// the source before this transfer completes, in which case reconciliation
// clamps at zero and flags the key.
func (s *TransferService) checkSufficiency(ctx context.Context, fromBaseID, equipmentID, quantity int) error {
	balance, err := s.Reconciler.Reconcile(ctx, fromBaseID, equipmentID)
	if err != nil {
		return fmt.Errorf("failed to check source balance: %w", err)
	}
	if balance.ClosingBalance < quantity {
		return &apperrors.InsufficientInventoryError{
			Available: balance.ClosingBalance,
			Requested: quantity,
		}
	}
	return nil
}

func (s *TransferService) Create(ctx context.Context, req *models.CreateTransferRequest, userID int) (*models.Transfer, error) {
	if err := s.validateEndpoints(ctx, req.EquipmentID, req.FromBaseID, req.ToBaseID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.checkSufficiency(ctx, req.FromBaseID, req.EquipmentID, req.Quantity); err != nil {
		return nil, err
	}

	transferDate := time.Now()
	if req.TransferDate != nil {
		transferDate = *req.TransferDate
	}

	transfer := &models.Transfer{
		EquipmentID:     req.EquipmentID,
		FromBaseID:      req.FromBaseID,
		ToBaseID:        req.ToBaseID,
		Quantity:        req.Quantity,
		Status:          models.TransferStatusPending,
		TransferDate:    transferDate,
		CreatedByUserID: userID,
	}
	if err := s.Transfers.Create(ctx, transfer); err != nil {
		return nil, err
	}

	log.Printf("[Transfer] created transfer %d: %d x equipment %d from base %d to base %d",
		transfer.ID, transfer.Quantity, transfer.EquipmentID, transfer.FromBaseID, transfer.ToBaseID)
	return transfer, nil
}

func (s *TransferService) Get(ctx context.Context, scope models.Scope, id int) (*models.Transfer, error) {
	transfer, err := s.Transfers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBase(transfer.FromBaseID) && !scope.CanAccessBase(transfer.ToBaseID) {
		return nil, apperrors.AccessDenied("transfer %d is outside your base scope", id)
	}
	return transfer, nil
}

// List returns transfers visible to the scope. Non-admins see only transfers
// touching their home base.
func (s *TransferService) List(ctx context.Context, scope models.Scope, limit, offset int) ([]models.Transfer, error) {
	baseID := scope.BaseID
	if scope.AllBases() {
		baseID = nil
	} else if baseID == nil {
		return nil, apperrors.AccessDenied("no base assigned to your account")
	}
	return s.Transfers.List(ctx, baseID, limit, offset)
}

// Transition moves a transfer through its lifecycle. Completion moves
// inventory at both endpoints; terminal states reject every further move.
func (s *TransferService) Transition(ctx context.Context, id int, next models.TransferStatus, userID int) (*models.Transfer, error) {
	if !next.Valid() {
		return nil, apperrors.Validation("unknown transfer status %q", next)
	}

	transfer, err := s.Transfers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transfer.Status.CanTransitionTo(next) {
		return nil, &apperrors.InvalidTransitionError{
			From: string(transfer.Status),
			To:   string(next),
		}
	}

	var approvedBy *int
	var completedAt *time.Time
	if next == models.TransferStatusInTransit || next == models.TransferStatusCompleted {
		approvedBy = &userID
	}
	if next == models.TransferStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.Transfers.UpdateStatus(ctx, id, next, approvedBy, completedAt); err != nil {
		return nil, err
	}

	if next == models.TransferStatusCompleted {
		if _, err := s.Reconciler.Reconcile(ctx, transfer.FromBaseID, transfer.EquipmentID); err != nil {
			return nil, fmt.Errorf("transfer %d completed but source reconciliation failed: %w", id, err)
		}
		if _, err := s.Reconciler.Reconcile(ctx, transfer.ToBaseID, transfer.EquipmentID); err != nil {
			return nil, fmt.Errorf("transfer %d completed but destination reconciliation failed: %w", id, err)
		}
	}

	log.Printf("[Transfer] transfer %d moved %s -> %s by user %d", id, transfer.Status, next, userID)
	return s.Transfers.Get(ctx, id)
}

// Update edits a transfer's fields. Permitted only while pending, since later
// states may already have moved goods.
func (s *TransferService) Update(ctx context.Context, id int, req *models.UpdateTransferRequest) (*models.Transfer, error) {
	transfer, err := s.Transfers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferStatusPending {
		return nil, apperrors.Validation("only pending transfers can be edited, transfer %d is %s", id, transfer.Status)
	}
	if err := s.validateEndpoints(ctx, req.EquipmentID, req.FromBaseID, req.ToBaseID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.checkSufficiency(ctx, req.FromBaseID, req.EquipmentID, req.Quantity); err != nil {
		return nil, err
	}

	transfer.EquipmentID = req.EquipmentID
	transfer.FromBaseID = req.FromBaseID
	transfer.ToBaseID = req.ToBaseID
	transfer.Quantity = req.Quantity
	if req.TransferDate != nil {
		transfer.TransferDate = *req.TransferDate
	}

	if err := s.Transfers.Update(ctx, transfer); err != nil {
		return nil, err
	}
	return s.Transfers.Get(ctx, id)
}

// Delete removes a transfer. Permitted only while pending.
func (s *TransferService) Delete(ctx context.Context, id int) error {
	transfer, err := s.Transfers.Get(ctx, id)
	if err != nil {
		return err
	}
	if transfer.Status != models.TransferStatusPending {
		return apperrors.Validation("only pending transfers can be deleted, transfer %d is %s", id, transfer.Status)
	}
	return s.Transfers.Delete(ctx, id)
}
