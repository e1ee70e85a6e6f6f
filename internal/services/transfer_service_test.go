package services

import (
	"context"
	"errors"
	"testing"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

// seedStock creates a delivered purchase and reconciles so the base has stock.
func seedStock(t *testing.T, f *fixture, baseID, equipmentID, quantity int) {
	t.Helper()
	ctx := context.Background()
	if err := f.store.CreatePurchase(ctx, &models.Purchase{
		ToBaseID: baseID, EquipmentID: equipmentID, Quantity: quantity,
		Status: models.PurchaseStatusDelivered,
	}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	if _, err := f.reconcile.Reconcile(ctx, baseID, equipmentID); err != nil {
		t.Fatalf("seed reconcile: %v", err)
	}
}

func closing(t *testing.T, f *fixture, baseID, equipmentID int) int {
	t.Helper()
	b, err := f.store.Get(context.Background(), baseID, equipmentID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if b == nil {
		return 0
	}
	return b.ClosingBalance
}

func TestTransferSameBaseRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	base := f.store.addBase("Alpha")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, base.ID, eq.ID, 10)

	_, err := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: base.ID, ToBaseID: base.ID, Quantity: 1,
	}, 1)

	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for same-base transfer, got %v", err)
	}
}

func TestTransferInsufficientInventory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 75)

	_, err := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 200,
	}, 1)

	var insufficient *apperrors.InsufficientInventoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient inventory error, got %v", err)
	}
	if insufficient.Available != 75 || insufficient.Requested != 200 {
		t.Errorf("expected available=75 requested=200, got %+v", insufficient)
	}
}

func TestTransferOnlyCompletionMovesInventory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 100)

	transfer, err := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 30,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Pending: no movement yet.
	if got := closing(t, f, alpha.ID, eq.ID); got != 100 {
		t.Errorf("pending transfer moved source balance: %d", got)
	}

	// In transit: still no movement.
	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusInTransit, 1); err != nil {
		t.Fatalf("Transition to in_transit: %v", err)
	}
	if got := closing(t, f, alpha.ID, eq.ID); got != 100 {
		t.Errorf("in-transit transfer moved source balance: %d", got)
	}
	if got := closing(t, f, bravo.ID, eq.ID); got != 0 {
		t.Errorf("in-transit transfer moved destination balance: %d", got)
	}

	// Completed: both endpoints move, total conserved.
	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusCompleted, 1); err != nil {
		t.Fatalf("Transition to completed: %v", err)
	}
	if got := closing(t, f, alpha.ID, eq.ID); got != 70 {
		t.Errorf("expected source 70 after completion, got %d", got)
	}
	if got := closing(t, f, bravo.ID, eq.ID); got != 30 {
		t.Errorf("expected destination 30 after completion, got %d", got)
	}
}

func TestTransferTerminalStatesImmutable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 50)

	transfer, err := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 10,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusCancelled, 1); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	for _, next := range []models.TransferStatus{
		models.TransferStatusPending, models.TransferStatusInTransit,
		models.TransferStatusCompleted, models.TransferStatusCancelled,
	} {
		_, err := f.transfers.Transition(ctx, transfer.ID, next, 1)
		var transition *apperrors.InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Errorf("expected invalid transition from cancelled to %s, got %v", next, err)
		}
	}

	// Cancelled transfer never moved stock.
	if got := closing(t, f, alpha.ID, eq.ID); got != 50 {
		t.Errorf("cancelled transfer changed balance: %d", got)
	}
}

func TestTransferCompletedIsIdempotentTarget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 50)

	transfer, _ := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 10,
	}, 1)
	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusCompleted, 1); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// A second completion attempt must be rejected, not double-counted.
	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusCompleted, 1); err == nil {
		t.Fatal("expected error completing twice")
	}
	if got := closing(t, f, bravo.ID, eq.ID); got != 10 {
		t.Errorf("expected destination 10, got %d", got)
	}
}

func TestTransferEditOnlyWhilePending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 50)

	transfer, _ := f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 10,
	}, 1)

	// Editable while pending.
	updated, err := f.transfers.Update(ctx, transfer.ID, &models.UpdateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 20,
	})
	if err != nil {
		t.Fatalf("Update pending: %v", err)
	}
	if updated.Quantity != 20 {
		t.Errorf("expected quantity 20, got %d", updated.Quantity)
	}

	if _, err := f.transfers.Transition(ctx, transfer.ID, models.TransferStatusInTransit, 1); err != nil {
		t.Fatalf("transition: %v", err)
	}

	// Frozen once it leaves pending.
	if _, err := f.transfers.Update(ctx, transfer.ID, &models.UpdateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 5,
	}); err == nil {
		t.Error("expected error editing in-transit transfer")
	}
	if err := f.transfers.Delete(ctx, transfer.ID); err == nil {
		t.Error("expected error deleting in-transit transfer")
	}
}

func TestTransferScopeFiltersList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alpha := f.store.addBase("Alpha")
	bravo := f.store.addBase("Bravo")
	charlie := f.store.addBase("Charlie")
	eq := f.store.addEquipment("Rifle", "weapon")
	seedStock(t, f, alpha.ID, eq.ID, 100)
	seedStock(t, f, bravo.ID, eq.ID, 100)

	f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: alpha.ID, ToBaseID: bravo.ID, Quantity: 5,
	}, 1)
	f.transfers.Create(ctx, &models.CreateTransferRequest{
		EquipmentID: eq.ID, FromBaseID: bravo.ID, ToBaseID: charlie.ID, Quantity: 5,
	}, 1)

	adminScope := models.Scope{UserID: 1, Role: models.RoleAdmin}
	all, err := f.transfers.List(ctx, adminScope, 0, 0)
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected admin to see 2 transfers, got %d", len(all))
	}

	officerScope := models.Scope{UserID: 2, Role: models.RoleLogisticsOfficer, BaseID: &charlie.ID}
	scoped, err := f.transfers.List(ctx, officerScope, 0, 0)
	if err != nil {
		t.Fatalf("officer List: %v", err)
	}
	if len(scoped) != 1 {
		t.Errorf("expected officer to see 1 transfer touching their base, got %d", len(scoped))
	}
}
