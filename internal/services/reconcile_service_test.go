package services

import (
	"context"
	"testing"
	"time"

	"tracker-backend/internal/models"
)

func TestReconcileLazyRowCreation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	balance, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if balance.ClosingBalance != 0 || balance.OpeningBalance != 0 {
		t.Errorf("expected empty balance for untouched key, got %+v", balance)
	}
	if balance.ID == 0 {
		t.Error("expected balance row to be persisted")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.purchases[100] = &models.Purchase{
		ID: 100, ToBaseID: 1, EquipmentID: 2, Quantity: 50,
		Status: models.PurchaseStatusDelivered,
	}

	first, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	second, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile again: %v", err)
	}

	if first.ClosingBalance != 50 || second.ClosingBalance != 50 {
		t.Errorf("expected closing 50 both times, got %d then %d",
			first.ClosingBalance, second.ClosingBalance)
	}
	if first.NetMovement != second.NetMovement {
		t.Errorf("net movement changed on re-run: %d vs %d", first.NetMovement, second.NetMovement)
	}
}

func TestReconcilePendingPurchasesExcluded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.purchases[1] = &models.Purchase{
		ID: 1, ToBaseID: 1, EquipmentID: 2, Quantity: 30,
		Status: models.PurchaseStatusDelivered,
	}
	f.store.purchases[2] = &models.Purchase{
		ID: 2, ToBaseID: 1, EquipmentID: 2, Quantity: 99,
		Status: models.PurchaseStatusPending,
	}

	balance, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if balance.ClosingBalance != 30 {
		t.Errorf("expected only delivered purchase counted, got %d", balance.ClosingBalance)
	}
}

func TestReconcileClampsNegative(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Outflow with no stock behind it.
	f.store.assignments[1] = &models.Assignment{
		ID: 1, BaseID: 1, EquipmentID: 2, Quantity: 40,
		Status: models.AssignmentStatusAssigned,
	}

	balance, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if balance.ClosingBalance != 0 {
		t.Errorf("expected clamp to zero, got %d", balance.ClosingBalance)
	}
}

func TestReconcileOpeningBalancePreserved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.balances[[2]int{1, 2}] = &models.Balance{
		ID: 1, BaseID: 1, EquipmentID: 2, OpeningBalance: 100, ClosingBalance: 100,
	}
	f.store.purchases[1] = &models.Purchase{
		ID: 1, ToBaseID: 1, EquipmentID: 2, Quantity: 20,
		Status: models.PurchaseStatusDelivered,
	}

	balance, err := f.reconcile.Reconcile(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if balance.OpeningBalance != 100 {
		t.Errorf("opening balance changed: %d", balance.OpeningBalance)
	}
	if balance.ClosingBalance != 120 {
		t.Errorf("expected closing 120, got %d", balance.ClosingBalance)
	}
	if balance.NetMovement != 20 {
		t.Errorf("expected net movement 20, got %d", balance.NetMovement)
	}
}

func TestReconcileRetriesPersistFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.upsertErrs = 2 // first two attempts fail, third succeeds

	if _, err := f.reconcile.Reconcile(ctx, 1, 2); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if f.store.upserts != 1 {
		t.Errorf("expected exactly one successful upsert, got %d", f.store.upserts)
	}
}

func TestReconcileGivesUpAfterRetries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.upsertErrs = 10

	if _, err := f.reconcile.Reconcile(ctx, 1, 2); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
}

func TestReconcileConcurrentSameKey(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.purchases[1] = &models.Purchase{
		ID: 1, ToBaseID: 1, EquipmentID: 2, Quantity: 10,
		Status: models.PurchaseStatusDelivered,
	}

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := f.reconcile.Reconcile(ctx, 1, 2)
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("concurrent Reconcile: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent reconciliations")
		}
	}

	balance, _ := f.store.Get(ctx, 1, 2)
	if balance.ClosingBalance != 10 {
		t.Errorf("expected closing 10 after concurrent runs, got %d", balance.ClosingBalance)
	}
}
