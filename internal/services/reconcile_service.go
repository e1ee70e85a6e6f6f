package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tracker-backend/internal/cache"
	"tracker-backend/internal/metrics"
	"tracker-backend/internal/models"
)

// BalanceStore is the persistence surface the engine needs for balances.
// Get returns nil (no error) when no row exists for the key yet.
type BalanceStore interface {
	Get(ctx context.Context, baseID, equipmentID int) (*models.Balance, error)
	Upsert(ctx context.Context, b *models.Balance) error
}

// PurchaseSums exposes the delivered-purchase total for a key.
type PurchaseSums interface {
	SumDelivered(ctx context.Context, baseID, equipmentID int) (int, error)
}

// TransferSums exposes completed-transfer totals for a key.
type TransferSums interface {
	SumCompletedIn(ctx context.Context, baseID, equipmentID int) (int, error)
	SumCompletedOut(ctx context.Context, baseID, equipmentID int) (int, error)
}

// AssignmentSums exposes the personnel outflow total for a key.
type AssignmentSums interface {
	SumOutflow(ctx context.Context, baseID, equipmentID int) (int, error)
}

// keyedMutex serializes reconciliations per (base, equipment) key. Two
// concurrent writers to the same key would otherwise race on the
// read-compute-write sequence and the last writer would win with stale sums.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[[2]int]*sync.Mutex
}

func (k *keyedMutex) get(baseID, equipmentID int) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[[2]int]*sync.Mutex)
	}
	key := [2]int{baseID, equipmentID}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

const (
	reconcileAttempts = 3
	reconcileBackoff  = 100 * time.Millisecond
)

// ReconcileService recomputes the closing balance for a (base, equipment) key
// from the full transaction set and persists it. Balances are a derived
// projection: this is the only code path that writes them.
type ReconcileService struct {
	Balances    BalanceStore
	Purchases   PurchaseSums
	Transfers   TransferSums
	Assignments AssignmentSums
	locks       keyedMutex
}

func NewReconcileService(balances BalanceStore, purchases PurchaseSums, transfers TransferSums, assignments AssignmentSums) *ReconcileService {
	return &ReconcileService{
		Balances:    balances,
		Purchases:   purchases,
		Transfers:   transfers,
		Assignments: assignments,
	}
}

// Reconcile recomputes and persists the balance for one key. Idempotent:
// re-running with no new transactions yields the same row. Persistence
// failures are retried before being surfaced, since leaving a committed
// transaction un-reconciled is a correctness defect the caller must see.
func (s *ReconcileService) Reconcile(ctx context.Context, baseID, equipmentID int) (*models.Balance, error) {
	lock := s.locks.get(baseID, equipmentID)
	lock.Lock()
	defer lock.Unlock()

	balance, err := s.Balances.Get(ctx, baseID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	if balance == nil {
		// Lazily created on the first transaction touching this key.
		balance = &models.Balance{BaseID: baseID, EquipmentID: equipmentID}
	}

	purchases, err := s.Purchases.SumDelivered(ctx, baseID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum purchases: %w", err)
	}
	transfersIn, err := s.Transfers.SumCompletedIn(ctx, baseID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transfers in: %w", err)
	}
	transfersOut, err := s.Transfers.SumCompletedOut(ctx, baseID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transfers out: %w", err)
	}
	outflow, err := s.Assignments.SumOutflow(ctx, baseID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum assignment outflow: %w", err)
	}

	closing := balance.OpeningBalance + purchases + transfersIn - transfersOut - outflow
	if closing < 0 {
		// Clamp rather than store negative stock. This masks inconsistency
		// instead of surfacing it, so it is flagged for operators.
		log.Printf("[Reconcile] clamped negative balance for base=%d equipment=%d (computed %d)",
			baseID, equipmentID, closing)
		metrics.BalanceClampsTotal.Inc()
		closing = 0
	}

	balance.ClosingBalance = closing
	balance.NetMovement = closing - balance.OpeningBalance

	if err := s.persistWithRetry(ctx, balance); err != nil {
		return nil, err
	}

	metrics.ReconciliationsTotal.Inc()
	cache.InvalidateDashboard(ctx)

	return balance, nil
}

func (s *ReconcileService) persistWithRetry(ctx context.Context, balance *models.Balance) error {
	var err error
	for attempt := 1; attempt <= reconcileAttempts; attempt++ {
		if err = s.Balances.Upsert(ctx, balance); err == nil {
			return nil
		}
		if attempt < reconcileAttempts {
			log.Printf("[Reconcile] persist attempt %d failed for base=%d equipment=%d: %v",
				attempt, balance.BaseID, balance.EquipmentID, err)
			select {
			case <-time.After(time.Duration(attempt) * reconcileBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed to persist balance after %d attempts: %w", reconcileAttempts, err)
}
