package services

import (
	"context"
	"sync"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

// memStore is an in-memory implementation of every store interface the
// services need, so the business rules can be tested without Postgres. Sums
// are computed from the stored transactions the same way the SQL does.
type memStore struct {
	mu          sync.Mutex
	nextID      int
	balances    map[[2]int]*models.Balance
	purchases   map[int]*models.Purchase
	transfers   map[int]*models.Transfer
	assignments map[int]*models.Assignment
	bases       map[int]*models.Base
	equipment   map[int]*models.Equipment

	upsertErrs int // fail this many Upsert calls before succeeding
	upserts    int
}

func newMemStore() *memStore {
	return &memStore{
		nextID:      1,
		balances:    make(map[[2]int]*models.Balance),
		purchases:   make(map[int]*models.Purchase),
		transfers:   make(map[int]*models.Transfer),
		assignments: make(map[int]*models.Assignment),
		bases:       make(map[int]*models.Base),
		equipment:   make(map[int]*models.Equipment),
	}
}

func (m *memStore) id() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) addBase(name string) *models.Base {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &models.Base{ID: m.id(), Name: name}
	m.bases[b.ID] = b
	return b
}

func (m *memStore) addEquipment(name, category string) *models.Equipment {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &models.Equipment{ID: m.id(), Name: name, Category: category, Unit: "count"}
	m.equipment[e.ID] = e
	return e
}

// baseStore / equipmentStore views

type baseStore struct{ *memStore }

func (s baseStore) Get(ctx context.Context, id int) (*models.Base, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bases[id]
	if !ok {
		return nil, apperrors.NotFound("base", id)
	}
	return b, nil
}

type equipmentStore struct{ *memStore }

func (s equipmentStore) Get(ctx context.Context, id int) (*models.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[id]
	if !ok {
		return nil, apperrors.NotFound("equipment", id)
	}
	return e, nil
}

// BalanceStore

func (m *memStore) Get(ctx context.Context, baseID, equipmentID int) (*models.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[[2]int{baseID, equipmentID}]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) Upsert(ctx context.Context, b *models.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErrs > 0 {
		m.upsertErrs--
		return context.DeadlineExceeded
	}
	m.upserts++
	copied := *b
	copied.LastUpdated = time.Now()
	if existing, ok := m.balances[[2]int{b.BaseID, b.EquipmentID}]; ok {
		copied.ID = existing.ID
	} else {
		copied.ID = m.id()
	}
	m.balances[[2]int{b.BaseID, b.EquipmentID}] = &copied
	*b = copied
	return nil
}

// transaction sums

func (m *memStore) SumDelivered(ctx context.Context, baseID, equipmentID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, p := range m.purchases {
		if p.ToBaseID == baseID && p.EquipmentID == equipmentID && p.Status == models.PurchaseStatusDelivered {
			total += p.Quantity
		}
	}
	return total, nil
}

func (m *memStore) SumCompletedIn(ctx context.Context, baseID, equipmentID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, t := range m.transfers {
		if t.ToBaseID == baseID && t.EquipmentID == equipmentID && t.Status == models.TransferStatusCompleted {
			total += t.Quantity
		}
	}
	return total, nil
}

func (m *memStore) SumCompletedOut(ctx context.Context, baseID, equipmentID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, t := range m.transfers {
		if t.FromBaseID == baseID && t.EquipmentID == equipmentID && t.Status == models.TransferStatusCompleted {
			total += t.Quantity
		}
	}
	return total, nil
}

func (m *memStore) SumOutflow(ctx context.Context, baseID, equipmentID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, a := range m.assignments {
		if a.BaseID == baseID && a.EquipmentID == equipmentID &&
			(a.Status == models.AssignmentStatusAssigned || a.Status == models.AssignmentStatusExpended) {
			total += a.Quantity
		}
	}
	return total, nil
}

// PurchaseStore

func (m *memStore) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	m.purchases[p.ID] = &copied
	return nil
}

type purchaseStore struct{ *memStore }

func (s purchaseStore) Create(ctx context.Context, p *models.Purchase) error {
	return s.CreatePurchase(ctx, p)
}

func (s purchaseStore) Get(ctx context.Context, id int) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return nil, apperrors.NotFound("purchase", id)
	}
	copied := *p
	return &copied, nil
}

func (s purchaseStore) Update(ctx context.Context, p *models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.purchases[p.ID]; !ok {
		return apperrors.NotFound("purchase", p.ID)
	}
	copied := *p
	s.purchases[p.ID] = &copied
	return nil
}

func (s purchaseStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.purchases[id]; !ok {
		return apperrors.NotFound("purchase", id)
	}
	delete(s.purchases, id)
	return nil
}

func (s purchaseStore) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Purchase
	for _, p := range s.purchases {
		if baseID == nil || p.ToBaseID == *baseID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// TransferStore

type transferStore struct{ *memStore }

func (s transferStore) Create(ctx context.Context, t *models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.memStore.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	s.transfers[t.ID] = &copied
	return nil
}

func (s transferStore) Get(ctx context.Context, id int) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, apperrors.NotFound("transfer", id)
	}
	copied := *t
	return &copied, nil
}

func (s transferStore) Update(ctx context.Context, t *models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		return apperrors.NotFound("transfer", t.ID)
	}
	copied := *t
	s.transfers[t.ID] = &copied
	return nil
}

func (s transferStore) UpdateStatus(ctx context.Context, id int, status models.TransferStatus, approvedBy *int, completedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		return apperrors.NotFound("transfer", id)
	}
	t.Status = status
	if approvedBy != nil {
		t.ApprovedByUserID = approvedBy
	}
	if completedAt != nil {
		t.CompletedAt = completedAt
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (s transferStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[id]; !ok {
		return apperrors.NotFound("transfer", id)
	}
	delete(s.transfers, id)
	return nil
}

func (s transferStore) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transfer
	for _, t := range s.transfers {
		if baseID == nil || t.FromBaseID == *baseID || t.ToBaseID == *baseID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// AssignmentStore

type assignmentStore struct{ *memStore }

func (s assignmentStore) Create(ctx context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.memStore.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	copied := *a
	s.assignments[a.ID] = &copied
	return nil
}

func (s assignmentStore) Get(ctx context.Context, id int) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, apperrors.NotFound("assignment", id)
	}
	copied := *a
	return &copied, nil
}

func (s assignmentStore) UpdateStatus(ctx context.Context, id int, status models.AssignmentStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return apperrors.NotFound("assignment", id)
	}
	a.Status = status
	switch status {
	case models.AssignmentStatusExpended:
		a.ExpendedAt = &at
	case models.AssignmentStatusReturned:
		a.ReturnedAt = &at
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (s assignmentStore) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Assignment
	for _, a := range s.assignments {
		if baseID == nil || a.BaseID == *baseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// fixture wires every service against one shared memStore.
type fixture struct {
	store       *memStore
	reconcile   *ReconcileService
	purchases   *PurchaseService
	transfers   *TransferService
	assignments *AssignmentService
}

func newFixture() *fixture {
	m := newMemStore()
	reconcile := NewReconcileService(m, m, m, m)
	return &fixture{
		store:       m,
		reconcile:   reconcile,
		purchases:   NewPurchaseService(purchaseStore{m}, baseStore{m}, equipmentStore{m}, reconcile),
		transfers:   NewTransferService(transferStore{m}, baseStore{m}, equipmentStore{m}, reconcile),
		assignments: NewAssignmentService(assignmentStore{m}, baseStore{m}, equipmentStore{m}, reconcile),
	}
}
