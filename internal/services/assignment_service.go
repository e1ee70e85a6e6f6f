package services

import (
	"context"
	"log"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

type AssignmentStore interface {
	Create(ctx context.Context, a *models.Assignment) error
	Get(ctx context.Context, id int) (*models.Assignment, error)
	UpdateStatus(ctx context.Context, id int, status models.AssignmentStatus, at time.Time) error
	List(ctx context.Context, baseID *int, limit, offset int) ([]models.Assignment, error)
}

// assignmentTransitions: assigned stock can be expended or returned; both of
// those are final. Expending already-assigned stock does not change the
// balance, the quantity left available when it was assigned.
var assignmentTransitions = map[models.AssignmentStatus][]models.AssignmentStatus{
	models.AssignmentStatusAssigned: {models.AssignmentStatusExpended, models.AssignmentStatusReturned},
	models.AssignmentStatusExpended: {},
	models.AssignmentStatusReturned: {},
}

// AssignmentService tracks equipment held by personnel.
type AssignmentService struct {
	Assignments AssignmentStore
	Bases       BaseGetter
	Equipment   EquipmentGetter
	Reconciler  Reconciler
}

func NewAssignmentService(assignments AssignmentStore, bases BaseGetter, equipment EquipmentGetter, reconciler Reconciler) *AssignmentService {
	return &AssignmentService{
		Assignments: assignments,
		Bases:       bases,
		Equipment:   equipment,
		Reconciler:  reconciler,
	}
}

func (s *AssignmentService) Create(ctx context.Context, req *models.CreateAssignmentRequest, userID int) (*models.Assignment, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive, got %d", req.Quantity)
	}
	if req.Personnel == "" {
		return nil, apperrors.Validation("personnel is required")
	}
	if _, err := s.Equipment.Get(ctx, req.EquipmentID); err != nil {
		return nil, err
	}
	if _, err := s.Bases.Get(ctx, req.BaseID); err != nil {
		return nil, err
	}

	balance, err := s.Reconciler.Reconcile(ctx, req.BaseID, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if balance.ClosingBalance < req.Quantity {
		return nil, &apperrors.InsufficientInventoryError{
			Available: balance.ClosingBalance,
			Requested: req.Quantity,
		}
	}

	assignedAt := time.Now()
	if req.AssignedAt != nil {
		assignedAt = *req.AssignedAt
	}

	assignment := &models.Assignment{
		EquipmentID:     req.EquipmentID,
		BaseID:          req.BaseID,
		Quantity:        req.Quantity,
		Personnel:       req.Personnel,
		Status:          models.AssignmentStatusAssigned,
		AssignedAt:      assignedAt,
		CreatedByUserID: userID,
	}
	if err := s.Assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	if _, err := s.Reconciler.Reconcile(ctx, assignment.BaseID, assignment.EquipmentID); err != nil {
		return nil, err
	}

	log.Printf("[Assignment] assigned %d x equipment %d at base %d to %s",
		assignment.Quantity, assignment.EquipmentID, assignment.BaseID, assignment.Personnel)
	return assignment, nil
}

func (s *AssignmentService) Get(ctx context.Context, scope models.Scope, id int) (*models.Assignment, error) {
	assignment, err := s.Assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBase(assignment.BaseID) {
		return nil, apperrors.AccessDenied("assignment %d is outside your base scope", id)
	}
	return assignment, nil
}

func (s *AssignmentService) List(ctx context.Context, scope models.Scope, limit, offset int) ([]models.Assignment, error) {
	baseID := scope.BaseID
	if scope.AllBases() {
		baseID = nil
	} else if baseID == nil {
		return nil, apperrors.AccessDenied("no base assigned to your account")
	}
	return s.Assignments.List(ctx, baseID, limit, offset)
}

// Transition marks an assignment expended or returned. Returning stock flows
// back into the base balance; expending does not change it further.
func (s *AssignmentService) Transition(ctx context.Context, id int, next models.AssignmentStatus) (*models.Assignment, error) {
	if !next.Valid() {
		return nil, apperrors.Validation("unknown assignment status %q", next)
	}

	assignment, err := s.Assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	legal := false
	for _, t := range assignmentTransitions[assignment.Status] {
		if t == next {
			legal = true
			break
		}
	}
	if !legal {
		return nil, &apperrors.InvalidTransitionError{
			From: string(assignment.Status),
			To:   string(next),
		}
	}

	if err := s.Assignments.UpdateStatus(ctx, id, next, time.Now()); err != nil {
		return nil, err
	}

	if _, err := s.Reconciler.Reconcile(ctx, assignment.BaseID, assignment.EquipmentID); err != nil {
		return nil, err
	}

	log.Printf("[Assignment] assignment %d moved %s -> %s", id, assignment.Status, next)
	return s.Assignments.Get(ctx, id)
}
