package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository struct {
	DB *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (equipment_id, base_id, quantity, personnel, status, assigned_at, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		a.EquipmentID, a.BaseID, a.Quantity, a.Personnel, a.Status, a.AssignedAt, a.CreatedByUserID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Get(ctx context.Context, id int) (*models.Assignment, error) {
	query := `
		SELECT a.id, a.equipment_id, a.base_id, e.name, b.name,
			a.quantity, a.personnel, a.status, a.assigned_at, a.expended_at, a.returned_at,
			a.created_by_user_id, a.created_at, a.updated_at
		FROM assignments a
		JOIN equipment e ON e.id = a.equipment_id
		JOIN bases b ON b.id = a.base_id
		WHERE a.id = $1
	`

	var a models.Assignment
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.EquipmentID, &a.BaseID, &a.EquipmentName, &a.BaseName,
		&a.Quantity, &a.Personnel, &a.Status, &a.AssignedAt, &a.ExpendedAt, &a.ReturnedAt,
		&a.CreatedByUserID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("assignment", id)
		}
		return nil, err
	}
	return &a, nil
}

// UpdateStatus moves an assignment to a new status, stamping the matching
// timestamp column.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id int, status models.AssignmentStatus, at time.Time) error {
	var column string
	switch status {
	case models.AssignmentStatusExpended:
		column = "expended_at"
	case models.AssignmentStatusReturned:
		column = "returned_at"
	default:
		column = ""
	}

	query := "UPDATE assignments SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2"
	args := []interface{}{status, id}
	if column != "" {
		query = fmt.Sprintf(
			"UPDATE assignments SET status = $1, %s = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
			column)
		args = []interface{}{status, at, id}
	}

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("assignment", id)
	}
	return nil
}

// List returns assignments, optionally narrowed to one base.
func (r *AssignmentRepository) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Assignment, error) {
	if limit <= 0 {
		limit = 100
	}

	var conditions []string
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("a.base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.equipment_id, a.base_id, e.name, b.name,
			a.quantity, a.personnel, a.status, a.assigned_at, a.expended_at, a.returned_at,
			a.created_by_user_id, a.created_at, a.updated_at
		FROM assignments a
		JOIN equipment e ON e.id = a.equipment_id
		JOIN bases b ON b.id = a.base_id
		%s
		ORDER BY a.assigned_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(
			&a.ID, &a.EquipmentID, &a.BaseID, &a.EquipmentName, &a.BaseName,
			&a.Quantity, &a.Personnel, &a.Status, &a.AssignedAt, &a.ExpendedAt, &a.ReturnedAt,
			&a.CreatedByUserID, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// SumOutflow returns the quantity held or consumed by personnel for the key.
// Returned assignments no longer count.
func (r *AssignmentRepository) SumOutflow(ctx context.Context, baseID, equipmentID int) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM assignments
		WHERE base_id = $1 AND equipment_id = $2 AND status IN ('assigned', 'expended')
	`, baseID, equipmentID).Scan(&total)
	return total, err
}

// BreakdownByStatus returns per-status counts and quantities for the
// dashboard filter.
func (r *AssignmentRepository) BreakdownByStatus(ctx context.Context, baseID *int, category string, from, to *time.Time) (assignedCount, assignedQty, expendedCount, expendedQty int, err error) {
	conditions := []string{"a.status IN ('assigned', 'expended')"}
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("a.base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, category)
		argNum++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("a.assigned_at >= $%d", argNum))
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("a.assigned_at <= $%d", argNum))
		args = append(args, *to)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT a.status, COUNT(*), COALESCE(SUM(a.quantity), 0)
		FROM assignments a
		JOIN equipment e ON e.id = a.equipment_id
		WHERE %s
		GROUP BY a.status
	`, strings.Join(conditions, " AND "))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.AssignmentStatus
		var count, qty int
		if err := rows.Scan(&status, &count, &qty); err != nil {
			return 0, 0, 0, 0, err
		}
		switch status {
		case models.AssignmentStatusAssigned:
			assignedCount, assignedQty = count, qty
		case models.AssignmentStatusExpended:
			expendedCount, expendedQty = count, qty
		}
	}
	return assignedCount, assignedQty, expendedCount, expendedQty, rows.Err()
}

// Recent returns the most recent assignments for the activity feed.
func (r *AssignmentRepository) Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("a.base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, category)
		argNum++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("a.assigned_at >= $%d", argNum))
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("a.assigned_at <= $%d", argNum))
		args = append(args, *to)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT a.id, e.name, b.name, a.quantity, a.status, a.assigned_at
		FROM assignments a
		JOIN equipment e ON e.id = a.equipment_id
		JOIN bases b ON b.id = a.base_id
		WHERE %s
		ORDER BY a.assigned_at DESC, a.id DESC
		LIMIT $%d
	`, strings.Join(conditions, " AND "), argNum)

	args = append(args, limit)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		item := models.ActivityItem{Type: "assignment"}
		if err := rows.Scan(&item.ID, &item.EquipmentName, &item.BaseName, &item.Quantity, &item.Status, &item.Date); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
