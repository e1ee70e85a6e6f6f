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

type TransferRepository struct {
	DB *pgxpool.Pool
}

func NewTransferRepository(db *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{DB: db}
}

func (r *TransferRepository) Create(ctx context.Context, t *models.Transfer) error {
	query := `
		INSERT INTO transfers (equipment_id, from_base_id, to_base_id, quantity, status, transfer_date, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		t.EquipmentID, t.FromBaseID, t.ToBaseID, t.Quantity, t.Status, t.TransferDate, t.CreatedByUserID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *TransferRepository) Get(ctx context.Context, id int) (*models.Transfer, error) {
	query := `
		SELECT t.id, t.equipment_id, t.from_base_id, t.to_base_id,
			e.name, fb.name, tb.name,
			t.quantity, t.status, t.transfer_date, t.created_by_user_id,
			t.approved_by_user_id, t.completed_at, t.created_at, t.updated_at
		FROM transfers t
		JOIN equipment e ON e.id = t.equipment_id
		JOIN bases fb ON fb.id = t.from_base_id
		JOIN bases tb ON tb.id = t.to_base_id
		WHERE t.id = $1
	`

	var t models.Transfer
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.EquipmentID, &t.FromBaseID, &t.ToBaseID,
		&t.EquipmentName, &t.FromBaseName, &t.ToBaseName,
		&t.Quantity, &t.Status, &t.TransferDate, &t.CreatedByUserID,
		&t.ApprovedByUserID, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("transfer", id)
		}
		return nil, err
	}
	return &t, nil
}

// Update rewrites a transfer's editable fields. The caller guarantees the
// transfer is still pending.
func (r *TransferRepository) Update(ctx context.Context, t *models.Transfer) error {
	query := `
		UPDATE transfers
		SET equipment_id = $1, from_base_id = $2, to_base_id = $3, quantity = $4,
			transfer_date = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	tag, err := r.DB.Exec(ctx, query,
		t.EquipmentID, t.FromBaseID, t.ToBaseID, t.Quantity, t.TransferDate, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("transfer", t.ID)
	}
	return nil
}

// UpdateStatus moves a transfer to a new status, stamping approver and
// completion time where relevant.
func (r *TransferRepository) UpdateStatus(ctx context.Context, id int, status models.TransferStatus, approvedBy *int, completedAt *time.Time) error {
	query := `
		UPDATE transfers
		SET status = $1, approved_by_user_id = COALESCE($2, approved_by_user_id),
			completed_at = COALESCE($3, completed_at), updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`

	tag, err := r.DB.Exec(ctx, query, status, approvedBy, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("transfer", id)
	}
	return nil
}

func (r *TransferRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM transfers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("transfer", id)
	}
	return nil
}

// List returns transfers, optionally narrowed to those touching one base
// (either endpoint).
func (r *TransferRepository) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Transfer, error) {
	if limit <= 0 {
		limit = 100
	}

	var conditions []string
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("(t.from_base_id = $%d OR t.to_base_id = $%d)", argNum, argNum))
		args = append(args, *baseID)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.equipment_id, t.from_base_id, t.to_base_id,
			e.name, fb.name, tb.name,
			t.quantity, t.status, t.transfer_date, t.created_by_user_id,
			t.approved_by_user_id, t.completed_at, t.created_at, t.updated_at
		FROM transfers t
		JOIN equipment e ON e.id = t.equipment_id
		JOIN bases fb ON fb.id = t.from_base_id
		JOIN bases tb ON tb.id = t.to_base_id
		%s
		ORDER BY t.transfer_date DESC, t.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(
			&t.ID, &t.EquipmentID, &t.FromBaseID, &t.ToBaseID,
			&t.EquipmentName, &t.FromBaseName, &t.ToBaseName,
			&t.Quantity, &t.Status, &t.TransferDate, &t.CreatedByUserID,
			&t.ApprovedByUserID, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// SumCompletedIn returns the completed-transfer quantity credited to the key.
func (r *TransferRepository) SumCompletedIn(ctx context.Context, baseID, equipmentID int) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM transfers
		WHERE to_base_id = $1 AND equipment_id = $2 AND status = 'completed'
	`, baseID, equipmentID).Scan(&total)
	return total, err
}

// SumCompletedOut returns the completed-transfer quantity debited from the key.
func (r *TransferRepository) SumCompletedOut(ctx context.Context, baseID, equipmentID int) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM transfers
		WHERE from_base_id = $1 AND equipment_id = $2 AND status = 'completed'
	`, baseID, equipmentID).Scan(&total)
	return total, err
}

// BreakdownCompleted returns counts and quantities of completed transfers in
// and out of the filtered scope.
func (r *TransferRepository) BreakdownCompleted(ctx context.Context, baseID *int, category string, from, to *time.Time) (inCount, inQty, outCount, outQty int, err error) {
	for _, direction := range []string{"to_base_id", "from_base_id"} {
		conditions := []string{"t.status = 'completed'"}
		var args []interface{}
		argNum := 1

		if baseID != nil {
			conditions = append(conditions, fmt.Sprintf("t.%s = $%d", direction, argNum))
			args = append(args, *baseID)
			argNum++
		}
		if category != "" {
			conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
			args = append(args, category)
			argNum++
		}
		if from != nil {
			conditions = append(conditions, fmt.Sprintf("t.transfer_date >= $%d", argNum))
			args = append(args, *from)
			argNum++
		}
		if to != nil {
			conditions = append(conditions, fmt.Sprintf("t.transfer_date <= $%d", argNum))
			args = append(args, *to)
			argNum++
		}

		query := fmt.Sprintf(`
			SELECT COUNT(*), COALESCE(SUM(t.quantity), 0)
			FROM transfers t
			JOIN equipment e ON e.id = t.equipment_id
			WHERE %s
		`, strings.Join(conditions, " AND "))

		var count, qty int
		if err = r.DB.QueryRow(ctx, query, args...).Scan(&count, &qty); err != nil {
			return 0, 0, 0, 0, err
		}
		if direction == "to_base_id" {
			inCount, inQty = count, qty
		} else {
			outCount, outQty = count, qty
		}
	}
	return inCount, inQty, outCount, outQty, nil
}

// Recent returns the most recent transfers for the activity feed. The base
// name shown is the destination.
func (r *TransferRepository) Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("(t.from_base_id = $%d OR t.to_base_id = $%d)", argNum, argNum))
		args = append(args, *baseID)
		argNum++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, category)
		argNum++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("t.transfer_date >= $%d", argNum))
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("t.transfer_date <= $%d", argNum))
		args = append(args, *to)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT t.id, e.name, tb.name, t.quantity, t.status, t.transfer_date
		FROM transfers t
		JOIN equipment e ON e.id = t.equipment_id
		JOIN bases tb ON tb.id = t.to_base_id
		WHERE %s
		ORDER BY t.transfer_date DESC, t.id DESC
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
		item := models.ActivityItem{Type: "transfer"}
		if err := rows.Scan(&item.ID, &item.EquipmentName, &item.BaseName, &item.Quantity, &item.Status, &item.Date); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
