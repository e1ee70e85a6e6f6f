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

type PurchaseRepository struct {
	DB *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	query := `
		INSERT INTO purchases (equipment_id, to_base_id, quantity, status, purchase_date, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		p.EquipmentID, p.ToBaseID, p.Quantity, p.Status, p.PurchaseDate, p.CreatedByUserID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) Get(ctx context.Context, id int) (*models.Purchase, error) {
	query := `
		SELECT p.id, p.equipment_id, p.to_base_id, e.name, b.name,
			p.quantity, p.status, p.purchase_date, p.created_by_user_id, p.created_at, p.updated_at
		FROM purchases p
		JOIN equipment e ON e.id = p.equipment_id
		JOIN bases b ON b.id = p.to_base_id
		WHERE p.id = $1
	`

	var p models.Purchase
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.EquipmentID, &p.ToBaseID, &p.EquipmentName, &p.BaseName,
		&p.Quantity, &p.Status, &p.PurchaseDate, &p.CreatedByUserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("purchase", id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) Update(ctx context.Context, p *models.Purchase) error {
	query := `
		UPDATE purchases
		SET equipment_id = $1, to_base_id = $2, quantity = $3, status = $4,
			purchase_date = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	tag, err := r.DB.Exec(ctx, query,
		p.EquipmentID, p.ToBaseID, p.Quantity, p.Status, p.PurchaseDate, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("purchase", p.ID)
	}
	return nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM purchases WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("purchase", id)
	}
	return nil
}

// List returns purchases, optionally narrowed to one destination base.
func (r *PurchaseRepository) List(ctx context.Context, baseID *int, limit, offset int) ([]models.Purchase, error) {
	if limit <= 0 {
		limit = 100
	}

	var conditions []string
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("p.to_base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.equipment_id, p.to_base_id, e.name, b.name,
			p.quantity, p.status, p.purchase_date, p.created_by_user_id, p.created_at, p.updated_at
		FROM purchases p
		JOIN equipment e ON e.id = p.equipment_id
		JOIN bases b ON b.id = p.to_base_id
		%s
		ORDER BY p.purchase_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(
			&p.ID, &p.EquipmentID, &p.ToBaseID, &p.EquipmentName, &p.BaseName,
			&p.Quantity, &p.Status, &p.PurchaseDate, &p.CreatedByUserID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// SumDelivered returns the total delivered quantity for a (base, equipment) key.
// Pending and approved purchases do not yet affect balance.
func (r *PurchaseRepository) SumDelivered(ctx context.Context, baseID, equipmentID int) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM purchases
		WHERE to_base_id = $1 AND equipment_id = $2 AND status = 'delivered'
	`, baseID, equipmentID).Scan(&total)
	return total, err
}

// BreakdownDelivered returns count and quantity of delivered purchases for the
// dashboard filter.
func (r *PurchaseRepository) BreakdownDelivered(ctx context.Context, baseID *int, category string, from, to *time.Time) (count, quantity int, err error) {
	conditions := []string{"p.status = 'delivered'"}
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("p.to_base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, category)
		argNum++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("p.purchase_date >= $%d", argNum))
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("p.purchase_date <= $%d", argNum))
		args = append(args, *to)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(p.quantity), 0)
		FROM purchases p
		JOIN equipment e ON e.id = p.equipment_id
		WHERE %s
	`, strings.Join(conditions, " AND "))

	err = r.DB.QueryRow(ctx, query, args...).Scan(&count, &quantity)
	return count, quantity, err
}

// Recent returns the most recent purchases for the activity feed.
func (r *PurchaseRepository) Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argNum := 1

	if baseID != nil {
		conditions = append(conditions, fmt.Sprintf("p.to_base_id = $%d", argNum))
		args = append(args, *baseID)
		argNum++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, category)
		argNum++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("p.purchase_date >= $%d", argNum))
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("p.purchase_date <= $%d", argNum))
		args = append(args, *to)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT p.id, e.name, b.name, p.quantity, p.status, p.purchase_date
		FROM purchases p
		JOIN equipment e ON e.id = p.equipment_id
		JOIN bases b ON b.id = p.to_base_id
		WHERE %s
		ORDER BY p.purchase_date DESC, p.id DESC
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
		item := models.ActivityItem{Type: "purchase"}
		if err := rows.Scan(&item.ID, &item.EquipmentName, &item.BaseName, &item.Quantity, &item.Status, &item.Date); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
