package repositories

import (
	"context"
	"errors"
	"fmt"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepository struct {
	DB *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{DB: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	query := `
		INSERT INTO equipment (name, category, unit)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query, eq.Name, eq.Category, eq.Unit).
		Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

func (r *EquipmentRepository) Get(ctx context.Context, id int) (*models.Equipment, error) {
	var e models.Equipment
	err := r.DB.QueryRow(ctx,
		"SELECT id, name, category, unit, created_at, updated_at FROM equipment WHERE id = $1", id,
	).Scan(&e.ID, &e.Name, &e.Category, &e.Unit, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("equipment", id)
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT id, name, category, unit, created_at, updated_at FROM equipment ORDER BY category, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Unit, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *EquipmentRepository) Update(ctx context.Context, eq *models.Equipment) error {
	tag, err := r.DB.Exec(ctx,
		"UPDATE equipment SET name = $1, category = $2, unit = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4",
		eq.Name, eq.Category, eq.Unit, eq.ID)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("equipment", eq.ID)
	}
	return nil
}
