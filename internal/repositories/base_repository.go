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

type BaseRepository struct {
	DB *pgxpool.Pool
}

func NewBaseRepository(db *pgxpool.Pool) *BaseRepository {
	return &BaseRepository{DB: db}
}

func (r *BaseRepository) Create(ctx context.Context, base *models.Base) error {
	query := `
		INSERT INTO bases (name, location)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query, base.Name, base.Location).
		Scan(&base.ID, &base.CreatedAt, &base.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create base: %w", err)
	}
	return nil
}

func (r *BaseRepository) Get(ctx context.Context, id int) (*models.Base, error) {
	var b models.Base
	err := r.DB.QueryRow(ctx,
		"SELECT id, name, location, created_at, updated_at FROM bases WHERE id = $1", id,
	).Scan(&b.ID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("base", id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *BaseRepository) List(ctx context.Context) ([]models.Base, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT id, name, location, created_at, updated_at FROM bases ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bases []models.Base
	for rows.Next() {
		var b models.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bases = append(bases, b)
	}
	return bases, rows.Err()
}

func (r *BaseRepository) Update(ctx context.Context, base *models.Base) error {
	tag, err := r.DB.Exec(ctx,
		"UPDATE bases SET name = $1, location = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		base.Name, base.Location, base.ID)
	if err != nil {
		return fmt.Errorf("failed to update base: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("base", base.ID)
	}
	return nil
}
