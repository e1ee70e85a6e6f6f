package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tracker-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceRepository struct {
	DB *pgxpool.Pool
}

func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{DB: db}
}

// Get returns the balance row for a key, or nil if none exists yet.
func (r *BalanceRepository) Get(ctx context.Context, baseID, equipmentID int) (*models.Balance, error) {
	query := `
		SELECT id, base_id, equipment_id, opening_balance, closing_balance, net_movement, last_updated
		FROM balances
		WHERE base_id = $1 AND equipment_id = $2
	`

	var b models.Balance
	err := r.DB.QueryRow(ctx, query, baseID, equipmentID).Scan(
		&b.ID, &b.BaseID, &b.EquipmentID, &b.OpeningBalance, &b.ClosingBalance,
		&b.NetMovement, &b.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Upsert writes the reconciled figures for a key, creating the row lazily on
// first use. Only the reconciliation engine calls this.
func (r *BalanceRepository) Upsert(ctx context.Context, b *models.Balance) error {
	query := `
		INSERT INTO balances (base_id, equipment_id, opening_balance, closing_balance, net_movement, last_updated)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (base_id, equipment_id) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
			closing_balance = EXCLUDED.closing_balance,
			net_movement = EXCLUDED.net_movement,
			last_updated = CURRENT_TIMESTAMP
		RETURNING id, last_updated
	`

	err := r.DB.QueryRow(ctx, query,
		b.BaseID, b.EquipmentID, b.OpeningBalance, b.ClosingBalance, b.NetMovement,
	).Scan(&b.ID, &b.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}
	return nil
}

// List returns balance rows matching the filter, with display names joined in.
func (r *BalanceRepository) List(ctx context.Context, filter *models.BalanceFilter) ([]models.Balance, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.BaseID != nil {
		conditions = append(conditions, fmt.Sprintf("bal.base_id = $%d", argNum))
		args = append(args, *filter.BaseID)
		argNum++
	}
	if filter.EquipmentID != nil {
		conditions = append(conditions, fmt.Sprintf("bal.equipment_id = $%d", argNum))
		args = append(args, *filter.EquipmentID)
		argNum++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT bal.id, bal.base_id, bal.equipment_id, b.name, e.name,
			bal.opening_balance, bal.closing_balance, bal.net_movement, bal.last_updated
		FROM balances bal
		JOIN bases b ON b.id = bal.base_id
		JOIN equipment e ON e.id = bal.equipment_id
		%s
		ORDER BY b.name, e.name
	`, whereClause)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(
			&b.ID, &b.BaseID, &b.EquipmentID, &b.BaseName, &b.EquipmentName,
			&b.OpeningBalance, &b.ClosingBalance, &b.NetMovement, &b.LastUpdated,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// SumForFilter aggregates opening/closing/net across matching keys.
func (r *BalanceRepository) SumForFilter(ctx context.Context, filter *models.BalanceFilter) (opening, closing, net int, err error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.BaseID != nil {
		conditions = append(conditions, fmt.Sprintf("bal.base_id = $%d", argNum))
		args = append(args, *filter.BaseID)
		argNum++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(bal.opening_balance), 0),
			COALESCE(SUM(bal.closing_balance), 0),
			COALESCE(SUM(bal.net_movement), 0)
		FROM balances bal
		JOIN equipment e ON e.id = bal.equipment_id
		%s
	`, whereClause)

	err = r.DB.QueryRow(ctx, query, args...).Scan(&opening, &closing, &net)
	return opening, closing, net, err
}
