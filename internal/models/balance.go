package models

import "time"

// Balance is the derived stock figure for one (base, equipment) key.
// It is written exclusively by the reconciliation engine and must always be
// reproducible by replaying the transactions for its key.
type Balance struct {
	ID             int       `json:"id"`
	BaseID         int       `json:"base_id"`
	EquipmentID    int       `json:"equipment_id"`
	BaseName       string    `json:"base_name,omitempty"`      // Denormalized for display
	EquipmentName  string    `json:"equipment_name,omitempty"` // Denormalized for display
	OpeningBalance int       `json:"opening_balance"`
	ClosingBalance int       `json:"closing_balance"`
	NetMovement    int       `json:"net_movement"`
	LastUpdated    time.Time `json:"last_updated"`
}

// BalanceFilter narrows balance listings.
type BalanceFilter struct {
	BaseID      *int   `json:"base_id"`
	EquipmentID *int   `json:"equipment_id"`
	Category    string `json:"category"`
}
