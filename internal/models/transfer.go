package models

import "time"

// TransferStatus is the lifecycle state of an inter-base transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// transferTransitions is the single source of truth for legal moves.
// Goods in transit are neither at source nor destination; only completion
// moves inventory.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferStatusPending:   {TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled},
	TransferStatusInTransit: {TransferStatusCompleted, TransferStatusCancelled},
	TransferStatusCompleted: {},
	TransferStatusCancelled: {},
}

// Valid reports whether s is a known transfer status.
func (s TransferStatus) Valid() bool {
	_, ok := transferTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are permitted from s.
func (s TransferStatus) Terminal() bool {
	return len(transferTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, t := range transferTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Transfer struct {
	ID               int            `json:"id"`
	EquipmentID      int            `json:"equipment_id"`
	FromBaseID       int            `json:"from_base_id"`
	ToBaseID         int            `json:"to_base_id"`
	EquipmentName    string         `json:"equipment_name,omitempty"`
	FromBaseName     string         `json:"from_base_name,omitempty"`
	ToBaseName       string         `json:"to_base_name,omitempty"`
	Quantity         int            `json:"quantity"`
	Status           TransferStatus `json:"status"`
	TransferDate     time.Time      `json:"transfer_date"`
	CreatedByUserID  int            `json:"created_by_user_id"`
	ApprovedByUserID *int           `json:"approved_by_user_id,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type CreateTransferRequest struct {
	EquipmentID  int        `json:"equipment_id"`
	FromBaseID   int        `json:"from_base_id"`
	ToBaseID     int        `json:"to_base_id"`
	Quantity     int        `json:"quantity"`
	TransferDate *time.Time `json:"transfer_date,omitempty"`
}

// UpdateTransferRequest edits a transfer's fields. Only permitted while the
// transfer is pending.
type UpdateTransferRequest struct {
	EquipmentID  int        `json:"equipment_id"`
	FromBaseID   int        `json:"from_base_id"`
	ToBaseID     int        `json:"to_base_id"`
	Quantity     int        `json:"quantity"`
	TransferDate *time.Time `json:"transfer_date,omitempty"`
}

type UpdateTransferStatusRequest struct {
	Status TransferStatus `json:"status"`
}
