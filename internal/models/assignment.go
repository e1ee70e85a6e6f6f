package models

import "time"

// AssignmentStatus tracks personnel-held assets. Assigned and expended
// quantities are both outflow from available stock; returned stock flows back.
type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "assigned"
	AssignmentStatusExpended AssignmentStatus = "expended"
	AssignmentStatusReturned AssignmentStatus = "returned"
)

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusAssigned, AssignmentStatusExpended, AssignmentStatusReturned:
		return true
	}
	return false
}

type Assignment struct {
	ID              int              `json:"id"`
	EquipmentID     int              `json:"equipment_id"`
	BaseID          int              `json:"base_id"`
	EquipmentName   string           `json:"equipment_name,omitempty"`
	BaseName        string           `json:"base_name,omitempty"`
	Quantity        int              `json:"quantity"`
	Personnel       string           `json:"personnel"` // name or service number
	Status          AssignmentStatus `json:"status"`
	AssignedAt      time.Time        `json:"assigned_at"`
	ExpendedAt      *time.Time       `json:"expended_at,omitempty"`
	ReturnedAt      *time.Time       `json:"returned_at,omitempty"`
	CreatedByUserID int              `json:"created_by_user_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CreateAssignmentRequest struct {
	EquipmentID int        `json:"equipment_id"`
	BaseID      int        `json:"base_id"`
	Quantity    int        `json:"quantity"`
	Personnel   string     `json:"personnel"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
}

type UpdateAssignmentStatusRequest struct {
	Status AssignmentStatus `json:"status"`
}
