package models

import "time"

// PurchaseStatus represents the approval workflow of a purchase.
// Only delivered purchases count toward balances.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusApproved  PurchaseStatus = "approved"
	PurchaseStatusDelivered PurchaseStatus = "delivered"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Valid reports whether s is a known purchase status.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusApproved, PurchaseStatusDelivered, PurchaseStatusCancelled:
		return true
	}
	return false
}

type Purchase struct {
	ID              int            `json:"id"`
	EquipmentID     int            `json:"equipment_id"`
	ToBaseID        int            `json:"to_base_id"`
	EquipmentName   string         `json:"equipment_name,omitempty"`
	BaseName        string         `json:"base_name,omitempty"`
	Quantity        int            `json:"quantity"`
	Status          PurchaseStatus `json:"status"`
	PurchaseDate    time.Time      `json:"purchase_date"`
	CreatedByUserID int            `json:"created_by_user_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type CreatePurchaseRequest struct {
	EquipmentID  int            `json:"equipment_id"`
	ToBaseID     int            `json:"to_base_id"`
	Quantity     int            `json:"quantity"`
	Status       PurchaseStatus `json:"status,omitempty"` // defaults to delivered
	PurchaseDate *time.Time     `json:"purchase_date,omitempty"`
}

type UpdatePurchaseRequest struct {
	EquipmentID  int            `json:"equipment_id"`
	ToBaseID     int            `json:"to_base_id"`
	Quantity     int            `json:"quantity"`
	Status       PurchaseStatus `json:"status"`
	PurchaseDate *time.Time     `json:"purchase_date,omitempty"`
}
