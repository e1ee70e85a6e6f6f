package models

import "time"

// DashboardFilter narrows dashboard aggregation. BaseID is further clamped to
// the caller's scope before any query runs.
type DashboardFilter struct {
	BaseID   *int       `json:"base_id"`
	Category string     `json:"category"`
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
}

// MovementBreakdown holds per-type counts and quantities over the filter's
// date range. These are raw transaction sums and may lag the balance figures
// until every affected key has been reconciled.
type MovementBreakdown struct {
	PurchaseCount     int `json:"purchase_count"`
	PurchaseQuantity  int `json:"purchase_quantity"`
	TransferInCount   int `json:"transfer_in_count"`
	TransferInQty     int `json:"transfer_in_quantity"`
	TransferOutCount  int `json:"transfer_out_count"`
	TransferOutQty    int `json:"transfer_out_quantity"`
	AssignedCount     int `json:"assigned_count"`
	AssignedQuantity  int `json:"assigned_quantity"`
	ExpendedCount     int `json:"expended_count"`
	ExpendedQuantity  int `json:"expended_quantity"`
}

// ActivityItem is one row of the merged recent-activity feed.
type ActivityItem struct {
	Type          string    `json:"type"` // 'purchase', 'transfer', 'assignment'
	ID            int       `json:"id"`
	EquipmentName string    `json:"equipment_name"`
	BaseName      string    `json:"base_name"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
}

type DashboardMetrics struct {
	OpeningBalance int               `json:"opening_balance"`
	ClosingBalance int               `json:"closing_balance"`
	NetMovement    int               `json:"net_movement"`
	Breakdown      MovementBreakdown `json:"breakdown"`
	RecentActivity []ActivityItem    `json:"recent_activity"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
