package models

import "time"

type AuditLog struct {
	ID        int                    `json:"id"`
	UserID    int                    `json:"user_id"`
	UserName  string                 `json:"user_name,omitempty"`
	Action    string                 `json:"action"` // 'purchase.create', 'transfer.transition', ...
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogFilter struct {
	UserID *int       `json:"user_id"`
	Action string     `json:"action"`
	From   *time.Time `json:"from"`
	To     *time.Time `json:"to"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
