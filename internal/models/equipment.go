package models

import "time"

// Equipment is a category of asset tracked by quantity (reference data).
type Equipment struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"` // 'weapon', 'vehicle', 'ammunition', 'supplies', ...
	Unit      string    `json:"unit"`     // 'count', 'liter', 'kg'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateEquipmentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

type UpdateEquipmentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}
