package models

import "time"

// Base is a physical site holding inventory.
type Base struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateBaseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type UpdateBaseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}
