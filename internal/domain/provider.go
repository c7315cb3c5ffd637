package domain

import (
	"time"
)

type Provider struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`

	ServiceIDs []int64 `json:"service_ids,omitempty"`
}

type CreateProviderDTO struct {
	Description string  `json:"description"`
	ServiceIDs  []int64 `json:"service_ids"`
}

type UpdateProviderDTO struct {
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProviderFilter struct {
	ServiceID *int64 `json:"service_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}
