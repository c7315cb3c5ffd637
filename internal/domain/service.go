package domain

import (
	"time"
)

type AvailabilityType string

const (
	// AvailabilityTypeFixed требует, чтобы слоты начинались строго на границах,
	// кратных длительности услуги от начала рабочего дня.
	AvailabilityTypeFixed AvailabilityType = "fixed"
	// AvailabilityTypeFlexible допускает начало слота на любом шаге сетки,
	// если до ближайшего занятого интервала помещается вся услуга.
	AvailabilityTypeFlexible AvailabilityType = "flexible"
)

type Service struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Duration         int              `json:"duration"`
	Price            float64          `json:"price"`
	Attendants       int              `json:"attendants_number"`
	AvailabilityType AvailabilityType `json:"availability_type"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreateServiceDTO struct {
	Name             string           `json:"name" binding:"required"`
	Description      string           `json:"description"`
	Duration         int              `json:"duration" binding:"required,min=1"`
	Price            float64          `json:"price"`
	Attendants       int              `json:"attendants_number" binding:"omitempty,min=1"`
	AvailabilityType AvailabilityType `json:"availability_type" binding:"omitempty,oneof=fixed flexible"`
}

type UpdateServiceDTO struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	Duration         *int              `json:"duration" binding:"omitempty,min=1"`
	Price            *float64          `json:"price"`
	Attendants       *int              `json:"attendants_number" binding:"omitempty,min=1"`
	AvailabilityType *AvailabilityType `json:"availability_type" binding:"omitempty,oneof=fixed flexible"`
	IsActive         *bool             `json:"is_active"`
}
