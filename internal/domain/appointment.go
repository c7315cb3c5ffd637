package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID               int64             `json:"id"`
	ProviderID       int64             `json:"provider_id"`
	ServiceID        *int64            `json:"service_id"`
	ClientID         *int64            `json:"client_id"`
	StartDatetime    time.Time         `json:"start_datetime"`
	EndDatetime      time.Time         `json:"end_datetime"`
	Status           AppointmentStatus `json:"status"`
	IsUnavailability bool              `json:"is_unavailability"`
	Notes            string            `json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	ClientName   string `json:"client_name,omitempty"`
	ClientPhone  string `json:"client_phone,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	ServiceName  string `json:"service_name,omitempty"`
}

type CreateAppointmentDTO struct {
	ServiceID     int64     `json:"service_id" binding:"required"`
	ProviderID    *int64    `json:"provider_id"`
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	Notes         string    `json:"notes"`
}

type CreateUnavailabilityDTO struct {
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time `json:"end_datetime" binding:"required"`
	Notes         string    `json:"notes"`
}

type UpdateAppointmentDTO struct {
	Status *AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes  *string            `json:"notes"`
}

type AppointmentFilter struct {
	ClientID   *int64             `json:"client_id"`
	ProviderID *int64             `json:"provider_id"`
	Status     *AppointmentStatus `json:"status"`
	StartDate  *time.Time         `json:"start_date"`
	EndDate    *time.Time         `json:"end_date"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}
