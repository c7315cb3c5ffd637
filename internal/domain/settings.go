package domain

import (
	"time"
)

type BookingSettings struct {
	AdvanceTimeout     int          `json:"book_advance_timeout"`
	FutureBookingLimit int          `json:"future_booking_limit"`
	SlotGranularity    int          `json:"slot_granularity"`
	FirstWeekday       time.Weekday `json:"first_weekday"`
}

type UpdateBookingSettingsDTO struct {
	AdvanceTimeout     *int `json:"book_advance_timeout" binding:"omitempty,min=0"`
	FutureBookingLimit *int `json:"future_booking_limit" binding:"omitempty,min=0"`
	SlotGranularity    *int `json:"slot_granularity" binding:"omitempty,min=5,max=120"`
	FirstWeekday       *int `json:"first_weekday" binding:"omitempty,min=0,max=6"`
}
