package domain

import (
	"time"
)

type Break struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type WorkingDay struct {
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Breaks    []Break      `json:"breaks,omitempty"`
}

// WorkingPlan содержит только рабочие дни недели: отсутствие дня означает,
// что специалист в этот день не принимает.
type WorkingPlan struct {
	ProviderID int64        `json:"provider_id"`
	Days       []WorkingDay `json:"days"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type WorkingPlanException struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	Date       time.Time `json:"date"`
	IsWorking  bool      `json:"is_working"`
	StartTime  string    `json:"start_time,omitempty"`
	EndTime    string    `json:"end_time,omitempty"`
	Breaks     []Break   `json:"breaks,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpdateWorkingPlanDTO struct {
	Days []WorkingDayDTO `json:"days" binding:"required,dive"`
}

type WorkingDayDTO struct {
	Weekday   int     `json:"weekday" binding:"min=0,max=6"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	Breaks    []Break `json:"breaks" binding:"omitempty,dive"`
}

type CreateExceptionDTO struct {
	Date      string  `json:"date" binding:"required"`
	IsWorking bool    `json:"is_working"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Breaks    []Break `json:"breaks" binding:"omitempty,dive"`
}

type UpdateExceptionDTO struct {
	IsWorking *bool    `json:"is_working"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Breaks    *[]Break `json:"breaks" binding:"omitempty,dive"`
}
