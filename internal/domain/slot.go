package domain

import (
	"time"
)

// Slot вычисляется заново на каждый запрос и нигде не сохраняется:
// набор занятых интервалов может измениться между запросами.
type Slot struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	ProviderID    int64     `json:"provider_id"`
}
