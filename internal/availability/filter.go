package availability

import (
	"time"
)

type FilterOptions struct {
	Now time.Time
	// AdvanceTimeout — минимальный запас до начала слота: кандидаты,
	// начинающиеся раньше Now+AdvanceTimeout, исключаются.
	AdvanceTimeout time.Duration
	// FutureBookingLimit ограничивает горизонт бронирования; ноль — без лимита.
	FutureBookingLimit time.Duration
	// Attendants — сколько одновременных записей вмещает один слот услуги.
	Attendants int
}

// Filter убирает кандидатов, конфликтующих с занятыми интервалами или
// нарушающих правила запаса времени. Порядок по возрастанию сохраняется.
func Filter(candidates []Interval, booked, blocked []Interval, opts FilterOptions) []Interval {
	attendants := opts.Attendants
	if attendants < 1 {
		attendants = 1
	}

	cutoff := opts.Now.Add(opts.AdvanceTimeout)

	var available []Interval
	for _, candidate := range candidates {
		if overlapsAny(candidate, blocked) {
			continue
		}
		if countOverlapping(candidate, booked) >= attendants {
			continue
		}
		if candidate.Start.Before(cutoff) {
			continue
		}
		if opts.FutureBookingLimit > 0 && candidate.Start.After(opts.Now.Add(opts.FutureBookingLimit)) {
			continue
		}
		available = append(available, candidate)
	}

	return available
}
