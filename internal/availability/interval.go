package availability

import (
	"time"
)

// Interval — полуоткрытый интервал [Start, End). Совпадение конца одного
// интервала с началом другого пересечением не считается.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

func (i Interval) IsZero() bool {
	return !i.End.After(i.Start)
}

// Clip обрезает интервал по границам bounds. Второе значение false, если
// пересечения нет вовсе.
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	if !i.Overlaps(bounds) {
		return Interval{}, false
	}
	clipped := i
	if clipped.Start.Before(bounds.Start) {
		clipped.Start = bounds.Start
	}
	if clipped.End.After(bounds.End) {
		clipped.End = bounds.End
	}
	return clipped, true
}

func overlapsAny(i Interval, intervals []Interval) bool {
	for _, other := range intervals {
		if i.Overlaps(other) {
			return true
		}
	}
	return false
}

func countOverlapping(i Interval, intervals []Interval) int {
	count := 0
	for _, other := range intervals {
		if i.Overlaps(other) {
			count++
		}
	}
	return count
}
