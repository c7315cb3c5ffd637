package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

func candidates30(t *testing.T) []Interval {
	t.Helper()
	return GenerateCandidates(workingDay(t), 30*time.Minute, 30*time.Minute, domain.AvailabilityTypeFlexible)
}

func starts(intervals []Interval) map[string]bool {
	result := make(map[string]bool, len(intervals))
	for _, i := range intervals {
		result[i.Start.Format("15:04")] = true
	}
	return result
}

func TestFilterBookedRemovesExactSlot(t *testing.T) {
	booked := []Interval{iv(t, 10, 0, 10, 30)}

	available := Filter(candidates30(t), booked, nil, FilterOptions{Now: monday})
	got := starts(available)

	if got["10:00"] {
		t.Fatal("занятый слот 10:00 должен быть исключен")
	}
	if !got["09:30"] || !got["10:30"] {
		t.Fatal("соседние слоты 09:30 и 10:30 не пересекают запись и должны остаться")
	}
	if len(available) != 15 {
		t.Fatalf("должен пропасть ровно один слот: осталось %d", len(available))
	}
}

func TestFilterPartialOverlapExcludes(t *testing.T) {
	// Запись 10:15–10:45 частично пересекает слоты 10:00 и 10:30 — оба уходят.
	booked := []Interval{iv(t, 10, 15, 10, 45)}

	got := starts(Filter(candidates30(t), booked, nil, FilterOptions{Now: monday}))
	if got["10:00"] || got["10:30"] {
		t.Fatal("частичное пересечение исключает кандидата целиком")
	}
}

func TestFilterAdvanceTimeout(t *testing.T) {
	now := at(t, 9, 15)

	available := Filter(candidates30(t), nil, nil, FilterOptions{
		Now:            now,
		AdvanceTimeout: 60 * time.Minute,
	})
	got := starts(available)

	if got["09:00"] || got["09:30"] || got["10:00"] {
		t.Fatal("слоты раньше 10:15 попадают в минимальный запас и исключаются")
	}
	if !got["10:30"] {
		t.Fatal("слот 10:30 за пределами запаса и должен остаться")
	}
}

func TestFilterPastDayEmpty(t *testing.T) {
	now := monday.AddDate(0, 0, 1)

	available := Filter(candidates30(t), nil, nil, FilterOptions{Now: now})
	if len(available) != 0 {
		t.Fatalf("запрос на прошедшую дату дает пустой результат, получено %d слотов", len(available))
	}
}

func TestFilterFutureBookingLimit(t *testing.T) {
	now := monday.AddDate(0, 0, -30)

	available := Filter(candidates30(t), nil, nil, FilterOptions{
		Now:                now,
		FutureBookingLimit: 7 * 24 * time.Hour,
	})
	if len(available) != 0 {
		t.Fatalf("слоты за горизонтом бронирования должны отсекаться, получено %d", len(available))
	}
}

func TestFilterCapacity(t *testing.T) {
	booked := []Interval{
		iv(t, 10, 0, 10, 30),
		iv(t, 10, 0, 10, 30),
	}

	got := starts(Filter(candidates30(t), booked, nil, FilterOptions{Now: monday, Attendants: 3}))
	if !got["10:00"] {
		t.Fatal("при вместимости 3 и двух записях слот еще доступен")
	}

	got = starts(Filter(candidates30(t), booked, nil, FilterOptions{Now: monday, Attendants: 2}))
	if got["10:00"] {
		t.Fatal("при вместимости 2 и двух записях слот заполнен")
	}
}

func TestFilterBlockedIgnoresCapacity(t *testing.T) {
	blocked := []Interval{iv(t, 10, 0, 12, 0)}

	got := starts(Filter(candidates30(t), nil, blocked, FilterOptions{Now: monday, Attendants: 10}))
	for _, s := range []string{"10:00", "10:30", "11:00", "11:30"} {
		if got[s] {
			t.Fatalf("недоступность исключает слот %s независимо от вместимости", s)
		}
	}
	if !got["12:00"] {
		t.Fatal("слот на конце интервала недоступности должен остаться")
	}
}

func TestFilterIdempotent(t *testing.T) {
	booked := []Interval{iv(t, 10, 0, 10, 30)}
	opts := FilterOptions{Now: at(t, 8, 0), AdvanceTimeout: 30 * time.Minute}

	first := Filter(candidates30(t), booked, nil, opts)
	second := Filter(candidates30(t), booked, nil, opts)

	if len(first) != len(second) {
		t.Fatalf("повторный вызов дал другой размер: %d и %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) {
			t.Fatalf("повторный вызов дал другой порядок на позиции %d", i)
		}
	}
}
