package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

func workingDay(t *testing.T, breaks ...Interval) DayPlan {
	t.Helper()
	return DayPlan{
		Working: true,
		Window:  iv(t, 9, 0, 17, 0),
		Breaks:  breaks,
	}
}

func TestGenerateCandidatesFullDay(t *testing.T) {
	candidates := GenerateCandidates(workingDay(t), 30*time.Minute, 30*time.Minute, domain.AvailabilityTypeFlexible)

	// 09:00–17:00 с шагом 30 минут: 16 слотов, с 09:00 по 16:30.
	if len(candidates) != 16 {
		t.Fatalf("ожидалось 16 кандидатов, получено %d", len(candidates))
	}
	if !candidates[0].Start.Equal(at(t, 9, 0)) {
		t.Fatalf("первый кандидат должен быть 09:00, получено %v", candidates[0].Start)
	}
	last := candidates[len(candidates)-1]
	if !last.Start.Equal(at(t, 16, 30)) || !last.End.Equal(at(t, 17, 0)) {
		t.Fatalf("последний кандидат должен быть 16:30–17:00, получено %v", last)
	}
	for i := 1; i < len(candidates); i++ {
		if !candidates[i].Start.After(candidates[i-1].Start) {
			t.Fatalf("кандидаты должны идти строго по возрастанию: %v после %v", candidates[i], candidates[i-1])
		}
	}
}

func TestGenerateCandidatesBreak(t *testing.T) {
	candidates := GenerateCandidates(
		workingDay(t, iv(t, 12, 0, 13, 0)),
		30*time.Minute, 30*time.Minute, domain.AvailabilityTypeFlexible,
	)

	starts := make(map[string]bool)
	for _, c := range candidates {
		starts[c.Start.Format("15:04")] = true
	}

	if starts["12:00"] || starts["12:30"] {
		t.Fatal("слоты внутри перерыва 12:00–13:00 должны быть исключены")
	}
	if !starts["11:30"] {
		t.Fatal("слот 11:30 заканчивается в 12:00 и не пересекает перерыв")
	}
	if !starts["13:00"] {
		t.Fatal("слот 13:00 начинается на конце перерыва и должен остаться")
	}
	if len(candidates) != 14 {
		t.Fatalf("ожидалось 14 кандидатов, получено %d", len(candidates))
	}
}

func TestGenerateCandidatesPartialBreakOverlap(t *testing.T) {
	// Перерыв 12:15–12:45: даже частичное пересечение исключает кандидата.
	candidates := GenerateCandidates(
		workingDay(t, iv(t, 12, 15, 12, 45)),
		30*time.Minute, 30*time.Minute, domain.AvailabilityTypeFlexible,
	)

	for _, c := range candidates {
		if c.Start.Equal(at(t, 12, 0)) || c.Start.Equal(at(t, 12, 30)) {
			t.Fatalf("кандидат %v частично пересекает перерыв", c.Start)
		}
	}
}

func TestGenerateCandidatesFixedAlignment(t *testing.T) {
	candidates := GenerateCandidates(workingDay(t), 45*time.Minute, 15*time.Minute, domain.AvailabilityTypeFixed)

	for _, c := range candidates {
		offset := c.Start.Sub(at(t, 9, 0))
		if offset%(45*time.Minute) != 0 {
			t.Fatalf("fixed-услуга требует выравнивания по длительности, кандидат %v", c.Start)
		}
	}
	if !candidates[0].Start.Equal(at(t, 9, 0)) || !candidates[1].Start.Equal(at(t, 9, 45)) {
		t.Fatalf("первые кандидаты должны быть 09:00 и 09:45: %v", candidates[:2])
	}
}

func TestGenerateCandidatesFlexibleGrid(t *testing.T) {
	candidates := GenerateCandidates(workingDay(t), 45*time.Minute, 15*time.Minute, domain.AvailabilityTypeFlexible)

	// flexible допускает любой шаг сетки: 09:00, 09:15, 09:30...
	if !candidates[1].Start.Equal(at(t, 9, 15)) {
		t.Fatalf("flexible-услуга должна давать кандидата 09:15, получено %v", candidates[1].Start)
	}
	last := candidates[len(candidates)-1]
	if last.End.After(at(t, 17, 0)) {
		t.Fatalf("слот не должен выходить за рабочее окно: %v", last)
	}
}

func TestGenerateCandidatesNotWorking(t *testing.T) {
	if got := GenerateCandidates(DayPlan{}, 30*time.Minute, 30*time.Minute, domain.AvailabilityTypeFlexible); got != nil {
		t.Fatalf("нерабочий день дает пустую последовательность, получено %v", got)
	}
}

func TestGenerateCandidatesDurationExceedsWindow(t *testing.T) {
	day := DayPlan{Working: true, Window: iv(t, 9, 0, 10, 0)}
	if got := GenerateCandidates(day, 2*time.Hour, 30*time.Minute, domain.AvailabilityTypeFlexible); got != nil {
		t.Fatalf("услуга длиннее окна — валидный пустой результат, получено %v", got)
	}
}

func TestBusyIntervals(t *testing.T) {
	serviceID := int64(1)
	clientID := int64(2)
	day := DayWindow(monday)

	appointments := []domain.Appointment{
		{
			ProviderID: 1, ServiceID: &serviceID, ClientID: &clientID,
			StartDatetime: at(t, 10, 0), EndDatetime: at(t, 10, 30),
			Status: domain.AppointmentStatusConfirmed,
		},
		{
			ProviderID: 1, ServiceID: &serviceID, ClientID: &clientID,
			StartDatetime: at(t, 11, 0), EndDatetime: at(t, 11, 30),
			Status: domain.AppointmentStatusCancelled,
		},
		{
			ProviderID:    1,
			StartDatetime: at(t, 14, 0), EndDatetime: at(t, 15, 0),
			Status: domain.AppointmentStatusConfirmed, IsUnavailability: true,
		},
	}

	booked, blocked := BusyIntervals(appointments, day)
	if len(booked) != 1 || !booked[0].Start.Equal(at(t, 10, 0)) {
		t.Fatalf("отмененные записи не попадают в занятые интервалы: %v", booked)
	}
	if len(blocked) != 1 || !blocked[0].Start.Equal(at(t, 14, 0)) {
		t.Fatalf("недоступность должна попасть в blocked: %v", blocked)
	}
}

func TestBusyIntervalsMidnightSpan(t *testing.T) {
	day := DayWindow(monday)

	appointments := []domain.Appointment{
		{
			ProviderID:    1,
			StartDatetime: monday.Add(-2 * time.Hour),
			EndDatetime:   monday.Add(1 * time.Hour),
			Status:        domain.AppointmentStatusConfirmed,
			IsUnavailability: true,
		},
	}

	_, blocked := BusyIntervals(appointments, day)
	if len(blocked) != 1 {
		t.Fatalf("запись через полночь пересекает сутки, получено %v", blocked)
	}
	if !blocked[0].Start.Equal(day.Start) || !blocked[0].End.Equal(monday.Add(1*time.Hour)) {
		t.Fatalf("интервал должен быть обрезан по началу суток: %v", blocked[0])
	}
}
