package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

// 10 марта 2025 — понедельник.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func weeklyPlan() *domain.WorkingPlan {
	return &domain.WorkingPlan{
		ProviderID: 1,
		Days: []domain.WorkingDay{
			{Weekday: time.Monday, StartTime: "09:00", EndTime: "17:00"},
			{Weekday: time.Tuesday, StartTime: "10:00", EndTime: "18:00", Breaks: []domain.Break{
				{StartTime: "13:00", EndTime: "14:00"},
			}},
		},
	}
}

func TestResolveDayWeekly(t *testing.T) {
	day := ResolveDay(weeklyPlan(), nil, monday)
	if !day.Working {
		t.Fatal("понедельник должен быть рабочим")
	}
	if !day.Window.Start.Equal(at(t, 9, 0)) || !day.Window.End.Equal(at(t, 17, 0)) {
		t.Fatalf("неверное рабочее окно: %v", day.Window)
	}
	if len(day.Breaks) != 0 {
		t.Fatalf("в понедельник нет перерывов, получено %d", len(day.Breaks))
	}
}

func TestResolveDayNotWorking(t *testing.T) {
	sunday := monday.AddDate(0, 0, 6)
	if day := ResolveDay(weeklyPlan(), nil, sunday); day.Working {
		t.Fatal("воскресенье отсутствует в плане и должно быть нерабочим")
	}
}

func TestResolveDayNoPlan(t *testing.T) {
	if day := ResolveDay(nil, nil, monday); day.Working {
		t.Fatal("отсутствие плана означает недоступность на любую дату")
	}
}

func TestResolveDayExceptionWins(t *testing.T) {
	exceptions := []domain.WorkingPlanException{
		{
			ProviderID: 1,
			Date:       monday,
			IsWorking:  true,
			StartTime:  "12:00",
			EndTime:    "15:00",
			Breaks:     []domain.Break{{StartTime: "13:00", EndTime: "13:30"}},
		},
	}

	day := ResolveDay(weeklyPlan(), exceptions, monday)
	if !day.Working {
		t.Fatal("исключение задает рабочий день")
	}
	if !day.Window.Start.Equal(at(t, 12, 0)) || !day.Window.End.Equal(at(t, 15, 0)) {
		t.Fatalf("окно должно взяться из исключения, получено %v", day.Window)
	}
	if len(day.Breaks) != 1 || !day.Breaks[0].Start.Equal(at(t, 13, 0)) {
		t.Fatalf("перерывы исключения полностью заменяют недельные: %v", day.Breaks)
	}
}

func TestResolveDayExceptionNotWorking(t *testing.T) {
	exceptions := []domain.WorkingPlanException{
		{ProviderID: 1, Date: monday, IsWorking: false},
	}
	if day := ResolveDay(weeklyPlan(), exceptions, monday); day.Working {
		t.Fatal("нерабочее исключение имеет приоритет над недельным планом")
	}
}

func TestResolveDayExceptionOtherDate(t *testing.T) {
	exceptions := []domain.WorkingPlanException{
		{ProviderID: 1, Date: monday.AddDate(0, 0, 1), IsWorking: false},
	}
	if day := ResolveDay(weeklyPlan(), exceptions, monday); !day.Working {
		t.Fatal("исключение на другую дату не должно влиять")
	}
}

func TestResolveDayMalformedTimes(t *testing.T) {
	plan := &domain.WorkingPlan{
		ProviderID: 1,
		Days: []domain.WorkingDay{
			{Weekday: time.Monday, StartTime: "девять", EndTime: "17:00"},
		},
	}
	if day := ResolveDay(plan, nil, monday); day.Working {
		t.Fatal("некорректное время в плане должно давать нерабочий день, а не панику")
	}

	inverted := &domain.WorkingPlan{
		ProviderID: 1,
		Days: []domain.WorkingDay{
			{Weekday: time.Monday, StartTime: "17:00", EndTime: "09:00"},
		},
	}
	if day := ResolveDay(inverted, nil, monday); day.Working {
		t.Fatal("окно с началом позже конца должно давать нерабочий день")
	}
}

func TestResolveDayBreakClippedToWindow(t *testing.T) {
	plan := &domain.WorkingPlan{
		ProviderID: 1,
		Days: []domain.WorkingDay{
			{Weekday: time.Monday, StartTime: "09:00", EndTime: "17:00", Breaks: []domain.Break{
				{StartTime: "16:30", EndTime: "18:00"},
				{StartTime: "07:00", EndTime: "08:00"},
			}},
		},
	}

	day := ResolveDay(plan, nil, monday)
	if len(day.Breaks) != 1 {
		t.Fatalf("перерыв вне окна отбрасывается, выходящий за край — обрезается: %v", day.Breaks)
	}
	if !day.Breaks[0].End.Equal(at(t, 17, 0)) {
		t.Fatalf("перерыв должен быть обрезан по концу окна, получено %v", day.Breaks[0].End)
	}
}
