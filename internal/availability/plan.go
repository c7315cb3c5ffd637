package availability

import (
	"time"

	"zapis/internal/domain"
)

// DayPlan — результат разрешения рабочего плана на конкретную дату.
// Working == false означает "не принимает": отдельного состояния ошибки нет,
// любые некорректные данные плана схлопываются в нерабочий день.
type DayPlan struct {
	Working bool
	Window  Interval
	Breaks  []Interval
}

// ResolveDay определяет рабочий день специалиста на дату date.
// Исключение на эту дату всегда имеет приоритет над недельным планом,
// в том числе когда оно помечает день как нерабочий. Перерывы исключения
// полностью заменяют перерывы недельного дня, без слияния.
func ResolveDay(plan *domain.WorkingPlan, exceptions []domain.WorkingPlanException, date time.Time) DayPlan {
	for _, exc := range exceptions {
		if !sameDate(exc.Date, date) {
			continue
		}
		if !exc.IsWorking {
			return DayPlan{}
		}
		return buildDayPlan(date, exc.StartTime, exc.EndTime, exc.Breaks)
	}

	if plan == nil {
		return DayPlan{}
	}

	for _, day := range plan.Days {
		if day.Weekday == date.Weekday() {
			return buildDayPlan(date, day.StartTime, day.EndTime, day.Breaks)
		}
	}

	return DayPlan{}
}

func buildDayPlan(date time.Time, startTime, endTime string, breaks []domain.Break) DayPlan {
	window, ok := parseWindow(date, startTime, endTime)
	if !ok {
		return DayPlan{}
	}

	resolved := DayPlan{Working: true, Window: window}
	for _, b := range breaks {
		interval, ok := parseWindow(date, b.StartTime, b.EndTime)
		if !ok {
			continue
		}
		if clipped, ok := interval.Clip(window); ok {
			resolved.Breaks = append(resolved.Breaks, clipped)
		}
	}

	return resolved
}

func parseWindow(date time.Time, startTime, endTime string) (Interval, bool) {
	start, err := atTime(date, startTime)
	if err != nil {
		return Interval{}, false
	}
	end, err := atTime(date, endTime)
	if err != nil {
		return Interval{}, false
	}
	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

func atTime(date time.Time, value string) (time.Time, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	), nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayWindow — суточное окно [00:00, 00:00 следующего дня) для обрезки
// интервалов, пересекающих полночь.
func DayWindow(date time.Time) Interval {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
