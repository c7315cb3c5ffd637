package availability

import (
	"time"

	"zapis/internal/domain"
)

// GenerateCandidates строит сетку кандидатов для рабочего дня: старт сдвигается
// на step, пока слот целиком помещается в рабочее окно. Для услуг с типом fixed
// дополнительно требуется, чтобы смещение старта от начала окна было кратно
// длительности услуги. Кандидат, пересекающий перерыв хотя бы частично,
// отбрасывается. Результат упорядочен по возрастанию и строится заново
// на каждый запрос.
func GenerateCandidates(day DayPlan, duration, step time.Duration, availabilityType domain.AvailabilityType) []Interval {
	if !day.Working || duration <= 0 || step <= 0 {
		return nil
	}

	var candidates []Interval
	for start := day.Window.Start; !start.Add(duration).After(day.Window.End); start = start.Add(step) {
		if availabilityType == domain.AvailabilityTypeFixed {
			if start.Sub(day.Window.Start)%duration != 0 {
				continue
			}
		}

		candidate := Interval{Start: start, End: start.Add(duration)}
		if overlapsAny(candidate, day.Breaks) {
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates
}

// BusyIntervals разбирает записи специалиста за сутки на два набора:
// booked — обычные записи, учитываемые при подсчете вместимости,
// blocked — интервалы недоступности, исключающие слот безусловно.
// Пересечение с сутками проверяется по полным границам записи (запись может
// переходить через полночь), после чего интервал обрезается по суточному окну.
func BusyIntervals(appointments []domain.Appointment, day Interval) (booked, blocked []Interval) {
	for _, appt := range appointments {
		if appt.Status == domain.AppointmentStatusCancelled {
			continue
		}

		interval := Interval{Start: appt.StartDatetime, End: appt.EndDatetime}
		clipped, ok := interval.Clip(day)
		if !ok {
			continue
		}

		if appt.IsUnavailability {
			blocked = append(blocked, clipped)
		} else {
			booked = append(booked, clipped)
		}
	}

	return booked, blocked
}
