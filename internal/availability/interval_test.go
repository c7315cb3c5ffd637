package availability

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func iv(t *testing.T, startHour, startMin, endHour, endMin int) Interval {
	t.Helper()
	return Interval{Start: at(t, startHour, startMin), End: at(t, endHour, endMin)}
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"частичное пересечение", iv(t, 9, 0, 10, 0), iv(t, 9, 30, 10, 30), true},
		{"вложенный интервал", iv(t, 9, 0, 12, 0), iv(t, 10, 0, 11, 0), true},
		{"конец совпадает с началом", iv(t, 9, 0, 10, 0), iv(t, 10, 0, 11, 0), false},
		{"начало совпадает с концом", iv(t, 10, 0, 11, 0), iv(t, 9, 0, 10, 0), false},
		{"без пересечения", iv(t, 9, 0, 10, 0), iv(t, 12, 0, 13, 0), false},
		{"одинаковые интервалы", iv(t, 9, 0, 10, 0), iv(t, 9, 0, 10, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, ожидалось %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps не симметричен для %v и %v", tc.a, tc.b)
			}
		})
	}
}

func TestIntervalClip(t *testing.T) {
	bounds := iv(t, 0, 0, 23, 59)

	clipped, ok := iv(t, 9, 0, 10, 0).Clip(bounds)
	if !ok {
		t.Fatal("интервал внутри границ должен сохраниться")
	}
	if !clipped.Start.Equal(at(t, 9, 0)) || !clipped.End.Equal(at(t, 10, 0)) {
		t.Fatalf("интервал внутри границ изменился: %v", clipped)
	}

	spanning := Interval{Start: at(t, 22, 0), End: at(t, 23, 59).Add(2 * time.Hour)}
	clipped, ok = spanning.Clip(bounds)
	if !ok {
		t.Fatal("интервал через границу должен обрезаться, а не пропасть")
	}
	if !clipped.End.Equal(bounds.End) {
		t.Fatalf("конец должен быть обрезан до границы, получено %v", clipped.End)
	}

	if _, ok := iv(t, 9, 0, 10, 0).Clip(iv(t, 10, 0, 11, 0)); ok {
		t.Fatal("смежный интервал не пересекает границы при полуоткрытой семантике")
	}
}
