package availability

import (
	"sort"

	"zapis/internal/domain"
)

type ProviderSlots struct {
	ProviderID int64
	Slots      []Interval
	// BookedCount — число записей специалиста на эту дату, используется
	// для балансировки нагрузки при выборе "любого специалиста".
	BookedCount int
}

// Merge объединяет слоты нескольких специалистов в один список: для каждого
// уникального времени начала выбирается специалист с наименьшим числом записей
// за день, при равенстве — с наименьшим id. Выбор детерминирован при одинаковых
// входных данных: то же правило применяется при подтверждении брони "к любому
// специалисту", иначе два клиента могли бы занять один и тот же неявный слот.
func Merge(providers []ProviderSlots) []domain.Slot {
	ranked := make([]ProviderSlots, len(providers))
	copy(ranked, providers)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].BookedCount != ranked[j].BookedCount {
			return ranked[i].BookedCount < ranked[j].BookedCount
		}
		return ranked[i].ProviderID < ranked[j].ProviderID
	})

	chosen := make(map[int64]domain.Slot)
	for _, provider := range ranked {
		for _, slot := range provider.Slots {
			key := slot.Start.UnixNano()
			if _, ok := chosen[key]; ok {
				continue
			}
			chosen[key] = domain.Slot{
				StartDatetime: slot.Start,
				EndDatetime:   slot.End,
				ProviderID:    provider.ProviderID,
			}
		}
	}

	merged := make([]domain.Slot, 0, len(chosen))
	for _, slot := range chosen {
		merged = append(merged, slot)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].StartDatetime.Before(merged[j].StartDatetime)
	})

	return merged
}
