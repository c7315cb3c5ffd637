package availability

import (
	"testing"
)

func TestMergeUnionDistinctStarts(t *testing.T) {
	providers := []ProviderSlots{
		{ProviderID: 1, Slots: []Interval{iv(t, 9, 0, 9, 30), iv(t, 10, 0, 10, 30)}},
		{ProviderID: 2, Slots: []Interval{iv(t, 10, 0, 10, 30), iv(t, 11, 0, 11, 30)}},
	}

	merged := Merge(providers)
	if len(merged) != 3 {
		t.Fatalf("ожидалось 3 уникальных времени начала, получено %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if !merged[i].StartDatetime.After(merged[i-1].StartDatetime) {
			t.Fatal("результат должен быть строго по возрастанию времени начала")
		}
	}
}

func TestMergeLoadBalancing(t *testing.T) {
	providers := []ProviderSlots{
		{ProviderID: 1, BookedCount: 5, Slots: []Interval{iv(t, 10, 0, 10, 30)}},
		{ProviderID: 2, BookedCount: 1, Slots: []Interval{iv(t, 10, 0, 10, 30)}},
	}

	merged := Merge(providers)
	if len(merged) != 1 {
		t.Fatalf("ожидался один слот, получено %d", len(merged))
	}
	if merged[0].ProviderID != 2 {
		t.Fatalf("слот должен достаться наименее загруженному специалисту, получен %d", merged[0].ProviderID)
	}
}

func TestMergeTieBreakByID(t *testing.T) {
	providers := []ProviderSlots{
		{ProviderID: 7, BookedCount: 2, Slots: []Interval{iv(t, 10, 0, 10, 30)}},
		{ProviderID: 3, BookedCount: 2, Slots: []Interval{iv(t, 10, 0, 10, 30)}},
	}

	merged := Merge(providers)
	if merged[0].ProviderID != 3 {
		t.Fatalf("при равной загрузке выбирается меньший id, получен %d", merged[0].ProviderID)
	}
}

func TestMergeDeterministic(t *testing.T) {
	providers := []ProviderSlots{
		{ProviderID: 2, BookedCount: 1, Slots: []Interval{iv(t, 9, 0, 9, 30), iv(t, 10, 0, 10, 30)}},
		{ProviderID: 1, BookedCount: 1, Slots: []Interval{iv(t, 9, 0, 9, 30), iv(t, 11, 0, 11, 30)}},
		{ProviderID: 3, BookedCount: 0, Slots: []Interval{iv(t, 10, 0, 10, 30)}},
	}

	first := Merge(providers)
	for run := 0; run < 10; run++ {
		again := Merge(providers)
		if len(again) != len(first) {
			t.Fatalf("повторный вызов дал другой размер: %d и %d", len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("повторный вызов дал другой результат на позиции %d: %v и %v", i, again[i], first[i])
			}
		}
	}

	// 09:00 — оба с загрузкой 1, выигрывает id 1; 10:00 — наименее загруженный id 3.
	if first[0].ProviderID != 1 {
		t.Fatalf("слот 09:00 должен достаться специалисту 1, получен %d", first[0].ProviderID)
	}
	if first[1].ProviderID != 3 {
		t.Fatalf("слот 10:00 должен достаться специалисту 3, получен %d", first[1].ProviderID)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	providers := []ProviderSlots{
		{ProviderID: 2, BookedCount: 5},
		{ProviderID: 1, BookedCount: 0},
	}

	Merge(providers)
	if providers[0].ProviderID != 2 {
		t.Fatal("Merge не должен переупорядочивать входной срез")
	}
}
