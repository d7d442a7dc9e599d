package compare

import (
	"testing"
	"time"
)

func dt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func TestPickBaselineEmpty(t *testing.T) {
	if got := PickBaseline(nil); got != nil {
		t.Fatalf("PickBaseline(nil)=%+v, want nil", got)
	}
}

func TestPickBaselineLatestEffectiveDate(t *testing.T) {
	records := []Record{
		{ID: 1, ExamDate: tp(dt(2025, 1, 10)), CreatedAt: tp(dt(2025, 1, 11))},
		{ID: 2, ExamDate: tp(dt(2025, 6, 10)), CreatedAt: tp(dt(2025, 6, 11))},
		{ID: 3, ExamDate: tp(dt(2025, 3, 10)), CreatedAt: tp(dt(2025, 3, 11))},
	}
	b := PickBaseline(records)
	if b == nil || b.ID != 2 {
		t.Fatalf("baseline=%+v, want record 2", b)
	}
}

func TestPickBaselineCreatedAtTieBreak(t *testing.T) {
	// Same effective date: the later ingestion wins.
	records := []Record{
		{ID: 1, ExamDate: tp(dt(2025, 6, 10)), CreatedAt: tp(dt(2025, 6, 10).Add(2 * time.Hour))},
		{ID: 2, ExamDate: tp(dt(2025, 6, 10)), CreatedAt: tp(dt(2025, 6, 10).Add(9 * time.Hour))},
	}
	b := PickBaseline(records)
	if b == nil || b.ID != 2 {
		t.Fatalf("baseline=%+v, want record 2", b)
	}
}

func TestPickBaselineMissingCreatedAtSortsLast(t *testing.T) {
	// created_at absent compares as "now", so among same-day records the one
	// without a timestamp becomes the baseline.
	records := []Record{
		{ID: 1, ExamDate: tp(dt(2025, 6, 10)), CreatedAt: tp(dt(2025, 6, 10))},
		{ID: 2, ExamDate: tp(dt(2025, 6, 10))},
	}
	b := PickBaseline(records)
	if b == nil || b.ID != 2 {
		t.Fatalf("baseline=%+v, want record 2", b)
	}
}

func TestPickBaselineFallsBackToCreatedAtDate(t *testing.T) {
	// No exam_date: the ingestion date is the effective date.
	records := []Record{
		{ID: 1, CreatedAt: tp(dt(2025, 2, 1))},
		{ID: 2, ExamDate: tp(dt(2025, 1, 1)), CreatedAt: tp(dt(2025, 3, 1))},
	}
	b := PickBaseline(records)
	if b == nil || b.ID != 1 {
		t.Fatalf("baseline=%+v, want record 1", b)
	}
}

func TestPickBaselineDeterministic(t *testing.T) {
	records := []Record{
		{ID: 4, ExamDate: tp(dt(2025, 4, 1)), CreatedAt: tp(dt(2025, 4, 2))},
		{ID: 7, ExamDate: tp(dt(2025, 5, 1)), CreatedAt: tp(dt(2025, 5, 2))},
		{ID: 9, ExamDate: tp(dt(2025, 3, 1)), CreatedAt: tp(dt(2025, 3, 2))},
	}
	first := PickBaseline(records)
	for i := 0; i < 10; i++ {
		again := PickBaseline(records)
		if again == nil || first == nil || again.ID != first.ID {
			t.Fatalf("run %d: baseline changed from %+v to %+v", i, first, again)
		}
	}
}
