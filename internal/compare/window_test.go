package compare

import (
	"testing"
	"time"
)

func TestWindowTargetUsesThirtyDayMonths(t *testing.T) {
	base := dt(2025, 12, 1)
	got := Windows[0].Target(base)
	want := base.AddDate(0, 0, -180)
	if !got.Equal(want) {
		t.Fatalf("6m target=%v, want %v", got, want)
	}
	got = Windows[3].Target(base)
	want = base.AddDate(0, 0, -720)
	if !got.Equal(want) {
		t.Fatalf("24m target=%v, want %v", got, want)
	}
}

func TestFindNearestExcludesBaseline(t *testing.T) {
	target := dt(2025, 6, 1)
	records := []Record{
		// The baseline itself sits exactly on the target.
		{ID: 10, ExamDate: tp(target)},
		{ID: 11, ExamDate: tp(target.AddDate(0, 0, 20))},
	}
	got := FindNearestInWindow(records, target, 60, 10)
	if got == nil || got.ID != 11 {
		t.Fatalf("picked=%+v, want record 11", got)
	}
}

func TestFindNearestToleranceBoundary(t *testing.T) {
	target := dt(2025, 6, 1)

	atBoundary := []Record{{ID: 1, ExamDate: tp(target.AddDate(0, 0, 60))}}
	if got := FindNearestInWindow(atBoundary, target, 60, 99); got == nil || got.ID != 1 {
		t.Fatalf("delta==tolerance rejected: %+v", got)
	}

	pastBoundary := []Record{{ID: 1, ExamDate: tp(target.AddDate(0, 0, 61))}}
	if got := FindNearestInWindow(pastBoundary, target, 60, 99); got != nil {
		t.Fatalf("delta==tolerance+1 accepted: %+v", got)
	}
}

func TestFindNearestPicksSmallestDelta(t *testing.T) {
	target := dt(2025, 6, 1)
	records := []Record{
		{ID: 1, ExamDate: tp(target.AddDate(0, 0, -30))},
		{ID: 2, ExamDate: tp(target.AddDate(0, 0, 5))},
		{ID: 3, ExamDate: tp(target.AddDate(0, 0, 15))},
	}
	got := FindNearestInWindow(records, target, 60, 99)
	if got == nil || got.ID != 2 {
		t.Fatalf("picked=%+v, want record 2", got)
	}
}

func TestFindNearestEquidistantTieBreaksOnLowestID(t *testing.T) {
	target := dt(2025, 6, 1)
	records := []Record{
		{ID: 8, ExamDate: tp(target.AddDate(0, 0, 10))},
		{ID: 3, ExamDate: tp(target.AddDate(0, 0, -10))},
	}
	got := FindNearestInWindow(records, target, 60, 99)
	if got == nil || got.ID != 3 {
		t.Fatalf("picked=%+v, want record 3", got)
	}

	// Same set, reversed iteration order: result must not change.
	reversed := []Record{records[1], records[0]}
	got = FindNearestInWindow(reversed, target, 60, 99)
	if got == nil || got.ID != 3 {
		t.Fatalf("picked=%+v after reorder, want record 3", got)
	}
}

func TestFindNearestNoneInTolerance(t *testing.T) {
	target := dt(2025, 6, 1)
	records := []Record{
		{ID: 1, ExamDate: tp(target.AddDate(0, 0, 200))},
	}
	if got := FindNearestInWindow(records, target, 60, 99); got != nil {
		t.Fatalf("picked=%+v, want nil", got)
	}
}

func TestMarkerMapLastOccurrenceWins(t *testing.T) {
	r := Record{Markers: []Marker{
		{Name: "Glucose", Value: fp(90)},
		{Name: " Glucose ", Value: fp(95)},
		{Name: "TSH", Value: nil},
		{Name: "", Value: fp(1)},
	}}
	m := MarkerMap(&r)
	if len(m) != 1 {
		t.Fatalf("map=%v, want single entry", m)
	}
	if m["Glucose"] != 95 {
		t.Fatalf("Glucose=%v, want 95 (last occurrence)", m["Glucose"])
	}
}

func TestEffectiveDatePrefersExamDate(t *testing.T) {
	created := dt(2025, 5, 5).Add(13 * time.Hour)
	r := Record{ExamDate: tp(dt(2025, 4, 1)), CreatedAt: tp(created)}
	if got := r.EffectiveDate(); !got.Equal(dt(2025, 4, 1)) {
		t.Fatalf("effective=%v, want exam date", got)
	}
	r = Record{CreatedAt: tp(created)}
	if got := r.EffectiveDate(); !got.Equal(dt(2025, 5, 5)) {
		t.Fatalf("effective=%v, want created_at date component", got)
	}
}
