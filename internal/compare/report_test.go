package compare

import "testing"

func TestBuildReportEmptyInput(t *testing.T) {
	rep := BuildReport(42, nil)
	if rep.Baseline != nil {
		t.Fatalf("baseline=%+v, want nil", rep.Baseline)
	}
	if rep.Windows.M6 != nil || rep.Windows.M12 != nil || rep.Windows.M18 != nil || rep.Windows.M24 != nil {
		t.Fatalf("windows=%+v, want all nil", rep.Windows)
	}
	if len(rep.Markers) != 0 {
		t.Fatalf("markers=%v, want empty", rep.Markers)
	}
	if rep.Note == "" {
		t.Fatal("empty report must carry a note")
	}
	if rep.PatientID != 42 {
		t.Fatalf("patient_id=%d, want 42", rep.PatientID)
	}
}

func TestBuildReportTolerancesAlwaysEchoed(t *testing.T) {
	for _, rep := range []*Report{BuildReport(1, nil), BuildReport(1, []Record{{ID: 1, ExamDate: tp(dt(2025, 6, 1))}})} {
		if rep.Tolerances.M6 != 60 || rep.Tolerances.M12 != 60 || rep.Tolerances.M18 != 90 || rep.Tolerances.M24 != 90 {
			t.Fatalf("tolerances=%+v, want 60/60/90/90", rep.Tolerances)
		}
	}
}

func TestBuildReportMarkerUnion(t *testing.T) {
	base := dt(2025, 12, 1)
	sixMonthsBack := base.AddDate(0, 0, -180)
	records := []Record{
		{ID: 2, ExamDate: tp(base), CreatedAt: tp(base), Markers: []Marker{{Name: "A", Value: fp(10)}}},
		{ID: 1, ExamDate: tp(sixMonthsBack), CreatedAt: tp(sixMonthsBack), Markers: []Marker{{Name: "B", Value: fp(5)}}},
	}
	rep := BuildReport(7, records)

	if rep.Baseline == nil || rep.Baseline.AnalyticID != 2 {
		t.Fatalf("baseline=%+v, want record 2", rep.Baseline)
	}
	if rep.Windows.M6 == nil || rep.Windows.M6.AnalyticID != 1 {
		t.Fatalf("6m window=%+v, want record 1", rep.Windows.M6)
	}

	rowA, ok := rep.Markers["A"]
	if !ok {
		t.Fatalf("marker A missing: %v", rep.Markers)
	}
	if rowA.Baseline == nil || *rowA.Baseline != 10 {
		t.Fatalf("A baseline=%v, want 10", rowA.Baseline)
	}
	if rowA.M6 != nil {
		t.Fatalf("A 6m=%v, want nil", rowA.M6)
	}
	if rowA.Trend.M6 != nil {
		t.Fatalf("A 6m trend=%v, want nil", rowA.Trend.M6)
	}

	rowB, ok := rep.Markers["B"]
	if !ok {
		t.Fatalf("marker B missing: %v", rep.Markers)
	}
	if rowB.Baseline != nil {
		t.Fatalf("B baseline=%v, want nil", rowB.Baseline)
	}
	if rowB.M6 == nil || *rowB.M6 != 5 {
		t.Fatalf("B 6m=%v, want 5", rowB.M6)
	}
	if rowB.Trend.M6 != nil {
		t.Fatalf("B 6m trend=%v, want nil", rowB.Trend.M6)
	}
}

func TestBuildReportTrendsAcrossWindows(t *testing.T) {
	base := dt(2025, 12, 1)
	mk := func(v float64) []Marker { return []Marker{{Name: "Glucose", Value: fp(v)}} }
	records := []Record{
		{ID: 5, ExamDate: tp(base), CreatedAt: tp(base), Markers: mk(110)},
		{ID: 4, ExamDate: tp(base.AddDate(0, 0, -180)), CreatedAt: tp(base.AddDate(0, 0, -180)), Markers: mk(100)},
		{ID: 3, ExamDate: tp(base.AddDate(0, 0, -360)), CreatedAt: tp(base.AddDate(0, 0, -360)), Markers: mk(108)},
		{ID: 2, ExamDate: tp(base.AddDate(0, 0, -540)), CreatedAt: tp(base.AddDate(0, 0, -540)), Markers: mk(130)},
	}
	rep := BuildReport(1, records)
	row, ok := rep.Markers["Glucose"]
	if !ok {
		t.Fatalf("Glucose row missing: %v", rep.Markers)
	}
	if row.Trend.M6 == nil || *row.Trend.M6 != TrendUp {
		t.Fatalf("6m trend=%v, want up", row.Trend.M6)
	}
	if row.Trend.M12 == nil || *row.Trend.M12 != TrendFlat {
		t.Fatalf("12m trend=%v, want flat (1.85%% change)", row.Trend.M12)
	}
	if row.Trend.M18 == nil || *row.Trend.M18 != TrendDown {
		t.Fatalf("18m trend=%v, want down", row.Trend.M18)
	}
	if row.Trend.M24 != nil {
		t.Fatalf("24m trend=%v, want nil (no record)", row.Trend.M24)
	}
}

func TestBuildReportBaselineNeverPickedForWindow(t *testing.T) {
	// A single record is its own baseline; every window must stay empty even
	// though the record might fall inside some window's tolerance band.
	base := dt(2025, 12, 1)
	records := []Record{{ID: 1, ExamDate: tp(base), CreatedAt: tp(base)}}
	rep := BuildReport(1, records)
	if rep.Windows.M6 != nil || rep.Windows.M12 != nil || rep.Windows.M18 != nil || rep.Windows.M24 != nil {
		t.Fatalf("windows=%+v, want all nil", rep.Windows)
	}
	if rep.Note != "" {
		t.Fatalf("note=%q, want empty for non-empty input", rep.Note)
	}
}

func TestBuildReportSameRecordCanServeTwoWindows(t *testing.T) {
	// 18m and 24m targets are 180 days apart with 90-day tolerances, so a
	// record exactly between them is eligible for both.
	base := dt(2025, 12, 1)
	mid := base.AddDate(0, 0, -630)
	records := []Record{
		{ID: 2, ExamDate: tp(base), CreatedAt: tp(base)},
		{ID: 1, ExamDate: tp(mid), CreatedAt: tp(mid)},
	}
	rep := BuildReport(1, records)
	if rep.Windows.M18 == nil || rep.Windows.M18.AnalyticID != 1 {
		t.Fatalf("18m window=%+v, want record 1", rep.Windows.M18)
	}
	if rep.Windows.M24 == nil || rep.Windows.M24.AnalyticID != 1 {
		t.Fatalf("24m window=%+v, want record 1", rep.Windows.M24)
	}
}
