package compare

// RecordRef identifies the record a report cell came from.
type RecordRef struct {
	AnalyticID int64  `json:"analytic_id"`
	Date       string `json:"date"`
}

// WindowRefs holds the picked record per window, nil where no record fell
// inside tolerance.
type WindowRefs struct {
	M6  *RecordRef `json:"6m"`
	M12 *RecordRef `json:"12m"`
	M18 *RecordRef `json:"18m"`
	M24 *RecordRef `json:"24m"`
}

type TrendRow struct {
	M6  *string `json:"6m"`
	M12 *string `json:"12m"`
	M18 *string `json:"18m"`
	M24 *string `json:"24m"`
}

type MarkerRow struct {
	Baseline *float64 `json:"baseline"`
	M6       *float64 `json:"6m"`
	M12      *float64 `json:"12m"`
	M18      *float64 `json:"18m"`
	M24      *float64 `json:"24m"`
	Trend    TrendRow `json:"trend"`
}

// Tolerances echoes the static window tolerances so callers can render them
// without hard-coding the table a second time.
type Tolerances struct {
	M6  int `json:"6m"`
	M12 int `json:"12m"`
	M18 int `json:"18m"`
	M24 int `json:"24m"`
}

type Report struct {
	PatientID  int64                `json:"patient_id"`
	Baseline   *RecordRef           `json:"baseline"`
	Windows    WindowRefs           `json:"windows"`
	Markers    map[string]MarkerRow `json:"markers"`
	Tolerances Tolerances           `json:"tolerances"`
	Note       string               `json:"note,omitempty"`
}

const emptyReportNote = "Not enough analytics to compare."

func staticTolerances() Tolerances {
	return Tolerances{
		M6:  Windows[0].ToleranceDays,
		M12: Windows[1].ToleranceDays,
		M18: Windows[2].ToleranceDays,
		M24: Windows[3].ToleranceDays,
	}
}

func emptyReport(patientID int64) *Report {
	return &Report{
		PatientID:  patientID,
		Baseline:   nil,
		Windows:    WindowRefs{},
		Markers:    map[string]MarkerRow{},
		Tolerances: staticTolerances(),
		Note:       emptyReportNote,
	}
}

// BuildReport runs the whole comparison for one patient's analytics: baseline
// selection, the four window lookups, and per-marker trend rows over the
// union of marker names. Pure compute; records are never mutated.
func BuildReport(patientID int64, records []Record) *Report {
	if len(records) == 0 {
		return emptyReport(patientID)
	}

	baseline := PickBaseline(records)
	if baseline == nil {
		return emptyReport(patientID)
	}
	baseDate := baseline.EffectiveDate()

	picked := make([]*Record, len(Windows))
	refs := make([]*RecordRef, len(Windows))
	for i, w := range Windows {
		target := w.Target(baseDate)
		p := FindNearestInWindow(records, target, w.ToleranceDays, baseline.ID)
		picked[i] = p
		if p != nil {
			refs[i] = &RecordRef{AnalyticID: p.ID, Date: p.EffectiveDate().Format("2006-01-02")}
		}
	}

	baseMarkers := MarkerMap(baseline)
	windowMarkers := make([]map[string]float64, len(Windows))
	for i := range Windows {
		windowMarkers[i] = MarkerMap(picked[i])
	}

	names := map[string]struct{}{}
	for n := range baseMarkers {
		names[n] = struct{}{}
	}
	for _, wm := range windowMarkers {
		for n := range wm {
			names[n] = struct{}{}
		}
	}

	markersOut := make(map[string]MarkerRow, len(names))
	for name := range names {
		bval := lookup(baseMarkers, name)
		vals := make([]*float64, len(Windows))
		trends := make([]*string, len(Windows))
		for i := range Windows {
			vals[i] = lookup(windowMarkers[i], name)
			trends[i] = TrendSymbol(bval, vals[i])
		}
		markersOut[name] = MarkerRow{
			Baseline: bval,
			M6:       vals[0],
			M12:      vals[1],
			M18:      vals[2],
			M24:      vals[3],
			Trend:    TrendRow{M6: trends[0], M12: trends[1], M18: trends[2], M24: trends[3]},
		}
	}

	return &Report{
		PatientID: patientID,
		Baseline: &RecordRef{
			AnalyticID: baseline.ID,
			Date:       baseDate.Format("2006-01-02"),
		},
		Windows:    WindowRefs{M6: refs[0], M12: refs[1], M18: refs[2], M24: refs[3]},
		Markers:    markersOut,
		Tolerances: staticTolerances(),
	}
}

func lookup(m map[string]float64, name string) *float64 {
	if v, ok := m[name]; ok {
		vv := v
		return &vv
	}
	return nil
}
