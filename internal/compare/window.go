package compare

import "time"

// WindowDef is one fixed look-back window from the baseline date. The table
// is shared by every comparison; it is not per-patient configuration.
type WindowDef struct {
	Label         string
	MonthsBack    int
	ToleranceDays int
}

// Windows holds the four comparison windows in presentation order.
var Windows = [4]WindowDef{
	{Label: "6m", MonthsBack: 6, ToleranceDays: 60},
	{Label: "12m", MonthsBack: 12, ToleranceDays: 60},
	{Label: "18m", MonthsBack: 18, ToleranceDays: 90},
	{Label: "24m", MonthsBack: 24, ToleranceDays: 90},
}

// Target computes the window's target date from the baseline date using
// fixed 30-day months. Calendar month arithmetic is deliberately not used;
// the wide tolerances absorb the drift and the result stays deterministic.
func (w WindowDef) Target(baselineDate time.Time) time.Time {
	return dateOnly(baselineDate).AddDate(0, 0, -30*w.MonthsBack)
}

// FindNearestInWindow picks the non-baseline record whose effective date is
// closest to target and within toleranceDays. Equidistant candidates resolve
// to the lowest record id, so the outcome does not depend on storage
// iteration order. Returns nil when nothing qualifies; that is a normal
// outcome, not an error.
func FindNearestInWindow(records []Record, target time.Time, toleranceDays int, baselineID int64) *Record {
	target = dateOnly(target)
	var best *Record
	bestDelta := -1
	for i := range records {
		r := &records[i]
		if r.ID == baselineID {
			continue
		}
		delta := absDays(r.EffectiveDate(), target)
		if delta > toleranceDays {
			continue
		}
		if best == nil || delta < bestDelta || (delta == bestDelta && r.ID < best.ID) {
			best = r
			bestDelta = delta
		}
	}
	return best
}

func absDays(a, b time.Time) int {
	d := int(dateOnly(a).Sub(dateOnly(b)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
