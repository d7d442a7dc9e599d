package compare

import (
	"strings"
	"time"
)

// Marker is one named measurement on a record. Value is nil when the source
// row carried no parseable numeric value.
type Marker struct {
	Name  string
	Value *float64
}

// Record is the comparison engine's view of one dated analytic. It is built
// by the caller from whatever storage row it came from; the engine never
// touches the database.
type Record struct {
	ID        int64
	ExamDate  *time.Time
	CreatedAt *time.Time
	Markers   []Marker
}

// EffectiveDate is the date a record counts as acquired on: exam_date when
// present, else the date component of created_at. The final fallback to
// today is defensive; rows always carry created_at in practice.
func (r Record) EffectiveDate() time.Time {
	if r.ExamDate != nil {
		return dateOnly(*r.ExamDate)
	}
	if r.CreatedAt != nil {
		return dateOnly(*r.CreatedAt)
	}
	return dateOnly(time.Now().UTC())
}

// MarkerMap flattens a record's markers into name -> value. Names are
// trimmed; empty names and nil values are dropped. The last occurrence of a
// duplicated name wins.
func MarkerMap(r *Record) map[string]float64 {
	out := map[string]float64{}
	if r == nil {
		return out
	}
	for _, m := range r.Markers {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		if m.Value == nil {
			continue
		}
		out[name] = *m.Value
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
