package compare

import (
	"sort"
	"time"
)

// PickBaseline returns the record with the latest effective date, ties broken
// by latest created_at. A missing created_at compares as "now", which makes
// the record sort last among same-day peers. Returns nil on empty input.
func PickBaseline(records []Record) *Record {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := records[idx[a]], records[idx[b]]
		da, db := ra.EffectiveDate(), rb.EffectiveDate()
		if !da.Equal(db) {
			return da.Before(db)
		}
		return createdOrNow(ra, now).Before(createdOrNow(rb, now))
	})
	return &records[idx[len(idx)-1]]
}

func createdOrNow(r Record, now time.Time) time.Time {
	if r.CreatedAt != nil {
		return *r.CreatedAt
	}
	return now
}
