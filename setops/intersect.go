package setops

import (
	"github.com/hupe1980/modelcompat/model"
)

// IntersectResult is the outcome of a range intersection.
type IntersectResult struct {
	// Models holds the records present in every succeeded snapshot.
	Models model.ResultSet
	// FailedSources lists the snapshots excluded because they failed to
	// load, in input order. A non-empty list means the result is degraded.
	FailedSources []string
}

// Degraded reports whether some snapshots were excluded.
func (r IntersectResult) Degraded() bool {
	return len(r.FailedSources) > 0
}

// Intersect returns the models present in every succeeded snapshot.
//
// snapshots must be in catalog order over a normalized range. Failed
// snapshots are skipped and reported. If none succeeded the result is empty.
// The representative record for each identifier comes from the first
// succeeded snapshot; duplicate identifiers within it resolve to the last
// record listed.
func Intersect(snapshots []model.Snapshot) IntersectResult {
	var res IntersectResult

	succeeded := make([]model.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.OK() {
			succeeded = append(succeeded, s)
			continue
		}
		res.FailedSources = append(res.FailedSources, s.SourceID)
	}

	if len(succeeded) == 0 {
		res.Models = model.ResultSet{}
		return res
	}

	// The first snapshot is interned first, so its identifiers get the
	// lowest keys in first-seen order.
	dict := NewDictionary()
	representative := make(map[Key]model.ModelRecord, len(succeeded[0].Models))
	sets := make([]*IDSet, len(succeeded))

	for i, s := range succeeded {
		set := NewIDSet()
		for _, m := range s.Models {
			k := dict.Intern(m.Identifier)
			set.Add(k)
			if i == 0 {
				representative[k] = m
			}
		}
		sets[i] = set
	}

	common := IntersectAll(sets...)

	models := make([]model.ModelRecord, 0, common.Len())
	for k := range common.Keys() {
		models = append(models, representative[k])
	}

	res.Models = Sort(models)
	return res
}
