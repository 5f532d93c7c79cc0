package setops

import (
	"github.com/hupe1980/modelcompat/model"
)

// Difference returns the records of older whose identifier is absent from
// newer.
//
// Both snapshots are required: if either failed to load, Difference returns
// a *SnapshotLoadError naming it (older is checked first). The inputs are
// used as given; no catalog ordering is validated.
func Difference(older, newer model.Snapshot) (model.ResultSet, error) {
	if !older.OK() {
		return nil, NewSnapshotLoadError(older.SourceID, older.Err)
	}
	if !newer.OK() {
		return nil, NewSnapshotLoadError(newer.SourceID, newer.Err)
	}

	dict := NewDictionary()
	present := NewIDSet()
	for _, m := range newer.Models {
		present.Add(dict.Intern(m.Identifier))
	}

	dropped := make([]model.ModelRecord, 0)
	for _, m := range older.Models {
		if k, ok := dict.Lookup(m.Identifier); ok && present.Contains(k) {
			continue
		}
		dropped = append(dropped, m)
	}

	return Sort(dropped), nil
}
