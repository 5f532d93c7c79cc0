package setops

import (
	"cmp"
	"slices"

	"github.com/hupe1980/modelcompat/model"
)

// Compare orders records by product line, then release date.
//
// Both keys compare as plain strings. Release dates are zero-padded
// YYYY-MM-DD, so string order is chronological order.
func Compare(a, b model.ModelRecord) int {
	if c := cmp.Compare(a.ProductLine, b.ProductLine); c != 0 {
		return c
	}
	return cmp.Compare(a.ReleaseDate, b.ReleaseDate)
}

// Sort returns a sorted copy of models. Equal records keep their order.
func Sort(models []model.ModelRecord) model.ResultSet {
	out := make(model.ResultSet, len(models))
	copy(out, models)
	slices.SortStableFunc(out, Compare)
	return out
}
