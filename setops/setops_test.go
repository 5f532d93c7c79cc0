package setops

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/hupe1980/modelcompat/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, line, released string) model.ModelRecord {
	return model.ModelRecord{
		Identifier:      id,
		ProductLine:     line,
		ShortName:       id + " short",
		CPUArchitecture: model.ArchARM64,
		ReleaseDate:     released,
	}
}

func snap(source string, models ...model.ModelRecord) model.Snapshot {
	return model.Snapshot{SourceID: source, Models: models}
}

// scenario catalog: V1, V2, V3.
func scenario() (v1, v2, v3 model.Snapshot) {
	v1 = snap("v1.json", rec("A", "Line1", "2001-01-01"), rec("B", "Line2", "2001-06-01"))
	v2 = snap("v2.json", rec("A", "Line1", "2002-01-01"), rec("B", "Line2", "2002-06-01"))
	v3 = snap("v3.json", rec("B", "Line2", "2003-06-01"), rec("C", "Line1", "2003-01-01"))
	return v1, v2, v3
}

func TestIntersect_Scenario(t *testing.T) {
	v1, _, v3 := scenario()

	res := Intersect([]model.Snapshot{v1, v3})

	require.Len(t, res.Models, 1)
	assert.Equal(t, "B", res.Models[0].Identifier)
	assert.Equal(t, "Line2", res.Models[0].ProductLine)
	assert.Equal(t, "2001-06-01", res.Models[0].ReleaseDate, "representative comes from the first snapshot")
	assert.Empty(t, res.FailedSources)
	assert.False(t, res.Degraded())
}

func TestIntersect_FullRange(t *testing.T) {
	v1, v2, v3 := scenario()

	res := Intersect([]model.Snapshot{v1, v2, v3})
	assert.Equal(t, []string{"B"}, res.Models.Identifiers())
}

func TestIntersect_SingleSnapshotPassThrough(t *testing.T) {
	s := snap("one.json",
		rec("Z", "Mac Pro", "2019-12-10"),
		rec("A", "iMac", "2020-08-04"),
		rec("Y", "Mac Pro", "2013-12-19"),
	)

	res := Intersect([]model.Snapshot{s})

	assert.Equal(t, []string{"Y", "Z", "A"}, res.Models.Identifiers())
	assert.Equal(t, Sort(s.Models), res.Models)
}

func TestIntersect_PartialFailure(t *testing.T) {
	v1, v2, _ := scenario()
	failed := model.Failed("v3.json", errors.New("boom"))

	res := Intersect([]model.Snapshot{v1, failed, v2})

	assert.Equal(t, []string{"v3.json"}, res.FailedSources)
	assert.True(t, res.Degraded())
	assert.Equal(t, []string{"A", "B"}, res.Models.Identifiers())
	assert.Equal(t, "2001-01-01", res.Models[0].ReleaseDate)
}

func TestIntersect_FirstSucceededIsRepresentative(t *testing.T) {
	v1, v2, _ := scenario()
	failed := model.Failed("v0.json", errors.New("boom"))

	res := Intersect([]model.Snapshot{failed, v2, v1})

	require.Len(t, res.Models, 2)
	assert.Equal(t, "2002-01-01", res.Models[0].ReleaseDate)
	assert.Equal(t, "2002-06-01", res.Models[1].ReleaseDate)
}

func TestIntersect_AllFailed(t *testing.T) {
	res := Intersect([]model.Snapshot{
		model.Failed("a.json", errors.New("x")),
		model.Failed("b.json", errors.New("y")),
	})

	require.NotNil(t, res.Models)
	assert.Empty(t, res.Models)
	assert.Equal(t, []string{"a.json", "b.json"}, res.FailedSources)
}

func TestIntersect_NoInput(t *testing.T) {
	res := Intersect(nil)
	require.NotNil(t, res.Models)
	assert.Empty(t, res.Models)
	assert.Empty(t, res.FailedSources)
}

func TestIntersect_DuplicateIdentifierLastWriteWins(t *testing.T) {
	s := snap("dup.json",
		rec("A", "Line1", "2001-01-01"),
		rec("A", "Line1", "2009-09-09"),
	)

	res := Intersect([]model.Snapshot{s, snap("other.json", rec("A", "Line1", "2010-01-01"))})

	require.Len(t, res.Models, 1)
	assert.Equal(t, "2009-09-09", res.Models[0].ReleaseDate)
}

func TestIntersect_OrderIndependentOfInputOrder(t *testing.T) {
	a := snap("a.json",
		rec("m1", "iMac", "2021-05-21"),
		rec("m2", "MacBook Air", "2020-11-17"),
		rec("m3", "iMac", "2019-03-19"),
		rec("m4", "Mac mini", "2018-11-07"),
	)
	b := snap("b.json", a.Models[3], a.Models[0], a.Models[2], a.Models[1])
	c := snap("c.json", a.Models[2], a.Models[1], a.Models[0])

	want := Intersect([]model.Snapshot{a, b, c}).Models
	assert.Equal(t, []string{"m2", "m3", "m1"}, want.Identifiers())

	perms := [][]model.Snapshot{{a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}}
	for i, p := range perms {
		assert.Equal(t, want, Intersect(p).Models, "permutation %d", i)
	}
}

func TestIntersect_Idempotent(t *testing.T) {
	v1, v2, v3 := scenario()
	in := []model.Snapshot{v1, v2, v3}

	first := Intersect(in)
	second := Intersect(in)
	assert.Equal(t, first, second)
}

func TestIntersect_DoesNotMutateInput(t *testing.T) {
	s := snap("s.json", rec("b", "Z", "2001-01-01"), rec("a", "A", "2001-01-01"))
	before := slices.Clone(s.Models)

	_ = Intersect([]model.Snapshot{s})
	assert.Equal(t, before, s.Models)
}

func TestIntersect_Soundness(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	lines := []string{"iMac", "Mac mini", "MacBook Air", "MacBook Pro"}

	for round := range 50 {
		n := 1 + r.IntN(5)
		snapshots := make([]model.Snapshot, n)
		for i := range snapshots {
			var models []model.ModelRecord
			for id := range 30 {
				if r.IntN(3) == 0 {
					continue
				}
				models = append(models, rec(
					fmt.Sprintf("Mac%d,1", id),
					lines[id%len(lines)],
					fmt.Sprintf("20%02d-%02d-01", 10+id%10, 1+id%12),
				))
			}
			snapshots[i] = snap(fmt.Sprintf("v%d.json", i), models...)
		}

		res := Intersect(snapshots)

		for _, m := range res.Models {
			for _, s := range snapshots {
				found := slices.ContainsFunc(s.Models, func(o model.ModelRecord) bool {
					return o.Identifier == m.Identifier
				})
				assert.True(t, found, "round %d: %s missing from %s", round, m.Identifier, s.SourceID)
			}
		}
		assert.True(t, slices.IsSortedFunc(res.Models, Compare), "round %d: result not sorted", round)
	}
}

func TestDifference_Scenario(t *testing.T) {
	v1, v2, v3 := scenario()

	got, err := Difference(v1, v2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Difference(v2, v3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Identifier)
	assert.Equal(t, "2002-01-01", got[0].ReleaseDate)
}

func TestDifference_AntiSymmetric(t *testing.T) {
	_, v2, v3 := scenario()

	forward, err := Difference(v2, v3)
	require.NoError(t, err)
	backward, err := Difference(v3, v2)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, forward.Identifiers())
	assert.Equal(t, []string{"C"}, backward.Identifiers())
	assert.NotEqual(t, forward, backward)
}

func TestDifference_IdenticalIdentifierSets(t *testing.T) {
	v1, v2, _ := scenario()

	forward, err := Difference(v1, v2)
	require.NoError(t, err)
	backward, err := Difference(v2, v1)
	require.NoError(t, err)

	assert.Empty(t, forward)
	assert.Empty(t, backward)
}

func TestDifference_Sorted(t *testing.T) {
	older := snap("old.json",
		rec("x", "MacBook Pro", "2017-06-05"),
		rec("y", "iMac", "2015-10-13"),
		rec("z", "MacBook Pro", "2016-10-27"),
	)

	got, err := Difference(older, snap("new.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "x", "y"}, got.Identifiers())
}

func TestDifference_FailureNamesSource(t *testing.T) {
	v1, v2, _ := scenario()
	cause := errors.New("404")

	tests := []struct {
		name   string
		older  model.Snapshot
		newer  model.Snapshot
		source string
	}{
		{"older failed", model.Failed("v1.json", cause), v2, "v1.json"},
		{"newer failed", v1, model.Failed("v2.json", cause), "v2.json"},
		{"both failed reports older", model.Failed("v1.json", cause), model.Failed("v2.json", cause), "v1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Difference(tt.older, tt.newer)
			assert.Nil(t, got)

			var le *SnapshotLoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.source, le.SourceID)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), tt.source)
		})
	}
}

func TestSort_StableOnTies(t *testing.T) {
	in := []model.ModelRecord{
		rec("second", "Line", "2020-01-01"),
		rec("first", "Line", "2019-01-01"),
		rec("third", "Line", "2020-01-01"),
	}

	out := Sort(in)
	assert.Equal(t, []string{"first", "second", "third"}, out.Identifiers())
	assert.Equal(t, "second", in[0].Identifier, "input untouched")
}

func TestSort_ByteWiseProductLine(t *testing.T) {
	out := Sort([]model.ModelRecord{
		rec("a", "iMac", "2020-01-01"),
		rec("b", "Mac mini", "2020-01-01"),
		rec("c", "MacBook Air", "2020-01-01"),
	})
	assert.Equal(t, []string{"b", "c", "a"}, out.Identifiers())
}

func TestIDSet(t *testing.T) {
	d := NewDictionary()
	a, b, c := d.Intern("a"), d.Intern("b"), d.Intern("c")
	assert.Equal(t, a, d.Intern("a"))
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, "b", d.Name(b))

	_, ok := d.Lookup("missing")
	assert.False(t, ok)

	s1 := NewIDSet()
	s1.Add(a)
	s1.Add(b)
	s2 := NewIDSet()
	s2.Add(b)
	s2.Add(c)

	both := IntersectAll(s1, s2)
	assert.Equal(t, 1, both.Len())
	assert.True(t, both.Contains(b))
	assert.False(t, both.Contains(a))

	only := IntersectAll(s1)
	only.Add(c)
	assert.False(t, s1.Contains(c), "single-set intersection must not alias its input")

	assert.Equal(t, 0, IntersectAll().Len())

	var keys []Key
	for k := range s1.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []Key{a, b}, keys)
}
