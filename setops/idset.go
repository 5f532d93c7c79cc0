package setops

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Key is a dense identifier handle issued by a Dictionary.
type Key uint32

// Dictionary interns identifiers into dense keys.
//
// Keys are issued in first-seen order, so iterating an IDSet visits
// identifiers in the order they were first interned.
type Dictionary struct {
	keys  map[string]Key
	names []string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{keys: make(map[string]Key)}
}

// Intern returns the key for id, issuing a new one if needed.
func (d *Dictionary) Intern(id string) Key {
	if k, ok := d.keys[id]; ok {
		return k
	}
	k := Key(len(d.names))
	d.keys[id] = k
	d.names = append(d.names, id)
	return k
}

// Lookup returns the key for id without interning it.
func (d *Dictionary) Lookup(id string) (Key, bool) {
	k, ok := d.keys[id]
	return k, ok
}

// Name returns the identifier for k.
func (d *Dictionary) Name(k Key) string {
	return d.names[k]
}

// Len returns the number of interned identifiers.
func (d *Dictionary) Len() int {
	return len(d.names)
}

// IDSet is a set of interned identifiers backed by a Roaring bitmap.
type IDSet struct {
	rb *roaring.Bitmap
}

// NewIDSet creates an empty set.
func NewIDSet() *IDSet {
	return &IDSet{rb: roaring.New()}
}

// Add adds k to the set.
func (s *IDSet) Add(k Key) {
	s.rb.Add(uint32(k))
}

// Contains reports whether k is in the set.
func (s *IDSet) Contains(k Key) bool {
	return s.rb.Contains(uint32(k))
}

// Len returns the number of keys in the set.
func (s *IDSet) Len() int {
	return int(s.rb.GetCardinality())
}

// And intersects the set with other in place.
func (s *IDSet) And(other *IDSet) {
	s.rb.And(other.rb)
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{rb: s.rb.Clone()}
}

// Keys iterates the set in ascending key order.
func (s *IDSet) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(Key(it.Next())) {
				return
			}
		}
	}
}

// IntersectAll returns the keys present in every set.
// It returns an empty set when sets is empty.
func IntersectAll(sets ...*IDSet) *IDSet {
	switch len(sets) {
	case 0:
		return NewIDSet()
	case 1:
		return sets[0].Clone()
	}
	bms := make([]*roaring.Bitmap, len(sets))
	for i, s := range sets {
		bms[i] = s.rb
	}
	return &IDSet{rb: roaring.FastAnd(bms...)}
}
