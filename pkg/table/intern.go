package table

import "github.com/kristofer/dlox/pkg/object"

// internEntry mirrors entry[V] but keys by the string's own content
// instead of an already-existing *ObjString, since the whole point of
// the intern set is to answer "does a string with this content already
// exist?" before one is allocated.
type internEntry struct {
	str   *object.ObjString
	state entryState
}

// InternSet is the specialized probe spec.md §4.4/§9 calls for: "the
// generic hash table is keyed by object reference...but the intern set
// must probe by byte content and precomputed hash." It is structurally
// the same open-addressed/tombstone table as Table, just keyed and
// compared differently, which is why it is not expressed as a Table
// instantiation.
type InternSet struct {
	entries  []internEntry
	capacity int
	count    int
}

// NewInternSet returns an empty InternSet.
func NewInternSet() *InternSet {
	return &InternSet{}
}

// Len returns the number of live interned strings.
func (s *InternSet) Len() int {
	n := 0
	for i := range s.entries {
		if s.entries[i].state == stateOccupied {
			n++
		}
	}
	return n
}

// FindString probes for an already-interned string with the given
// content and precomputed hash, returning it if present. This is the
// lookup every string construction (literals, concatenation results,
// identifiers used as global names) must perform before allocating, so
// that "no two distinct live Object.String instances share the same
// byte content" (spec.md §3 invariant) holds.
func (s *InternSet) FindString(chars string, hash uint32) *object.ObjString {
	if s.capacity == 0 {
		return nil
	}
	idx := int(hash) % s.capacity
	for {
		e := &s.entries[idx]
		switch e.state {
		case stateEmpty:
			return nil
		case stateOccupied:
			if e.str.Hash == hash && e.str.Chars == chars {
				return e.str
			}
		}
		idx = (idx + 1) % s.capacity
	}
}

// Insert adds str to the set. Callers must have already called
// FindString and gotten nil — Insert does not re-check, mirroring
// spec.md §4.5's "consults the VM intern set; if present...else links
// into the object list and inserts into the intern set" sequencing,
// where the present-check already happened.
func (s *InternSet) Insert(str *object.ObjString) {
	if float64(s.count+1) > float64(s.capacity)*maxLoadFactor {
		s.grow()
	}
	idx := s.findSlot(s.entries, s.capacity, str)
	e := &s.entries[idx]
	if e.state == stateEmpty {
		s.count++
	}
	e.str = str
	e.state = stateOccupied
}

// findSlot locates the slot str belongs in: an occupied slot already
// holding it (by content, same as FindString), else the first tombstone
// or empty slot encountered, per the same algorithm Table uses.
func (s *InternSet) findSlot(entries []internEntry, capacity int, str *object.ObjString) int {
	idx := int(str.Hash) % capacity
	tombstone := -1
	for {
		e := &entries[idx]
		switch e.state {
		case stateEmpty:
			if tombstone != -1 {
				return tombstone
			}
			return idx
		case stateTombstone:
			if tombstone == -1 {
				tombstone = idx
			}
		case stateOccupied:
			if e.str.Hash == str.Hash && e.str.Chars == str.Chars {
				return idx
			}
		}
		idx = (idx + 1) % capacity
	}
}

func (s *InternSet) grow() {
	newCapacity := initialCapacity
	if s.capacity > 0 {
		newCapacity = s.capacity * 2
	}
	newEntries := make([]internEntry, newCapacity)
	newCount := 0
	for i := range s.entries {
		e := &s.entries[i]
		if e.state != stateOccupied {
			continue
		}
		idx := s.findSlot(newEntries, newCapacity, e.str)
		newEntries[idx] = internEntry{str: e.str, state: stateOccupied}
		newCount++
	}
	s.entries = newEntries
	s.capacity = newCapacity
	s.count = newCount
}
