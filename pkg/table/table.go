// Package table implements the open-addressed hash table used for both
// the VM's global-variable bindings and (via InternSet, in
// intern.go) the string-interning set (spec.md §4.4).
//
// Design:
//
//   - Linear probing over a power-of-two-sized slice of entries.
//   - Three entry states: empty, tombstone, occupied. Tombstones keep
//     probe chains intact after a delete (spec.md §9's "key subtlety").
//   - Growth: when (count+1) exceeds 0.75 * capacity, the table doubles
//     (minimum 8) and tombstones are dropped during the rehash.
//   - count includes tombstones for load-factor accounting, so churn
//     (many deletes followed by inserts) still triggers a grow instead
//     of degenerating into unbounded probe chains.
package table

import "github.com/kristofer/dlox/pkg/object"

const (
	initialCapacity = 8
	maxLoadFactor   = 0.75
)

type entryState uint8

const (
	stateEmpty entryState = iota
	stateTombstone
	stateOccupied
)

type entry[V any] struct {
	key   *object.ObjString
	value V
	state entryState
}

// Table is a generic open-addressed hash table keyed by interned
// strings. Used for the VM's globals (Table[value.Value]) and anywhere
// else a string-keyed map with delete support is needed.
type Table[V any] struct {
	entries  []entry[V]
	capacity int
	count    int // occupied + tombstone, drives load-factor growth
}

// New returns an empty Table. Capacity is allocated lazily on first
// insert, matching the teacher's pattern of deferring allocation until
// it's known to be needed.
func New[V any]() *Table[V] {
	return &Table[V]{}
}

// Len returns the number of live (non-tombstone) entries. It is an
// O(capacity) scan, acceptable here since it is a diagnostic/testing
// operation, not one the VM's hot path calls per instruction.
func (t *Table[V]) Len() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].state == stateOccupied {
			n++
		}
	}
	return n
}

// Get looks up key, returning (value, true) if present, or the zero
// value and false otherwise. An empty table returns false without
// error, per spec.md §4.4.
func (t *Table[V]) Get(key *object.ObjString) (V, bool) {
	var zero V
	if t.capacity == 0 {
		return zero, false
	}
	idx := t.findEntry(t.entries, t.capacity, key)
	e := &t.entries[idx]
	if e.state != stateOccupied {
		return zero, false
	}
	return e.value, true
}

// Set inserts or overwrites key's value. It returns true if this was a
// new key (not previously occupied).
func (t *Table[V]) Set(key *object.ObjString, value V) bool {
	if float64(t.count+1) > float64(t.capacity)*maxLoadFactor {
		t.grow()
	}
	idx := t.findEntry(t.entries, t.capacity, key)
	e := &t.entries[idx]
	isNew := e.state != stateOccupied
	if isNew && e.state == stateEmpty {
		t.count++
	}
	e.key = key
	e.value = value
	e.state = stateOccupied
	return isNew
}

// SetExisting assigns value to key only if key is already present,
// returning false (and leaving the table untouched) if it is not. This
// backs the strict SET_GLOBAL opcode semantics (spec.md §4.4/§4.6):
// assigning to an undefined global is a runtime error, not an implicit
// definition.
func (t *Table[V]) SetExisting(key *object.ObjString, value V) bool {
	if t.capacity == 0 {
		return false
	}
	idx := t.findEntry(t.entries, t.capacity, key)
	e := &t.entries[idx]
	if e.state != stateOccupied {
		return false
	}
	e.value = value
	return true
}

// Delete removes key, writing a tombstone in its place so later probes
// for other keys that collided with it still find them. Returns true if
// key was present.
func (t *Table[V]) Delete(key *object.ObjString) bool {
	if t.capacity == 0 {
		return false
	}
	idx := t.findEntry(t.entries, t.capacity, key)
	e := &t.entries[idx]
	if e.state != stateOccupied {
		return false
	}
	var zero V
	e.value = zero
	e.state = stateTombstone
	return true
}

// AddAll copies every live entry of other into t; t's own pre-existing
// entries are kept unless other also defines them, in which case
// other's value overwrites them, matching "union; later insertions win"
// (spec.md §4.4) with other treated as the later write.
func (t *Table[V]) AddAll(other *Table[V]) {
	for i := range other.entries {
		e := &other.entries[i]
		if e.state == stateOccupied {
			t.Set(e.key, e.value)
		}
	}
}

// findEntry implements spec.md §4.4's find algorithm: start at
// hash mod capacity, scan forward cyclically. On an occupied slot with
// a matching key, return it. On a tombstone, remember the first one
// seen but keep scanning (the key might still appear later in the probe
// chain). On empty, return the remembered tombstone if any, else this
// empty slot.
func (t *Table[V]) findEntry(entries []entry[V], capacity int, key *object.ObjString) int {
	idx := int(key.Hash) % capacity
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
			if e.key == key {
				return idx
			}
		}
		idx = (idx + 1) % capacity
	}
}

func (t *Table[V]) grow() {
	newCapacity := initialCapacity
	if t.capacity > 0 {
		newCapacity = t.capacity * 2
	}
	newEntries := make([]entry[V], newCapacity)
	newCount := 0
	for i := range t.entries {
		e := &t.entries[i]
		if e.state != stateOccupied {
			continue
		}
		idx := t.findEntry(newEntries, newCapacity, e.key)
		newEntries[idx] = entry[V]{key: e.key, value: e.value, state: stateOccupied}
		newCount++
	}
	t.entries = newEntries
	t.capacity = newCapacity
	t.count = newCount
}
