// Package heap implements the shared object allocator that both the
// compiler and the VM allocate strings through (spec.md §3 "Object
// Ownership": "The compiler may allocate string objects during
// compilation...these are registered with the same VM-owned list so
// that the VM can free them on teardown").
//
// A Heap bundles the intrusive object list (pkg/object.List) with the
// string intern set (pkg/table.InternSet) so the two always move
// together: every string that enters the intern set was, in the same
// call, pushed onto the object list, and vice versa.
package heap

import (
	"github.com/kristofer/dlox/pkg/object"
	"github.com/kristofer/dlox/pkg/table"
)

// Heap owns every heap-allocated object for a VM's lifetime (or a
// REPL's, across calls, until the VM is torn down).
type Heap struct {
	objects object.List
	strings table.InternSet
}

// New returns an empty Heap.
func New() *Heap {
	return &Heap{}
}

// InternString returns the canonical *object.ObjString for chars,
// allocating and registering one if no equal string exists yet
// (spec.md §4.5). This is the single entry point used for string
// literals, identifiers used as global names, and concatenation
// results — nothing else should call object.NewString directly.
func (h *Heap) InternString(chars string) *object.ObjString {
	hash := object.HashString(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := object.NewString(chars)
	h.objects.Push(s)
	h.strings.Insert(s)
	return s
}

// Concat interns the concatenation of a and b, implementing spec.md
// §4.5's "Concatenation allocates a single new buffer...then interns."
func (h *Heap) Concat(a, b *object.ObjString) *object.ObjString {
	return h.InternString(object.Concat(a, b))
}

// ObjectCount returns the number of live heap objects, primarily for
// tests asserting the ownership model.
func (h *Heap) ObjectCount() int { return h.objects.Count() }

// InternedCount returns the number of distinct interned strings.
func (h *Heap) InternedCount() int { return h.strings.Len() }

// Reset releases every object the heap owns (spec.md's "vm.free()
// walks the list and releases each object's storage, then releases the
// globals table and intern set"). See object.List.Reset for why this is
// a reference-drop rather than a manual free under Go's GC.
func (h *Heap) Reset() {
	h.objects.Reset()
	h.strings = table.InternSet{}
}
