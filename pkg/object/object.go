// Package object implements dlox's heap-allocated value variants.
//
// Only one variant exists today: String (spec.md §3/§4.5 calls out that
// strings are "initially" the sole Object kind). The Kind/Print/Equals
// trio below is written so that adding a second variant later is a
// matter of implementing the Obj interface, not touching every call
// site that currently assumes "it's a string" — the same shape the
// teacher (kristofer-smog) used for its ClassDefinition/MethodDefinition
// constant-pool variants in pkg/bytecode/bytecode.go, generalized here
// from a switch-on-interface{} to an explicit closed interface.
package object

import "hash/fnv"

// Kind discriminates the variants of Obj.
type Kind int

const (
	// KindString marks an Obj as an ObjString.
	KindString Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Obj is implemented by every heap-allocated dlox value. It is a closed
// set (see Kind) rather than an open plugin interface: the VM's object
// list and the hash table's key comparisons both assume exhaustive
// matching is possible.
//
// next/setNext give the VM an intrusive singly-linked list threading
// through every live object, per spec.md §3 "Object Ownership": the VM
// is the sole owner of all heap objects and walks this list to free
// them on teardown. Values and the intern table hold non-owning
// references to the same objects.
type Obj interface {
	Kind() Kind
	Print() string
	Equals(other Obj) bool

	next() Obj
	setNext(Obj)
}

// header is embedded in every Obj implementation to supply the
// intrusive list link without repeating it per variant.
type header struct {
	nextObj Obj
}

func (h *header) next() Obj     { return h.nextObj }
func (h *header) setNext(o Obj) { h.nextObj = o }

// ObjString is an immutable, interned byte sequence with a precomputed
// 32-bit FNV-1a hash (spec.md §3 Object.String).
//
// Strings are never constructed directly outside this package — use
// heap.Heap.InternString (pkg/heap) so that
// identical byte content always resolves to the same *ObjString and
// equality can be reference comparison.
type ObjString struct {
	header
	Chars string
	Hash  uint32
}

// NewString allocates an ObjString. Callers are expected to have already
// consulted the intern set (see pkg/heap) — NewString itself performs no
// interning, it just computes the hash and builds the value.
func NewString(chars string) *ObjString {
	return &ObjString{Chars: chars, Hash: HashString(chars)}
}

// HashString computes the FNV-1a 32-bit hash of a byte sequence, shared
// between string allocation and intern-set probing so the two always
// agree on a string's hash.
func HashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// Kind implements Obj.
func (s *ObjString) Kind() Kind { return KindString }

// Print implements Obj: strings print as their raw contents, unquoted,
// matching the language's `print` statement semantics (spec.md §4.6).
func (s *ObjString) Print() string { return s.Chars }

// Equals implements Obj. Per spec.md §3, string equality reduces to
// reference identity once interning is in place, and value.Equal
// compares references directly without calling this method. Equals
// compares by kind+content, so it stays correct even when called on
// non-interned instances.
func (s *ObjString) Equals(other Obj) bool {
	o, ok := other.(*ObjString)
	if !ok {
		return false
	}
	if s == o {
		return true
	}
	return s.Hash == o.Hash && s.Chars == o.Chars
}

// Concat returns the immutable concatenation of two strings' contents.
// It does not intern the result — the caller (the VM's ADD handler) is
// responsible for running it back through the intern set.
func Concat(a, b *ObjString) string {
	buf := make([]byte, 0, len(a.Chars)+len(b.Chars))
	buf = append(buf, a.Chars...)
	buf = append(buf, b.Chars...)
	return string(buf)
}

// List is the VM's intrusive singly-linked list of every live object,
// per spec.md §3 "Object Ownership". next/setNext on Obj are
// unexported, so List (living in the same package) is the only way
// code outside this package can link or walk objects — it is the sole
// sanctioned entry point for the ownership model described there.
//
// Go's garbage collector, not this list, actually reclaims memory; the
// list exists so Count/Reset give the VM an explicit, inspectable
// lifecycle boundary matching spec.md's "vm.free() walks the list and
// releases each object's storage" even though the release step itself
// is a no-op under Go (see Reset).
type List struct {
	head  Obj
	count int
}

// Push links a newly allocated object at the head of the list. Every
// object that pkg/vm or pkg/compiler allocates (string literals,
// identifiers-as-globals, concatenation results) must be pushed here
// exactly once, at the point the intern-set lookup determines it's
// genuinely new.
func (l *List) Push(o Obj) {
	o.setNext(l.head)
	l.head = o
	l.count++
}

// Count returns the number of objects currently linked.
func (l *List) Count() int { return l.count }

// Each calls fn once per live object, head to tail.
func (l *List) Each(fn func(Obj)) {
	for o := l.head; o != nil; o = o.next() {
		fn(o)
	}
}

// Reset releases the VM's references to every linked object (spec.md's
// "vm.free()"). Since object storage is ordinary Go-heap memory, this
// simply drops the list's own references so the Go garbage collector
// can reclaim anything nothing else still points to.
func (l *List) Reset() {
	l.head = nil
	l.count = 0
}
