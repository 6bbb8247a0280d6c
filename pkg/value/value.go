// Package value implements dlox's tagged-union runtime Value, the type
// every VM operand, constant-pool slot, and global binding is expressed
// in (spec.md §3 "Value").
//
// A Value is a small tagged struct rather than a Go interface{} — spec.md
// §9 is explicit that the ad-hoc union-with-tag pattern common to the
// source material should become "explicit sum types with exhaustive
// matching", which for a 4-variant closed set is most directly a Kind
// field plus the (at most one live) payload field, switched on
// exhaustively wherever a Value is consumed.
package value

import "github.com/kristofer/dlox/pkg/object"

// Kind discriminates the variants a Value can hold.
type Kind int

const (
	// Nil is the unit value; it carries no payload.
	Nil Kind = iota
	// Bool carries a boolean in Value.boolean.
	Bool
	// Number carries a 64-bit float in Value.number.
	Number
	// Obj carries a non-owning reference to a heap object in Value.obj.
	Obj
)

// Value is dlox's tagged union of nil | bool | number | obj-ref.
//
// Only one of boolean/number/obj is meaningful at a time, selected by
// Kind; the others sit at their zero value. This keeps Value comparable
// with ==, which the VM relies on for cheap copies onto/off of the
// operand stack.
type Value struct {
	Kind    Kind
	boolean bool
	number  float64
	obj     object.Obj
}

// NilValue is the single nil Value.
var NilValue = Value{Kind: Nil}

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: Bool, boolean: b} }

// NumberValue wraps a float64.
func NumberValue(n float64) Value { return Value{Kind: Number, number: n} }

// ObjValue wraps a non-owning reference to a heap object.
func ObjValue(o object.Obj) Value { return Value{Kind: Obj, obj: o} }

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.Kind == Nil }

// IsBool reports whether v holds a bool.
func (v Value) IsBool() bool { return v.Kind == Bool }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.Kind == Number }

// IsObj reports whether v holds an object reference.
func (v Value) IsObj() bool { return v.Kind == Obj }

// IsString reports whether v holds a string object reference.
func (v Value) IsString() bool {
	return v.Kind == Obj && v.obj.Kind() == object.KindString
}

// AsBool returns the bool payload. Callers must check IsBool first.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns the float64 payload. Callers must check IsNumber first.
func (v Value) AsNumber() float64 { return v.number }

// AsObj returns the object reference payload. Callers must check IsObj
// first.
func (v Value) AsObj() object.Obj { return v.obj }

// AsString returns the object reference payload as *object.ObjString.
// Callers must check IsString first.
func (v Value) AsString() *object.ObjString { return v.obj.(*object.ObjString) }

// Truthy implements dlox's truthiness rule (spec.md §3): nil and the
// boolean false are false; everything else — including 0 and "" — is
// true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Nil:
		return false
	case Bool:
		return v.boolean
	default:
		return true
	}
}

// Equal implements spec.md §3 Value equality: same tag AND same
// payload. Two Obj values are equal iff the references are identical,
// which for interned strings (see pkg/object, pkg/heap) means reference
// equality reduces to content equality.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Nil:
		return true
	case Bool:
		return a.boolean == b.boolean
	case Number:
		return a.number == b.number
	case Obj:
		return a.obj == b.obj
	default:
		return false
	}
}

// Print renders v the way dlox's `print` statement does (spec.md §4.6).
func (v Value) Print() string {
	switch v.Kind {
	case Nil:
		return "nil"
	case Bool:
		if v.boolean {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(v.number)
	case Obj:
		return v.obj.Print()
	default:
		return "<invalid value>"
	}
}
