// Package types defines the static type model of sift programs.
//
// A Type is an immutable tagged tree: atoms carry no children, tuples carry
// one child per field, arrays and sequences carry their element type, and
// maps carry a key type and a value type. Equality is structural.
package types

import "strings"

// Kind enumerates the type tags.
type Kind uint8

// Possible values of Kind.
const (
	None Kind = iota
	Int
	UInt
	Real
	String
	Tup
	Arr
	Map
	Seq
)

// Type describes the shape of a value. The zero value is the None type.
type Type struct {
	kind  Kind
	elems []Type
}

// Atom types, shared since they carry no children.
var (
	NoneType   = Type{}
	IntType    = Type{kind: Int}
	UIntType   = Type{kind: UInt}
	RealType   = Type{kind: Real}
	StringType = Type{kind: String}
)

// AtomOf returns the atom type with the given kind. It panics if k is not an
// atom kind.
func AtomOf(k Kind) Type {
	switch k {
	case Int:
		return IntType
	case UInt:
		return UIntType
	case Real:
		return RealType
	case String:
		return StringType
	}
	panic("types: not an atom kind")
}

// TupOf returns a tuple type with the given field types.
func TupOf(fields ...Type) Type {
	return Type{kind: Tup, elems: fields}
}

// ArrOf returns an array type with the given element type.
func ArrOf(elem Type) Type {
	return Type{kind: Arr, elems: []Type{elem}}
}

// MapOf returns a map type with the given key and value types.
func MapOf(key, val Type) Type {
	return Type{kind: Map, elems: []Type{key, val}}
}

// SeqOf returns a sequence type with the given element type.
func SeqOf(elem Type) Type {
	return Type{kind: Seq, elems: []Type{elem}}
}

// Kind returns the type tag.
func (t Type) Kind() Kind { return t.kind }

// NumElems returns the number of child types.
func (t Type) NumElems() int { return len(t.elems) }

// Elem returns the i-th child type. For Arr and Seq the element type is child
// 0; for Map the key is child 0 and the value child 1.
func (t Type) Elem(i int) Type { return t.elems[i] }

// IsAtom reports whether t is one of the four scalar types.
func (t Type) IsAtom() bool {
	switch t.kind {
	case Int, UInt, Real, String:
		return true
	}
	return false
}

// IsNumeric reports whether t is Int, UInt or Real.
func (t Type) IsNumeric() bool {
	return t.kind == Int || t.kind == UInt || t.kind == Real
}

// IsIntegral reports whether t is Int or UInt.
func (t Type) IsIntegral() bool {
	return t.kind == Int || t.kind == UInt
}

// Equal reports whether t and u are structurally equal.
func (t Type) Equal(u Type) bool {
	if t.kind != u.kind || len(t.elems) != len(u.elems) {
		return false
	}
	for i := range t.elems {
		if !t.elems[i].Equal(u.elems[i]) {
			return false
		}
	}
	return true
}

// String renders t in the form used by error messages: Int, UInt, Real, Str,
// Arr[T], Map[K,V], Seq[T] and (F1,F2,...) for tuples.
func (t Type) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t Type) render(sb *strings.Builder) {
	switch t.kind {
	case None:
		sb.WriteString("None")
	case Int:
		sb.WriteString("Int")
	case UInt:
		sb.WriteString("UInt")
	case Real:
		sb.WriteString("Real")
	case String:
		sb.WriteString("Str")
	case Tup:
		sb.WriteByte('(')
		for i, e := range t.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.render(sb)
		}
		sb.WriteByte(')')
	case Arr:
		sb.WriteString("Arr[")
		t.elems[0].render(sb)
		sb.WriteByte(']')
	case Map:
		sb.WriteString("Map[")
		t.elems[0].render(sb)
		sb.WriteByte(',')
		t.elems[1].render(sb)
		sb.WriteByte(']')
	case Seq:
		sb.WriteString("Seq[")
		t.elems[0].render(sb)
		sb.WriteByte(']')
	}
}
