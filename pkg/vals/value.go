// Package vals defines the runtime object model.
//
// Values come in three families: atoms (Int, UInt, Real, String), containers
// (Tuple, Array, Map) and sequencers (Seq, FlatSeq, FileSeq). All of them
// are mutable cells: the virtual machine pre-allocates one cell per command
// during its init pass and writes results into the cells during the run
// pass. Filling containers and producing strings still allocates element
// cells during the run.
package vals

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"src.sift.dev/pkg/types"
)

// Value is a runtime value cell.
type Value interface {
	// Repr writes a printed representation of the value. Strings are written
	// in quoted form; Print handles the bare top-level form.
	Repr(w io.Writer) error
}

// Sequencer is implemented by lazy producers: Seq, FlatSeq and FileSeq.
// Next returns the next element, or ok=false after the last one.
type Sequencer interface {
	Value
	Next() (v Value, ok bool, err error)
}

// ErrCopySequence is returned when a sequence ends up in a position that
// requires copying, which the cell model cannot support.
var ErrCopySequence = errors.New("cannot copy a sequence")

// Make returns a fresh default cell for the given type. Tuple cells come with
// one default cell per field, and Seq cells with a holder cell for their
// element type.
func Make(t types.Type) Value {
	switch t.Kind() {
	case types.Int:
		return &Int{}
	case types.UInt:
		return &UInt{}
	case types.Real:
		return &Real{}
	case types.String:
		return &String{}
	case types.Tup:
		fields := make([]Value, t.NumElems())
		for i := range fields {
			fields[i] = Make(t.Elem(i))
		}
		return &Tuple{Fields: fields}
	case types.Arr:
		return &Array{ElemType: t.Elem(0)}
	case types.Map:
		return NewMap(t.Elem(0), t.Elem(1))
	case types.Seq:
		return NewSeq(Make(t.Elem(0)))
	}
	panic(fmt.Sprintf("vals: cannot make a value of type %s", t))
}

// Copy copies the contents of src into dst. The two cells must have the same
// shape; a mismatch indicates a compiler bug and is reported as an internal
// error.
func Copy(dst, src Value) error {
	switch dst := dst.(type) {
	case *Int:
		s, ok := src.(*Int)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.V = s.V
	case *UInt:
		s, ok := src.(*UInt)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.V = s.V
	case *Real:
		s, ok := src.(*Real)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.V = s.V
	case *String:
		s, ok := src.(*String)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.V = s.V
	case *Tuple:
		s, ok := src.(*Tuple)
		if !ok || len(s.Fields) != len(dst.Fields) {
			return copyMismatch(dst, src)
		}
		for i := range dst.Fields {
			if err := Copy(dst.Fields[i], s.Fields[i]); err != nil {
				return err
			}
		}
	case *Array:
		s, ok := src.(*Array)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.Elems = dst.Elems[:0]
		for _, e := range s.Elems {
			c, err := Clone(dst.ElemType, e)
			if err != nil {
				return err
			}
			dst.Elems = append(dst.Elems, c)
		}
	case *Map:
		s, ok := src.(*Map)
		if !ok {
			return copyMismatch(dst, src)
		}
		dst.clear()
		for _, k := range s.sortedKeys() {
			e := s.entries[k]
			ck, err := Clone(dst.KeyType, e.Key)
			if err != nil {
				return err
			}
			cv, err := Clone(dst.ValType, e.Val)
			if err != nil {
				return err
			}
			dst.Put(ck, cv)
		}
	default:
		return ErrCopySequence
	}
	return nil
}

// Clone makes a fresh cell of type t holding a copy of v.
func Clone(t types.Type, v Value) (Value, error) {
	c := Make(t)
	if err := Copy(c, v); err != nil {
		return nil, err
	}
	return c, nil
}

func copyMismatch(dst, src Value) error {
	return fmt.Errorf("internal error: copy into %T from %T", dst, src)
}

// Print writes the top-level printed form of v: strings are written bare,
// everything else as its Repr.
func Print(w io.Writer, v Value) error {
	if s, ok := v.(*String); ok {
		_, err := io.WriteString(w, s.V)
		return err
	}
	return v.Repr(w)
}

// ReprString returns the Repr of v as a string.
func ReprString(v Value) string {
	var sb strings.Builder
	v.Repr(&sb)
	return sb.String()
}
