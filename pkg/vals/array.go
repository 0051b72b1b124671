package vals

import (
	"fmt"
	"io"

	"src.sift.dev/pkg/types"
)

// Array is a homogeneous ordered collection.
type Array struct {
	ElemType types.Type
	Elems    []Value
}

// Fill clears the array and drains seq into it, cloning each produced
// element. Cloning is required because sequencers may reuse their holder cell
// across steps.
func (a *Array) Fill(seq Sequencer) error {
	a.Elems = a.Elems[:0]
	for {
		v, ok, err := seq.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		c, err := Clone(a.ElemType, v)
		if err != nil {
			return err
		}
		a.Elems = append(a.Elems, c)
	}
}

// Index copies the element at the given integral key into out. keyType is
// the static type of the key expression.
func (a *Array) Index(keyType types.Type, key, out Value) error {
	var i int64
	switch key := key.(type) {
	case *Int:
		i = key.V
	case *UInt:
		i = int64(key.V)
	default:
		return fmt.Errorf("internal error: array indexed with %T", key)
	}
	if i < 0 || i >= int64(len(a.Elems)) {
		return fmt.Errorf("array index out of range: %d", i)
	}
	return Copy(out, a.Elems[i])
}

func (a *Array) Repr(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, e := range a.Elems {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := e.Repr(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}
