package vals

import (
	"bufio"
	"fmt"
	"io"

	"src.sift.dev/pkg/strutil"
	"src.sift.dev/pkg/types"
)

// NextFunc produces the next element of a sequence. The holder argument is
// the sequence's scratch cell, which producers may reuse between steps.
type NextFunc func(holder Value) (Value, bool, error)

// Seq is the general-purpose sequencer: a producer function plus a holder
// cell.
type Seq struct {
	holder Value
	next   NextFunc
}

// NewSeq creates a Seq with the given holder cell and no producer.
func NewSeq(holder Value) *Seq {
	return &Seq{holder: holder}
}

// SetNext installs the producer function.
func (s *Seq) SetNext(f NextFunc) { s.next = f }

// Next produces the next element.
func (s *Seq) Next() (Value, bool, error) {
	return s.next(s.holder)
}

// Wrap installs a producer that steps through src, which must be an Array, a
// Map or another sequencer. Map sources yield key-value pair tuples through
// the holder cell, in sorted key order.
func (s *Seq) Wrap(src Value) error {
	switch src := src.(type) {
	case *Array:
		i := 0
		s.next = func(Value) (Value, bool, error) {
			if i >= len(src.Elems) {
				return nil, false, nil
			}
			v := src.Elems[i]
			i++
			return v, true, nil
		}
	case *Map:
		keys := src.sortedKeys()
		i := 0
		s.next = func(holder Value) (Value, bool, error) {
			if i >= len(keys) {
				return nil, false, nil
			}
			e := src.entries[keys[i]]
			i++
			pair := holder.(*Tuple)
			pair.Fields[0] = e.Key
			pair.Fields[1] = e.Val
			return pair, true, nil
		}
	case Sequencer:
		s.next = func(Value) (Value, bool, error) {
			return src.Next()
		}
	default:
		return fmt.Errorf("internal error: cannot sequence %T", src)
	}
	return nil
}

func (s *Seq) Repr(w io.Writer) error {
	_, err := io.WriteString(w, "<seq>")
	return err
}

// FlatSeq flattens a sequencer whose elements are themselves sequenceable
// (sequencers, arrays or maps), one level deep.
type FlatSeq struct {
	ElemType types.Type

	outer Sequencer
	inner *Seq
	live  bool
}

// NewFlatSeq creates a FlatSeq producing elements of the given type.
func NewFlatSeq(elemType types.Type) *FlatSeq {
	return &FlatSeq{ElemType: elemType, inner: NewSeq(Make(elemType))}
}

// Wrap adopts the outer sequencer.
func (f *FlatSeq) Wrap(outer Sequencer) {
	f.outer = outer
	f.live = false
}

// Next drains the current inner sequence, pulling the next one from the
// outer sequencer when the inner is exhausted.
func (f *FlatSeq) Next() (Value, bool, error) {
	for {
		if !f.live {
			v, ok, err := f.outer.Next()
			if err != nil || !ok {
				return nil, false, err
			}
			if err := f.inner.Wrap(v); err != nil {
				return nil, false, err
			}
			f.live = true
		}
		v, ok, err := f.inner.Next()
		if err != nil {
			return nil, false, err
		}
		if ok {
			return v, true, nil
		}
		f.live = false
	}
}

func (f *FlatSeq) Repr(w io.Writer) error {
	_, err := io.WriteString(w, "<seq>")
	return err
}

// FileSeq reads an input stream and yields one String per line, with the
// line ending stripped. The same holder cell is reused for every line.
type FileSeq struct {
	r      *bufio.Reader
	holder *String
	done   bool
}

// NewFileSeq creates a FileSeq reading from r.
func NewFileSeq(r io.Reader) *FileSeq {
	return &FileSeq{r: bufio.NewReader(r), holder: &String{}}
}

// Next yields the next input line.
func (f *FileSeq) Next() (Value, bool, error) {
	if f.done {
		return nil, false, nil
	}
	line, err := f.r.ReadString('\n')
	if err == io.EOF {
		f.done = true
		if line == "" {
			return nil, false, nil
		}
	} else if err != nil {
		return nil, false, fmt.Errorf("cannot read input: %w", err)
	}
	f.holder.V = strutil.ChopLineEnding(line)
	return f.holder, true, nil
}

func (f *FileSeq) Repr(w io.Writer) error {
	_, err := io.WriteString(w, "<seq>")
	return err
}
