package vals

import (
	"io"
	"strconv"
)

// Int is a signed 64-bit integer cell.
type Int struct{ V int64 }

// UInt is an unsigned 64-bit integer cell.
type UInt struct{ V uint64 }

// Real is a 64-bit floating point cell.
type Real struct{ V float64 }

// String is a string cell.
type String struct{ V string }

func (i *Int) Repr(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(i.V, 10))
	return err
}

func (u *UInt) Repr(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatUint(u.V, 10))
	return err
}

func (r *Real) Repr(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatFloat(r.V, 'g', -1, 64))
	return err
}

func (s *String) Repr(w io.Writer) error {
	_, err := io.WriteString(w, strconv.Quote(s.V))
	return err
}
