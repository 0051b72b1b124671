package vals

import (
	"testing"

	"src.sift.dev/pkg/tt"
	"src.sift.dev/pkg/types"
)

func TestReprString(t *testing.T) {
	tt.Test(t, tt.Fn("ReprString", ReprString), tt.Table{
		tt.Args(&Int{V: -42}).Rets("-42"),
		tt.Args(&UInt{V: 42}).Rets("42"),
		tt.Args(&Real{V: 2.5}).Rets("2.5"),
		tt.Args(&Real{V: 1e21}).Rets("1e+21"),
		tt.Args(&String{V: "a\"b"}).Rets(`"a\"b"`),
		tt.Args(&Tuple{Fields: []Value{&Int{V: 1}, &String{V: "x"}}}).Rets(`(1,"x")`),
		tt.Args(strArr("a", "b")).Rets(`["a","b"]`),
		tt.Args(&Array{ElemType: types.IntType}).Rets("[]"),
	})
}

func TestMapRepr(t *testing.T) {
	m := NewMap(types.StringType, types.UIntType)
	m.Put(&String{V: "b"}, &UInt{V: 2})
	m.Put(&String{V: "a"}, &UInt{V: 1})
	// Entries are printed in sorted key order.
	if got, want := ReprString(m), `{"a": 1,"b": 2}`; got != want {
		t.Errorf("ReprString(m) = %q, want %q", got, want)
	}

	m.Put(&String{V: "a"}, &UInt{V: 3})
	if m.Len() != 2 {
		t.Errorf("Len = %d after overwriting a key, want 2", m.Len())
	}
	e, ok := m.Get(&String{V: "a"})
	if !ok || e.Val.(*UInt).V != 3 {
		t.Errorf(`Get("a") = %v, %v, want entry with value 3`, e, ok)
	}
}

func TestMake(t *testing.T) {
	tt.Test(t, tt.Fn("Make", func(t types.Type) string { return ReprString(Make(t)) }), tt.Table{
		tt.Args(types.IntType).Rets("0"),
		tt.Args(types.RealType).Rets("0"),
		tt.Args(types.StringType).Rets(`""`),
		tt.Args(types.TupOf(types.IntType, types.StringType)).Rets(`(0,"")`),
		tt.Args(types.ArrOf(types.IntType)).Rets("[]"),
		tt.Args(types.MapOf(types.StringType, types.IntType)).Rets("{}"),
	})
}

func TestCopy(t *testing.T) {
	dst := Make(types.TupOf(types.IntType, types.ArrOf(types.StringType)))
	src := &Tuple{Fields: []Value{&Int{V: 7}, strArr("x", "y")}}
	if err := Copy(dst, src); err != nil {
		t.Fatal(err)
	}
	if got, want := ReprString(dst), `(7,["x","y"])`; got != want {
		t.Errorf("copy produced %q, want %q", got, want)
	}

	// The copy must be deep: mutating the source array must not show through.
	src.Fields[1].(*Array).Elems[0].(*String).V = "mutated"
	if got, want := ReprString(dst), `(7,["x","y"])`; got != want {
		t.Errorf("copy aliases its source: %q, want %q", got, want)
	}
}

func TestCopy_Mismatch(t *testing.T) {
	if err := Copy(&Int{}, &String{}); err == nil {
		t.Errorf("copying between mismatched cells did not fail")
	}
}

func TestClone(t *testing.T) {
	c, err := Clone(types.IntType, &Int{V: 3})
	if err != nil {
		t.Fatal(err)
	}
	if c.(*Int).V != 3 {
		t.Errorf("Clone = %v, want 3", c)
	}
}

func strArr(elems ...string) *Array {
	a := &Array{ElemType: types.StringType}
	for _, e := range elems {
		a.Elems = append(a.Elems, &String{V: e})
	}
	return a
}
