package funcs

import (
	"fmt"
	"math"
	"strconv"

	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// Numeric builtins: conversions, elementary math and array aggregates.

func init() {
	intT, uintT, realT := types.IntType, types.UIntType, types.RealType

	Add("int", uintT, intT, func(arg, out vals.Value) error {
		out.(*vals.Int).V = int64(arg.(*vals.UInt).V)
		return nil
	})
	Add("int", realT, intT, func(arg, out vals.Value) error {
		out.(*vals.Int).V = int64(arg.(*vals.Real).V)
		return nil
	})
	Add("int", types.StringType, intT, parseInt)

	Add("uint", intT, uintT, func(arg, out vals.Value) error {
		out.(*vals.UInt).V = uint64(arg.(*vals.Int).V)
		return nil
	})
	Add("uint", realT, uintT, func(arg, out vals.Value) error {
		out.(*vals.UInt).V = uint64(arg.(*vals.Real).V)
		return nil
	})
	Add("uint", types.StringType, uintT, parseUInt)

	Add("real", intT, realT, func(arg, out vals.Value) error {
		out.(*vals.Real).V = float64(arg.(*vals.Int).V)
		return nil
	})
	Add("real", uintT, realT, func(arg, out vals.Value) error {
		out.(*vals.Real).V = float64(arg.(*vals.UInt).V)
		return nil
	})
	Add("real", types.StringType, realT, parseReal)

	Add("abs", intT, intT, func(arg, out vals.Value) error {
		v := arg.(*vals.Int).V
		if v < 0 {
			v = -v
		}
		out.(*vals.Int).V = v
		return nil
	})
	Add("abs", realT, realT, realMap(math.Abs))
	Add("sqrt", realT, realT, realMap(math.Sqrt))
	Add("exp", realT, realT, realMap(math.Exp))
	Add("log", realT, realT, realMap(math.Log))
	Add("floor", realT, realT, realMap(math.Floor))
	Add("ceil", realT, realT, realMap(math.Ceil))
	Add("round", realT, realT, realMap(math.Round))

	Add("min", types.TupOf(intT, intT), intT, minInt)
	Add("max", types.TupOf(intT, intT), intT, maxInt)
	Add("min", types.TupOf(uintT, uintT), uintT, minUInt)
	Add("max", types.TupOf(uintT, uintT), uintT, maxUInt)
	Add("min", types.TupOf(realT, realT), realT, minReal)
	Add("max", types.TupOf(realT, realT), realT, maxReal)

	for _, elemT := range []types.Type{intT, uintT, realT} {
		arrT := types.ArrOf(elemT)
		Add("sum", arrT, elemT, sum)
		Add("avg", arrT, realT, avg)
		Add("count", arrT, uintT, countArr)
	}
	Add("count", types.ArrOf(types.StringType), uintT, countArr)
}

func realMap(f func(float64) float64) Impl {
	return func(arg, out vals.Value) error {
		out.(*vals.Real).V = f(arg.(*vals.Real).V)
		return nil
	}
}

func parseInt(arg, out vals.Value) error {
	s := arg.(*vals.String).V
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as Int: %q", s)
	}
	out.(*vals.Int).V = v
	return nil
}

func parseUInt(arg, out vals.Value) error {
	s := arg.(*vals.String).V
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as UInt: %q", s)
	}
	out.(*vals.UInt).V = v
	return nil
}

func parseReal(arg, out vals.Value) error {
	s := arg.(*vals.String).V
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as Real: %q", s)
	}
	out.(*vals.Real).V = v
	return nil
}

func minInt(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	a, b := args.Fields[0].(*vals.Int).V, args.Fields[1].(*vals.Int).V
	if b < a {
		a = b
	}
	out.(*vals.Int).V = a
	return nil
}

func maxInt(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	a, b := args.Fields[0].(*vals.Int).V, args.Fields[1].(*vals.Int).V
	if b > a {
		a = b
	}
	out.(*vals.Int).V = a
	return nil
}

func minUInt(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	a, b := args.Fields[0].(*vals.UInt).V, args.Fields[1].(*vals.UInt).V
	if b < a {
		a = b
	}
	out.(*vals.UInt).V = a
	return nil
}

func maxUInt(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	a, b := args.Fields[0].(*vals.UInt).V, args.Fields[1].(*vals.UInt).V
	if b > a {
		a = b
	}
	out.(*vals.UInt).V = a
	return nil
}

func minReal(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	out.(*vals.Real).V = math.Min(
		args.Fields[0].(*vals.Real).V, args.Fields[1].(*vals.Real).V)
	return nil
}

func maxReal(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	out.(*vals.Real).V = math.Max(
		args.Fields[0].(*vals.Real).V, args.Fields[1].(*vals.Real).V)
	return nil
}

// sum works on any numeric array; the result cell has the element type.
func sum(arg, out vals.Value) error {
	arr := arg.(*vals.Array)
	switch res := out.(type) {
	case *vals.Int:
		var acc int64
		for _, e := range arr.Elems {
			acc += e.(*vals.Int).V
		}
		res.V = acc
	case *vals.UInt:
		var acc uint64
		for _, e := range arr.Elems {
			acc += e.(*vals.UInt).V
		}
		res.V = acc
	case *vals.Real:
		var acc float64
		for _, e := range arr.Elems {
			acc += e.(*vals.Real).V
		}
		res.V = acc
	}
	return nil
}

// avg is the arithmetic mean as a Real. The average of an empty array is a
// runtime error rather than NaN.
func avg(arg, out vals.Value) error {
	arr := arg.(*vals.Array)
	if len(arr.Elems) == 0 {
		return fmt.Errorf("average of an empty array")
	}
	var acc float64
	for _, e := range arr.Elems {
		switch e := e.(type) {
		case *vals.Int:
			acc += float64(e.V)
		case *vals.UInt:
			acc += float64(e.V)
		case *vals.Real:
			acc += e.V
		}
	}
	out.(*vals.Real).V = acc / float64(len(arr.Elems))
	return nil
}

func countArr(arg, out vals.Value) error {
	out.(*vals.UInt).V = uint64(len(arg.(*vals.Array).Elems))
	return nil
}
