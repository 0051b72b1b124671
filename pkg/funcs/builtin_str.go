package funcs

import (
	"strings"

	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// String manipulation builtins.

func init() {
	strT := types.StringType
	strArrT := types.ArrOf(types.StringType)

	Add("lower", strT, strT, strMap(strings.ToLower))
	Add("upper", strT, strT, strMap(strings.ToUpper))
	Add("trim", strT, strT, strMap(strings.TrimSpace))
	Add("triml", strT, strT, strMap(func(s string) string {
		return strings.TrimLeft(s, " \t\r\n")
	}))
	Add("trimr", strT, strT, strMap(func(s string) string {
		return strings.TrimRight(s, " \t\r\n")
	}))

	Add("replace", types.TupOf(strT, strT, strT), strT, replace)
	Add("join", types.TupOf(strArrT, strT), strT, join)
	Add("count", strT, types.UIntType, countStr)

	Add("string", types.IntType, strT, stringOf)
	Add("string", types.UIntType, strT, stringOf)
	Add("string", types.RealType, strT, stringOf)
}

func strMap(f func(string) string) Impl {
	return func(arg, out vals.Value) error {
		out.(*vals.String).V = f(arg.(*vals.String).V)
		return nil
	}
}

func replace(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	str := args.Fields[0].(*vals.String).V
	from := args.Fields[1].(*vals.String).V
	to := args.Fields[2].(*vals.String).V
	out.(*vals.String).V = strings.ReplaceAll(str, from, to)
	return nil
}

func join(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	arr := args.Fields[0].(*vals.Array)
	del := args.Fields[1].(*vals.String).V

	pieces := make([]string, len(arr.Elems))
	for i, e := range arr.Elems {
		pieces[i] = e.(*vals.String).V
	}
	out.(*vals.String).V = strings.Join(pieces, del)
	return nil
}

func countStr(arg, out vals.Value) error {
	out.(*vals.UInt).V = uint64(len(arg.(*vals.String).V))
	return nil
}

func stringOf(arg, out vals.Value) error {
	res := out.(*vals.String)
	switch arg := arg.(type) {
	case *vals.Int:
		res.V = vals.ReprString(arg)
	case *vals.UInt:
		res.V = vals.ReprString(arg)
	case *vals.Real:
		res.V = vals.ReprString(arg)
	}
	return nil
}
