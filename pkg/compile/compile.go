// Package compile turns an AST into an executable program.
//
// Compilation is a single bottom-up pass that type-checks each node, resolves
// names to variable slots and calls to native functions, and emits the
// command stream. There is no separate typed tree: the type of every
// sub-expression is returned while its commands are appended.
package compile

import (
	"fmt"

	"src.sift.dev/pkg/diag"
	"src.sift.dev/pkg/funcs"
	"src.sift.dev/pkg/parse"
	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
	"src.sift.dev/pkg/vm"
)

// Error is a compilation error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

// ErrorTag implements [diag.ErrorTag].
func (ErrorTag) ErrorTag() string { return "compile error" }

// Compile type-checks and lowers a parsed program. The input sequence
// occupies variable slot 0 as a Seq[Str]. The returned error always has type
// *Error if it is not nil.
func Compile(src parse.Source, n parse.Node) (p *vm.Program, err error) {
	cp := &compiler{
		srcName: src.Name, src: src.Code,
		nslots: 1,
		atSlot: 0, atType: types.SeqOf(types.StringType),
	}
	defer func() {
		if r := recover(); r != nil {
			if cerr, ok := r.(*Error); ok {
				p, err = nil, cerr
			} else {
				panic(r)
			}
		}
	}()

	var code []vm.Command
	t := cp.compile(n, &code)
	// A top-level sequence is materialized so printing happens after the run.
	if t.Kind() == types.Seq {
		elem := t.Elem(0)
		if elem.Kind() == types.Seq {
			cp.errorf(n, "the result is a sequence of sequences; apply flat() or array() to the inner expression")
		}
		emit(&code, vm.Command{Op: vm.Arr, Type: types.ArrOf(elem)})
		t = types.ArrOf(elem)
	}
	return &vm.Program{Code: code, Type: t, Slots: cp.nslots}, nil
}

type compiler struct {
	srcName string
	src     string

	nslots int
	scope  *binding

	// The slot and type '@' currently refers to.
	atSlot int
	atType types.Type
}

type binding struct {
	name string
	slot int
	t    types.Type
	next *binding
}

func (cp *compiler) errorf(r diag.Ranger, format string, args ...any) {
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(cp.srcName, cp.src, r.Range()),
	})
}

func (cp *compiler) alloc() int {
	slot := cp.nslots
	cp.nslots++
	return slot
}

func emit(out *[]vm.Command, c vm.Command) { *out = append(*out, c) }

// compile appends the commands evaluating n to out and returns n's type.
func (cp *compiler) compile(n parse.Node, out *[]vm.Command) types.Type {
	switch n := n.(type) {
	case *parse.Lit:
		return cp.literal(n, out)
	case *parse.Input:
		emit(out, vm.Command{Op: vm.Var, Slot: cp.atSlot, Type: cp.atType})
		return cp.atType
	case *parse.Var:
		for b := cp.scope; b != nil; b = b.next {
			if b.name == n.Name {
				emit(out, vm.Command{Op: vm.Var, Slot: b.slot, Type: b.t})
				return b.t
			}
		}
		cp.errorf(n, "undefined name: %s", n.Name)
	case *parse.Bind:
		initT := cp.compile(n.Init, out)
		slot := cp.alloc()
		emit(out, vm.Command{Op: vm.Vaw, Slot: slot, Type: types.NoneType})
		cp.scope = &binding{name: n.Name, slot: slot, t: initT, next: cp.scope}
		bodyT := cp.compile(n.Body, out)
		cp.scope = cp.scope.next
		return bodyT
	case *parse.TupleLit:
		ts := make([]types.Type, len(n.Fields))
		for i, f := range n.Fields {
			ts[i] = cp.compile(f, out)
			if ts[i].Kind() == types.Seq {
				cp.errorf(f, "cannot store a sequence in a tuple")
			}
		}
		t := types.TupOf(ts...)
		emit(out, vm.Command{Op: vm.Tup, Type: t})
		return t
	case *parse.Unary:
		return cp.unary(n, out)
	case *parse.Binary:
		return cp.binary(n, out)
	case *parse.Index:
		return cp.index(n, out)
	case *parse.Call:
		return cp.call(n, out)
	case *parse.Gen:
		return cp.generator(n, out)
	case *parse.MapComp:
		return cp.mapComp(n, out)
	}
	panic(fmt.Sprintf("compile: unexpected node %T", n))
}

func (cp *compiler) literal(l *parse.Lit, out *[]vm.Command) types.Type {
	var lit vals.Value
	var t types.Type
	switch l.Kind {
	case types.Int:
		lit, t = &vals.Int{V: l.Int}, types.IntType
	case types.UInt:
		lit, t = &vals.UInt{V: l.UInt}, types.UIntType
	case types.Real:
		lit, t = &vals.Real{V: l.Real}, types.RealType
	case types.String:
		lit, t = &vals.String{V: l.Str}, types.StringType
	}
	emit(out, vm.Command{Op: vm.Val, Lit: lit, Type: t})
	return t
}

func (cp *compiler) unary(u *parse.Unary, out *[]vm.Command) types.Type {
	if u.Op == parse.BitNot {
		t := cp.compile(u.X, out)
		if !t.Equal(types.IntType) {
			cp.errorf(u, "operator ~ requires an Int operand, got %s", t)
		}
		emit(out, vm.Command{Op: vm.Not, Type: types.IntType})
		return types.IntType
	}

	// -x lowers to 0 - x, so the zero is compiled after x's type is known.
	var tmp []vm.Command
	t := cp.compile(u.X, &tmp)
	var zero vals.Value
	switch t.Kind() {
	case types.Int:
		zero = &vals.Int{}
	case types.UInt:
		zero = &vals.UInt{}
	case types.Real:
		zero = &vals.Real{}
	default:
		cp.errorf(u, "operator - requires a numeric operand, got %s", t)
	}
	emit(out, vm.Command{Op: vm.Val, Lit: zero, Type: t})
	*out = append(*out, tmp...)
	if t.Kind() == types.Real {
		emit(out, vm.Command{Op: vm.SubR, Type: t})
	} else {
		emit(out, vm.Command{Op: vm.SubI, Type: t})
	}
	return t
}

var realOps = map[parse.BinaryOp]vm.Op{
	parse.Add: vm.AddR, parse.Sub: vm.SubR,
	parse.Mul: vm.MulR, parse.Div: vm.DivR,
}

var integralOps = map[parse.BinaryOp]vm.Op{
	parse.Add: vm.AddI, parse.Sub: vm.SubI,
	parse.Mul: vm.MulI, parse.Div: vm.DivI, parse.Mod: vm.Mod,
}

var bitOps = map[parse.BinaryOp]vm.Op{
	parse.BitAnd: vm.And, parse.BitOr: vm.Or, parse.BitXor: vm.Xor,
}

func (cp *compiler) binary(b *parse.Binary, out *[]vm.Command) types.Type {
	lt := cp.compile(b.L, out)
	rt := cp.compile(b.R, out)

	switch b.Op {
	case parse.BitAnd, parse.BitOr, parse.BitXor:
		if !lt.Equal(types.IntType) || !rt.Equal(types.IntType) {
			cp.errorf(b, "operator %s requires Int operands, got %s and %s", b.Op, lt, rt)
		}
		emit(out, vm.Command{Op: bitOps[b.Op], Type: types.IntType})
		return types.IntType

	case parse.Pow:
		cp.checkNumeric(b, lt, rt)
		cp.liftSecond(lt, out)
		cp.liftTop(rt, out)
		emit(out, vm.Command{Op: vm.Exp, Type: types.RealType})
		return types.RealType

	case parse.Mod:
		if !lt.IsIntegral() || !lt.Equal(rt) {
			cp.errorf(b, "operator %% requires Int or UInt operands of the same kind, got %s and %s", lt, rt)
		}
		emit(out, vm.Command{Op: vm.Mod, Type: lt})
		return lt
	}

	cp.checkNumeric(b, lt, rt)
	switch {
	case lt.Equal(rt) && lt.IsIntegral():
		emit(out, vm.Command{Op: integralOps[b.Op], Type: lt})
		return lt
	case lt.IsIntegral() && rt.IsIntegral():
		cp.errorf(b, "mixed Int and UInt arithmetic; use an explicit conversion")
	}
	cp.liftSecond(lt, out)
	cp.liftTop(rt, out)
	emit(out, vm.Command{Op: realOps[b.Op], Type: types.RealType})
	return types.RealType
}

func (cp *compiler) checkNumeric(b *parse.Binary, lt, rt types.Type) {
	if !lt.IsNumeric() || !rt.IsNumeric() {
		cp.errorf(b, "operator %s requires numeric operands, got %s and %s", b.Op, lt, rt)
	}
}

// liftTop lifts the top of the stack to Real if it is integral.
func (cp *compiler) liftTop(t types.Type, out *[]vm.Command) {
	switch t.Kind() {
	case types.Int:
		emit(out, vm.Command{Op: vm.I2R1, Type: types.RealType})
	case types.UInt:
		emit(out, vm.Command{Op: vm.U2R1, Type: types.RealType})
	}
}

// liftSecond lifts the second-from-top of the stack to Real if it is
// integral.
func (cp *compiler) liftSecond(t types.Type, out *[]vm.Command) {
	switch t.Kind() {
	case types.Int:
		emit(out, vm.Command{Op: vm.I2R2, Type: types.RealType})
	case types.UInt:
		emit(out, vm.Command{Op: vm.U2R2, Type: types.RealType})
	}
}

func (cp *compiler) index(idx *parse.Index, out *[]vm.Command) types.Type {
	xt := cp.compile(idx.X, out)
	var key []vm.Command
	kt := cp.compile(idx.Key, &key)

	var elem types.Type
	switch xt.Kind() {
	case types.Arr:
		if !kt.IsIntegral() {
			cp.errorf(idx.Key, "array index must be Int or UInt, got %s", kt)
		}
		elem = xt.Elem(0)
	case types.Map:
		if !kt.Equal(xt.Elem(0)) {
			cp.errorf(idx.Key, "map key must be %s, got %s", xt.Elem(0), kt)
		}
		elem = xt.Elem(1)
	default:
		cp.errorf(idx.X, "cannot index a value of type %s", xt)
	}
	emit(out, vm.Command{
		Op: vm.Idx, Type: elem,
		Closures: []*vm.Closure{{Code: key, Type: kt}},
	})
	return elem
}

func (cp *compiler) call(c *parse.Call, out *[]vm.Command) types.Type {
	switch c.Name {
	case "array", "flat", "tabulate":
		if len(c.Args) != 1 {
			cp.errorf(c, "%s() takes exactly one argument", c.Name)
		}
		return cp.intrinsic(c, out)
	}

	if len(c.Args) == 0 {
		cp.errorf(c, "function %s requires arguments", c.Name)
	}
	var argb []vm.Command
	ts := make([]types.Type, len(c.Args))
	for i, a := range c.Args {
		ts[i] = cp.compile(a, &argb)
	}
	argT := ts[0]
	if len(ts) > 1 {
		argT = types.TupOf(ts...)
		emit(&argb, vm.Command{Op: vm.Tup, Type: argT})
	}

	impl, retT, ok := funcs.Resolve(c.Name, argT)
	if !ok {
		if funcs.Known(c.Name) {
			cp.errorf(c, "wrong argument type for %s: %s", c.Name, argT)
		}
		cp.errorf(c, "unknown function: %s", c.Name)
	}
	emit(out, vm.Command{
		Op: vm.Fun, Fn: impl, Type: retT,
		Closures: []*vm.Closure{{Code: argb, Type: argT}},
	})
	return retT
}

// intrinsic compiles the polymorphic builtins, which are resolved by type
// rather than through the registry.
func (cp *compiler) intrinsic(c *parse.Call, out *[]vm.Command) types.Type {
	arg := c.Args[0]
	t := cp.compile(arg, out)

	switch c.Name {
	case "array":
		elem := cp.sequenced(arg, t, out)
		if elem.Kind() == types.Seq {
			cp.errorf(c, "cannot materialize a sequence of sequences; apply flat() first")
		}
		res := types.ArrOf(elem)
		emit(out, vm.Command{Op: vm.Arr, Type: res})
		return res

	case "flat":
		inner := cp.sequenced(arg, t, out)
		var elem types.Type
		switch inner.Kind() {
		case types.Seq, types.Arr:
			elem = inner.Elem(0)
		case types.Map:
			elem = types.TupOf(inner.Elem(0), inner.Elem(1))
		default:
			cp.errorf(arg, "flat() requires a sequence of sequences, got %s", t)
		}
		res := types.SeqOf(elem)
		emit(out, vm.Command{Op: vm.Flat, Type: res})
		return res

	default: // tabulate
		elem := cp.sequenced(arg, t, out)
		if elem.Kind() != types.Tup || elem.NumElems() != 2 {
			cp.errorf(arg, "tabulate() requires a sequence of key-value pairs, got %s", t)
		}
		res := types.MapOf(elem.Elem(0), elem.Elem(1))
		emit(out, vm.Command{Op: vm.Map, Type: res})
		return res
	}
}

// sequenced makes sure the value on top of the stack is a sequencer,
// wrapping arrays and maps, and returns the element type.
func (cp *compiler) sequenced(n parse.Node, t types.Type, out *[]vm.Command) types.Type {
	var elem types.Type
	switch t.Kind() {
	case types.Seq:
		return t.Elem(0)
	case types.Arr:
		elem = t.Elem(0)
	case types.Map:
		elem = types.TupOf(t.Elem(0), t.Elem(1))
	default:
		cp.errorf(n, "expected a sequence, array or map, got %s", t)
	}
	emit(out, vm.Command{Op: vm.Seq, Type: types.SeqOf(elem)})
	return elem
}

func (cp *compiler) generator(g *parse.Gen, out *[]vm.Command) types.Type {
	srcb, elem := cp.genSource(g, g.Src)
	slot := cp.alloc()

	saveSlot, saveType := cp.atSlot, cp.atType
	cp.atSlot, cp.atType = slot, elem
	var bodyb []vm.Command
	bodyT := cp.compile(g.Body, &bodyb)
	cp.atSlot, cp.atType = saveSlot, saveType

	res := types.SeqOf(bodyT)
	emit(out, vm.Command{
		Op: vm.Gen, Slot: slot, Type: res,
		Closures: []*vm.Closure{
			{Code: bodyb, Type: bodyT},
			{Code: srcb, Type: types.SeqOf(elem)},
		},
	})
	return res
}

func (cp *compiler) mapComp(m *parse.MapComp, out *[]vm.Command) types.Type {
	srcb, elem := cp.genSource(m, m.Src)
	slot := cp.alloc()

	saveSlot, saveType := cp.atSlot, cp.atType
	cp.atSlot, cp.atType = slot, elem
	var bodyb []vm.Command
	kt := cp.compile(m.Key, &bodyb)
	if kt.Kind() == types.Seq {
		cp.errorf(m.Key, "cannot use a sequence as a map key")
	}
	vt := cp.compile(m.Val, &bodyb)
	if vt.Kind() == types.Seq {
		cp.errorf(m.Val, "cannot store a sequence in a map")
	}
	cp.atSlot, cp.atType = saveSlot, saveType

	pairT := types.TupOf(kt, vt)
	emit(&bodyb, vm.Command{Op: vm.Tup, Type: pairT})
	emit(out, vm.Command{
		Op: vm.Gen, Slot: slot, Type: types.SeqOf(pairT),
		Closures: []*vm.Closure{
			{Code: bodyb, Type: pairT},
			{Code: srcb, Type: types.SeqOf(elem)},
		},
	})
	res := types.MapOf(kt, vt)
	emit(out, vm.Command{Op: vm.Map, Type: res})
	return res
}

// genSource compiles a generator source into its own block, defaulting to
// '@', and returns the block and the loop element type.
func (cp *compiler) genSource(n parse.Node, src parse.Node) ([]vm.Command, types.Type) {
	var srcb []vm.Command
	var srcT types.Type
	if src == nil {
		emit(&srcb, vm.Command{Op: vm.Var, Slot: cp.atSlot, Type: cp.atType})
		srcT = cp.atType
		src = n
	} else {
		srcT = cp.compile(src, &srcb)
	}
	switch srcT.Kind() {
	case types.Seq, types.Arr, types.Map:
		elem := cp.sequenced(src, srcT, &srcb)
		return srcb, elem
	}
	cp.errorf(src, "generator source must be a sequence, array or map, got %s", srcT)
	panic("unreachable")
}
