package vm

import (
	"errors"
	"fmt"
	"io"
	"math"

	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// Arithmetic errors.
var (
	ErrDivByZero = errors.New("division by zero")
	ErrModByZero = errors.New("modulus by zero")
)

// Runtime holds the mutable state of one execution: the operand stack and
// the variable frame.
type Runtime struct {
	stack []vals.Value
	frame []vals.Value
}

// NewRuntime creates a runtime with the given frame size.
func NewRuntime(slots int) *Runtime {
	return &Runtime{frame: make([]vals.Value, slots)}
}

// SetVar stores a value in a variable slot before running, used to bind the
// input sequence to slot 0.
func (rt *Runtime) SetVar(slot int, v vals.Value) { rt.frame[slot] = v }

func (rt *Runtime) push(v vals.Value) { rt.stack = append(rt.stack, v) }

func (rt *Runtime) pop() vals.Value {
	v := rt.stack[len(rt.stack)-1]
	rt.stack = rt.stack[:len(rt.stack)-1]
	return v
}

func (rt *Runtime) top() vals.Value { return rt.stack[len(rt.stack)-1] }

// Init pre-allocates the result cell of every command, descending into
// closure blocks. It must run exactly once before Run.
func Init(code []Command) {
	for i := range code {
		c := &code[i]
		for _, cl := range c.Closures {
			Init(cl.Code)
		}
		switch c.Op {
		case Val:
			c.cell = c.Lit
		case Vaw:
			// Writes to a variable slot only.
		case Flat:
			c.cell = vals.NewFlatSeq(c.Type.Elem(0))
		default:
			c.cell = vals.Make(c.Type)
		}
	}
}

// Run executes an initialized command block on the runtime.
func (rt *Runtime) Run(code []Command) error {
	for i := range code {
		if err := rt.step(&code[i]); err != nil {
			return err
		}
	}
	return nil
}

// execClosure runs a closure block under a stack mark and returns the value
// it left on top.
func (rt *Runtime) execClosure(cl *Closure) (vals.Value, error) {
	mark := len(rt.stack)
	if err := rt.Run(cl.Code); err != nil {
		return nil, err
	}
	v := rt.top()
	rt.stack = rt.stack[:mark]
	return v, nil
}

type indexer interface {
	Index(keyType types.Type, key, out vals.Value) error
}

type filler interface {
	Fill(seq vals.Sequencer) error
}

func (rt *Runtime) step(c *Command) error {
	switch c.Op {
	case Val:
		rt.push(c.cell)

	case Var:
		rt.push(rt.frame[c.Slot])

	case Vaw:
		rt.frame[c.Slot] = rt.pop()

	case Fun:
		arg, err := rt.execClosure(c.Closures[0])
		if err != nil {
			return err
		}
		if err := c.Fn(arg, c.cell); err != nil {
			return err
		}
		rt.push(c.cell)

	case Idx:
		cl := c.Closures[0]
		key, err := rt.execClosure(cl)
		if err != nil {
			return err
		}
		cont := rt.pop()
		if err := cont.(indexer).Index(cl.Type, key, c.cell); err != nil {
			return err
		}
		rt.push(c.cell)

	case Tup:
		t := c.cell.(*vals.Tuple)
		t.Set(&rt.stack)
		rt.push(t)

	case Seq:
		src := rt.pop()
		seq := c.cell.(*vals.Seq)
		if err := seq.Wrap(src); err != nil {
			return err
		}
		rt.push(seq)

	case Gen:
		srcVal, err := rt.execClosure(c.Closures[1])
		if err != nil {
			return err
		}
		src := srcVal.(vals.Sequencer)
		body, slot := c.Closures[0], c.Slot
		seq := c.cell.(*vals.Seq)
		seq.SetNext(func(vals.Value) (vals.Value, bool, error) {
			v, ok, err := src.Next()
			if err != nil || !ok {
				return nil, false, err
			}
			rt.frame[slot] = v
			res, err := rt.execClosure(body)
			if err != nil {
				return nil, false, err
			}
			return res, true, nil
		})
		rt.push(seq)

	case Arr, Map:
		seq := rt.pop().(vals.Sequencer)
		if err := c.cell.(filler).Fill(seq); err != nil {
			return err
		}
		rt.push(c.cell)

	case Flat:
		seq := rt.pop().(vals.Sequencer)
		f := c.cell.(*vals.FlatSeq)
		f.Wrap(seq)
		rt.push(f)

	case Exp:
		return rt.binaryReal(c, func(a, b float64) float64 { return math.Pow(a, b) })
	case MulR:
		return rt.binaryReal(c, func(a, b float64) float64 { return a * b })
	case DivR:
		return rt.binaryReal(c, func(a, b float64) float64 { return a / b })
	case AddR:
		return rt.binaryReal(c, func(a, b float64) float64 { return a + b })
	case SubR:
		return rt.binaryReal(c, func(a, b float64) float64 { return a - b })

	case MulI:
		return rt.binaryIntegral(c,
			func(a, b int64) (int64, error) { return a * b, nil },
			func(a, b uint64) (uint64, error) { return a * b, nil })
	case DivI:
		return rt.binaryIntegral(c, divInt, divUInt)
	case Mod:
		return rt.binaryIntegral(c, modInt, modUInt)
	case AddI:
		return rt.binaryIntegral(c,
			func(a, b int64) (int64, error) { return a + b, nil },
			func(a, b uint64) (uint64, error) { return a + b, nil })
	case SubI:
		return rt.binaryIntegral(c,
			func(a, b int64) (int64, error) { return a - b, nil },
			func(a, b uint64) (uint64, error) { return a - b, nil })

	case And:
		return rt.binaryBits(c, func(a, b int64) int64 { return a & b })
	case Or:
		return rt.binaryBits(c, func(a, b int64) int64 { return a | b })
	case Xor:
		return rt.binaryBits(c, func(a, b int64) int64 { return a ^ b })
	case Not:
		x := rt.pop().(*vals.Int)
		c.cell.(*vals.Int).V = ^x.V
		rt.push(c.cell)

	case I2R1:
		c.cell.(*vals.Real).V = float64(rt.pop().(*vals.Int).V)
		rt.push(c.cell)
	case U2R1:
		c.cell.(*vals.Real).V = float64(rt.pop().(*vals.UInt).V)
		rt.push(c.cell)
	case I2R2:
		x := rt.pop()
		c.cell.(*vals.Real).V = float64(rt.pop().(*vals.Int).V)
		rt.push(c.cell)
		rt.push(x)
	case U2R2:
		x := rt.pop()
		c.cell.(*vals.Real).V = float64(rt.pop().(*vals.UInt).V)
		rt.push(c.cell)
		rt.push(x)
	}
	return nil
}

// Binary operators pop the right operand, then the left, and push the
// command's own result cell. Results never alias variable slots or literal
// cells, so re-running a closure cannot observe a stale operand.

func (rt *Runtime) binaryReal(c *Command, f func(a, b float64) float64) error {
	b := rt.pop().(*vals.Real)
	a := rt.pop().(*vals.Real)
	c.cell.(*vals.Real).V = f(a.V, b.V)
	rt.push(c.cell)
	return nil
}

func (rt *Runtime) binaryIntegral(c *Command, fi func(a, b int64) (int64, error), fu func(a, b uint64) (uint64, error)) error {
	b := rt.pop()
	a := rt.pop()
	switch a := a.(type) {
	case *vals.Int:
		v, err := fi(a.V, b.(*vals.Int).V)
		if err != nil {
			return err
		}
		c.cell.(*vals.Int).V = v
	case *vals.UInt:
		v, err := fu(a.V, b.(*vals.UInt).V)
		if err != nil {
			return err
		}
		c.cell.(*vals.UInt).V = v
	}
	rt.push(c.cell)
	return nil
}

func (rt *Runtime) binaryBits(c *Command, f func(a, b int64) int64) error {
	b := rt.pop().(*vals.Int)
	a := rt.pop().(*vals.Int)
	c.cell.(*vals.Int).V = f(a.V, b.V)
	rt.push(c.cell)
	return nil
}

func divInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	return a / b, nil
}

func divUInt(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivByZero
	}
	return a / b, nil
}

func modInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrModByZero
	}
	return a % b, nil
}

func modUInt(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrModByZero
	}
	return a % b, nil
}

// Execute initializes and runs a program against an input stream and prints
// the result to out, followed by a newline.
func Execute(p *Program, in io.Reader, out io.Writer) error {
	Init(p.Code)
	rt := NewRuntime(p.Slots)
	rt.SetVar(0, vals.NewFileSeq(in))
	if err := rt.Run(p.Code); err != nil {
		return err
	}
	if len(rt.stack) != 1 {
		return fmt.Errorf("internal error: %d values left on the stack", len(rt.stack))
	}
	if err := vals.Print(out, rt.top()); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
