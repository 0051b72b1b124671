// Package vm defines the command stream produced by the compiler and the
// stack machine that executes it.
//
// Execution is two-pass: Init walks the command stream once and pre-allocates
// a result cell per command, then Run performs a single linear scan, pushing
// and popping cells on an operand stack. Deferred sub-expressions (function
// arguments, index keys, generator bodies and sources) live in closure
// blocks executed under a stack mark.
package vm

import (
	"strconv"
	"strings"

	"src.sift.dev/pkg/funcs"
	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// Op is a command opcode.
type Op uint8

// Possible values of Op.
const (
	// Values and variables.
	Val Op = iota // push the literal cell
	Var           // push the cell in a variable slot
	Vaw           // pop into a variable slot
	// Calls and containers.
	Fun  // run closure 0 for the argument, call the native function
	Idx  // run closure 0 for the key, index the container on the stack
	Tup  // pop the field count, push the assembled tuple
	Seq  // pop an array, map or sequencer, push a sequencer over it
	Gen  // run closure 1 for the source, push the loop sequencer
	Arr  // pop a sequencer, drain it into an array
	Map  // pop a pair sequencer, drain it into a map
	Flat // pop a sequencer of sequences, push the flattened sequencer
	// Real arithmetic.
	Exp
	MulR
	DivR
	AddR
	SubR
	// Integral arithmetic, dispatching on the Int/UInt variant.
	MulI
	DivI
	Mod
	AddI
	SubI
	// Bitwise, Int only.
	And
	Or
	Xor
	Not
	// Lift the top (_1) or the second-from-top (_2) to Real.
	I2R1
	I2R2
	U2R1
	U2R2
)

var opNames = [...]string{
	"VAL", "VAR", "VAW",
	"FUN", "IDX", "TUP", "SEQ", "GEN", "ARR", "MAP", "FLAT",
	"EXP", "MUL.R", "DIV.R", "ADD.R", "SUB.R",
	"MUL.I", "DIV.I", "MOD", "ADD.I", "SUB.I",
	"AND", "OR", "XOR", "NOT",
	"I2R.1", "I2R.2", "U2R.1", "U2R.2",
}

func (op Op) String() string { return opNames[op] }

// Closure is a nested command block. It yields the value left on top of the
// stack by its last command. Type describes that value; for Idx closures it
// is the key type the container is indexed with.
type Closure struct {
	Code []Command
	Type types.Type
}

// Command is one instruction of the stack machine.
type Command struct {
	Op   Op
	Slot int        // Var, Vaw, Gen
	Fn   funcs.Impl // Fun
	Lit  vals.Value // Val
	Type types.Type // result type, drives cell allocation in Init

	// Closures used by Fun, Idx (one) and Gen (body, then source).
	Closures []*Closure

	cell vals.Value
}

// Program is a compiled program: a top-level command block, the type of the
// value it leaves on the stack, and the size of the variable frame. Slot 0
// holds the input sequence.
type Program struct {
	Code  []Command
	Type  types.Type
	Slots int
}

// Dump renders the command stream for debugging, one command per line with
// closures indented.
func (p *Program) Dump() string {
	var sb strings.Builder
	dumpCode(&sb, p.Code, 0)
	return sb.String()
}

func dumpCode(sb *strings.Builder, code []Command, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range code {
		c := &code[i]
		sb.WriteString(indent)
		sb.WriteString(c.Op.String())
		switch c.Op {
		case Val:
			sb.WriteByte(' ')
			sb.WriteString(vals.ReprString(c.Lit))
		case Var, Vaw, Gen:
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(c.Slot))
		}
		if c.Type.Kind() != types.None {
			sb.WriteString(" -> ")
			sb.WriteString(c.Type.String())
		}
		sb.WriteByte('\n')
		for _, cl := range c.Closures {
			dumpCode(sb, cl.Code, depth+1)
		}
	}
}
