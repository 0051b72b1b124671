package parse

import (
	"strconv"
	"strings"

	"src.sift.dev/pkg/diag"
	"src.sift.dev/pkg/types"
)

// Node is implemented by all AST nodes.
type Node interface {
	diag.Ranger
	dump(sb *strings.Builder)
}

type node struct {
	diag.Ranging
}

func (n *node) setRanging(r diag.Ranging) { n.Ranging = r }

// BinaryOp enumerates binary operators.
type BinaryOp uint8

// Possible values of BinaryOp.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
)

// String returns the source spelling of the operator.
func (op BinaryOp) String() string {
	return [...]string{"+", "-", "*", "/", "%", "**", "&", "|", "^"}[op]
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

// Possible values of UnaryOp.
const (
	Neg UnaryOp = iota
	BitNot
)

// Lit is an atom literal. Kind is one of types.Int, types.UInt, types.Real
// and types.String, selecting which field holds the value.
type Lit struct {
	node
	Kind types.Kind
	Int  int64
	UInt uint64
	Real float64
	Str  string
}

// Input is the '@' expression: the innermost generator's loop variable, or
// the top-level input sequence.
type Input struct {
	node
}

// Var is a reference to a bound name.
type Var struct {
	node
	Name string
}

// Bind is "name = init; body".
type Bind struct {
	node
	Name string
	Init Node
	Body Node
}

// Call is a function call.
type Call struct {
	node
	Name string
	Args []Node
}

// Index is "x[key]".
type Index struct {
	node
	X   Node
	Key Node
}

// Binary is a binary operator application.
type Binary struct {
	node
	Op BinaryOp
	L  Node
	R  Node
}

// Unary is a unary operator application.
type Unary struct {
	node
	Op UnaryOp
	X  Node
}

// TupleLit is "(a, b, ...)" with at least two fields.
type TupleLit struct {
	node
	Fields []Node
}

// Gen is the generator "[body : src]"; a nil Src defaults to '@'.
type Gen struct {
	node
	Body Node
	Src  Node
}

// MapComp is the map comprehension "{key -> val : src}"; a nil Src defaults
// to '@'.
type MapComp struct {
	node
	Key Node
	Val Node
	Src Node
}

// Dump renders the AST in a compact prefix form, used by debug output and
// tests.
func Dump(n Node) string {
	var sb strings.Builder
	n.dump(&sb)
	return sb.String()
}

func (l *Lit) dump(sb *strings.Builder) {
	switch l.Kind {
	case types.Int:
		sb.WriteString(strconv.FormatInt(l.Int, 10))
	case types.UInt:
		sb.WriteString(strconv.FormatUint(l.UInt, 10))
		sb.WriteByte('u')
	case types.Real:
		sb.WriteString(strconv.FormatFloat(l.Real, 'g', -1, 64))
	case types.String:
		sb.WriteString(strconv.Quote(l.Str))
	}
}

func (i *Input) dump(sb *strings.Builder) { sb.WriteByte('@') }

func (v *Var) dump(sb *strings.Builder) { sb.WriteString(v.Name) }

func (b *Bind) dump(sb *strings.Builder) {
	dumpList(sb, "bind "+b.Name, b.Init, b.Body)
}

func (c *Call) dump(sb *strings.Builder) {
	dumpList(sb, c.Name, c.Args...)
}

func (i *Index) dump(sb *strings.Builder) {
	dumpList(sb, "idx", i.X, i.Key)
}

func (b *Binary) dump(sb *strings.Builder) {
	dumpList(sb, b.Op.String(), b.L, b.R)
}

func (u *Unary) dump(sb *strings.Builder) {
	if u.Op == Neg {
		dumpList(sb, "neg", u.X)
	} else {
		dumpList(sb, "not", u.X)
	}
}

func (t *TupleLit) dump(sb *strings.Builder) {
	dumpList(sb, "tup", t.Fields...)
}

func (g *Gen) dump(sb *strings.Builder) {
	if g.Src == nil {
		dumpList(sb, "gen", g.Body)
	} else {
		dumpList(sb, "gen", g.Body, g.Src)
	}
}

func (m *MapComp) dump(sb *strings.Builder) {
	if m.Src == nil {
		dumpList(sb, "mapc", m.Key, m.Val)
	} else {
		dumpList(sb, "mapc", m.Key, m.Val, m.Src)
	}
}

func dumpList(sb *strings.Builder, head string, children ...Node) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, ch := range children {
		sb.WriteByte(' ')
		ch.dump(sb)
	}
	sb.WriteByte(')')
}
