package mathlang

import (
	"strconv"
	"strings"
)

// NodeKind classifies an AST node.
type NodeKind int8

const (
	// NodeNone is an invalid node kind.
	NodeNone NodeKind = iota
	// NodeProgram is a statement sequence in List.
	NodeProgram
	// NodeNumber is a numeric literal; Text is the literal as written.
	NodeNumber
	// NodeString is a string literal; Text is the decoded value.
	NodeString
	// NodeIdent is a name reference.
	NodeIdent
	// NodeAssign binds Right to the target Left.
	NodeAssign
	// NodeBinary applies the operator in Text to Left and Right.
	NodeBinary
	// NodeUnary applies the prefix operator in Text to Left.
	NodeUnary
	// NodePostfix applies the postfix operator in Text to Left.
	NodePostfix
	// NodeCall calls the function named in Text with arguments in List. In
	// assignment targets the callee may instead be the call in Left.
	NodeCall
	// NodeArray is an array literal with elements in List.
	NodeArray
	// NodeObject is an object literal; Keys and List pair up in order.
	NodeObject
	// NodeCond picks Right or Third by the truth of Left.
	NodeCond
	// NodeUnit tags the number in Left with the unit name in Text.
	NodeUnit
	// NodeRange is Left through Right inclusive, stepping by Third if set.
	NodeRange
	// NodeSum is a summation: Text is the loop variable, Left and Right the
	// bounds, Third the body.
	NodeSum
	// NodeIndex selects element Right of Left.
	NodeIndex
	// NodeSlice selects elements Right through Third of Left; either bound
	// may be nil.
	NodeSlice
	// NodeMember selects the member named in Text from Left.
	NodeMember
)

var nodeNames = [...]string{
	NodeNone:    "None",
	NodeProgram: "Program",
	NodeNumber:  "Number",
	NodeString:  "String",
	NodeIdent:   "Ident",
	NodeAssign:  "Assign",
	NodeBinary:  "Binary",
	NodeUnary:   "Unary",
	NodePostfix: "Postfix",
	NodeCall:    "Call",
	NodeArray:   "Array",
	NodeObject:  "Object",
	NodeCond:    "Cond",
	NodeUnit:    "Unit",
	NodeRange:   "Range",
	NodeSum:     "Sum",
	NodeIndex:   "Index",
	NodeSlice:   "Slice",
	NodeMember:  "Member",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeNames) {
		return nodeNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// Node is a node of a parsed program. The meaning of each field depends on
// Kind; unused fields are zero.
type Node struct {
	Kind NodeKind
	// Text is the node's name or operator, when it has one.
	Text string
	// Left, Right, and Third are the child operands.
	Left, Right, Third *Node
	// List holds statements, elements, or arguments.
	List []*Node
	// Keys holds object literal keys, parallel to List.
	Keys []string
}

// String renders the node with explicit grouping, for diagnostics and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch n.Kind {
	case NodeProgram:
		for i, stmt := range n.List {
			if i > 0 {
				b.WriteString("; ")
			}
			stmt.fmt(b)
		}
	case NodeNumber, NodeIdent:
		b.WriteString(n.Text)
	case NodeString:
		b.WriteString(strconv.Quote(n.Text))
	case NodeAssign:
		b.WriteString("(= ")
		n.Left.fmt(b)
		b.WriteByte(' ')
		n.Right.fmt(b)
		b.WriteByte(')')
	case NodeBinary:
		b.WriteByte('(')
		b.WriteString(n.Text)
		b.WriteByte(' ')
		n.Left.fmt(b)
		b.WriteByte(' ')
		n.Right.fmt(b)
		b.WriteByte(')')
	case NodeUnary:
		b.WriteByte('(')
		b.WriteString(n.Text)
		b.WriteByte(' ')
		n.Left.fmt(b)
		b.WriteByte(')')
	case NodePostfix:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.Text)
		b.WriteByte(')')
	case NodeCall:
		if n.Left != nil {
			n.Left.fmt(b)
		} else {
			b.WriteString(n.Text)
		}
		b.WriteByte('(')
		for i, a := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case NodeArray:
		b.WriteByte('[')
		for i, el := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			el.fmt(b)
		}
		b.WriteByte(']')
	case NodeObject:
		b.WriteByte('{')
		for i, v := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n.Keys[i])
			b.WriteString(": ")
			v.fmt(b)
		}
		b.WriteByte('}')
	case NodeCond:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteString(" ? ")
		n.Right.fmt(b)
		b.WriteString(" : ")
		n.Third.fmt(b)
		b.WriteByte(')')
	case NodeUnit:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.Text)
		b.WriteByte(')')
	case NodeRange:
		b.WriteByte('(')
		n.Left.fmt(b)
		b.WriteByte(':')
		n.Right.fmt(b)
		if n.Third != nil {
			b.WriteByte(':')
			n.Third.fmt(b)
		}
		b.WriteByte(')')
	case NodeSum:
		b.WriteString("sigma(")
		b.WriteString(n.Text)
		b.WriteString(", ")
		n.Left.fmt(b)
		b.WriteString(", ")
		n.Right.fmt(b)
		b.WriteString(", ")
		n.Third.fmt(b)
		b.WriteByte(')')
	case NodeIndex:
		n.Left.fmt(b)
		b.WriteByte('[')
		n.Right.fmt(b)
		b.WriteByte(']')
	case NodeSlice:
		n.Left.fmt(b)
		b.WriteByte('[')
		if n.Right != nil {
			n.Right.fmt(b)
		}
		b.WriteByte(':')
		if n.Third != nil {
			n.Third.fmt(b)
		}
		b.WriteByte(']')
	case NodeMember:
		n.Left.fmt(b)
		b.WriteByte('.')
		b.WriteString(n.Text)
	default:
		panic("mathlang: invalid node kind " + n.Kind.String())
	}
}
