package structural

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Format renders the subtree at id in a compact source-like form,
// one statement per line. It is meant for diagnostics.
func (t *Tree) Format(id NodeID) string {
	var buf bytes.Buffer
	t.format(&buf, id, 0)
	return buf.String()
}

func (t *Tree) format(buf *bytes.Buffer, id NodeID, indent int) {
	n := t.Node(id)
	switch n.Kind {
	case Block:
		for _, s := range n.Kids {
			buf.WriteString(strings.Repeat("\t", indent))
			t.format(buf, s, indent)
			if k := t.Node(s).Kind; k != If && k != Func {
				buf.WriteByte(';')
			}
			buf.WriteByte('\n')
		}
	case Assume:
		fmt.Fprintf(buf, "assume %s", strings.Join(n.Names, ", "))
	case Assign:
		switch {
		case n.First && n.Mutable:
			buf.WriteString("var ")
		case n.First:
			buf.WriteString("let ")
		}
		fmt.Fprintf(buf, "%s = %s", n.Name, t.expr(n.Value()))
	case If:
		fmt.Fprintf(buf, "if %s {\n", t.expr(n.Cond()))
		t.format(buf, n.Then(), indent+1)
		if e := n.Else(); e != None {
			buf.WriteString(strings.Repeat("\t", indent) + "} else {\n")
			t.format(buf, e, indent+1)
		}
		buf.WriteString(strings.Repeat("\t", indent) + "}")
	case Func:
		fmt.Fprintf(buf, "func %s(%s) {\n", n.Name, strings.Join(n.Names, ", "))
		t.format(buf, n.Body(), indent+1)
		buf.WriteString(strings.Repeat("\t", indent) + "}")
	case Return:
		buf.WriteString("return")
		if len(n.Kids) == 1 {
			buf.WriteString(" " + t.expr(n.Value()))
		}
	case Verify:
		fmt.Fprintf(buf, "verify %s", t.expr(n.Kids[0]))
	default:
		buf.WriteString(t.expr(id))
	}
}

func (t *Tree) expr(id NodeID) string {
	n := t.Node(id)
	switch n.Kind {
	case Int:
		return strconv.FormatInt(n.Int, 10)
	case Bytes:
		return "0x" + hex.EncodeToString(n.Bytes)
	case Name:
		return n.Name
	case Binary:
		return fmt.Sprintf("(%s %s %s)", t.expr(n.Left()), n.Op, t.expr(n.Right()))
	case Unary:
		return fmt.Sprintf("%s(%s)", n.Op, t.expr(n.Operand()))
	case Builtin, Call:
		return n.Name + "(" + t.list(n.Kids) + ")"
	case InnerScript:
		return "[" + t.list(n.Kids) + "]"
	}
	return "<" + n.Kind.String() + ">"
}

func (t *Tree) list(ids []NodeID) string {
	var parts []string
	for _, id := range ids {
		parts = append(parts, t.expr(id))
	}
	return strings.Join(parts, ", ")
}
