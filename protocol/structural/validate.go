package structural

import (
	"fmt"

	"github.com/Kefkius/txsc/errors"
)

// Validate checks that every node reachable from root has the shape
// its kind requires and that every child id is in range.
func (t *Tree) Validate(root NodeID) error {
	if !t.valid(root) {
		return errors.WithDetailf(ErrMalformedTree, "root %d outside %d nodes", root, len(t.Nodes))
	}
	return t.validate(root, 0)
}

// Deeper nesting is treated as malformed rather than risking the
// stack in the recursive passes.
const maxDepth = 1000

func (t *Tree) validate(id NodeID, depth int) error {
	if depth > maxDepth {
		return errors.WithDetail(ErrMalformedTree, "tree too deep")
	}
	n := t.Node(id)
	bad := func(format string, args ...interface{}) error {
		return errors.WithDetailf(ErrMalformedTree, "%s node %d at %s: %s", n.Kind, id, n.Pos, fmt.Sprintf(format, args...))
	}
	kids := len(n.Kids)
	switch n.Kind {
	case Int, Bytes, Assume:
		if kids != 0 {
			return bad("has %d children", kids)
		}
	case Name:
		if n.Name == "" || kids != 0 {
			return bad("needs a name and no children")
		}
	case Binary:
		if !IsBinaryOp(n.Op) {
			return bad("unknown binary operator %q", n.Op)
		}
		if kids != 2 {
			return bad("has %d operands", kids)
		}
	case Unary:
		if !IsUnaryOp(n.Op) {
			return bad("unknown unary operator %q", n.Op)
		}
		if kids != 1 {
			return bad("has %d operands", kids)
		}
	case Builtin, Call:
		if n.Name == "" {
			return bad("needs a name")
		}
	case Assign:
		if n.Name == "" || kids != 1 {
			return bad("needs a name and a value")
		}
	case If:
		if kids != 2 && kids != 3 {
			return bad("has %d children", kids)
		}
		for _, k := range n.Kids[1:] {
			if t.valid(k) && t.Node(k).Kind != Block {
				return bad("branch is a %s", t.Node(k).Kind)
			}
		}
	case Func:
		if n.Name == "" || kids != 1 {
			return bad("needs a name and a body")
		}
		if t.valid(n.Body()) && t.Node(n.Body()).Kind != Block {
			return bad("body is a %s", t.Node(n.Body()).Kind)
		}
	case Return:
		if kids > 1 {
			return bad("has %d values", kids)
		}
	case Verify:
		if kids != 1 {
			return bad("has %d children", kids)
		}
	case InnerScript, Block:
	default:
		return bad("unknown kind")
	}
	for i, k := range n.Kids {
		if !t.valid(k) {
			return bad("child %d out of range", k)
		}
		branch := n.Kind == Block || n.Kind == Func || (n.Kind == If && i > 0)
		if !branch && t.Node(k).IsStatement() {
			return bad("operand is a %s statement", t.Node(k).Kind)
		}
		if err := t.validate(k, depth+1); err != nil {
			return err
		}
	}
	return nil
}
