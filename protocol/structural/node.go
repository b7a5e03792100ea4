// Package structural holds the tree form of a txsc program: the
// representation a front end produces and the structural optimizer
// rewrites before lowering.
//
// Nodes live in an arena (Tree) and refer to their children by
// NodeID. Rewrites never change an existing node; they append new
// nodes and share every subtree they leave alone.
package structural

import "fmt"

// NodeID addresses a node in a Tree.
type NodeID int32

// None is the NodeID of an absent child, such as a missing else block.
const None NodeID = -1

// Kind is the variant tag of a Node.
type Kind uint8

const (
	Int Kind = iota
	Bytes
	Name
	Binary
	Unary
	Builtin
	Call
	Assume
	Assign
	If
	InnerScript
	Func
	Return
	Verify
	Block
)

var kindNames = [...]string{
	Int:         "int",
	Bytes:       "bytes",
	Name:        "name",
	Binary:      "binary",
	Unary:       "unary",
	Builtin:     "builtin",
	Call:        "call",
	Assume:      "assume",
	Assign:      "assign",
	If:          "if",
	InnerScript: "inner",
	Func:        "func",
	Return:      "return",
	Verify:      "verify",
	Block:       "block",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind%d", k)
}

func kindByName(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Pos locates a node in its source: Stmt is the index of the
// enclosing statement within its block, Line the source line if the
// front end knows it.
type Pos struct {
	Stmt int
	Line int
}

func (p Pos) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("statement %d", p.Stmt)
}

// Node is a single tree node. Which fields are meaningful depends on
// Kind:
//
//	Int          Int
//	Bytes        Bytes
//	Name         Name
//	Binary       Op, Kids = [left, right]
//	Unary        Op, Kids = [operand]
//	Builtin      Name, Kids = args
//	Call         Name, Kids = args
//	Assume       Names
//	Assign       Name, Mutable, First, Kids = [value]
//	If           Kids = [cond, then, else], else may be None
//	InnerScript  Kids = args
//	Func         Name, Names = params, Kids = [body]
//	Return       Kids = [] or [value]
//	Verify       Kids = [expr]
//	Block        Kids = statements
type Node struct {
	Kind    Kind
	Pos     Pos
	Int     int64
	Bytes   []byte
	Name    string
	Op      string
	Names   []string
	Mutable bool
	First   bool
	Kids    []NodeID
}

func (n *Node) Left() NodeID    { return n.Kids[0] }
func (n *Node) Right() NodeID   { return n.Kids[1] }
func (n *Node) Operand() NodeID { return n.Kids[0] }
func (n *Node) Value() NodeID   { return n.Kids[0] }
func (n *Node) Cond() NodeID    { return n.Kids[0] }
func (n *Node) Then() NodeID    { return n.Kids[1] }
func (n *Node) Body() NodeID    { return n.Kids[0] }

// Else returns the else block of an If node, or None.
func (n *Node) Else() NodeID {
	if len(n.Kids) < 3 {
		return None
	}
	return n.Kids[2]
}

// IsLiteral reports whether n is an Int or Bytes node.
func (n *Node) IsLiteral() bool {
	return n.Kind == Int || n.Kind == Bytes
}

// IsStatement reports whether n can only appear as a statement.
func (n *Node) IsStatement() bool {
	switch n.Kind {
	case Assume, Assign, If, Func, Return, Verify, Block:
		return true
	}
	return false
}

// Tree is an arena of nodes.
type Tree struct {
	Nodes []Node
}

// Add appends n to t and returns its id.
func (t *Tree) Add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

// Node returns the node with the given id. Callers must not modify
// it once it is reachable from a root they have handed to the
// optimizer or lowering pass.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.Nodes) }

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.Nodes)
}
