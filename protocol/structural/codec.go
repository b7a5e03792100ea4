package structural

import (
	"encoding/hex"
	"encoding/json"

	"github.com/Kefkius/txsc/errors"
)

// jsonNode is the external form of a Node. Children nest instead of
// being addressed by id.
type jsonNode struct {
	Kind    string      `json:"kind"`
	Int     *int64      `json:"int,omitempty"`
	Hex     string      `json:"hex,omitempty"`
	Name    string      `json:"name,omitempty"`
	Op      string      `json:"op,omitempty"`
	Names   []string    `json:"names,omitempty"`
	Mutable bool        `json:"mutable,omitempty"`
	First   bool        `json:"first,omitempty"`
	Args    []*jsonNode `json:"args,omitempty"`
	Line    int         `json:"line,omitempty"`
}

// Encode renders the subtree at root as JSON.
func Encode(t *Tree, root NodeID) ([]byte, error) {
	if err := t.Validate(root); err != nil {
		return nil, err
	}
	return json.MarshalIndent(t.toJSON(root), "", "  ")
}

func (t *Tree) toJSON(id NodeID) *jsonNode {
	n := t.Node(id)
	j := &jsonNode{
		Kind:    n.Kind.String(),
		Name:    n.Name,
		Op:      n.Op,
		Names:   n.Names,
		Mutable: n.Mutable,
		First:   n.First,
		Line:    n.Pos.Line,
	}
	switch n.Kind {
	case Int:
		v := n.Int
		j.Int = &v
	case Bytes:
		j.Hex = hex.EncodeToString(n.Bytes)
	}
	for _, k := range n.Kids {
		j.Args = append(j.Args, t.toJSON(k))
	}
	return j
}

// Decode parses the JSON produced by Encode into a new tree and
// returns it with the id of its root.
func Decode(data []byte) (*Tree, NodeID, error) {
	var j jsonNode
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, None, errors.Sub(ErrMalformedTree, err)
	}
	t := new(Tree)
	root, err := t.fromJSON(&j, 0)
	if err != nil {
		return nil, None, err
	}
	if err := t.Validate(root); err != nil {
		return nil, None, err
	}
	return t, root, nil
}

func (t *Tree) fromJSON(j *jsonNode, stmt int) (NodeID, error) {
	if j == nil {
		return None, errors.WithDetail(ErrMalformedTree, "null node")
	}
	kind, ok := kindByName(j.Kind)
	if !ok {
		return None, errors.WithDetailf(ErrMalformedTree, "unknown kind %q", j.Kind)
	}
	n := Node{
		Kind:    kind,
		Pos:     Pos{Stmt: stmt, Line: j.Line},
		Name:    j.Name,
		Op:      j.Op,
		Names:   j.Names,
		Mutable: j.Mutable,
		First:   j.First,
	}
	switch kind {
	case Int:
		if j.Int == nil {
			return None, errors.WithDetail(ErrMalformedTree, "int node without a value")
		}
		n.Int = *j.Int
	case Bytes:
		b, err := hex.DecodeString(j.Hex)
		if err != nil {
			return None, errors.Sub(ErrMalformedTree, err)
		}
		n.Bytes = b
	}
	for i, a := range j.Args {
		childStmt := stmt
		if kind == Block {
			childStmt = i
		}
		id, err := t.fromJSON(a, childStmt)
		if err != nil {
			return None, err
		}
		n.Kids = append(n.Kids, id)
	}
	return t.Add(n), nil
}
