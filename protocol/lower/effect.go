package lower

import (
	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/stack"
	"github.com/Kefkius/txsc/protocol/structural"
)

// Effect returns the net number of items the code lowered from node
// id leaves on the stack, computed from the tree alone. Calls are
// resolved against the Func nodes in t.
//
// A conditional whose branches have different effects has no static
// effect; Effect reports ErrIndeterminateStackDepth for it.
func Effect(t *structural.Tree, id structural.NodeID) (int, error) {
	funcs := make(map[string]structural.NodeID)
	for i := range t.Nodes {
		if t.Nodes[i].Kind == structural.Func {
			funcs[t.Nodes[i].Name] = structural.NodeID(i)
		}
	}
	e := &effects{tree: t, funcs: funcs}
	return e.of(id)
}

type effects struct {
	tree  *structural.Tree
	funcs map[string]structural.NodeID
}

func (e *effects) sum(ids []structural.NodeID) (int, error) {
	total := 0
	for _, id := range ids {
		n, err := e.of(id)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (e *effects) of(id structural.NodeID) (int, error) {
	n := e.tree.Node(id)
	switch n.Kind {
	case structural.Int, structural.Bytes, structural.Name, structural.InnerScript:
		return 1, nil

	case structural.Assume, structural.Func:
		return 0, nil

	case structural.Binary, structural.Unary:
		ops, ok := operatorOps(n)
		if !ok {
			return 0, errors.WithDetailf(ErrUnsupportedFeature, "operator %s", n.Op)
		}
		args, err := e.sum(n.Kids)
		return args + opsEffect(ops), err

	case structural.Builtin:
		b, ok := builtinsByName[n.Name]
		if !ok {
			return 0, errors.WithDetailf(ErrUnsupportedFeature, "no builtin %s", n.Name)
		}
		args, err := e.sum(n.Kids)
		return args - len(n.Kids) + b.effect(len(n.Kids)), err

	case structural.Call:
		fid, ok := e.funcs[n.Name]
		if !ok {
			return 0, errors.WithDetailf(stack.ErrUnboundName, "function %s is not defined", n.Name)
		}
		stmts := e.tree.Node(e.tree.Node(fid).Body()).Kids
		if len(stmts) > 0 {
			last := e.tree.Node(stmts[len(stmts)-1])
			if last.Kind == structural.Return && len(last.Kids) > 0 {
				return 1, nil
			}
		}
		return 0, nil

	case structural.Assign:
		v, err := e.of(n.Value())
		if err != nil {
			return 0, err
		}
		if !n.First {
			v-- // the old value is removed
		}
		return v, nil

	case structural.If:
		cond, err := e.of(n.Cond())
		if err != nil {
			return 0, err
		}
		then, err := e.of(n.Then())
		if err != nil {
			return 0, err
		}
		els := 0
		if n.Else() != structural.None {
			els, err = e.of(n.Else())
			if err != nil {
				return 0, err
			}
		}
		if then != els {
			return 0, errors.WithDetailf(stack.ErrIndeterminateStackDepth, "branches leave %+d and %+d items", then, els)
		}
		return cond - 1 + then, nil

	case structural.Return:
		if len(n.Kids) > 0 {
			return e.of(n.Value())
		}
		return 0, nil

	case structural.Verify:
		v, err := e.of(n.Kids[0])
		return v - 1, err

	case structural.Block:
		return e.sum(n.Kids)
	}
	return 0, errors.WithDetailf(ErrUnsupportedFeature, "no stack effect for %s", n.Kind)
}
