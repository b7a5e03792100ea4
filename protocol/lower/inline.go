package lower

import (
	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/stack"
	"github.com/Kefkius/txsc/protocol/structural"
)

// define registers a function. No instructions are emitted until
// it is called.
func (l *lowerer) define(id structural.NodeID) error {
	n := l.tree.Node(id)
	if IsBuiltin(n.Name) {
		return errors.WithDetailf(stack.ErrDuplicateName, "function %s shadows a builtin", n.Name)
	}
	if _, ok := l.funcs[n.Name]; ok {
		return errors.WithDetailf(stack.ErrDuplicateName, "function %s is already defined", n.Name)
	}
	seen := make(map[string]bool)
	for _, p := range n.Names {
		if seen[p] {
			return errors.WithDetailf(stack.ErrDuplicateName, "parameter %s of %s", p, n.Name)
		}
		seen[p] = true
	}
	l.funcs[n.Name] = id
	return nil
}

// call inlines a function body. The body is lowered in its own scope;
// whatever it leaves on the stack besides its return value is
// removed before the scope closes, so a call nets one item if the
// body ends by returning a value and none otherwise.
func (l *lowerer) call(n *structural.Node) (err error) {
	fid, ok := l.funcs[n.Name]
	if !ok {
		return errors.WithDetailf(stack.ErrUnboundName, "function %s is not defined", n.Name)
	}
	fn := l.tree.Node(fid)
	if len(n.Kids) != len(fn.Names) {
		return errors.WithDetailf(ErrUnsupportedFeature, "%s takes %d arguments, got %d", n.Name, len(fn.Names), len(n.Kids))
	}
	if l.recursive(n.Name) {
		return errors.WithDetailf(ErrUnsupportedFeature, "%s calls itself", n.Name)
	}

	args := make(map[string]structural.NodeID, len(fn.Names))
	for i, p := range fn.Names {
		args[p] = n.Kids[i]
	}
	body := l.tree.Substitute(fn.Body(), args)
	opts := l.opts.Structural
	opts.Assumed = func(name string) bool {
		sym, ok := l.model.Lookup(name)
		return ok && sym.Kind == stack.Assumption
	}
	body, _, err = structural.Optimize(l.tree, body, opts)
	if err != nil {
		return err
	}

	cp := l.model.Checkpoint()
	defer func() {
		if err != nil {
			l.model.Restore(cp)
		}
	}()
	l.inFunc++
	defer func() { l.inFunc-- }()

	l.model.EnterScope()
	stmts := l.tree.Node(body).Kids
	want := 0
	for i, s := range stmts {
		sn := l.tree.Node(s)
		if i > 0 && l.tree.Node(stmts[i-1]).Kind == structural.Return {
			return inStmt(at(errors.WithDetailf(ErrUnreachableCode, "statement after return in %s", n.Name), sn), i)
		}
		if sn.Kind == structural.Return && len(sn.Kids) > 0 {
			if i != len(stmts)-1 {
				continue // reported as unreachable on the next statement
			}
			if err := l.expr(sn.Value()); err != nil {
				return inStmt(at(err, sn), i)
			}
			want = 1
			continue
		}
		if err := l.lower(s); err != nil {
			return inStmt(err, i)
		}
	}

	if !l.model.Determinate() {
		return errors.WithDetailf(stack.ErrIndeterminateStackDepth, "%s has conditional branches with different stack effects", n.Name)
	}
	extra := l.model.ScopeGrowth() - want
	if extra < 0 {
		return errors.WithDetailf(stack.ErrUnbalancedScope, "%s consumed %d items it does not own", n.Name, -extra)
	}
	for ; extra > 0; extra-- {
		l.remove(want)
	}
	return l.model.ExitScope(want)
}

// returnsValue reports whether the body of the function defined at
// fid ends by returning a value.
func (l *lowerer) returnsValue(fid structural.NodeID) bool {
	stmts := l.tree.Node(l.tree.Node(fid).Body()).Kids
	if len(stmts) == 0 {
		return false
	}
	last := l.tree.Node(stmts[len(stmts)-1])
	return last.Kind == structural.Return && len(last.Kids) > 0
}

// recursive reports whether the body of the named function can reach
// a call of that function again, directly or through other functions.
// Calls inside the arguments of a call are not part of its body, so
// f(f(1)) is allowed.
func (l *lowerer) recursive(name string) bool {
	seen := make(map[string]bool)
	var reaches func(id structural.NodeID) bool
	reaches = func(id structural.NodeID) bool {
		n := l.tree.Node(id)
		if n.Kind == structural.Call {
			if n.Name == name {
				return true
			}
			if fid, ok := l.funcs[n.Name]; ok && !seen[n.Name] {
				seen[n.Name] = true
				if reaches(l.tree.Node(fid).Body()) {
					return true
				}
			}
		}
		for _, k := range n.Kids {
			if reaches(k) {
				return true
			}
		}
		return false
	}
	return reaches(l.tree.Node(l.funcs[name]).Body())
}
