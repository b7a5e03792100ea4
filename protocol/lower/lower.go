// Package lower turns a structural tree into the linear instruction
// sequence for the Bitcoin script machine.
//
// Lowering is a single pre-order walk. Every emitted instruction is
// reported to a stack.Model, so that by the time a name is referenced
// the model knows exactly how deep its value sits and the reference
// can become a PICK of that depth.
//
// Functions are not compiled to callable units. Each call inlines a
// copy of the function body with the call's arguments substituted for
// its parameters.
package lower

import (
	"context"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/linear"
	"github.com/Kefkius/txsc/protocol/script"
	"github.com/Kefkius/txsc/protocol/stack"
	"github.com/Kefkius/txsc/protocol/structural"
)

// Options controls the optimizations lowering applies to the code it
// generates itself: inlined function bodies and inner scripts.
type Options struct {
	// Structural is applied to each inlined function body after its
	// arguments are substituted. Its Assumed field is ignored.
	Structural structural.Options
	// Peephole optimizes each inner script before it is embedded.
	Peephole bool
}

type lowerer struct {
	ctx   context.Context
	tree  *structural.Tree
	model *stack.Model
	opts  Options

	out     []linear.Instruction
	symbols []linear.Symbol

	funcs  map[string]structural.NodeID // name -> Func node
	inFunc int
}

// Lower lowers the program at root using m as the initial stack
// model. On success the model reflects the stack at the end of the
// program. On failure no container is returned.
func Lower(ctx context.Context, t *structural.Tree, root structural.NodeID, m *stack.Model, opts Options) (*linear.Container, error) {
	if err := t.Validate(root); err != nil {
		return nil, err
	}
	l := newLowerer(ctx, t, m, opts)
	if err := l.lower(root); err != nil {
		return nil, err
	}
	c := linear.NewContainer(l.out...)
	c.Symbols = l.symbols
	return c, nil
}

func newLowerer(ctx context.Context, t *structural.Tree, m *stack.Model, opts Options) *lowerer {
	return &lowerer{
		ctx:   ctx,
		tree:  t,
		model: m,
		opts:  opts,
		funcs: make(map[string]structural.NodeID),
	}
}

// at attaches the name and source line of n to err unless a more
// deeply nested node already did.
func at(err error, n *structural.Node) error {
	if err == nil {
		return nil
	}
	data := errors.Data(err)
	var kv []interface{}
	if _, ok := data["name"]; !ok && n.Name != "" {
		kv = append(kv, "name", n.Name)
	}
	if _, ok := data["line"]; !ok && n.Pos.Line > 0 {
		kv = append(kv, "line", n.Pos.Line)
	}
	if len(kv) == 0 {
		return err
	}
	return errors.WithData(err, kv...)
}

// inStmt records the index of the innermost statement that failed.
func inStmt(err error, i int) error {
	if _, ok := errors.Data(err)["stmt"]; ok {
		return err
	}
	return errors.WithData(err, "stmt", i)
}

func (l *lowerer) lower(id structural.NodeID) error {
	n := l.tree.Node(id)
	switch n.Kind {
	case structural.Block:
		return l.block(n)
	case structural.Assume:
		return at(l.assume(n), n)
	case structural.Assign:
		return at(l.assign(n), n)
	case structural.If:
		return at(l.cond(n), n)
	case structural.Func:
		return at(l.define(id), n)
	case structural.Return:
		if len(n.Kids) > 0 {
			return at(errors.WithDetail(ErrUnsupportedFeature, "return with a value outside a function body"), n)
		}
		l.op(script.OP_RETURN)
		return nil
	case structural.Verify:
		if err := l.expr(n.Kids[0]); err != nil {
			return at(err, n)
		}
		l.op(script.OP_VERIFY)
		return nil
	case structural.Call:
		// As a statement, a call need not produce a value.
		return at(l.call(n), n)
	}
	return at(l.expr(id), n)
}

func (l *lowerer) block(n *structural.Node) error {
	for i, s := range n.Kids {
		if i > 0 && l.tree.Node(n.Kids[i-1]).Kind == structural.Return {
			return inStmt(at(errors.WithDetail(ErrUnreachableCode, "statement after return"), l.tree.Node(s)), i)
		}
		if err := l.lower(s); err != nil {
			return inStmt(err, i)
		}
	}
	return nil
}

func (l *lowerer) expr(id structural.NodeID) error {
	n := l.tree.Node(id)
	switch n.Kind {
	case structural.Int:
		l.push(linear.PushInt(n.Int))
	case structural.Bytes:
		l.push(linear.Push(n.Bytes))
	case structural.Name:
		depth, err := l.model.DepthOf(n.Name)
		if err != nil {
			return at(err, n)
		}
		l.pick(depth)
	case structural.Binary, structural.Unary:
		for _, k := range n.Kids {
			if err := l.expr(k); err != nil {
				return err
			}
		}
		ops, ok := operatorOps(n)
		if !ok {
			return at(errors.WithDetailf(ErrUnsupportedFeature, "operator %s", n.Op), n)
		}
		for _, op := range ops {
			l.op(op)
		}
	case structural.Builtin:
		return at(l.builtin(n), n)
	case structural.Call:
		if fid, ok := l.funcs[n.Name]; ok && !l.returnsValue(fid) {
			return at(errors.WithDetailf(ErrUnsupportedFeature, "%s returns no value", n.Name), n)
		}
		return at(l.call(n), n)
	case structural.InnerScript:
		return at(l.inner(n), n)
	default:
		return at(errors.WithDetailf(ErrUnsupportedFeature, "%s used as an expression", n.Kind), n)
	}
	return nil
}

func operatorOps(n *structural.Node) ([]script.Op, bool) {
	var (
		s  string
		ok bool
	)
	if n.Kind == structural.Binary {
		s, ok = binaryOps[n.Op]
	} else {
		s, ok = unaryOps[n.Op]
	}
	if !ok {
		return nil, false
	}
	return parsedOps[s], true
}

// push emits a data push.
func (l *lowerer) push(in linear.Instruction) {
	l.out = append(l.out, in)
	l.model.RecordEffect(1)
}

// op emits an opcode with a static stack effect.
func (l *lowerer) op(op script.Op) {
	l.out = append(l.out, linear.Op(op))
	pops, pushes, ok := op.StackEffect()
	if !ok {
		panic("lower: op called with dynamic opcode " + op.String())
	}
	l.model.Apply(pops, pushes)
}

// pick copies the item at depth to the top of the stack.
func (l *lowerer) pick(depth int) {
	l.out = append(l.out, linear.PushInt(int64(depth)), linear.Op(script.OP_PICK))
	l.model.Pick(depth)
}

// remove drops the item at depth from the stack.
func (l *lowerer) remove(depth int) {
	l.out = append(l.out, linear.PushInt(int64(depth)), linear.Op(script.OP_ROLL), linear.Op(script.OP_DROP))
	l.model.Remove(depth)
}

func (l *lowerer) assume(n *structural.Node) error {
	if l.inFunc > 0 {
		return errors.WithDetail(ErrUnsupportedFeature, "assume inside a function body")
	}
	syms, err := l.model.Assume(n.Names...)
	if err != nil {
		return err
	}
	for _, sym := range syms {
		l.record(sym)
	}
	return nil
}

func (l *lowerer) record(sym *stack.Symbol) {
	depth, err := l.model.DepthOf(sym.Name)
	if err != nil {
		return
	}
	l.symbols = append(l.symbols, linear.Symbol{Name: sym.Name, Kind: sym.Kind.String(), Depth: depth})
}

func (l *lowerer) assign(n *structural.Node) error {
	if IsBuiltin(n.Name) {
		return errors.WithDetailf(stack.ErrDuplicateName, "%s is a builtin", n.Name)
	}
	rebind := !n.First || (n.Mutable && l.model.IsLive(n.Name))
	if rebind {
		// Fail before emitting anything for the value.
		if sym, ok := l.model.Lookup(n.Name); ok && !sym.Mutable {
			return errors.WithDetailf(stack.ErrDuplicateName, "%s is immutable", n.Name)
		}
	}
	if err := l.expr(n.Value()); err != nil {
		return err
	}
	if !rebind {
		sym, err := l.model.Declare(n.Name, n.Mutable)
		if err != nil {
			return err
		}
		l.record(sym)
		return nil
	}
	old, err := l.model.DepthOf(n.Name)
	if err != nil {
		return err
	}
	if err := l.model.Rebind(n.Name); err != nil {
		return err
	}
	l.remove(old)
	return nil
}

func (l *lowerer) cond(n *structural.Node) error {
	if err := l.expr(n.Cond()); err != nil {
		return err
	}
	l.op(script.OP_IF)

	parent := l.model
	then, els := parent.Fork()
	defer func() { l.model = parent }()

	l.model = then
	if err := l.lower(n.Then()); err != nil {
		return err
	}
	if e := n.Else(); e != structural.None {
		l.op(script.OP_ELSE)
		l.model = els
		if err := l.lower(e); err != nil {
			return err
		}
	}
	l.op(script.OP_ENDIF)
	parent.Merge(then, els)
	return nil
}

func (l *lowerer) inner(n *structural.Node) error {
	var prog []byte
	for _, arg := range n.Kids {
		sub := newLowerer(l.ctx, l.tree, stack.New(), l.opts)
		sub.funcs = l.funcs
		if err := sub.expr(arg); err != nil {
			return err
		}
		instrs := sub.out
		if l.opts.Peephole {
			instrs, _ = linear.Rewrite(instrs)
		}
		prog = append(prog, linear.Encode(instrs)...)
	}
	l.push(linear.Push(prog))
	return nil
}

func (l *lowerer) builtin(n *structural.Node) error {
	b, ok := builtinsByName[n.Name]
	if !ok {
		return errors.WithDetailf(ErrUnsupportedFeature, "no builtin %s", n.Name)
	}
	if err := b.checkArgs(l.tree, n.Kids); err != nil {
		return err
	}
	if b.arity == variadic {
		l.push(linear.PushInt(0)) // consumed by CHECKMULTISIG's off-by-one
	}
	for _, k := range n.Kids {
		if err := l.expr(k); err != nil {
			return err
		}
	}
	for _, op := range b.ops {
		if op.Dynamic() {
			// Only the multisig checks are dynamic; they consume the
			// dummy item and every argument.
			l.out = append(l.out, linear.Op(op))
			pushes := 0
			if op == script.OP_CHECKMULTISIG {
				pushes = 1
			}
			l.model.Apply(len(n.Kids)+1, pushes)
			continue
		}
		l.op(op)
	}
	return nil
}
