package structural

// Builder assembles a Tree. Nodes it creates carry the line most
// recently set with Line; Block numbers its statements.
type Builder struct {
	tree *Tree
	line int
}

// NewBuilder returns a Builder writing into a new Tree.
func NewBuilder() *Builder {
	return &Builder{tree: new(Tree)}
}

// Tree returns the tree built so far.
func (b *Builder) Tree() *Tree { return b.tree }

// Line sets the source line for nodes created after the call.
func (b *Builder) Line(line int) *Builder {
	b.line = line
	return b
}

func (b *Builder) add(n Node) NodeID {
	n.Pos.Line = b.line
	return b.tree.Add(n)
}

func (b *Builder) Int(n int64) NodeID {
	return b.add(Node{Kind: Int, Int: n})
}

func (b *Builder) Bytes(data []byte) NodeID {
	return b.add(Node{Kind: Bytes, Bytes: append([]byte{}, data...)})
}

func (b *Builder) Name(name string) NodeID {
	return b.add(Node{Kind: Name, Name: name})
}

// Binary adds a binary operation such as "ADD" or "EQUAL".
func (b *Builder) Binary(op string, left, right NodeID) NodeID {
	return b.add(Node{Kind: Binary, Op: op, Kids: []NodeID{left, right}})
}

// Unary adds a unary operation such as "NOT" or "HASH160".
func (b *Builder) Unary(op string, x NodeID) NodeID {
	return b.add(Node{Kind: Unary, Op: op, Kids: []NodeID{x}})
}

// Builtin adds a call of the named builtin function.
func (b *Builder) Builtin(name string, args ...NodeID) NodeID {
	return b.add(Node{Kind: Builtin, Name: name, Kids: ids(args)})
}

// Call adds an invocation of a user-defined function.
func (b *Builder) Call(name string, args ...NodeID) NodeID {
	return b.add(Node{Kind: Call, Name: name, Kids: ids(args)})
}

// Assume declares names for items already on the stack, deepest first.
func (b *Builder) Assume(names ...string) NodeID {
	return b.add(Node{Kind: Assume, Names: append([]string(nil), names...)})
}

// Let declares an immutable name.
func (b *Builder) Let(name string, value NodeID) NodeID {
	return b.add(Node{Kind: Assign, Name: name, First: true, Kids: []NodeID{value}})
}

// Var declares a mutable name.
func (b *Builder) Var(name string, value NodeID) NodeID {
	return b.add(Node{Kind: Assign, Name: name, Mutable: true, First: true, Kids: []NodeID{value}})
}

// Set assigns a new value to an existing mutable name.
func (b *Builder) Set(name string, value NodeID) NodeID {
	return b.add(Node{Kind: Assign, Name: name, Mutable: true, Kids: []NodeID{value}})
}

// If adds a conditional. els may be None.
func (b *Builder) If(cond, then, els NodeID) NodeID {
	kids := []NodeID{cond, then}
	if els != None {
		kids = append(kids, els)
	}
	return b.add(Node{Kind: If, Kids: kids})
}

// Inner adds an inner script built from args.
func (b *Builder) Inner(args ...NodeID) NodeID {
	return b.add(Node{Kind: InnerScript, Kids: ids(args)})
}

// Func defines a function.
func (b *Builder) Func(name string, params []string, body NodeID) NodeID {
	return b.add(Node{Kind: Func, Name: name, Names: append([]string(nil), params...), Kids: []NodeID{body}})
}

// Return adds a bare return statement.
func (b *Builder) Return() NodeID {
	return b.add(Node{Kind: Return})
}

// ReturnValue adds a return of value from a function body.
func (b *Builder) ReturnValue(value NodeID) NodeID {
	return b.add(Node{Kind: Return, Kids: []NodeID{value}})
}

func (b *Builder) Verify(x NodeID) NodeID {
	return b.add(Node{Kind: Verify, Kids: []NodeID{x}})
}

// Block groups statements and records each one's index.
func (b *Builder) Block(stmts ...NodeID) NodeID {
	for i, s := range stmts {
		b.tree.Nodes[s].Pos.Stmt = i
	}
	return b.add(Node{Kind: Block, Kids: ids(stmts)})
}

func ids(a []NodeID) []NodeID {
	if len(a) == 0 {
		return nil
	}
	return append([]NodeID(nil), a...)
}
