package structural

// Options selects the structural rewrites Optimize performs.
type Options struct {
	// Commute moves assumed operands of commutative operators to the
	// left and mirrors ordering comparisons to do the same.
	Commute bool
	// FoldConstants replaces operations on literals with their value.
	FoldConstants bool
	// Assumed reports whether a name refers to an assumed stack item.
	// If nil, the names of the Assume statements under the root are
	// used.
	Assumed func(name string) bool
}

// Stats counts the rewrites made by Optimize.
type Stats struct {
	Reordered int
	Folded    int
}

type optimizer struct {
	tree    *Tree
	opts    Options
	assumed func(string) bool
	stats   Stats
	changed bool
}

// Optimize rewrites the subtree at root bottom-up, repeating until a
// pass changes nothing, and returns the new root. Nodes already in t
// are never modified: rewritten nodes are appended to t and share
// all unchanged children.
func Optimize(t *Tree, root NodeID, opts Options) (NodeID, Stats, error) {
	o := &optimizer{tree: t, opts: opts, assumed: opts.Assumed}
	if o.assumed == nil {
		names := t.AssumedNames(root)
		o.assumed = func(name string) bool { return names[name] }
	}
	for {
		o.changed = false
		id, err := o.rewrite(root)
		if err != nil {
			return None, o.stats, err
		}
		root = id
		if !o.changed {
			return root, o.stats, nil
		}
	}
}

func (o *optimizer) rewrite(id NodeID) (NodeID, error) {
	// Copy: appending to the arena may move the node.
	n := *o.tree.Node(id)
	if len(n.Kids) == 0 {
		return id, nil
	}
	changed := false
	kids := make([]NodeID, len(n.Kids))
	for i, k := range n.Kids {
		nk, err := o.rewrite(k)
		if err != nil {
			return None, err
		}
		kids[i] = nk
		changed = changed || nk != k
	}
	n.Kids = kids

	if n.Kind == Binary && o.opts.Commute && o.reorder(&n) {
		o.stats.Reordered++
		changed = true
	}
	if o.opts.FoldConstants && (n.Kind == Binary || n.Kind == Unary) {
		lit, ok, err := o.fold(&n)
		if err != nil {
			return None, err
		}
		if ok {
			o.stats.Folded++
			o.changed = true
			return o.tree.Add(lit), nil
		}
	}
	if !changed {
		return id, nil
	}
	o.changed = true
	return o.tree.Add(n), nil
}

// reorder puts an assumed operand on the left of n when only the right
// operand leads with an assumed value.
func (o *optimizer) reorder(n *Node) bool {
	info := binaryOps[n.Op]
	if !info.commutative && info.mirror == "" {
		return false
	}
	if o.leads(n.Kids[0]) || !o.leads(n.Kids[1]) {
		return false
	}
	n.Kids[0], n.Kids[1] = n.Kids[1], n.Kids[0]
	if info.mirror != "" {
		n.Op = info.mirror
	}
	return true
}

// leads reports whether the first value evaluated for id is an
// assumed name, so that (a + 2) counts as assumed in ((a + 2) + 3).
func (o *optimizer) leads(id NodeID) bool {
	n := o.tree.Node(id)
	switch n.Kind {
	case Name:
		return o.assumed(n.Name)
	case Binary, Unary:
		return o.leads(n.Kids[0])
	}
	return false
}

// AssumedNames returns the names declared by Assume statements in
// the subtree at root.
func (t *Tree) AssumedNames(root NodeID) map[string]bool {
	names := make(map[string]bool)
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := t.Node(id)
		if n.Kind == Assume {
			for _, name := range n.Names {
				names[name] = true
			}
		}
		for _, k := range n.Kids {
			walk(k)
		}
	}
	walk(root)
	return names
}

// Substitute returns the subtree at id with each Name node bound in
// args replaced by its argument. Subtrees without a substitution are
// shared with the original.
func (t *Tree) Substitute(id NodeID, args map[string]NodeID) NodeID {
	n := *t.Node(id)
	if n.Kind == Name {
		if a, ok := args[n.Name]; ok {
			return a
		}
		return id
	}
	changed := false
	kids := make([]NodeID, len(n.Kids))
	for i, k := range n.Kids {
		kids[i] = t.Substitute(k, args)
		changed = changed || kids[i] != k
	}
	if !changed {
		return id
	}
	n.Kids = kids
	return t.Add(n)
}
