// Package stack tracks, during lowering, which named value occupies
// each position of the runtime stack.
//
// A Model is a list of slots from the deepest tracked item to the top
// of the stack. Each slot holds the Symbol bound to it or nothing.
// Assumed items occupy the bottom of the list; everything the
// script pushes is appended above them. Depths are therefore always
// exact for as long as every emitted instruction is reported to the
// model, and become indeterminate only when two conditional branches
// leave the stack in different shapes.
package stack

import (
	"github.com/Kefkius/txsc/errors"
)

type frame struct {
	height  int
	names   []string
	unknown bool // an unbalanced conditional merged inside the scope
}

// Model is the compile-time picture of the runtime stack, together
// with the symbol table of live names.
type Model struct {
	slots    []*Symbol
	live     map[string]*Symbol
	poisoned map[string]bool
	frames   []frame

	assumed int // incoming items bound by Assume
	drawn   int // other incoming items touched by the script
	unknown bool
}

// New returns an empty model.
func New() *Model {
	return &Model{
		live:     make(map[string]*Symbol),
		poisoned: make(map[string]bool),
	}
}

// Height returns the number of tracked slots, assumed items included.
func (m *Model) Height() int { return len(m.slots) }

// Net returns the growth of the stack since the script started.
func (m *Model) Net() int { return len(m.slots) - m.assumed - m.drawn }

// Scope returns the current scope nesting level.
func (m *Model) Scope() int { return len(m.frames) }

// IsLive reports whether name is bound, poisoned or not.
func (m *Model) IsLive(name string) bool {
	_, ok := m.live[name]
	return ok
}

// Lookup returns the live symbol for name.
func (m *Model) Lookup(name string) (*Symbol, bool) {
	sym, ok := m.live[name]
	return sym, ok
}

// Declare binds name to the item on top of the stack. If name is
// already live and both it and the new declaration are mutable, the
// existing symbol is rebound instead and no new symbol is made.
func (m *Model) Declare(name string, mutable bool) (*Symbol, error) {
	if sym, ok := m.live[name]; ok {
		if sym.Mutable && mutable {
			return sym, m.Rebind(name)
		}
		return nil, errors.WithDetailf(ErrDuplicateName, "%s is already declared", name)
	}
	top, err := m.top(name)
	if err != nil {
		return nil, err
	}
	sym := &Symbol{Name: name, Kind: Value, Mutable: mutable, Scope: len(m.frames)}
	m.slots[top] = sym
	m.bind(sym)
	return sym, nil
}

// Rebind moves the binding of the mutable name to the item on top of
// the stack. The slot that held the old value becomes anonymous; the
// caller is responsible for removing it.
func (m *Model) Rebind(name string) error {
	sym, ok := m.live[name]
	if !ok {
		return errors.WithDetailf(ErrUnboundName, "assignment to undeclared %s", name)
	}
	if !sym.Mutable {
		return errors.WithDetailf(ErrDuplicateName, "%s is immutable", name)
	}
	if m.poisoned[name] {
		return errors.WithDetailf(ErrIndeterminateStackDepth, "%s after unbalanced conditional", name)
	}
	top, err := m.top(name)
	if err != nil {
		return err
	}
	if i := m.index(sym); i >= 0 {
		m.slots[i] = nil
	}
	m.slots[top] = sym
	return nil
}

// top returns the index of the anonymous top item that name is
// about to be bound to.
func (m *Model) top(name string) (int, error) {
	if len(m.slots) == 0 || m.slots[len(m.slots)-1] != nil {
		return 0, errors.WithDetailf(ErrUnbalancedScope, "no anonymous item on top to bind %s", name)
	}
	return len(m.slots) - 1, nil
}

func (m *Model) bind(sym *Symbol) {
	m.live[sym.Name] = sym
	if n := len(m.frames); n > 0 {
		m.frames[n-1].names = append(m.frames[n-1].names, sym.Name)
	}
}

func (m *Model) unbind(name string) {
	delete(m.live, name)
	delete(m.poisoned, name)
}

func (m *Model) index(sym *Symbol) int {
	for i := len(m.slots) - 1; i >= 0; i-- {
		if m.slots[i] == sym {
			return i
		}
	}
	return -1
}

// Assume binds names to items already on the stack when the script
// starts. The first name is the deepest of the group, and each
// group is placed below any previously assumed items.
func (m *Model) Assume(names ...string) ([]*Symbol, error) {
	if m.unknown || m.drawn > 0 {
		return nil, errors.WithDetailf(ErrIndeterminateStackDepth, "assumption of %v after the incoming stack was disturbed", names)
	}
	seen := make(map[string]bool)
	for _, name := range names {
		if m.IsLive(name) || seen[name] {
			return nil, errors.WithDetailf(ErrDuplicateName, "%s is already declared", name)
		}
		seen[name] = true
	}
	syms := make([]*Symbol, len(names))
	for i, name := range names {
		syms[i] = &Symbol{Name: name, Kind: Assumption, Scope: len(m.frames)}
		m.bind(syms[i])
	}
	m.slots = append(syms, m.slots...)
	m.assumed += len(syms)
	for i := range m.frames {
		m.frames[i].height += len(syms)
	}
	return syms, nil
}

// DepthOf returns the current depth of name, 0 being the top item.
func (m *Model) DepthOf(name string) (int, error) {
	sym, ok := m.live[name]
	if !ok {
		return 0, errors.WithDetailf(ErrUnboundName, "%s is not declared", name)
	}
	if m.poisoned[name] {
		return 0, errors.WithDetailf(ErrIndeterminateStackDepth, "%s is referenced after a conditional with unbalanced branches", name)
	}
	i := m.index(sym)
	if i < 0 {
		return 0, errors.WithDetailf(ErrUnboundName, "%s is no longer on the stack", name)
	}
	return len(m.slots) - 1 - i, nil
}

// RecordEffect applies a net stack effect: positive values push
// anonymous items, negative values pop the topmost items. Popping a
// named item unbinds its name.
func (m *Model) RecordEffect(delta int) {
	for ; delta > 0; delta-- {
		m.slots = append(m.slots, nil)
	}
	for ; delta < 0; delta++ {
		m.pop()
	}
}

// Apply records an instruction that pops pops items and pushes
// pushes items.
func (m *Model) Apply(pops, pushes int) {
	m.RecordEffect(-pops)
	m.RecordEffect(pushes)
}

func (m *Model) pop() {
	m.draw(1)
	top := m.slots[len(m.slots)-1]
	m.slots = m.slots[:len(m.slots)-1]
	if top != nil {
		m.unbind(top.Name)
	}
}

// Roll moves the item at depth to the top of the stack, as ROLL does
// once its depth argument has been popped. Items deeper than the
// tracked slots are drawn in as anonymous incoming items.
func (m *Model) Roll(depth int) {
	m.draw(depth + 1)
	i := len(m.slots) - 1 - depth
	sym := m.slots[i]
	m.slots = append(m.slots[:i], m.slots[i+1:]...)
	m.slots = append(m.slots, sym)
}

// Remove drops the item at depth, as "depth ROLL DROP" does.
func (m *Model) Remove(depth int) {
	m.Roll(depth)
	m.pop()
}

// Pick copies the item at depth to the top of the stack, as PICK does
// once its depth argument has been popped. The copy is anonymous.
func (m *Model) Pick(depth int) {
	m.draw(depth + 1)
	m.slots = append(m.slots, nil)
}

// draw makes sure at least n slots are tracked.
func (m *Model) draw(n int) {
	short := n - len(m.slots)
	if short <= 0 {
		return
	}
	m.slots = append(make([]*Symbol, short), m.slots...)
	m.drawn += short
	for i := range m.frames {
		m.frames[i].height += short
	}
}

// Determinate reports whether the height of the stack within the
// innermost scope, or of the whole stack outside any scope, is known.
func (m *Model) Determinate() bool {
	if n := len(m.frames); n > 0 {
		return !m.frames[n-1].unknown
	}
	return !m.unknown
}

// EnterScope opens a lexical scope, such as a function body.
func (m *Model) EnterScope() {
	m.frames = append(m.frames, frame{height: len(m.slots)})
}

// ExitScope closes the innermost scope. Names declared in it become
// unbound; items they occupied stay on the stack as anonymous items.
// The stack must have grown by exactly want items since the scope
// was entered.
func (m *Model) ExitScope(want int) error {
	if len(m.frames) == 0 {
		return errors.WithDetail(ErrUnbalancedScope, "no open scope")
	}
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	if f.unknown {
		return errors.WithDetail(ErrUnbalancedScope, "scope height is unknown after an unbalanced conditional")
	}
	for _, name := range f.names {
		sym, ok := m.live[name]
		if !ok {
			continue
		}
		if i := m.index(sym); i >= 0 {
			m.slots[i] = nil
		}
		m.unbind(name)
	}
	if got := len(m.slots) - f.height; got != want {
		return errors.WithDetailf(ErrUnbalancedScope, "scope left %+d items, want %+d", got, want)
	}
	return nil
}

// ScopeGrowth returns how many items the stack has grown by since
// the innermost scope was entered.
func (m *Model) ScopeGrowth() int {
	if len(m.frames) == 0 {
		return m.Net()
	}
	return len(m.slots) - m.frames[len(m.frames)-1].height
}

// Checkpoint returns a copy of m that Restore can return to.
func (m *Model) Checkpoint() *Model {
	return m.clone()
}

// Restore resets m to the state saved in cp.
func (m *Model) Restore(cp *Model) {
	*m = *cp.clone()
}

func (m *Model) clone() *Model {
	c := &Model{
		slots:    append([]*Symbol(nil), m.slots...),
		live:     make(map[string]*Symbol, len(m.live)),
		poisoned: make(map[string]bool, len(m.poisoned)),
		frames:   make([]frame, len(m.frames)),
		assumed:  m.assumed,
		drawn:    m.drawn,
		unknown:  m.unknown,
	}
	for k, v := range m.live {
		c.live[k] = v
	}
	for k, v := range m.poisoned {
		c.poisoned[k] = v
	}
	for i, f := range m.frames {
		c.frames[i] = frame{height: f.height, names: append([]string(nil), f.names...), unknown: f.unknown}
	}
	return c
}

// Fork returns independent copies of m for the two arms of a
// conditional.
func (m *Model) Fork() (then, els *Model) {
	return m.clone(), m.clone()
}

// Merge replaces m with the join of two forked branches and reports
// whether they left the stack with the same shape.
//
// When they did, a name remains referenceable only if both branches
// hold it at the same position. When they did not, every name is
// poisoned and the stack height is no longer known, so later
// references fail with ErrIndeterminateStackDepth.
func (m *Model) Merge(then, els *Model) bool {
	balanced := len(then.slots) == len(els.slots) && then.drawn == els.drawn && then.assumed == els.assumed
	merged := then.clone()
	for name, sym := range els.live {
		if _, ok := merged.live[name]; ok {
			continue
		}
		merged.live[name] = sym
		merged.poisoned[name] = true
		if n := len(merged.frames); n > 0 {
			merged.frames[n-1].names = append(merged.frames[n-1].names, name)
		}
	}
	for name := range els.poisoned {
		merged.poisoned[name] = true
	}
	if !balanced {
		for name := range merged.live {
			merged.poisoned[name] = true
		}
		merged.unknown = true
		if n := len(merged.frames); n > 0 {
			merged.frames[n-1].unknown = true
		}
	} else {
		for name, sym := range then.live {
			esym, ok := els.live[name]
			if !ok || then.index(sym) != els.index(esym) {
				merged.poisoned[name] = true
			}
		}
		merged.unknown = then.unknown || els.unknown
		if n := len(merged.frames); n > 0 && n == len(els.frames) && els.frames[n-1].unknown {
			merged.frames[n-1].unknown = true
		}
		if els.drawn > merged.drawn {
			merged.drawn = els.drawn
		}
	}
	*m = *merged
	return balanced
}
