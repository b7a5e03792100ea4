package stack

// Kind distinguishes assumed stack items from values produced by the
// script itself.
type Kind int

const (
	// Value is a name bound to an item the script pushed.
	Value Kind = iota
	// Assumption is a name bound to an item already on the stack
	// when the script starts.
	Assumption
)

func (k Kind) String() string {
	switch k {
	case Assumption:
		return "assumption"
	case Value:
		return "value"
	}
	return "unknown"
}

// Symbol is a declared name. Its position is not stored here: a
// symbol is bound to whichever Model slot holds it, so its depth
// moves as the model's stack changes.
type Symbol struct {
	Name    string
	Kind    Kind
	Mutable bool
	// Scope is the nesting level of the declaring scope;
	// 0 is the script's top level.
	Scope int
}
