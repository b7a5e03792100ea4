package linear

import "fmt"

// Symbol describes a name bound during lowering, for tools that show
// symbolic output alongside the instructions.
type Symbol struct {
	Name  string
	Kind  string
	Depth int
}

// Container is the ordered instruction sequence produced by lowering.
// It is mutated by the peephole optimizer and becomes immutable
// once frozen.
type Container struct {
	instrs  []Instruction
	Symbols []Symbol
	frozen  bool
}

// NewContainer returns a container holding a copy of instrs.
func NewContainer(instrs ...Instruction) *Container {
	return &Container{instrs: append([]Instruction(nil), instrs...)}
}

// Append adds instructions to the end of c.
func (c *Container) Append(instrs ...Instruction) error {
	if c.frozen {
		return ErrFrozen
	}
	c.instrs = append(c.instrs, instrs...)
	return nil
}

// Replace substitutes repl for the instructions in [i, j).
// It panics if the range is out of bounds.
func (c *Container) Replace(i, j int, repl ...Instruction) error {
	if c.frozen {
		return ErrFrozen
	}
	if i < 0 || j > len(c.instrs) || i > j {
		panic(fmt.Sprintf("replace range [%d, %d) outside %d instructions", i, j, len(c.instrs)))
	}
	tail := append([]Instruction(nil), c.instrs[j:]...)
	c.instrs = append(append(c.instrs[:i], repl...), tail...)
	return nil
}

// Len returns the number of instructions in c.
func (c *Container) Len() int { return len(c.instrs) }

// At returns the i'th instruction.
func (c *Container) At(i int) Instruction { return c.instrs[i] }

// Instructions returns a snapshot of c's instructions.
func (c *Container) Instructions() []Instruction {
	return append([]Instruction(nil), c.instrs...)
}

// Freeze makes c immutable.
func (c *Container) Freeze() { c.frozen = true }

// Frozen reports whether c has been frozen.
func (c *Container) Frozen() bool { return c.frozen }

// Bytes returns the raw encoding of c.
func (c *Container) Bytes() []byte { return Encode(c.instrs) }

func (c *Container) String() string { return FormatAsm(c.instrs) }
