package linear

import (
	"bytes"

	"github.com/Kefkius/txsc/protocol/script"
)

// Instruction is one element of the linear IR: an opcode, or a data
// push. For pushes Data holds the pushed value, including the value
// implied by OP_0, OP_1NEGATE and OP_1 through OP_16.
type Instruction struct {
	Op   script.Op
	Data []byte
}

// Op returns an opcode-only instruction.
func Op(op script.Op) Instruction {
	return Instruction{Op: op}
}

// Push returns a data push using the smallest opcode able to push data.
func Push(data []byte) Instruction {
	return Instruction{Op: script.PushOp(data), Data: append([]byte{}, data...)}
}

// PushInt returns the canonical push of the script number n.
func PushInt(n int64) Instruction {
	return Push(script.Int64Bytes(n))
}

// IsPush reports whether in pushes a constant.
func (in Instruction) IsPush() bool {
	return in.Op.IsPush()
}

// Int returns the numeric value of a push whose data is a valid
// numeric operand.
func (in Instruction) Int() (int64, bool) {
	if !in.IsPush() {
		return 0, false
	}
	n, err := script.AsInt64(in.Data, script.MaxNumLen)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Equal reports whether in and other encode identically.
func (in Instruction) Equal(other Instruction) bool {
	return in.Op == other.Op && bytes.Equal(in.Data, other.Data)
}

func (in Instruction) String() string {
	return script.FormatInstruction(in.Op, in.Data)
}

func fromScript(insts []script.Instruction) []Instruction {
	res := make([]Instruction, 0, len(insts))
	for _, inst := range insts {
		in := Instruction{Op: inst.Op}
		if inst.Op.IsPush() {
			in.Data = append([]byte{}, inst.Data...)
		}
		res = append(res, in)
	}
	return res
}

func toScript(instrs []Instruction) []script.Instruction {
	res := make([]script.Instruction, 0, len(instrs))
	for _, in := range instrs {
		res = append(res, script.Instruction{Op: in.Op, Data: in.Data})
	}
	return res
}
