package script

import (
	"encoding/binary"
	"math"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/math/checked"
)

// Instruction is a single decoded opcode. For push opcodes Data is
// the pushed value, including the implicit value of OP_0, OP_1NEGATE
// and OP_1 through OP_16. Len is the encoded size in bytes.
type Instruction struct {
	Op   Op
	Len  uint32
	Data []byte
}

// ParseOp parses the op at position pc in prog, returning the parsed
// instruction (opcode plus any associated data).
func ParseOp(prog []byte, pc uint32) (inst Instruction, err error) {
	if len(prog) > math.MaxInt32 {
		return inst, ErrLongProgram
	}
	l := uint32(len(prog))
	if pc >= l {
		return inst, ErrShortProgram
	}
	opcode := Op(prog[pc])
	inst.Op = opcode
	inst.Len = 1
	if v, ok := SmallIntValue(opcode); ok {
		inst.Data = v
		return inst, nil
	}

	var (
		n      uint32
		prefix uint32
	)
	switch {
	case opcode >= OP_DATA_1 && opcode <= OP_DATA_75:
		n = uint32(opcode)
	case opcode == OP_PUSHDATA1:
		prefix = 1
	case opcode == OP_PUSHDATA2:
		prefix = 2
	case opcode == OP_PUSHDATA4:
		prefix = 4
	default:
		return inst, nil
	}
	if prefix > 0 {
		if l-pc-1 < prefix {
			return inst, errors.WithDetailf(ErrShortProgram, "%s length at %d", opcode, pc)
		}
		b := prog[pc+1 : pc+1+prefix]
		switch prefix {
		case 1:
			n = uint32(b[0])
		case 2:
			n = uint32(binary.LittleEndian.Uint16(b))
		case 4:
			n = binary.LittleEndian.Uint32(b)
		}
	}
	inst.Len, _ = checked.AddUint32(inst.Len, prefix)
	var ok bool
	inst.Len, ok = checked.AddUint32(inst.Len, n)
	if !ok {
		return inst, errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
	}
	end, ok := checked.AddUint32(pc, inst.Len)
	if !ok {
		return inst, errors.WithDetail(checked.ErrOverflow, "data length exceeds max program size")
	}
	if end > l {
		return inst, errors.WithDetailf(ErrShortProgram, "%s at %d wants %d bytes", opcode, pc, n)
	}
	inst.Data = prog[pc+1+prefix : end]
	return inst, nil
}

// ParseProgram decodes every instruction in prog.
func ParseProgram(prog []byte) ([]Instruction, error) {
	var result []Instruction
	for pc := uint32(0); pc < uint32(len(prog)); { // update pc inside the loop
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
		var ok bool
		pc, ok = checked.AddUint32(pc, inst.Len)
		if !ok {
			return nil, errors.WithDetail(checked.ErrOverflow, "program counter exceeds max program size")
		}
	}
	return result, nil
}
