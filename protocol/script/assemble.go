package script

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/Kefkius/txsc/errors"
)

// Assemble converts assembly text to a raw program.
func Assemble(s string) ([]byte, error) {
	insts, err := ParseAsm(s)
	if err != nil {
		return nil, err
	}
	return Encode(insts), nil
}

// Disassemble converts a raw program to assembly text.
func Disassemble(prog []byte) (string, error) {
	insts, err := ParseProgram(prog)
	if err != nil {
		return "", err
	}
	return FormatAsm(insts), nil
}

// Encode concatenates the encodings of insts.
func Encode(insts []Instruction) []byte {
	var prog []byte
	for _, inst := range insts {
		if inst.Op.IsPush() {
			prog = EncodePush(prog, inst.Op, inst.Data)
		} else {
			prog = append(prog, byte(inst.Op))
		}
	}
	return prog
}

// FormatAsm renders insts as space-separated assembly text.
func FormatAsm(insts []Instruction) string {
	words := make([]string, 0, len(insts))
	for _, inst := range insts {
		words = append(words, FormatInstruction(inst.Op, inst.Data))
	}
	return strings.Join(words, " ")
}

// FormatInstruction renders a single instruction.
func FormatInstruction(op Op, data []byte) string {
	switch {
	case op.IsSmallInt():
		return op.String()
	case op >= OP_DATA_1 && op <= OP_DATA_75:
		return fmt.Sprintf("0x%02x 0x%x", len(data), data)
	case op == OP_PUSHDATA1:
		return fmt.Sprintf("PUSHDATA1 0x%02x 0x%x", len(data), data)
	case op == OP_PUSHDATA2:
		return fmt.Sprintf("PUSHDATA2 0x%04x 0x%x", len(data), data)
	case op == OP_PUSHDATA4:
		return fmt.Sprintf("PUSHDATA4 0x%08x 0x%x", len(data), data)
	}
	return op.String()
}

// ParseAsm parses assembly text. Decimal integers become canonical
// pushes of their script-number encoding; a hex length followed by
// hex data of that length becomes a DATA_n push; a lone hex word
// becomes a canonical push of its bytes. Text after '#' on a line
// is ignored.
func ParseAsm(s string) ([]Instruction, error) {
	var words []string
	for _, line := range strings.Split(s, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		words = append(words, strings.Fields(line)...)
	}

	var insts []Instruction
	for i := 0; i < len(words); i++ {
		w := words[i]
		if isHexWord(w) {
			b, err := decodeHexWord(w)
			if err != nil {
				return nil, err
			}
			if i+1 < len(words) && isHexWord(words[i+1]) {
				data, err := decodeHexWord(words[i+1])
				if err != nil {
					return nil, err
				}
				if n, ok := lengthValue(b); ok && n >= 1 && n <= int(OP_DATA_75) && n == len(data) {
					insts = append(insts, newInst(Op(n), data))
					i++
					continue
				}
			}
			insts = append(insts, newInst(PushOp(b), b))
			continue
		}
		if n, err := strconv.ParseInt(w, 10, 64); err == nil {
			data := Int64Bytes(n)
			insts = append(insts, newInst(PushOp(data), data))
			continue
		}
		op, ok := OpByName(w)
		if !ok {
			return nil, errors.WithDetailf(ErrToken, "word %d: %q", i, w)
		}
		switch {
		case op == OP_PUSHDATA1 || op == OP_PUSHDATA2 || op == OP_PUSHDATA4:
			if i+2 >= len(words) || !isHexWord(words[i+1]) || !isHexWord(words[i+2]) {
				return nil, errors.WithDetailf(ErrShortProgram, "%s needs a length and data", op)
			}
			lb, err := decodeHexWord(words[i+1])
			if err != nil {
				return nil, err
			}
			data, err := decodeHexWord(words[i+2])
			if err != nil {
				return nil, err
			}
			n, ok := lengthValue(lb)
			if !ok || n != len(data) || !CanPush(op, len(data)) {
				return nil, errors.WithDetailf(ErrBadValue, "%s length %s does not match %d data bytes", op, words[i+1], len(data))
			}
			insts = append(insts, newInst(op, data))
			i += 2
		case op >= OP_DATA_1 && op <= OP_DATA_75:
			if i+1 >= len(words) || !isHexWord(words[i+1]) {
				return nil, errors.WithDetailf(ErrShortProgram, "%s needs data", op)
			}
			data, err := decodeHexWord(words[i+1])
			if err != nil {
				return nil, err
			}
			if !CanPush(op, len(data)) {
				return nil, errors.WithDetailf(ErrBadValue, "%s with %d data bytes", op, len(data))
			}
			insts = append(insts, newInst(op, data))
			i++
		default:
			insts = append(insts, newInst(op, nil))
		}
	}
	return insts, nil
}

func newInst(op Op, data []byte) Instruction {
	if v, ok := SmallIntValue(op); ok {
		return Instruction{Op: op, Len: 1, Data: v}
	}
	if !op.IsPush() {
		return Instruction{Op: op, Len: 1}
	}
	return Instruction{Op: op, Len: uint32(len(EncodePush(nil, op, data))), Data: data}
}

func isHexWord(w string) bool {
	return len(w) > 2 && (strings.HasPrefix(w, "0x") || strings.HasPrefix(w, "0X"))
}

func decodeHexWord(w string) ([]byte, error) {
	s := w[2:]
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.WithDetailf(ErrToken, "bad hex %q", w)
	}
	return b, nil
}

// lengthValue reads b as a big-endian length, as written in text.
func lengthValue(b []byte) (int, bool) {
	if len(b) > 4 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		n = n<<8 | int(c)
	}
	return n, true
}
