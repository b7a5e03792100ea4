package linear

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/script"
)

// Encode returns the raw program for instrs: each opcode byte followed,
// for data pushes, by the length prefix its opcode requires and the data.
func Encode(instrs []Instruction) []byte {
	return script.Encode(toScript(instrs))
}

// Decode parses a raw program. The push opcode of every instruction is
// kept as written, so Encode(Decode(prog)) == prog.
//
// The program is also run through btcd's script tokenizer and the two
// decodings must agree.
func Decode(prog []byte) ([]Instruction, error) {
	insts, err := script.ParseProgram(prog)
	if err != nil {
		return nil, err
	}
	instrs := fromScript(insts)

	tok := txscript.MakeScriptTokenizer(0, prog)
	i := 0
	for ; tok.Next(); i++ {
		if i >= len(instrs) {
			return nil, errors.WithDetailf(ErrDecodeMismatch, "extra opcode at byte %d", tok.ByteIndex())
		}
		in := instrs[i]
		if byte(in.Op) != tok.Opcode() {
			return nil, errors.WithDetailf(ErrDecodeMismatch, "instruction %d: %s vs %#x", i, in.Op, tok.Opcode())
		}
		if _, small := script.SmallIntValue(in.Op); !small && !bytes.Equal(in.Data, tok.Data()) {
			return nil, errors.WithDetailf(ErrDecodeMismatch, "instruction %d data", i)
		}
	}
	if err := tok.Err(); err != nil {
		return nil, errors.Sub(ErrDecodeMismatch, err)
	}
	if i != len(instrs) {
		return nil, errors.WithDetailf(ErrDecodeMismatch, "%d instructions vs %d", len(instrs), i)
	}
	return instrs, nil
}

// FormatAsm renders instrs as assembly text.
func FormatAsm(instrs []Instruction) string {
	return script.FormatAsm(toScript(instrs))
}

// ParseAsm parses assembly text into instructions.
func ParseAsm(s string) ([]Instruction, error) {
	insts, err := script.ParseAsm(s)
	if err != nil {
		return nil, err
	}
	return fromScript(insts), nil
}
