package linear

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/script"
)

func mustDecodeHex(h string) []byte {
	bits, err := hex.DecodeString(h)
	if err != nil {
		panic(err)
	}
	return bits
}

func TestEncode(t *testing.T) {
	instrs := []Instruction{PushInt(2), PushInt(5), Op(script.OP_ADD), PushInt(7), Op(script.OP_EQUAL)}
	if got := hex.EncodeToString(Encode(instrs)); got != "5255935787" {
		t.Errorf("Encode = %s want 5255935787", got)
	}
	inner := Encode([]Instruction{PushInt(2), PushInt(3), Op(script.OP_ADD)})
	if got := FormatAsm([]Instruction{Push(inner)}); got != "0x03 0x525393" {
		t.Errorf("FormatAsm = %q want 0x03 0x525393", got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"5255935787",
		"76a914000000000000000000000000000000000000000088ac",
		"0105",           // non-canonical push of 5
		"4c0111",         // PUSHDATA1 of a single byte
		"4d0200aabb",     // PUSHDATA2
		"4e02000000aabb", // PUSHDATA4
		"00",
		"4f",
		"6351675268", // IF 1 ELSE 2 ENDIF
	}
	for _, c := range cases {
		prog := mustDecodeHex(c)
		instrs, err := Decode(prog)
		if err != nil {
			t.Errorf("Decode(%s) error %v", c, err)
			continue
		}
		if got := Encode(instrs); !bytes.Equal(got, prog) {
			t.Errorf("Encode(Decode(%s)) = %x", c, got)
		}
		again, err := ParseAsm(FormatAsm(instrs))
		if err != nil {
			t.Errorf("ParseAsm(FormatAsm(%s)) error %v", c, err)
			continue
		}
		if got := Encode(again); !bytes.Equal(got, prog) {
			t.Errorf("asm round trip of %s = %x", c, got)
		}
	}
}

func TestDecodeValues(t *testing.T) {
	instrs, err := Decode(mustDecodeHex("0051600185"))
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{0, 1, 16, -5}
	for i, in := range instrs {
		n, ok := in.Int()
		if !ok || n != want[i] {
			t.Errorf("instruction %d = %d, %v want %d", i, n, ok, want[i])
		}
	}
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode(mustDecodeHex("4c05aa"))
	if errors.Root(err) != script.ErrShortProgram {
		t.Errorf("err = %v want %v", err, script.ErrShortProgram)
	}
}

func TestPushCanonical(t *testing.T) {
	cases := []struct {
		in   Instruction
		want script.Op
	}{
		{PushInt(0), script.OP_0},
		{PushInt(-1), script.OP_1NEGATE},
		{PushInt(16), script.OP_16},
		{PushInt(17), script.OP_DATA_1},
		{Push(bytes.Repeat([]byte{1}, 80)), script.OP_PUSHDATA1},
	}
	for _, c := range cases {
		if c.in.Op != c.want {
			t.Errorf("%v: op %s want %s", c.in, c.in.Op, c.want)
		}
	}
}
