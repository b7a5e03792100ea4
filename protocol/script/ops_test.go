package script

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
)

func TestOpNamesMatchBtcd(t *testing.T) {
	for i := 0; i < 256; i++ {
		op := Op(i)
		if !op.Known() || (op >= OP_DATA_1 && op <= OP_DATA_75) {
			continue
		}
		name := op.String()
		b, ok := txscript.OpcodeByName["OP_"+name]
		if !ok {
			t.Errorf("btcd has no OP_%s", name)
			continue
		}
		if Op(b) != op {
			t.Errorf("OP_%s = %#x in btcd, %#x here", name, b, byte(op))
		}
	}
}

func TestOpByName(t *testing.T) {
	cases := []struct {
		name string
		want Op
	}{
		{"ADD", OP_ADD},
		{"OP_ADD", OP_ADD},
		{"op_checksig", OP_CHECKSIG},
		{"TRUE", OP_1},
		{"FALSE", OP_0},
		{"16", OP_16},
		{"NOP2", OP_CHECKLOCKTIMEVERIFY},
		{"DATA_20", OP_DATA_20},
	}
	for _, c := range cases {
		got, ok := OpByName(c.name)
		if !ok || got != c.want {
			t.Errorf("OpByName(%q) = %v, %v want %v", c.name, got, ok, c.want)
		}
	}
	if _, ok := OpByName("UNKNOWN200"); ok {
		t.Error("unassigned opcodes must not be found by name")
	}
}

func TestStackEffect(t *testing.T) {
	cases := []struct {
		op           Op
		pops, pushes int
		ok           bool
	}{
		{OP_ADD, 2, 1, true},
		{OP_DUP, 1, 2, true},
		{OP_EQUALVERIFY, 2, 0, true},
		{OP_SIZE, 1, 2, true},
		{OP_5, 0, 1, true},
		{OP_PICK, 0, 0, false},
		{OP_ROLL, 0, 0, false},
		{OP_CHECKMULTISIG, 0, 0, false},
		{OP_IFDUP, 0, 0, false},
	}
	for _, c := range cases {
		pops, pushes, ok := c.op.StackEffect()
		if pops != c.pops || pushes != c.pushes || ok != c.ok {
			t.Errorf("%s.StackEffect() = %d, %d, %v want %d, %d, %v", c.op, pops, pushes, ok, c.pops, c.pushes, c.ok)
		}
	}
}

func TestVerifyForm(t *testing.T) {
	for op, want := range map[Op]Op{
		OP_EQUAL:         OP_EQUALVERIFY,
		OP_NUMEQUAL:      OP_NUMEQUALVERIFY,
		OP_CHECKSIG:      OP_CHECKSIGVERIFY,
		OP_CHECKMULTISIG: OP_CHECKMULTISIGVERIFY,
	} {
		if got, ok := op.VerifyForm(); !ok || got != want {
			t.Errorf("%s.VerifyForm() = %s, %v", op, got, ok)
		}
	}
	if _, ok := OP_ADD.VerifyForm(); ok {
		t.Error("ADD has no verify form")
	}
}
