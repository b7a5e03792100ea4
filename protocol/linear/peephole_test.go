package linear

import (
	"testing"
)

func mustParseAsm(t testing.TB, s string) []Instruction {
	t.Helper()
	instrs, err := ParseAsm(s)
	if err != nil {
		t.Fatalf("ParseAsm(%q): %v", s, err)
	}
	return instrs
}

var peepholeCases = []struct {
	in, want string
}{
	{"0 PICK", "DUP"},
	{"1 PICK", "OVER"},
	{"1 ROLL", "SWAP"},
	{"0 ROLL", ""},
	{"2 ROLL", "ROT"},
	{"5 1 ADD", "5 1ADD"},
	{"5 1 SUB", "5 1SUB"},
	{"5 2 MUL", "5 2MUL"},
	{"5 2 DIV", "5 2DIV"},
	{"5 0 ADD", "5"},
	{"5 0 SUB", "5"},
	{"1 NEGATE", "1NEGATE"},
	{"2 5 ADD 7 EQUAL VERIFY", "2 5 ADD 7 EQUALVERIFY"},
	{"NUMEQUAL VERIFY", "NUMEQUALVERIFY"},
	{"CHECKSIG VERIFY", "CHECKSIGVERIFY"},
	{"CHECKMULTISIG VERIFY", "CHECKMULTISIGVERIFY"},
	{"1 ROLL DROP", "NIP"},
	{"SWAP DROP", "NIP"},
	{"1 ROLL 1 ROLL", ""},
	{"SWAP SWAP", ""},
	{"1 PICK 1 PICK", "2DUP"},
	{"2 PICK 2 PICK 2 PICK", "3DUP"},
	{"3 PICK 3 PICK", "2OVER"},
	{"DROP DROP", "2DROP"},
	{"NIP DROP", "2DROP"},
	{"DUP DROP", ""},
	{"0x02 0xaabb DROP", ""},
	{"TOALTSTACK FROMALTSTACK", ""},
	{"FROMALTSTACK TOALTSTACK", ""},
	{"SHA256 SHA256", "HASH256"},
	{"SHA256 RIPEMD160", "HASH160"},
	{"NOT IF 1 ELSE 2 ENDIF", "NOTIF 1 ELSE 2 ENDIF"},
	{"NOT NOTIF 1 ELSE 2 ENDIF", "IF 1 ELSE 2 ENDIF"},
	{"IF ELSE ENDIF", "DROP"},
	{"NOT NOT NOT", "NOT"},
	{"3 4 EQUAL NOT", "3 4 NUMNOTEQUAL"},
	{"0x02 0x0500 0x01 0x05 EQUAL NOT", "0x02 0x0500 0x01 0x05 EQUAL NOT"},
	{"SWAP ADD", "ADD"},
	{"SWAP EQUAL VERIFY", "EQUALVERIFY"},
	{"SWAP SUB", "SWAP SUB"},
	{"DUP HASH160 0x14 0x0000000000000000000000000000000000000000 EQUALVERIFY CHECKSIG",
		"DUP HASH160 0x14 0x0000000000000000000000000000000000000000 EQUALVERIFY CHECKSIG"},
}

func TestRewrite(t *testing.T) {
	for _, c := range peepholeCases {
		t.Run(c.in, func(t *testing.T) {
			in := mustParseAsm(t, c.in)
			got, _ := Rewrite(in)
			if s := FormatAsm(got); s != c.want {
				t.Errorf("Rewrite(%q) = %q want %q", c.in, s, c.want)
			}
			if s := FormatAsm(in); s != FormatAsm(mustParseAsm(t, c.in)) {
				t.Errorf("input modified: %q", s)
			}
		})
	}
}

func TestRewriteFixpoint(t *testing.T) {
	for _, c := range peepholeCases {
		once, _ := Rewrite(mustParseAsm(t, c.in))
		twice, n := Rewrite(once)
		if n != 0 || FormatAsm(twice) != FormatAsm(once) {
			t.Errorf("Rewrite not at fixpoint for %q: %q -> %q", c.in, FormatAsm(once), FormatAsm(twice))
		}
	}
}

func TestRewritePreservesEffect(t *testing.T) {
	for _, c := range peepholeCases {
		in := mustParseAsm(t, c.in)
		before, err := Simulate(in)
		if err != nil {
			continue // sequences that are not valid on their own
		}
		out, _ := Rewrite(in)
		after, err := Simulate(out)
		if err != nil {
			t.Errorf("Simulate(%q) after rewrite: %v", FormatAsm(out), err)
			continue
		}
		if before.Net != after.Net {
			t.Errorf("%q: net effect %d, after rewrite %d", c.in, before.Net, after.Net)
		}
	}
}

func TestRewriteShrinks(t *testing.T) {
	for _, r := range rules {
		if len(r.pattern) < 2 {
			t.Errorf("rule %s has a pattern shorter than 2", r.name)
		}
	}
	for _, c := range peepholeCases {
		in := mustParseAsm(t, c.in)
		out, n := Rewrite(in)
		if n > 0 && len(out) >= len(in) {
			t.Errorf("%q: %d substitutions did not shrink %d instructions", c.in, n, len(in))
		}
	}
}

func TestOptimizeFrozen(t *testing.T) {
	c := NewContainer(mustParseAsm(t, "0 PICK")...)
	n, err := Optimize(c)
	if err != nil || n != 1 || c.String() != "DUP" {
		t.Fatalf("Optimize = %d, %v; %s", n, err, c)
	}
	c.Freeze()
	if _, err := Optimize(c); err != ErrFrozen {
		t.Errorf("Optimize(frozen) err = %v want %v", err, ErrFrozen)
	}
	if err := c.Append(Op(0)); err != ErrFrozen {
		t.Errorf("Append(frozen) err = %v want %v", err, ErrFrozen)
	}
	if err := c.Replace(0, 1); err != ErrFrozen {
		t.Errorf("Replace(frozen) err = %v want %v", err, ErrFrozen)
	}
}
