package lang

import (
	"testing"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/linear"
	"github.com/Kefkius/txsc/testutil"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"asm", "ASM", "btc", "hex", "sir"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%s) error %v", name, err)
		}
	}
	testutil.ExpectError(t, ErrUnknownLanguage, "Lookup(python)", func() error {
		_, err := Lookup("python")
		return err
	})
	_, err := LookupTarget("sir")
	if errors.Root(err) != ErrNotTarget {
		t.Errorf("LookupTarget(sir) err = %v", err)
	}
	if _, err := LookupSource("sir"); err != nil {
		t.Errorf("LookupSource(sir) err = %v", err)
	}
}

func TestNames(t *testing.T) {
	testutil.ExpectEqual(t, Names(), []string{"asm", "btc", "hex", "sir"}, "Names()")
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		lang string
		src  string
	}{
		{"asm", "2 5 ADD 7 EQUAL"},
		{"hex", "5255935787"},
		{"hex", "4c0101"}, // non-canonical push survives
		{"asm", "0x03 0x525393 DUP HASH160"},
	}
	for _, c := range cases {
		src, err := LookupSource(c.lang)
		if err != nil {
			t.Fatal(err)
		}
		p, err := src.Parse([]byte(c.src))
		if err != nil {
			t.Fatalf("%s: Parse(%q) error %v", c.lang, c.src, err)
		}
		tgt, err := LookupTarget(c.lang)
		if err != nil {
			t.Fatal(err)
		}
		out, err := tgt.Emit(linear.NewContainer(p.Instrs...))
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != c.src {
			t.Errorf("%s: round trip %q -> %q", c.lang, c.src, out)
		}
	}
}

func TestHexToAsm(t *testing.T) {
	p, err := registry["hex"].Source.Parse([]byte("52 55 93\n57 87\n"))
	if err != nil {
		t.Fatal(err)
	}
	out, _ := registry["asm"].Target.Emit(linear.NewContainer(p.Instrs...))
	if string(out) != "2 5 ADD 7 EQUAL" {
		t.Errorf("got %q", out)
	}
}

func TestSir(t *testing.T) {
	p, err := registry["sir"].Source.Parse([]byte(`{"kind": "block", "args": [{"kind": "int", "int": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Tree == nil || p.Instrs != nil {
		t.Errorf("sir program = %+v", p)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register of a taken name did not panic")
		}
	}()
	Register(&Language{Name: "ASM"})
}
