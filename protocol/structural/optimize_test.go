package structural

import (
	"reflect"
	"testing"

	"github.com/Kefkius/txsc/errors"
)

var commute = Options{Commute: true}

func optimize(t *testing.T, b *Builder, root NodeID, opts Options) string {
	t.Helper()
	got, _, err := Optimize(b.Tree(), root, opts)
	if err != nil {
		t.Fatalf("Optimize error %v", err)
	}
	return b.Tree().Format(got)
}

func TestCommutative(t *testing.T) {
	for _, op := range []string{"ADD", "MUL", "BOOLAND", "BOOLOR", "AND", "OR", "XOR", "EQUAL", "NUMEQUAL", "MIN", "MAX"} {
		t.Run(op, func(t *testing.T) {
			b := NewBuilder()
			root := b.Block(b.Assume("a"), b.Binary(op, b.Int(5), b.Name("a")))
			want := "assume a;\n(a " + op + " 5);\n"
			if got := optimize(t, b, root, commute); got != want {
				t.Errorf("got %q want %q", got, want)
			}
		})
	}
}

func TestNotCommutative(t *testing.T) {
	for _, op := range []string{"SUB", "DIV", "MOD", "CAT", "LSHIFT"} {
		b := NewBuilder()
		root := b.Block(b.Assume("a"), b.Binary(op, b.Int(5), b.Name("a")))
		want := "assume a;\n(5 " + op + " a);\n"
		if got := optimize(t, b, root, commute); got != want {
			t.Errorf("%s: got %q want %q", op, got, want)
		}
	}
}

func TestChainedCommute(t *testing.T) {
	b := NewBuilder()
	// (2 + a) + 3
	root := b.Block(b.Assume("a"),
		b.Binary("ADD", b.Binary("ADD", b.Int(2), b.Name("a")), b.Int(3)))
	want := "assume a;\n((a ADD 2) ADD 3);\n"
	if got := optimize(t, b, root, commute); got != want {
		t.Errorf("got %q want %q", got, want)
	}

	// 3 + (2 + a)
	b = NewBuilder()
	root = b.Block(b.Assume("a"),
		b.Binary("ADD", b.Int(3), b.Binary("ADD", b.Int(2), b.Name("a"))))
	want = "assume a;\n((a ADD 2) ADD 3);\n"
	if got := optimize(t, b, root, commute); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestLogicalEquivalence(t *testing.T) {
	cases := []struct {
		build func(b *Builder) NodeID
		want  string
	}{
		{
			// 10 > a
			func(b *Builder) NodeID { return b.Binary("GREATERTHAN", b.Int(10), b.Name("a")) },
			"(a LESSTHAN 10)",
		},
		{
			// 10 < a
			func(b *Builder) NodeID { return b.Binary("LESSTHAN", b.Int(10), b.Name("a")) },
			"(a GREATERTHAN 10)",
		},
		{
			func(b *Builder) NodeID { return b.Binary("LESSTHANOREQUAL", b.Int(10), b.Name("a")) },
			"(a GREATERTHANOREQUAL 10)",
		},
		{
			// 2 < 5 and 10 > a
			func(b *Builder) NodeID {
				return b.Binary("BOOLAND",
					b.Binary("LESSTHAN", b.Int(2), b.Int(5)),
					b.Binary("GREATERTHAN", b.Int(10), b.Name("a")))
			},
			"((a LESSTHAN 10) BOOLAND (2 LESSTHAN 5))",
		},
	}
	for _, c := range cases {
		b := NewBuilder()
		root := b.Block(b.Assume("a"), c.build(b))
		want := "assume a;\n" + c.want + ";\n"
		if got := optimize(t, b, root, commute); got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}
}

func TestBothAssumed(t *testing.T) {
	b := NewBuilder()
	root := b.Block(b.Assume("a", "b"), b.Binary("ADD", b.Name("b"), b.Name("a")))
	want := "assume a, b;\n(b ADD a);\n"
	if got := optimize(t, b, root, commute); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestAssumedOption(t *testing.T) {
	b := NewBuilder()
	root := b.Binary("ADD", b.Int(1), b.Name("x"))
	opts := Options{Commute: true, Assumed: func(name string) bool { return name == "x" }}
	if got := optimize(t, b, root, opts); got != "(x ADD 1)" {
		t.Errorf("got %q", got)
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	b := NewBuilder()
	root := b.Block(
		b.Assume("a", "b"),
		b.Verify(b.Binary("EQUAL",
			b.Binary("ADD", b.Int(3), b.Binary("MUL", b.Int(2), b.Name("a"))),
			b.Binary("GREATERTHAN", b.Int(1), b.Name("b")))),
		b.If(b.Binary("BOOLOR", b.Int(0), b.Name("b")),
			b.Block(b.Binary("ADD", b.Int(6), b.Int(1))), None),
	)
	for _, opts := range []Options{commute, {Commute: true, FoldConstants: true}} {
		once, _, err := Optimize(b.Tree(), root, opts)
		if err != nil {
			t.Fatal(err)
		}
		twice, stats, err := Optimize(b.Tree(), once, opts)
		if err != nil {
			t.Fatal(err)
		}
		if twice != once {
			t.Errorf("second pass returned a new root\nonce:  %s\ntwice: %s", b.Tree().Format(once), b.Tree().Format(twice))
		}
		if stats != (Stats{}) {
			t.Errorf("second pass stats = %+v", stats)
		}
	}
}

func TestOptimizePersistent(t *testing.T) {
	b := NewBuilder()
	shared := b.Binary("SUB", b.Name("x"), b.Int(1))
	root := b.Block(b.Assume("a"), b.Binary("ADD", shared, b.Name("a")))
	var before []Node
	for _, n := range b.Tree().Nodes {
		n.Kids = append([]NodeID(nil), n.Kids...)
		before = append(before, n)
	}

	got, stats, err := Optimize(b.Tree(), root, commute)
	if err != nil {
		t.Fatal(err)
	}
	if got == root {
		t.Fatal("root unchanged")
	}
	if stats.Reordered != 1 {
		t.Errorf("Reordered = %d want 1", stats.Reordered)
	}
	if !reflect.DeepEqual(b.Tree().Nodes[:len(before)], before) {
		t.Error("Optimize modified existing nodes")
	}
	add := b.Tree().Node(b.Tree().Node(got).Kids[1])
	if add.Right() != shared {
		t.Error("unchanged operand was copied instead of shared")
	}
}

func TestNoCommuteOption(t *testing.T) {
	b := NewBuilder()
	root := b.Block(b.Assume("a"), b.Binary("ADD", b.Int(2), b.Name("a")))
	got, _, err := Optimize(b.Tree(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("Optimize with no rules rewrote the tree: %s", b.Tree().Format(got))
	}
}

func TestSubstitute(t *testing.T) {
	b := NewBuilder()
	body := b.Block(b.ReturnValue(b.Binary("ADD", b.Name("x"), b.Name("y"))))
	keep := b.Block(b.Int(1))
	two, three := b.Int(2), b.Int(3)

	got := b.Tree().Substitute(body, map[string]NodeID{"x": two, "y": three})
	if want := "return (2 ADD 3);\n"; b.Tree().Format(got) != want {
		t.Errorf("got %q want %q", b.Tree().Format(got), want)
	}
	if b.Tree().Format(body) != "return (x ADD y);\n" {
		t.Error("Substitute changed the original body")
	}
	if b.Tree().Substitute(keep, map[string]NodeID{"x": two}) != keep {
		t.Error("Substitute copied a subtree without substitutions")
	}
}

func TestFoldErrorRoot(t *testing.T) {
	b := NewBuilder()
	root := b.Block(b.Binary("DIV", b.Int(1), b.Int(0)))
	_, _, err := Optimize(b.Tree(), root, Options{FoldConstants: true})
	if errors.Root(err) != ErrInvalidConstantExpression {
		t.Errorf("err = %v want %v", err, ErrInvalidConstantExpression)
	}
}
