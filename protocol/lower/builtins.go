package lower

import (
	"fmt"
	"strings"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/script"
	"github.com/Kefkius/txsc/protocol/structural"
)

// variadic marks builtins taking the CHECKMULTISIG argument layout:
// sigs..., nsigs, keys..., nkeys.
const variadic = -1

type builtin struct {
	name    string
	opcodes string
	arity   int

	ops []script.Op
}

var builtins = []*builtin{
	{name: "abs", opcodes: "ABS", arity: 1},
	{name: "incr", opcodes: "1ADD", arity: 1},
	{name: "decr", opcodes: "1SUB", arity: 1},
	{name: "size", opcodes: "SIZE NIP", arity: 1},
	{name: "min", opcodes: "MIN", arity: 2},
	{name: "max", opcodes: "MAX", arity: 2},
	{name: "within", opcodes: "WITHIN", arity: 3},

	{name: "concat", opcodes: "CAT", arity: 2},
	{name: "left", opcodes: "LEFT", arity: 2},
	{name: "right", opcodes: "RIGHT", arity: 2},
	{name: "substr", opcodes: "SUBSTR", arity: 3},

	{name: "ripemd160", opcodes: "RIPEMD160", arity: 1},
	{name: "sha1", opcodes: "SHA1", arity: 1},
	{name: "sha256", opcodes: "SHA256", arity: 1},
	{name: "hash160", opcodes: "HASH160", arity: 1},
	{name: "hash256", opcodes: "HASH256", arity: 1},

	{name: "checkSig", opcodes: "CHECKSIG", arity: 2},
	{name: "checkSigVerify", opcodes: "CHECKSIGVERIFY", arity: 2},
	{name: "checkMultiSig", opcodes: "CHECKMULTISIG", arity: variadic},
	{name: "checkMultiSigVerify", opcodes: "CHECKMULTISIGVERIFY", arity: variadic},
	{name: "equalVerify", opcodes: "EQUALVERIFY", arity: 2},
	{name: "numEqualVerify", opcodes: "NUMEQUALVERIFY", arity: 2},

	{name: "checkLockTimeVerify", opcodes: "CHECKLOCKTIMEVERIFY DROP", arity: 1},
	{name: "checkSequenceVerify", opcodes: "CHECKSEQUENCEVERIFY DROP", arity: 1},
	{name: "depth", opcodes: "DEPTH", arity: 0},
}

var builtinsByName = make(map[string]*builtin)

// binaryOps and unaryOps give the opcodes for each structural
// operator.
var binaryOps = map[string]string{
	"ADD":    "ADD",
	"SUB":    "SUB",
	"MUL":    "MUL",
	"DIV":    "DIV",
	"MOD":    "MOD",
	"LSHIFT": "LSHIFT",
	"RSHIFT": "RSHIFT",

	"BOOLAND":            "BOOLAND",
	"BOOLOR":             "BOOLOR",
	"NUMEQUAL":           "NUMEQUAL",
	"NUMNOTEQUAL":        "NUMNOTEQUAL",
	"LESSTHAN":           "LESSTHAN",
	"GREATERTHAN":        "GREATERTHAN",
	"LESSTHANOREQUAL":    "LESSTHANOREQUAL",
	"GREATERTHANOREQUAL": "GREATERTHANOREQUAL",
	"MIN":                "MIN",
	"MAX":                "MAX",

	"EQUAL":    "EQUAL",
	"NOTEQUAL": "EQUAL NOT",
	"AND":      "AND",
	"OR":       "OR",
	"XOR":      "XOR",
	"CAT":      "CAT",
}

var unaryOps = map[string]string{
	"NEGATE":    "NEGATE",
	"NOT":       "NOT",
	"ABS":       "ABS",
	"INVERT":    "INVERT",
	"1ADD":      "1ADD",
	"1SUB":      "1SUB",
	"2MUL":      "2MUL",
	"2DIV":      "2DIV",
	"0NOTEQUAL": "0NOTEQUAL",
	"SIZE":      "SIZE NIP",
	"RIPEMD160": "RIPEMD160",
	"SHA1":      "SHA1",
	"SHA256":    "SHA256",
	"HASH160":   "HASH160",
	"HASH256":   "HASH256",
}

var parsedOps = make(map[string][]script.Op)

func init() {
	for _, b := range builtins {
		b.ops = mustParseOps(b.opcodes)
		builtinsByName[b.name] = b
	}
	for _, m := range []map[string]string{binaryOps, unaryOps} {
		for _, s := range m {
			parsedOps[s] = mustParseOps(s)
		}
	}
}

func mustParseOps(s string) []script.Op {
	var res []script.Op
	for _, name := range strings.Fields(s) {
		op, ok := script.OpByName(name)
		if !ok {
			panic(fmt.Sprintf("lower: unknown opcode %s", name))
		}
		res = append(res, op)
	}
	return res
}

// IsBuiltin reports whether name is a builtin function.
func IsBuiltin(name string) bool {
	_, ok := builtinsByName[name]
	return ok
}

// opsEffect is the net stack effect of a sequence of opcodes with
// static effects.
func opsEffect(ops []script.Op) int {
	n := 0
	for _, op := range ops {
		pops, pushes, ok := op.StackEffect()
		if ok {
			n += pushes - pops
		}
	}
	return n
}

// effect returns the net effect of calling b with nargs arguments.
func (b *builtin) effect(nargs int) int {
	if b.arity == variadic {
		// The dummy item, the arguments and the counts are all consumed.
		if b.ops[0] == script.OP_CHECKMULTISIG {
			return 1
		}
		return 0
	}
	return nargs + opsEffect(b.ops)
}

// checkArgs verifies the argument count of a call of b. Calls of the
// multisig builtins must spell out their counts as integer literals,
// laid out as sigs..., nsigs, keys..., nkeys.
func (b *builtin) checkArgs(t *structural.Tree, args []structural.NodeID) error {
	if b.arity != variadic {
		if len(args) != b.arity {
			return errors.WithDetailf(ErrUnsupportedFeature, "%s takes %d arguments, got %d", b.name, b.arity, len(args))
		}
		return nil
	}
	count := func(i int) (int, bool) {
		if i < 0 || i >= len(args) {
			return 0, false
		}
		n := t.Node(args[i])
		if n.Kind != structural.Int || n.Int < 0 || n.Int > int64(len(args)) {
			return 0, false
		}
		return int(n.Int), true
	}
	nkeys, ok := count(len(args) - 1)
	if !ok {
		return errors.WithDetailf(ErrUnsupportedFeature, "%s needs a literal key count", b.name)
	}
	nsigs, ok := count(len(args) - 2 - nkeys)
	if !ok {
		return errors.WithDetailf(ErrUnsupportedFeature, "%s needs a literal signature count", b.name)
	}
	if nsigs+nkeys+2 != len(args) || nsigs > nkeys {
		return errors.WithDetailf(ErrUnsupportedFeature, "%s with %d signatures, %d keys and %d arguments", b.name, nsigs, nkeys, len(args))
	}
	return nil
}
