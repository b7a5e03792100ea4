package linear

import (
	"sort"

	"github.com/Kefkius/txsc/protocol/script"
)

// matcher tests a single instruction of a peephole window.
type matcher func(Instruction) bool

// rule replaces a window of adjacent instructions. Every rule's
// replacement is strictly shorter than its pattern, which bounds the
// number of passes Rewrite makes.
type rule struct {
	name    string
	pattern []matcher
	rewrite func(window []Instruction) []Instruction
}

func op(o script.Op) matcher {
	return func(in Instruction) bool { return !in.IsPush() && in.Op == o }
}

func pushInt(n int64) matcher {
	return func(in Instruction) bool {
		v, ok := in.Int()
		return ok && v == n
	}
}

func anyPush(in Instruction) bool { return in.IsPush() }

func hasVerifyForm(in Instruction) bool {
	_, ok := in.Op.VerifyForm()
	return ok && !in.IsPush()
}

// commutative binary opcodes
var commutativeOps = map[script.Op]bool{
	script.OP_ADD:            true,
	script.OP_MUL:            true,
	script.OP_BOOLAND:        true,
	script.OP_BOOLOR:         true,
	script.OP_NUMEQUAL:       true,
	script.OP_NUMEQUALVERIFY: true,
	script.OP_NUMNOTEQUAL:    true,
	script.OP_EQUAL:          true,
	script.OP_EQUALVERIFY:    true,
	script.OP_AND:            true,
	script.OP_OR:             true,
	script.OP_XOR:            true,
	script.OP_MIN:            true,
	script.OP_MAX:            true,
}

func commutative(in Instruction) bool {
	return !in.IsPush() && commutativeOps[in.Op]
}

// strictNum matches a push of a minimally encoded numeric operand.
func strictNum(in Instruction) bool {
	_, ok := in.Int()
	return ok && script.IsMinimal(in.Data)
}

func emit(ops ...script.Op) func([]Instruction) []Instruction {
	return func([]Instruction) []Instruction {
		res := make([]Instruction, 0, len(ops))
		for _, o := range ops {
			res = append(res, Op(o))
		}
		return res
	}
}

func remove([]Instruction) []Instruction { return nil }

// replaceOp is a shortcut for a two-instruction push-then-op pattern
// that collapses into a single opcode.
func replaceOp(name string, n int64, o, with script.Op) rule {
	return rule{name: name, pattern: []matcher{pushInt(n), op(o)}, rewrite: emit(with)}
}

var rules = []rule{
	// arithmetic shortcuts
	replaceOp("1ADD", 1, script.OP_ADD, script.OP_1ADD),
	replaceOp("1SUB", 1, script.OP_SUB, script.OP_1SUB),
	replaceOp("2MUL", 2, script.OP_MUL, script.OP_2MUL),
	replaceOp("2DIV", 2, script.OP_DIV, script.OP_2DIV),
	{name: "1NEGATE", pattern: []matcher{pushInt(1), op(script.OP_NEGATE)},
		rewrite: func([]Instruction) []Instruction { return []Instruction{PushInt(-1)} }},
	{name: "0ADD", pattern: []matcher{pushInt(0), op(script.OP_ADD)}, rewrite: remove},
	{name: "0SUB", pattern: []matcher{pushInt(0), op(script.OP_SUB)}, rewrite: remove},

	// stack shortcuts
	replaceOp("DUP", 0, script.OP_PICK, script.OP_DUP),
	{name: "0ROLL", pattern: []matcher{pushInt(0), op(script.OP_ROLL)}, rewrite: remove},
	replaceOp("OVER", 1, script.OP_PICK, script.OP_OVER),
	replaceOp("SWAP", 1, script.OP_ROLL, script.OP_SWAP),
	replaceOp("ROT", 2, script.OP_ROLL, script.OP_ROT),
	{name: "NIP", pattern: []matcher{pushInt(1), op(script.OP_ROLL), op(script.OP_DROP)}, rewrite: emit(script.OP_NIP)},
	{name: "SWAP DROP", pattern: []matcher{op(script.OP_SWAP), op(script.OP_DROP)}, rewrite: emit(script.OP_NIP)},
	{name: "ROLL ROLL", pattern: []matcher{pushInt(1), op(script.OP_ROLL), pushInt(1), op(script.OP_ROLL)}, rewrite: remove},
	{name: "SWAP SWAP", pattern: []matcher{op(script.OP_SWAP), op(script.OP_SWAP)}, rewrite: remove},
	{name: "3DUP", pattern: []matcher{pushInt(2), op(script.OP_PICK), pushInt(2), op(script.OP_PICK), pushInt(2), op(script.OP_PICK)},
		rewrite: emit(script.OP_3DUP)},
	{name: "2OVER", pattern: []matcher{pushInt(3), op(script.OP_PICK), pushInt(3), op(script.OP_PICK)}, rewrite: emit(script.OP_2OVER)},
	{name: "2DUP", pattern: []matcher{op(script.OP_OVER), op(script.OP_OVER)}, rewrite: emit(script.OP_2DUP)},
	{name: "2DROP", pattern: []matcher{op(script.OP_DROP), op(script.OP_DROP)}, rewrite: emit(script.OP_2DROP)},
	{name: "NIP DROP", pattern: []matcher{op(script.OP_NIP), op(script.OP_DROP)}, rewrite: emit(script.OP_2DROP)},
	{name: "DUP DROP", pattern: []matcher{op(script.OP_DUP), op(script.OP_DROP)}, rewrite: remove},
	{name: "push DROP", pattern: []matcher{anyPush, op(script.OP_DROP)}, rewrite: remove},
	{name: "TOALT FROMALT", pattern: []matcher{op(script.OP_TOALTSTACK), op(script.OP_FROMALTSTACK)}, rewrite: remove},
	{name: "FROMALT TOALT", pattern: []matcher{op(script.OP_FROMALTSTACK), op(script.OP_TOALTSTACK)}, rewrite: remove},

	// fused verify
	{name: "VERIFY", pattern: []matcher{hasVerifyForm, op(script.OP_VERIFY)},
		rewrite: func(w []Instruction) []Instruction {
			v, _ := w[0].Op.VerifyForm()
			return []Instruction{Op(v)}
		}},

	// hashes
	{name: "HASH256", pattern: []matcher{op(script.OP_SHA256), op(script.OP_SHA256)}, rewrite: emit(script.OP_HASH256)},
	{name: "HASH160", pattern: []matcher{op(script.OP_SHA256), op(script.OP_RIPEMD160)}, rewrite: emit(script.OP_HASH160)},

	// conditionals and logic
	{name: "NOTIF", pattern: []matcher{op(script.OP_NOT), op(script.OP_IF)}, rewrite: emit(script.OP_NOTIF)},
	{name: "NOT NOTIF", pattern: []matcher{op(script.OP_NOT), op(script.OP_NOTIF)}, rewrite: emit(script.OP_IF)},
	{name: "ELSE ENDIF", pattern: []matcher{op(script.OP_ELSE), op(script.OP_ENDIF)}, rewrite: emit(script.OP_ENDIF)},
	{name: "IF ENDIF", pattern: []matcher{op(script.OP_IF), op(script.OP_ENDIF)}, rewrite: emit(script.OP_DROP)},
	{name: "NOTIF ENDIF", pattern: []matcher{op(script.OP_NOTIF), op(script.OP_ENDIF)}, rewrite: emit(script.OP_DROP)},
	{name: "NOT NOT NOT", pattern: []matcher{op(script.OP_NOT), op(script.OP_NOT), op(script.OP_NOT)}, rewrite: emit(script.OP_NOT)},
	{name: "NUMNOTEQUAL", pattern: []matcher{strictNum, strictNum, op(script.OP_EQUAL), op(script.OP_NOT)},
		rewrite: func(w []Instruction) []Instruction {
			return []Instruction{w[0], w[1], Op(script.OP_NUMNOTEQUAL)}
		}},
	{name: "commutative SWAP", pattern: []matcher{op(script.OP_SWAP), commutative},
		rewrite: func(w []Instruction) []Instruction { return []Instruction{w[1]} }},
}

func init() {
	// Longer patterns win over their prefixes.
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].pattern) > len(rules[j].pattern)
	})
}

func (r *rule) match(instrs []Instruction, i int) bool {
	if i+len(r.pattern) > len(instrs) {
		return false
	}
	for k, m := range r.pattern {
		if !m(instrs[i+k]) {
			return false
		}
	}
	return true
}

// Rewrite applies the peephole rules to instrs until a full pass makes
// no substitution and returns the result with the number of
// substitutions made. The input slice is not modified.
func Rewrite(instrs []Instruction) ([]Instruction, int) {
	out := append([]Instruction(nil), instrs...)
	total := 0
	for {
		n := 0
		for i := 0; i < len(out); {
			applied := false
			for k := range rules {
				r := &rules[k]
				if !r.match(out, i) {
					continue
				}
				repl := r.rewrite(out[i : i+len(r.pattern)])
				tail := append([]Instruction(nil), out[i+len(r.pattern):]...)
				out = append(append(out[:i], repl...), tail...)
				n++
				applied = true
				break
			}
			if !applied {
				i++
			}
		}
		total += n
		if n == 0 {
			return out, total
		}
	}
}

// Optimize rewrites c in place and returns the number of substitutions.
func Optimize(c *Container) (int, error) {
	if c.frozen {
		return 0, ErrFrozen
	}
	out, n := Rewrite(c.instrs)
	c.instrs = out
	return n, nil
}
