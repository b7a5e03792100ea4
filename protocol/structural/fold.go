package structural

import (
	"bytes"

	"github.com/Kefkius/txsc/crypto/digest"
	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/math/checked"
	"github.com/Kefkius/txsc/protocol/script"
)

// maxShift bounds the shift count of LSHIFT and RSHIFT.
const maxShift = 31

// fold evaluates n if all its operands are literals. It follows the
// script machine: numeric operands are script numbers of at most
// script.MaxNumLen bytes and results are encoded minimally.
func (o *optimizer) fold(n *Node) (Node, bool, error) {
	args := make([]*Node, len(n.Kids))
	for i, k := range n.Kids {
		args[i] = o.tree.Node(k)
		if !args[i].IsLiteral() {
			return Node{}, false, nil
		}
	}
	var (
		res Node
		err error
	)
	if n.Kind == Binary {
		res, err = foldBinary(n.Op, args[0], args[1])
	} else {
		res, err = foldUnary(n.Op, args[0])
	}
	if err != nil {
		return Node{}, false, errors.WithDetailf(err, "%s at %s", n.Op, n.Pos)
	}
	res.Pos = n.Pos
	return res, true, nil
}

func invalid(format string, args ...interface{}) error {
	return errors.WithDetailf(ErrInvalidConstantExpression, format, args...)
}

func literalBytes(n *Node) []byte {
	if n.Kind == Int {
		return script.Int64Bytes(n.Int)
	}
	return n.Bytes
}

func literalNum(n *Node) (int64, error) {
	b := literalBytes(n)
	v, err := script.AsInt64(b, script.MaxNumLen)
	if err != nil {
		return 0, invalid("operand 0x%x is not a %d-byte number", b, script.MaxNumLen)
	}
	return v, nil
}

func intNode(v int64) Node { return Node{Kind: Int, Int: v} }

func boolNode(b bool) Node {
	if b {
		return intNode(1)
	}
	return intNode(0)
}

func bytesNode(b []byte) Node { return Node{Kind: Bytes, Bytes: b} }

func overflow() error { return invalid("integer overflow") }

func foldBinary(op string, l, r *Node) (Node, error) {
	switch op {
	case "EQUAL":
		return boolNode(bytes.Equal(literalBytes(l), literalBytes(r))), nil
	case "NOTEQUAL":
		return boolNode(!bytes.Equal(literalBytes(l), literalBytes(r))), nil
	case "CAT":
		lb, rb := literalBytes(l), literalBytes(r)
		return bytesNode(append(append([]byte{}, lb...), rb...)), nil
	case "AND", "OR", "XOR":
		lb, rb := literalBytes(l), literalBytes(r)
		if len(lb) != len(rb) {
			return Node{}, invalid("operands of %d and %d bytes", len(lb), len(rb))
		}
		res := make([]byte, len(lb))
		for i := range lb {
			switch op {
			case "AND":
				res[i] = lb[i] & rb[i]
			case "OR":
				res[i] = lb[i] | rb[i]
			case "XOR":
				res[i] = lb[i] ^ rb[i]
			}
		}
		return bytesNode(res), nil
	}

	a, err := literalNum(l)
	if err != nil {
		return Node{}, err
	}
	b, err := literalNum(r)
	if err != nil {
		return Node{}, err
	}
	var (
		v  int64
		ok = true
	)
	switch op {
	case "ADD":
		v, ok = checked.AddInt64(a, b)
	case "SUB":
		v, ok = checked.SubInt64(a, b)
	case "MUL":
		v, ok = checked.MulInt64(a, b)
	case "DIV":
		if b == 0 {
			return Node{}, invalid("division by zero")
		}
		v, ok = checked.DivInt64(a, b)
	case "MOD":
		if b == 0 {
			return Node{}, invalid("modulo by zero")
		}
		v, ok = checked.ModInt64(a, b)
	case "LSHIFT", "RSHIFT":
		if b < 0 || b > maxShift {
			return Node{}, invalid("shift count %d", b)
		}
		v, ok = shift(a, b, op == "LSHIFT")
	case "BOOLAND":
		return boolNode(a != 0 && b != 0), nil
	case "BOOLOR":
		return boolNode(a != 0 || b != 0), nil
	case "NUMEQUAL":
		return boolNode(a == b), nil
	case "NUMNOTEQUAL":
		return boolNode(a != b), nil
	case "LESSTHAN":
		return boolNode(a < b), nil
	case "GREATERTHAN":
		return boolNode(a > b), nil
	case "LESSTHANOREQUAL":
		return boolNode(a <= b), nil
	case "GREATERTHANOREQUAL":
		return boolNode(a >= b), nil
	case "MIN":
		v = a
		if b < a {
			v = b
		}
	case "MAX":
		v = a
		if b > a {
			v = b
		}
	default:
		return Node{}, invalid("cannot evaluate %s", op)
	}
	if !ok {
		return Node{}, overflow()
	}
	return intNode(v), nil
}

// shift moves the magnitude of a by n bits and keeps its sign.
func shift(a, n int64, left bool) (int64, bool) {
	mag, ok := checked.AbsInt64(a)
	if !ok {
		return 0, false
	}
	if left {
		mag, ok = checked.LshiftInt64(mag, n)
		if !ok {
			return 0, false
		}
	} else {
		mag >>= uint(n)
	}
	if a < 0 {
		return -mag, true
	}
	return mag, true
}

func foldUnary(op string, x *Node) (Node, error) {
	switch op {
	case "SIZE":
		return intNode(int64(len(literalBytes(x)))), nil
	case "INVERT":
		b := literalBytes(x)
		res := make([]byte, len(b))
		for i, c := range b {
			res[i] = ^c
		}
		return bytesNode(res), nil
	}
	if h, ok := digest.Lookup(op); ok {
		return bytesNode(h(literalBytes(x))), nil
	}

	a, err := literalNum(x)
	if err != nil {
		return Node{}, err
	}
	var (
		v  int64
		ok = true
	)
	switch op {
	case "NEGATE":
		v, ok = checked.NegateInt64(a)
	case "ABS":
		v, ok = checked.AbsInt64(a)
	case "NOT":
		return boolNode(a == 0), nil
	case "0NOTEQUAL":
		return boolNode(a != 0), nil
	case "1ADD":
		v, ok = checked.AddInt64(a, 1)
	case "1SUB":
		v, ok = checked.SubInt64(a, 1)
	case "2MUL":
		v, ok = shift(a, 1, true)
	case "2DIV":
		v, ok = shift(a, 1, false)
	default:
		return Node{}, invalid("cannot evaluate %s", op)
	}
	if !ok {
		return Node{}, overflow()
	}
	return intNode(v), nil
}
