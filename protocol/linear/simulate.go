package linear

import (
	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/script"
)

// Effect summarizes the stack behavior of an instruction sequence.
type Effect struct {
	// Net is the number of items pushed minus the number popped.
	Net int
	// Consumed is the number of items the sequence reads from below
	// its starting stack top.
	Consumed int
}

// slot is a simulated stack item; known values are tracked so that
// PICK, ROLL and CHECKMULTISIG counts can be read from preceding pushes.
type slot struct {
	n     int64
	known bool
}

type simState struct {
	stack    []slot
	consumed int
	alt      int
}

func (s *simState) net() int { return len(s.stack) - s.consumed }

func (s *simState) clone() simState {
	return simState{stack: append([]slot(nil), s.stack...), consumed: s.consumed, alt: s.alt}
}

// need makes sure at least n items are present, drawing the rest
// from the incoming stack.
func (s *simState) need(n int) {
	if short := n - len(s.stack); short > 0 {
		s.stack = append(make([]slot, short), s.stack...)
		s.consumed += short
	}
}

func (s *simState) pop() slot {
	s.need(1)
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

func (s *simState) popCount(op script.Op) (int, error) {
	v := s.pop()
	if !v.known {
		return 0, errors.WithDetailf(ErrDynamicDepth, "%s count is not a literal", op)
	}
	if v.n < 0 {
		return 0, errors.WithDetailf(ErrDynamicDepth, "%s count %d is negative", op, v.n)
	}
	return int(v.n), nil
}

func (s *simState) push(v slot) { s.stack = append(s.stack, v) }

type branch struct {
	start   simState
	then    *simState
	hasElse bool
}

// Simulate computes the stack effect of instrs from the opcode table
// alone, without reference to how the instructions were produced.
// Both arms of a conditional must have the same net effect.
func Simulate(instrs []Instruction) (Effect, error) {
	var (
		st    simState
		conds []branch
	)
	for i, in := range instrs {
		op := in.Op
		switch {
		case op.IsPush():
			v := slot{}
			if n, ok := in.Int(); ok {
				v = slot{n: n, known: true}
			}
			st.push(v)
			continue

		case op == script.OP_IF || op == script.OP_NOTIF:
			st.pop()
			conds = append(conds, branch{start: st.clone()})
			continue

		case op == script.OP_ELSE:
			if len(conds) == 0 || conds[len(conds)-1].hasElse {
				return Effect{}, errors.WithDetailf(ErrBadConditional, "unexpected ELSE at %d", i)
			}
			b := &conds[len(conds)-1]
			then := st
			b.then = &then
			b.hasElse = true
			st = b.start.clone()
			continue

		case op == script.OP_ENDIF:
			if len(conds) == 0 {
				return Effect{}, errors.WithDetailf(ErrBadConditional, "unexpected ENDIF at %d", i)
			}
			b := conds[len(conds)-1]
			conds = conds[:len(conds)-1]
			other := b.start
			if b.then != nil {
				other = *b.then
			}
			if other.net() != st.net() {
				return Effect{}, errors.WithDetailf(ErrUnbalancedBranch, "ENDIF at %d: %+d vs %+d", i, other.net(), st.net())
			}
			if other.alt != st.alt {
				return Effect{}, errors.WithDetailf(ErrUnbalancedBranch, "ENDIF at %d: alt stack differs", i)
			}
			consumed := st.consumed
			if other.consumed > consumed {
				consumed = other.consumed
			}
			// Values may differ between arms, so forget them.
			st = simState{stack: make([]slot, st.net()+consumed), consumed: consumed, alt: st.alt}
			continue
		}

		switch op {
		case script.OP_PICK, script.OP_ROLL:
			n, err := st.popCount(op)
			if err != nil {
				return Effect{}, err
			}
			st.need(n + 1)
			idx := len(st.stack) - 1 - n
			v := st.stack[idx]
			if op == script.OP_ROLL {
				st.stack = append(st.stack[:idx], st.stack[idx+1:]...)
			}
			st.push(v)

		case script.OP_CHECKMULTISIG, script.OP_CHECKMULTISIGVERIFY:
			keys, err := st.popCount(op)
			if err != nil {
				return Effect{}, err
			}
			for j := 0; j < keys; j++ {
				st.pop()
			}
			sigs, err := st.popCount(op)
			if err != nil {
				return Effect{}, err
			}
			for j := 0; j < sigs+1; j++ { // +1 for the extra item CHECKMULTISIG consumes
				st.pop()
			}
			if op == script.OP_CHECKMULTISIG {
				st.push(slot{})
			}

		case script.OP_TOALTSTACK:
			st.pop()
			st.alt++

		case script.OP_FROMALTSTACK:
			if st.alt == 0 {
				return Effect{}, errors.WithDetailf(ErrAltStackUnderflow, "FROMALTSTACK at %d", i)
			}
			st.alt--
			st.push(slot{})

		default:
			pops, pushes, ok := op.StackEffect()
			if !ok {
				return Effect{}, errors.WithDetailf(ErrDynamicDepth, "%s at %d", op, i)
			}
			for j := 0; j < pops; j++ {
				st.pop()
			}
			for j := 0; j < pushes; j++ {
				st.push(slot{})
			}
		}
	}
	if len(conds) > 0 {
		return Effect{}, errors.WithDetailf(ErrBadConditional, "%d unterminated IF", len(conds))
	}
	return Effect{Net: st.net(), Consumed: st.consumed}, nil
}
