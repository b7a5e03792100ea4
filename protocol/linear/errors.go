package linear

import "github.com/Kefkius/txsc/errors"

var (
	ErrAltStackUnderflow = errors.New("alt stack underflow")
	ErrBadConditional    = errors.New("malformed conditional")
	ErrDecodeMismatch    = errors.New("decoders disagree")
	ErrDynamicDepth      = errors.New("stack effect depends on runtime value")
	ErrFrozen            = errors.New("instruction container is frozen")
	ErrUnbalancedBranch  = errors.New("conditional branches have unequal stack effects")
)
