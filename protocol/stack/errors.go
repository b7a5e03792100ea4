package stack

import "github.com/Kefkius/txsc/errors"

var (
	ErrDuplicateName           = errors.New("duplicate name")
	ErrIndeterminateStackDepth = errors.New("indeterminate stack depth")
	ErrUnbalancedScope         = errors.New("unbalanced scope")
	ErrUnboundName             = errors.New("unbound name")
)
