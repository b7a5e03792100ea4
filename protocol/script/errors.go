package script

import "errors"

var (
	ErrBadValue      = errors.New("bad value")
	ErrLongProgram   = errors.New("program size exceeds max int32")
	ErrRange         = errors.New("script number out of range")
	ErrShortProgram  = errors.New("unexpected end of program")
	ErrToken         = errors.New("unrecognized token")
	ErrUnknownOpcode = errors.New("unknown opcode")
)
