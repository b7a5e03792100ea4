package structural

import "github.com/Kefkius/txsc/errors"

var (
	ErrInvalidConstantExpression = errors.New("invalid constant expression")
	ErrMalformedTree             = errors.New("malformed structural tree")
)
