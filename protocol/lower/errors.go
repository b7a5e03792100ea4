package lower

import "github.com/Kefkius/txsc/errors"

var (
	ErrUnreachableCode    = errors.New("unreachable code")
	ErrUnsupportedFeature = errors.New("unsupported feature")
)
