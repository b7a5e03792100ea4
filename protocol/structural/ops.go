package structural

type binaryOp struct {
	commutative bool
	// mirror is the operator that gives the same result with the
	// operands swapped, for the ordering comparisons.
	mirror string
}

var binaryOps = map[string]binaryOp{
	"ADD":    {commutative: true},
	"SUB":    {},
	"MUL":    {commutative: true},
	"DIV":    {},
	"MOD":    {},
	"LSHIFT": {},
	"RSHIFT": {},

	"BOOLAND":     {commutative: true},
	"BOOLOR":      {commutative: true},
	"NUMEQUAL":    {commutative: true},
	"NUMNOTEQUAL": {commutative: true},
	"MIN":         {commutative: true},
	"MAX":         {commutative: true},

	"LESSTHAN":           {mirror: "GREATERTHAN"},
	"GREATERTHAN":        {mirror: "LESSTHAN"},
	"LESSTHANOREQUAL":    {mirror: "GREATERTHANOREQUAL"},
	"GREATERTHANOREQUAL": {mirror: "LESSTHANOREQUAL"},

	"EQUAL":    {commutative: true},
	"NOTEQUAL": {commutative: true},
	"AND":      {commutative: true},
	"OR":       {commutative: true},
	"XOR":      {commutative: true},
	"CAT":      {},
}

var unaryOps = map[string]bool{
	"NEGATE":    true,
	"NOT":       true,
	"ABS":       true,
	"INVERT":    true,
	"1ADD":      true,
	"1SUB":      true,
	"2MUL":      true,
	"2DIV":      true,
	"0NOTEQUAL": true,
	"SIZE":      true,
	"RIPEMD160": true,
	"SHA1":      true,
	"SHA256":    true,
	"HASH160":   true,
	"HASH256":   true,
}

// IsBinaryOp reports whether op names a binary operator.
func IsBinaryOp(op string) bool {
	_, ok := binaryOps[op]
	return ok
}

// IsUnaryOp reports whether op names a unary operator.
func IsUnaryOp(op string) bool {
	return unaryOps[op]
}

// IsCommutative reports whether the binary operator op gives the same
// result for either operand order.
func IsCommutative(op string) bool {
	return binaryOps[op].commutative
}
