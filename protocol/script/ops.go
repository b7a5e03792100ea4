package script

import (
	"fmt"
	"strings"
)

type Op uint8

func (op Op) String() string {
	return ops[op].name
}

const (
	OP_0     Op = 0x00
	OP_FALSE Op = 0x00 // synonym

	OP_DATA_1  Op = 0x01
	OP_DATA_20 Op = 0x14
	OP_DATA_32 Op = 0x20
	OP_DATA_33 Op = 0x21
	OP_DATA_75 Op = 0x4b

	OP_PUSHDATA1 Op = 0x4c
	OP_PUSHDATA2 Op = 0x4d
	OP_PUSHDATA4 Op = 0x4e
	OP_1NEGATE   Op = 0x4f
	OP_RESERVED  Op = 0x50

	OP_1    Op = 0x51
	OP_TRUE Op = 0x51 // synonym
	OP_2    Op = 0x52
	OP_3    Op = 0x53
	OP_4    Op = 0x54
	OP_5    Op = 0x55
	OP_6    Op = 0x56
	OP_7    Op = 0x57
	OP_8    Op = 0x58
	OP_9    Op = 0x59
	OP_10   Op = 0x5a
	OP_11   Op = 0x5b
	OP_12   Op = 0x5c
	OP_13   Op = 0x5d
	OP_14   Op = 0x5e
	OP_15   Op = 0x5f
	OP_16   Op = 0x60

	OP_NOP      Op = 0x61
	OP_VER      Op = 0x62
	OP_IF       Op = 0x63
	OP_NOTIF    Op = 0x64
	OP_VERIF    Op = 0x65
	OP_VERNOTIF Op = 0x66
	OP_ELSE     Op = 0x67
	OP_ENDIF    Op = 0x68
	OP_VERIFY   Op = 0x69
	OP_RETURN   Op = 0x6a

	OP_TOALTSTACK   Op = 0x6b
	OP_FROMALTSTACK Op = 0x6c
	OP_2DROP        Op = 0x6d
	OP_2DUP         Op = 0x6e
	OP_3DUP         Op = 0x6f
	OP_2OVER        Op = 0x70
	OP_2ROT         Op = 0x71
	OP_2SWAP        Op = 0x72
	OP_IFDUP        Op = 0x73
	OP_DEPTH        Op = 0x74
	OP_DROP         Op = 0x75
	OP_DUP          Op = 0x76
	OP_NIP          Op = 0x77
	OP_OVER         Op = 0x78
	OP_PICK         Op = 0x79
	OP_ROLL         Op = 0x7a
	OP_ROT          Op = 0x7b
	OP_SWAP         Op = 0x7c
	OP_TUCK         Op = 0x7d

	OP_CAT    Op = 0x7e
	OP_SUBSTR Op = 0x7f
	OP_LEFT   Op = 0x80
	OP_RIGHT  Op = 0x81
	OP_SIZE   Op = 0x82

	OP_INVERT      Op = 0x83
	OP_AND         Op = 0x84
	OP_OR          Op = 0x85
	OP_XOR         Op = 0x86
	OP_EQUAL       Op = 0x87
	OP_EQUALVERIFY Op = 0x88
	OP_RESERVED1   Op = 0x89
	OP_RESERVED2   Op = 0x8a

	OP_1ADD               Op = 0x8b
	OP_1SUB               Op = 0x8c
	OP_2MUL               Op = 0x8d
	OP_2DIV               Op = 0x8e
	OP_NEGATE             Op = 0x8f
	OP_ABS                Op = 0x90
	OP_NOT                Op = 0x91
	OP_0NOTEQUAL          Op = 0x92
	OP_ADD                Op = 0x93
	OP_SUB                Op = 0x94
	OP_MUL                Op = 0x95
	OP_DIV                Op = 0x96
	OP_MOD                Op = 0x97
	OP_LSHIFT             Op = 0x98
	OP_RSHIFT             Op = 0x99
	OP_BOOLAND            Op = 0x9a
	OP_BOOLOR             Op = 0x9b
	OP_NUMEQUAL           Op = 0x9c
	OP_NUMEQUALVERIFY     Op = 0x9d
	OP_NUMNOTEQUAL        Op = 0x9e
	OP_LESSTHAN           Op = 0x9f
	OP_GREATERTHAN        Op = 0xa0
	OP_LESSTHANOREQUAL    Op = 0xa1
	OP_GREATERTHANOREQUAL Op = 0xa2
	OP_MIN                Op = 0xa3
	OP_MAX                Op = 0xa4
	OP_WITHIN             Op = 0xa5

	OP_RIPEMD160           Op = 0xa6
	OP_SHA1                Op = 0xa7
	OP_SHA256              Op = 0xa8
	OP_HASH160             Op = 0xa9
	OP_HASH256             Op = 0xaa
	OP_CODESEPARATOR       Op = 0xab
	OP_CHECKSIG            Op = 0xac
	OP_CHECKSIGVERIFY      Op = 0xad
	OP_CHECKMULTISIG       Op = 0xae
	OP_CHECKMULTISIGVERIFY Op = 0xaf

	OP_NOP1                Op = 0xb0
	OP_CHECKLOCKTIMEVERIFY Op = 0xb1
	OP_CHECKSEQUENCEVERIFY Op = 0xb2
	OP_NOP4                Op = 0xb3
	OP_NOP5                Op = 0xb4
	OP_NOP6                Op = 0xb5
	OP_NOP7                Op = 0xb6
	OP_NOP8                Op = 0xb7
	OP_NOP9                Op = 0xb8
	OP_NOP10               Op = 0xb9
)

// Special stack-effect markers.
const (
	// dynamic ops take their item count from the stack
	// (PICK, ROLL, CHECKMULTISIG and friends).
	dynamic = -1
)

type opInfo struct {
	op     Op
	name   string
	pops   int
	pushes int
	known  bool // false for opcodes that are not assigned
}

var (
	ops = [256]opInfo{
		OP_0:         {OP_0, "0", 0, 1, true},
		OP_PUSHDATA1: {OP_PUSHDATA1, "PUSHDATA1", 0, 1, true},
		OP_PUSHDATA2: {OP_PUSHDATA2, "PUSHDATA2", 0, 1, true},
		OP_PUSHDATA4: {OP_PUSHDATA4, "PUSHDATA4", 0, 1, true},
		OP_1NEGATE:   {OP_1NEGATE, "1NEGATE", 0, 1, true},
		OP_RESERVED:  {OP_RESERVED, "RESERVED", 0, 0, true},

		// control flow
		OP_NOP:      {OP_NOP, "NOP", 0, 0, true},
		OP_VER:      {OP_VER, "VER", 0, 0, true},
		OP_IF:       {OP_IF, "IF", 1, 0, true},
		OP_NOTIF:    {OP_NOTIF, "NOTIF", 1, 0, true},
		OP_VERIF:    {OP_VERIF, "VERIF", 0, 0, true},
		OP_VERNOTIF: {OP_VERNOTIF, "VERNOTIF", 0, 0, true},
		OP_ELSE:     {OP_ELSE, "ELSE", 0, 0, true},
		OP_ENDIF:    {OP_ENDIF, "ENDIF", 0, 0, true},
		OP_VERIFY:   {OP_VERIFY, "VERIFY", 1, 0, true},
		OP_RETURN:   {OP_RETURN, "RETURN", 0, 0, true},

		// stack
		OP_TOALTSTACK:   {OP_TOALTSTACK, "TOALTSTACK", 1, 0, true},
		OP_FROMALTSTACK: {OP_FROMALTSTACK, "FROMALTSTACK", 0, 1, true},
		OP_2DROP:        {OP_2DROP, "2DROP", 2, 0, true},
		OP_2DUP:         {OP_2DUP, "2DUP", 2, 4, true},
		OP_3DUP:         {OP_3DUP, "3DUP", 3, 6, true},
		OP_2OVER:        {OP_2OVER, "2OVER", 4, 6, true},
		OP_2ROT:         {OP_2ROT, "2ROT", 6, 6, true},
		OP_2SWAP:        {OP_2SWAP, "2SWAP", 4, 4, true},
		OP_IFDUP:        {OP_IFDUP, "IFDUP", 1, dynamic, true},
		OP_DEPTH:        {OP_DEPTH, "DEPTH", 0, 1, true},
		OP_DROP:         {OP_DROP, "DROP", 1, 0, true},
		OP_DUP:          {OP_DUP, "DUP", 1, 2, true},
		OP_NIP:          {OP_NIP, "NIP", 2, 1, true},
		OP_OVER:         {OP_OVER, "OVER", 2, 3, true},
		OP_PICK:         {OP_PICK, "PICK", dynamic, dynamic, true},
		OP_ROLL:         {OP_ROLL, "ROLL", dynamic, dynamic, true},
		OP_ROT:          {OP_ROT, "ROT", 3, 3, true},
		OP_SWAP:         {OP_SWAP, "SWAP", 2, 2, true},
		OP_TUCK:         {OP_TUCK, "TUCK", 2, 3, true},

		// splice
		OP_CAT:    {OP_CAT, "CAT", 2, 1, true},
		OP_SUBSTR: {OP_SUBSTR, "SUBSTR", 3, 1, true},
		OP_LEFT:   {OP_LEFT, "LEFT", 2, 1, true},
		OP_RIGHT:  {OP_RIGHT, "RIGHT", 2, 1, true},
		OP_SIZE:   {OP_SIZE, "SIZE", 1, 2, true},

		// bitwise
		OP_INVERT:      {OP_INVERT, "INVERT", 1, 1, true},
		OP_AND:         {OP_AND, "AND", 2, 1, true},
		OP_OR:          {OP_OR, "OR", 2, 1, true},
		OP_XOR:         {OP_XOR, "XOR", 2, 1, true},
		OP_EQUAL:       {OP_EQUAL, "EQUAL", 2, 1, true},
		OP_EQUALVERIFY: {OP_EQUALVERIFY, "EQUALVERIFY", 2, 0, true},
		OP_RESERVED1:   {OP_RESERVED1, "RESERVED1", 0, 0, true},
		OP_RESERVED2:   {OP_RESERVED2, "RESERVED2", 0, 0, true},

		// numeric
		OP_1ADD:               {OP_1ADD, "1ADD", 1, 1, true},
		OP_1SUB:               {OP_1SUB, "1SUB", 1, 1, true},
		OP_2MUL:               {OP_2MUL, "2MUL", 1, 1, true},
		OP_2DIV:               {OP_2DIV, "2DIV", 1, 1, true},
		OP_NEGATE:             {OP_NEGATE, "NEGATE", 1, 1, true},
		OP_ABS:                {OP_ABS, "ABS", 1, 1, true},
		OP_NOT:                {OP_NOT, "NOT", 1, 1, true},
		OP_0NOTEQUAL:          {OP_0NOTEQUAL, "0NOTEQUAL", 1, 1, true},
		OP_ADD:                {OP_ADD, "ADD", 2, 1, true},
		OP_SUB:                {OP_SUB, "SUB", 2, 1, true},
		OP_MUL:                {OP_MUL, "MUL", 2, 1, true},
		OP_DIV:                {OP_DIV, "DIV", 2, 1, true},
		OP_MOD:                {OP_MOD, "MOD", 2, 1, true},
		OP_LSHIFT:             {OP_LSHIFT, "LSHIFT", 2, 1, true},
		OP_RSHIFT:             {OP_RSHIFT, "RSHIFT", 2, 1, true},
		OP_BOOLAND:            {OP_BOOLAND, "BOOLAND", 2, 1, true},
		OP_BOOLOR:             {OP_BOOLOR, "BOOLOR", 2, 1, true},
		OP_NUMEQUAL:           {OP_NUMEQUAL, "NUMEQUAL", 2, 1, true},
		OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "NUMEQUALVERIFY", 2, 0, true},
		OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "NUMNOTEQUAL", 2, 1, true},
		OP_LESSTHAN:           {OP_LESSTHAN, "LESSTHAN", 2, 1, true},
		OP_GREATERTHAN:        {OP_GREATERTHAN, "GREATERTHAN", 2, 1, true},
		OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "LESSTHANOREQUAL", 2, 1, true},
		OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "GREATERTHANOREQUAL", 2, 1, true},
		OP_MIN:                {OP_MIN, "MIN", 2, 1, true},
		OP_MAX:                {OP_MAX, "MAX", 2, 1, true},
		OP_WITHIN:             {OP_WITHIN, "WITHIN", 3, 1, true},

		// crypto
		OP_RIPEMD160:           {OP_RIPEMD160, "RIPEMD160", 1, 1, true},
		OP_SHA1:                {OP_SHA1, "SHA1", 1, 1, true},
		OP_SHA256:              {OP_SHA256, "SHA256", 1, 1, true},
		OP_HASH160:             {OP_HASH160, "HASH160", 1, 1, true},
		OP_HASH256:             {OP_HASH256, "HASH256", 1, 1, true},
		OP_CODESEPARATOR:       {OP_CODESEPARATOR, "CODESEPARATOR", 0, 0, true},
		OP_CHECKSIG:            {OP_CHECKSIG, "CHECKSIG", 2, 1, true},
		OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "CHECKSIGVERIFY", 2, 0, true},
		OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "CHECKMULTISIG", dynamic, 1, true},
		OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "CHECKMULTISIGVERIFY", dynamic, 0, true},

		// expansion; CHECKLOCKTIMEVERIFY and CHECKSEQUENCEVERIFY
		// leave their argument on the stack
		OP_NOP1:                {OP_NOP1, "NOP1", 0, 0, true},
		OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "CHECKLOCKTIMEVERIFY", 1, 1, true},
		OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "CHECKSEQUENCEVERIFY", 1, 1, true},
		OP_NOP4:                {OP_NOP4, "NOP4", 0, 0, true},
		OP_NOP5:                {OP_NOP5, "NOP5", 0, 0, true},
		OP_NOP6:                {OP_NOP6, "NOP6", 0, 0, true},
		OP_NOP7:                {OP_NOP7, "NOP7", 0, 0, true},
		OP_NOP8:                {OP_NOP8, "NOP8", 0, 0, true},
		OP_NOP9:                {OP_NOP9, "NOP9", 0, 0, true},
		OP_NOP10:               {OP_NOP10, "NOP10", 0, 0, true},
	}

	opsByName map[string]opInfo

	// verifyForms maps an opcode to its fused -VERIFY counterpart.
	verifyForms = map[Op]Op{
		OP_EQUAL:         OP_EQUALVERIFY,
		OP_NUMEQUAL:      OP_NUMEQUALVERIFY,
		OP_CHECKSIG:      OP_CHECKSIGVERIFY,
		OP_CHECKMULTISIG: OP_CHECKMULTISIGVERIFY,
	}
)

func init() {
	for i := 1; i <= 75; i++ {
		ops[i] = opInfo{Op(i), fmt.Sprintf("DATA_%d", i), 0, 1, true}
	}
	for i := 0; i < 16; i++ {
		op := OP_1 + Op(i)
		ops[op] = opInfo{op, fmt.Sprintf("%d", i+1), 0, 1, true}
	}

	opsByName = make(map[string]opInfo)
	for _, info := range ops {
		if info.known {
			opsByName[info.name] = info
		}
	}
	opsByName["FALSE"] = ops[OP_FALSE]
	opsByName["TRUE"] = ops[OP_TRUE]
	opsByName["NOP2"] = ops[OP_CHECKLOCKTIMEVERIFY]
	opsByName["NOP3"] = ops[OP_CHECKSEQUENCEVERIFY]

	for i := range ops {
		if !ops[i].known {
			ops[i] = opInfo{op: Op(i), name: fmt.Sprintf("UNKNOWN%d", i)}
		}
	}
}

// OpByName returns the opcode with the given name. The name may carry
// an OP_ prefix and is matched case-insensitively.
func OpByName(name string) (Op, bool) {
	name = strings.TrimPrefix(strings.ToUpper(name), "OP_")
	info, ok := opsByName[name]
	return info.op, ok
}

// Known reports whether op is assigned in the opcode table.
func (op Op) Known() bool {
	return ops[op].known
}

// IsPush reports whether op pushes a constant, including the
// small-integer opcodes.
func (op Op) IsPush() bool {
	return op <= OP_16 && op != OP_RESERVED
}

// IsSmallInt reports whether op is OP_0 or one of OP_1 through OP_16.
func (op Op) IsSmallInt() bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// IsConditional reports whether op opens, alternates or closes
// a conditional branch.
func (op Op) IsConditional() bool {
	switch op {
	case OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF:
		return true
	}
	return false
}

// StackEffect returns the number of items op pops and pushes.
// It reports ok=false for opcodes whose effect depends on stack
// contents; see Dynamic.
func (op Op) StackEffect() (pops, pushes int, ok bool) {
	info := ops[op]
	if info.pops == dynamic || info.pushes == dynamic {
		return 0, 0, false
	}
	return info.pops, info.pushes, true
}

// Dynamic reports whether op's stack effect depends on stack contents.
func (op Op) Dynamic() bool {
	_, _, ok := op.StackEffect()
	return !ok
}

// VerifyForm returns the fused opcode equivalent to op followed by
// OP_VERIFY, if there is one.
func (op Op) VerifyForm() (Op, bool) {
	v, ok := verifyForms[op]
	return v, ok
}
