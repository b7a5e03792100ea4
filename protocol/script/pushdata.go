package script

import "encoding/binary"

// PushOp returns the canonical (smallest) opcode that pushes data.
func PushOp(data []byte) Op {
	n := len(data)
	switch {
	case n == 0:
		return OP_0
	case n == 1 && data[0] >= 1 && data[0] <= 16:
		return OP_1 + Op(data[0]-1)
	case n == 1 && data[0] == 0x81:
		return OP_1NEGATE
	case n <= int(OP_DATA_75):
		return Op(n)
	case n <= 0xff:
		return OP_PUSHDATA1
	case n <= 0xffff:
		return OP_PUSHDATA2
	}
	return OP_PUSHDATA4
}

// SmallIntValue returns the value pushed by a small-integer or
// 1NEGATE opcode.
func SmallIntValue(op Op) ([]byte, bool) {
	switch {
	case op == OP_0:
		return []byte{}, true
	case op == OP_1NEGATE:
		return []byte{0x81}, true
	case op >= OP_1 && op <= OP_16:
		return []byte{byte(op-OP_1) + 1}, true
	}
	return nil, false
}

// EncodePush appends to b the encoding of a push of data using op.
// The caller must ensure op can push data; for opcodes that carry
// their value implicitly only the opcode byte is written.
func EncodePush(b []byte, op Op, data []byte) []byte {
	b = append(b, byte(op))
	switch {
	case op >= OP_DATA_1 && op <= OP_DATA_75:
	case op == OP_PUSHDATA1:
		b = append(b, byte(len(data)))
	case op == OP_PUSHDATA2:
		var n [2]byte
		binary.LittleEndian.PutUint16(n[:], uint16(len(data)))
		b = append(b, n[:]...)
	case op == OP_PUSHDATA4:
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(data)))
		b = append(b, n[:]...)
	default:
		return b
	}
	return append(b, data...)
}

// PushdataBytes returns the canonical encoding of a push of data.
func PushdataBytes(data []byte) []byte {
	return EncodePush(nil, PushOp(data), data)
}

// PushdataInt64 returns the canonical encoding of a push of n.
func PushdataInt64(n int64) []byte {
	return PushdataBytes(Int64Bytes(n))
}

// CanPush reports whether op is able to push n bytes of data.
func CanPush(op Op, n int) bool {
	switch {
	case op >= OP_DATA_1 && op <= OP_DATA_75:
		return int(op) == n
	case op == OP_PUSHDATA1:
		return n <= 0xff
	case op == OP_PUSHDATA2:
		return n <= 0xffff
	case op == OP_PUSHDATA4:
		return uint64(n) <= 0xffffffff
	}
	return false
}
