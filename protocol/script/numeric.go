package script

import "github.com/Kefkius/txsc/errors"

// MaxNumLen is the largest byte length accepted for a numeric
// operand by the arithmetic opcodes.
const MaxNumLen = 4

// Int64Bytes returns the minimal script-number encoding of n:
// little-endian magnitude with the sign in the high bit of the
// last byte. Zero encodes as the empty string.
func Int64Bytes(n int64) []byte {
	if n == 0 {
		return []byte{}
	}
	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = uint64(-n)
	}
	var res []byte
	for mag > 0 {
		res = append(res, byte(mag&0xff))
		mag >>= 8
	}
	if res[len(res)-1]&0x80 != 0 {
		extra := byte(0x00)
		if neg {
			extra = 0x80
		}
		res = append(res, extra)
	} else if neg {
		res[len(res)-1] |= 0x80
	}
	return res
}

// AsInt64 decodes a script number of at most maxLen bytes.
// Non-minimal encodings are accepted.
func AsInt64(b []byte, maxLen int) (int64, error) {
	if len(b) > maxLen {
		return 0, errors.WithDetailf(ErrRange, "number is %d bytes, max %d", len(b), maxLen)
	}
	if len(b) > 8 {
		return 0, errors.WithDetailf(ErrRange, "number is %d bytes", len(b))
	}
	if len(b) == 0 {
		return 0, nil
	}
	var mag uint64
	for i, c := range b {
		if i == len(b)-1 {
			c &^= 0x80
		}
		mag |= uint64(c) << (8 * uint(i))
	}
	if len(b) == 8 && mag > 1<<63-1 {
		return 0, errors.WithDetail(ErrRange, "number exceeds int64")
	}
	n := int64(mag)
	if b[len(b)-1]&0x80 != 0 {
		n = -n
	}
	return n, nil
}

// IsMinimal reports whether b is the minimal encoding of its value.
func IsMinimal(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	last := b[len(b)-1]
	if last&0x7f != 0 {
		return true
	}
	return len(b) > 1 && b[len(b)-2]&0x80 != 0
}

// AsBool interprets b as a boolean: false is any string of zero bytes,
// optionally ending in 0x80 (negative zero).
func AsBool(b []byte) bool {
	for i, c := range b {
		if c != 0 {
			if i == len(b)-1 && c == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

// BoolBytes returns the value the script machine pushes for a
// boolean result.
func BoolBytes(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{}
}
