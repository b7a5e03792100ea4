package script

import (
	"bytes"
	"testing"
)

func TestPushdataBytes(t *testing.T) {
	type test struct {
		data []byte
		want []byte
	}
	cases := []test{
		{nil, []byte{byte(OP_0)}},
		{[]byte{1}, []byte{byte(OP_1)}},
		{[]byte{16}, []byte{byte(OP_16)}},
		{[]byte{17}, []byte{byte(OP_DATA_1), 17}},
		{[]byte{0x81}, []byte{byte(OP_1NEGATE)}},
		{[]byte{0}, []byte{byte(OP_DATA_1), 0}},
	}

	for i := 2; i <= 0x4b; i++ {
		data := bytes.Repeat([]byte{'a'}, i)
		cases = append(cases, test{data, append([]byte{byte(i)}, data...)})
	}
	data := bytes.Repeat([]byte{'a'}, 0x4c)
	cases = append(cases, test{data, append([]byte{byte(OP_PUSHDATA1), 0x4c}, data...)})
	data = bytes.Repeat([]byte{'a'}, 0x100)
	cases = append(cases, test{data, append([]byte{byte(OP_PUSHDATA2), 0x00, 0x01}, data...)})
	data = bytes.Repeat([]byte{'a'}, 0x10000)
	cases = append(cases, test{data, append([]byte{byte(OP_PUSHDATA4), 0x00, 0x00, 0x01, 0x00}, data...)})

	for _, c := range cases {
		got := PushdataBytes(c.data)
		if !bytes.Equal(got, c.want) {
			t.Errorf("PushdataBytes(%d bytes) = %x want %x", len(c.data), got[:min(len(got), 8)], c.want[:min(len(c.want), 8)])
		}
	}
}

func TestPushdataInt64(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{byte(OP_0)}},
		{7, []byte{byte(OP_7)}},
		{-1, []byte{byte(OP_1NEGATE)}},
		{-5, []byte{byte(OP_DATA_1), 0x85}},
		{1000, []byte{byte(OP_DATA_1) + 1, 0xe8, 0x03}},
	}
	for _, c := range cases {
		if got := PushdataInt64(c.n); !bytes.Equal(got, c.want) {
			t.Errorf("PushdataInt64(%d) = %x want %x", c.n, got, c.want)
		}
	}
}
