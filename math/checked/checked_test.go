package checked

import (
	"math"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestInt64(t *testing.T) {
	cases := []struct {
		f          func(a, b int64) (int64, bool)
		a, b, want int64
		wantOk     bool
	}{
		{AddInt64, 2, 3, 5, true},
		{AddInt64, -2, -3, -5, true},
		{AddInt64, math.MaxInt64, 1, 0, false},
		{AddInt64, math.MinInt64, -1, 0, false},
		{SubInt64, 2, 3, -1, true},
		{SubInt64, math.MinInt64, 1, 0, false},
		{SubInt64, -2, math.MaxInt64, 0, false},
		{MulInt64, -2, 3, -6, true},
		{MulInt64, 0, math.MinInt64, 0, true},
		{MulInt64, math.MaxInt64, -1, math.MinInt64 + 1, true},
		{MulInt64, math.MinInt64, -1, 0, false},
		{MulInt64, -1, math.MinInt64, 0, false},
		{MulInt64, math.MaxInt64, 2, 0, false},
		{MulInt64, -2, math.MinInt64, 0, false},
		{DivInt64, 7, 2, 3, true},
		{DivInt64, -7, 2, -3, true},
		{DivInt64, 1, 0, 0, false},
		{DivInt64, math.MinInt64, -1, 0, false},
		{ModInt64, -7, 2, -1, true},
		{ModInt64, 7, -2, 1, true},
		{ModInt64, 1, 0, 0, false},
		{LshiftInt64, -1, 2, -4, true},
		{LshiftInt64, 1, 64, 0, false},
		{LshiftInt64, 2, 63, 0, false},
	}
	for _, c := range cases {
		got, gotOk := c.f(c.a, c.b)
		if got != c.want || gotOk != c.wantOk {
			t.Errorf("%s(%d, %d) = %d, %v want %d, %v", fname(c.f), c.a, c.b, got, gotOk, c.want, c.wantOk)
		}
	}
}

func TestUnaryInt64(t *testing.T) {
	cases := []struct {
		f       func(a int64) (int64, bool)
		a, want int64
		wantOk  bool
	}{
		{NegateInt64, 1, -1, true},
		{NegateInt64, math.MinInt64, 0, false},
		{AbsInt64, -5, 5, true},
		{AbsInt64, 5, 5, true},
		{AbsInt64, math.MinInt64, 0, false},
	}
	for _, c := range cases {
		got, gotOk := c.f(c.a)
		if got != c.want || gotOk != c.wantOk {
			t.Errorf("%s(%d) = %d, %v want %d, %v", fname(c.f), c.a, got, gotOk, c.want, c.wantOk)
		}
	}
}

func TestAddUint32(t *testing.T) {
	if got, ok := AddUint32(math.MaxUint32-1, 1); !ok || got != math.MaxUint32 {
		t.Errorf("AddUint32(max-1, 1) = %d, %v", got, ok)
	}
	if _, ok := AddUint32(math.MaxUint32, 1); ok {
		t.Error("AddUint32(max, 1) ok = true")
	}
}

func fname(f interface{}) string {
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	return name[strings.IndexRune(name, '.')+1:]
}
