package errors

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}
	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}
	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}
	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
	if len(Stack(err2)) == 0 {
		t.Fatal("expected a stack trace")
	}
}

func TestWrapNil(t *testing.T) {
	var err error
	if Wrap(err, "1") != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
	if WithDetail(err, "x") != nil || WithData(err, "k", 1) != nil || Sub(err, nil) != nil {
		t.Fatal("decorating nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "there are %d errors being wrapped", 1)
	if err1.Error() != "there are 1 errors being wrapped: 0" {
		t.Fatalf("err msg = %s want 'there are 1 errors being wrapped: 0'", err1.Error())
	}
}

func TestDetail(t *testing.T) {
	root := errors.New("root")
	err := WithDetail(root, "first")
	err = WithDetailf(err, "second %d", 2)

	if got, want := Detail(err), "first; second 2"; got != want {
		t.Errorf("Detail = %q want %q", got, want)
	}
	if got, want := err.Error(), "second 2: first: root"; got != want {
		t.Errorf("Error = %q want %q", got, want)
	}
	if Root(err) != root {
		t.Errorf("Root = %v want %v", Root(err), root)
	}
}

func TestDetailDoesNotAlias(t *testing.T) {
	base := WithDetail(errors.New("root"), "a")
	x := WithDetail(base, "x")
	y := WithDetail(base, "y")
	if Detail(x) != "a; x" || Detail(y) != "a; y" {
		t.Errorf("got %q and %q", Detail(x), Detail(y))
	}
}

func TestData(t *testing.T) {
	err := WithData(errors.New("root"), "name", "a")
	err = WithData(err, "line", 3)
	want := map[string]interface{}{"name": "a", "line": 3}
	if got := Data(err); !reflect.DeepEqual(got, want) {
		t.Errorf("Data = %v want %v", got, want)
	}
}

func TestSub(t *testing.T) {
	low := errors.New("low")
	high := errors.New("high")
	err := Sub(high, WithDetail(low, "ctx"))
	if Root(err) != high {
		t.Errorf("Root = %v want %v", Root(err), high)
	}
	if !strings.Contains(err.Error(), "low") || !strings.HasPrefix(err.Error(), "high: ") {
		t.Errorf("Error = %q", err.Error())
	}
	if Detail(err) != "ctx" {
		t.Errorf("Detail = %q want ctx", Detail(err))
	}
}

func TestIs(t *testing.T) {
	root := errors.New("root")
	err := Wrap(WithDetail(root, "d"), "w")
	if !Is(err, root) {
		t.Error("Is(err, root) = false")
	}
	if !errors.Is(err, root) {
		t.Error("stdlib errors.Is(err, root) = false")
	}
}
