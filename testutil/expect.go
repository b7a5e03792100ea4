// Package testutil has helpers shared by the compiler's tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/script"
)

var wd, _ = os.Getwd()

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// ExpectEqual fails t unless actual and expected dump identically.
func ExpectEqual(t testing.TB, actual, expected interface{}, msg string) {
	a, e := dumper.Sdump(actual), dumper.Sdump(expected)
	if a != e {
		t.Errorf("%s: got %s expected %s\n%s", msg, a, e, stackTrace())
	}
}

// ExpectScriptEqual fails t unless the two programs are byte-identical,
// reporting the difference one instruction per line.
func ExpectScriptEqual(t testing.TB, actual, expected []byte, msg string) {
	if bytes.Equal(actual, expected) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        instructionLines(expected),
		B:        instructionLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	t.Errorf("%s: programs differ\n%s\n%s", msg, diff, stackTrace())
}

// instructionLines disassembles prog one instruction per line. Bytes
// that do not parse are shown in hex.
func instructionLines(prog []byte) []string {
	asm, err := script.Disassemble(prog)
	if err != nil {
		return []string{fmt.Sprintf("%x (%v)\n", prog, err)}
	}
	var lines []string
	for _, tok := range splitAsm(asm) {
		lines = append(lines, tok+"\n")
	}
	return lines
}

// splitAsm splits disassembly at instruction boundaries, keeping a
// push's length and data together.
func splitAsm(asm string) []string {
	var res []string
	fields := strings.Fields(asm)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "PUSHDATA") && i+2 < len(fields) {
			f += " " + fields[i+1] + " " + fields[i+2]
			i += 2
		} else if strings.HasPrefix(f, "0x") && i+1 < len(fields) {
			f += " " + fields[i+1]
			i++
		}
		res = append(res, f)
	}
	return res
}

// ExpectError fails t unless fn returns an error with root expected.
func ExpectError(t testing.TB, expected error, msg string, fn func() error) {
	actual := fn()
	if expected != errors.Root(actual) {
		t.Errorf("%s: got error %v, expected %v\n%s", msg, actual, expected, stackTrace())
	}
}

// FatalErr fails t with err and the stack recorded in it.
func FatalErr(t testing.TB, err error) {
	args := []interface{}{err}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.IndexByte(frame.Func, '.')+1:]
		args = append(args, fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname))
	}
	if d := errors.Data(err); len(d) > 0 {
		args = append(args, "\ndata: "+dumper.Sprint(d))
	}
	t.Fatal(args...)
}

func stackTrace() []byte {
	buf := make([]byte, 16384)
	n := runtime.Stack(buf, false)
	return buf[:n]
}
