package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kefkius/txsc/protocol/txsc"
)

var testDefaults = config{From: "sir", To: "asm", Options: txsc.DefaultOptions()}

const addEqual = `{"kind": "block", "args": [{"kind": "binary", "op": "EQUAL", "args": [
	{"kind": "binary", "op": "ADD", "args": [{"kind": "int", "int": 2}, {"kind": "int", "int": 5}]},
	{"kind": "int", "int": 7}]}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := ioutil.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runTest(t *testing.T, args []string, stdin string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errout bytes.Buffer
	code = run(args, testDefaults, strings.NewReader(stdin), &out, &errout)
	return code, out.String(), errout.String()
}

func TestStdin(t *testing.T) {
	code, out, stderr := runTest(t, nil, addEqual)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "2 5 ADD 7 EQUAL\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestFlagsOverride(t *testing.T) {
	code, out, stderr := runTest(t, []string{"-from", "asm", "-to", "hex"}, "0 PICK")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "76\n" {
		t.Errorf("stdout = %q", out)
	}

	code, out, _ = runTest(t, []string{"-from", "asm", "-O", "0"}, "0 PICK")
	if code != 0 || out != "0 PICK\n" {
		t.Errorf("-O 0: exit %d stdout %q", code, out)
	}
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "txsc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	cfg := writeFile(t, dir, "txsc.yml", "from: asm\nto: asm\noptimization: 0\n")

	code, out, _ := runTest(t, []string{"-config", cfg}, "1 ROLL")
	if code != 0 || out != "1 ROLL\n" {
		t.Errorf("config: exit %d stdout %q", code, out)
	}
	// Flags win over the file.
	code, out, _ = runTest(t, []string{"-config", cfg, "-O", "1"}, "1 ROLL")
	if code != 0 || out != "SWAP\n" {
		t.Errorf("config with -O: exit %d stdout %q", code, out)
	}

	bad := writeFile(t, dir, "bad.yml", "optimisation: 2\n")
	code, _, stderr := runTest(t, []string{"-config", bad}, "")
	if code != 2 || !strings.Contains(stderr, bad+": ") {
		t.Errorf("unknown config key: exit %d stderr %q", code, stderr)
	}
}

func TestFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "txsc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	good := writeFile(t, dir, "good.asm", "1 ROLL")
	bad := writeFile(t, dir, "bad.asm", "NOSUCHOP")

	code, out, stderr := runTest(t, []string{"-from", "asm", good, bad}, "")
	if code != 1 {
		t.Errorf("exit %d want 1", code)
	}
	if out != good+":\nSWAP\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(stderr, "file="+bad) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestTraceOutput(t *testing.T) {
	code, _, stderr := runTest(t, []string{"-from", "asm", "-trace"}, "0 PICK 2 ADD")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"pass=peephole", "--- lowered", "+DUP"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}
}

func TestList(t *testing.T) {
	code, out, _ := runTest(t, []string{"-list"}, "")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "sir") || !strings.Contains(out, "structural IR as JSON") {
		t.Errorf("stdout = %q", out)
	}
}

func TestBadLevel(t *testing.T) {
	if code, _, _ := runTest(t, []string{"-O", "3"}, addEqual); code != 2 {
		t.Errorf("exit %d want 2", code)
	}
}
