package metrics

import (
	"errors"
	"strings"
	"testing"
)

func TestCounters(t *testing.T) {
	before := Counters()
	Compiled(nil)
	Compiled(errors.New("x"))
	Folded(3)
	Rewrites(2)
	after := Counters()

	want := map[string]uint64{
		"txsc.compile.ok":        1,
		"txsc.compile.err":       1,
		"txsc.fold.nodes":        3,
		"txsc.peephole.rewrites": 2,
	}
	for k, n := range want {
		if got := after[k] - before[k]; got != n {
			t.Errorf("%s grew by %d want %d", k, got, n)
		}
	}
	for k := range after {
		if !strings.HasPrefix(k, prefix) {
			t.Errorf("foreign counter %s", k)
		}
	}
}

func TestFormat(t *testing.T) {
	Compiled(nil)
	lines := strings.Split(strings.TrimSpace(Format()), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i-1] > lines[i] {
			t.Errorf("unsorted: %q before %q", lines[i-1], lines[i])
		}
	}
	if !strings.Contains(Format(), "txsc.compile.ok=") {
		t.Errorf("Format() = %q", Format())
	}
}
