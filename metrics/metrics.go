// Package metrics counts compiler activity.
// Defined metrics:
//   txsc.compile.ok (counter)
//   txsc.compile.err (counter)
//   txsc.fold.nodes (counter)
//   txsc.peephole.rewrites (counter)
package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/codahale/metrics"
)

const prefix = "txsc."

// Compiled counts a finished compilation by outcome.
func Compiled(err error) {
	if err != nil {
		metrics.Counter("txsc.compile.err").Add()
		return
	}
	metrics.Counter("txsc.compile.ok").Add()
}

// Folded counts nodes replaced by constant folding.
func Folded(n int) {
	metrics.Counter("txsc.fold.nodes").AddN(uint64(n))
}

// Rewrites counts peephole substitutions.
func Rewrites(n int) {
	metrics.Counter("txsc.peephole.rewrites").AddN(uint64(n))
}

// Counters returns the current value of every compiler counter.
func Counters() map[string]uint64 {
	counters, _ := metrics.Snapshot()
	res := make(map[string]uint64)
	for k, v := range counters {
		if strings.HasPrefix(k, prefix) {
			res[k] = v
		}
	}
	return res
}

// Format renders Counters as sorted name=value lines.
func Format() string {
	c := Counters()
	var names []string
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, k := range names {
		b.WriteString(k + "=" + strconv.FormatUint(c[k], 10) + "\n")
	}
	return b.String()
}
