// Package txsc runs the compilation pipeline: structural
// optimization, lowering, peephole optimization and emission.
//
// Each compilation owns its stack model and instruction container, so
// independent requests can be compiled concurrently; see CompileAll.
package txsc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/log"
	"github.com/Kefkius/txsc/metrics"
	"github.com/Kefkius/txsc/protocol/lang"
	"github.com/Kefkius/txsc/protocol/linear"
	"github.com/Kefkius/txsc/protocol/lower"
	"github.com/Kefkius/txsc/protocol/stack"
	"github.com/Kefkius/txsc/protocol/structural"
)

// The errors a compilation can fail with.
var (
	ErrDuplicateName             = stack.ErrDuplicateName
	ErrUnboundName               = stack.ErrUnboundName
	ErrUnbalancedScope           = stack.ErrUnbalancedScope
	ErrIndeterminateStackDepth   = stack.ErrIndeterminateStackDepth
	ErrInvalidConstantExpression = structural.ErrInvalidConstantExpression
	ErrUnreachableCode           = lower.ErrUnreachableCode
	ErrUnsupportedFeature        = lower.ErrUnsupportedFeature
)

// Optimization levels.
const (
	// NoOptimization lowers the tree as written.
	NoOptimization = 0
	// DefaultOptimization reorders commutative operations and applies
	// the peephole optimizer.
	DefaultOptimization = 1
	// MaxOptimization also folds constant expressions.
	MaxOptimization = 2
)

// Options configures a compilation.
type Options struct {
	Optimization int `yaml:"optimization"`
	// Trace records the linear IR before and after peephole
	// optimization and logs each pass.
	Trace bool `yaml:"trace"`
	// Verbose records a dump of the optimized structural tree.
	Verbose bool `yaml:"verbose"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Optimization: DefaultOptimization}
}

func (o Options) structural() structural.Options {
	return structural.Options{
		Commute:       o.Optimization >= DefaultOptimization,
		FoldConstants: o.Optimization >= MaxOptimization,
	}
}

// Result is the outcome of a successful compilation.
type Result struct {
	// Container is the compiled program. It is frozen.
	Container *linear.Container
	// Output is the program rendered in the target language,
	// if Compile was given one.
	Output []byte

	// Before and After hold the instructions before and after
	// peephole optimization when Options.Trace is set.
	Before, After []linear.Instruction
	// Dump describes the optimized structural tree when
	// Options.Verbose is set.
	Dump string

	Rewrites int
	Folded   int
}

// Diff returns a unified diff of the instructions before and after
// peephole optimization, one instruction per line. It is empty
// unless the compilation was traced.
func (r *Result) Diff() (string, error) {
	if r.Before == nil && r.After == nil {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(r.Before),
		B:        lines(r.After),
		FromFile: "lowered",
		ToFile:   "optimized",
		Context:  3,
	})
}

func lines(instrs []linear.Instruction) []string {
	res := make([]string, 0, len(instrs))
	for _, in := range instrs {
		res = append(res, in.String()+"\n")
	}
	return res
}

// CompileTree compiles the program at root.
func CompileTree(ctx context.Context, t *structural.Tree, root structural.NodeID, opts Options) (*Result, error) {
	res, err := compileTree(ctx, t, root, opts)
	metrics.Compiled(err)
	return res, err
}

func compileTree(ctx context.Context, t *structural.Tree, root structural.NodeID, opts Options) (*Result, error) {
	if err := t.Validate(root); err != nil {
		return nil, err
	}
	res := new(Result)
	sopts := opts.structural()
	start := time.Now()
	if sopts.Commute || sopts.FoldConstants {
		var (
			stats structural.Stats
			err   error
		)
		root, stats, err = structural.Optimize(t, root, sopts)
		if err != nil {
			return nil, errors.Wrap(err, "structural optimization")
		}
		res.Folded = stats.Folded
		metrics.Folded(stats.Folded)
		trace(ctx, opts, "structural", start, "reordered", stats.Reordered, "folded", stats.Folded)
	}
	if opts.Verbose {
		res.Dump = t.Format(root) + dumper.Sdump(reachable(t, root))
	}

	start = time.Now()
	c, err := lower.Lower(ctx, t, root, stack.New(), lower.Options{
		Structural: sopts,
		Peephole:   opts.Optimization >= DefaultOptimization,
	})
	if err != nil {
		return nil, errors.Wrap(err, "lowering")
	}
	trace(ctx, opts, "lower", start, "instructions", c.Len())
	if opts.Verbose {
		res.Dump += formatSymbols(c.Symbols)
	}
	if err := optimize(ctx, c, opts, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CompileInstructions runs the linear stages of the pipeline over a
// program that is already linear, such as hand-written assembly.
func CompileInstructions(ctx context.Context, instrs []linear.Instruction, opts Options) (*Result, error) {
	res := new(Result)
	err := optimize(ctx, linear.NewContainer(instrs...), opts, res)
	metrics.Compiled(err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func optimize(ctx context.Context, c *linear.Container, opts Options, res *Result) error {
	if opts.Trace {
		res.Before = c.Instructions()
	}
	if opts.Optimization >= DefaultOptimization {
		start := time.Now()
		n, err := linear.Optimize(c)
		if err != nil {
			return err
		}
		res.Rewrites = n
		metrics.Rewrites(n)
		trace(ctx, opts, "peephole", start, "rewrites", n, "instructions", c.Len())
	}
	if opts.Trace {
		res.After = c.Instructions()
	}
	c.Freeze()
	res.Container = c
	return nil
}

// Request is one program to compile.
type Request struct {
	// Name identifies the program in errors and logs.
	Name   string
	Source []byte
	// From and To name the source and target languages.
	From, To string
	Options  Options
}

// Compile parses req.Source in its source language, compiles it and
// renders the result in the target language.
func Compile(ctx context.Context, req Request) (*Result, error) {
	res, err := compile(ctx, req)
	if err != nil && req.Name != "" {
		err = errors.WithData(err, "file", req.Name)
	}
	return res, err
}

func compile(ctx context.Context, req Request) (*Result, error) {
	src, err := lang.LookupSource(req.From)
	if err != nil {
		return nil, err
	}
	tgt, err := lang.LookupTarget(req.To)
	if err != nil {
		return nil, err
	}
	p, err := src.Parse(req.Source)
	if err != nil {
		metrics.Compiled(err)
		return nil, errors.Wrapf(err, "parsing %s", req.From)
	}
	var res *Result
	if p.Tree != nil {
		res, err = CompileTree(ctx, p.Tree, p.Root, req.Options)
	} else {
		res, err = CompileInstructions(ctx, p.Instrs, req.Options)
	}
	if err != nil {
		return nil, err
	}
	res.Output, err = tgt.Emit(res.Container)
	if err != nil {
		return nil, errors.Wrapf(err, "emitting %s", req.To)
	}
	return res, nil
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// formatSymbols lists each binding with its depth at the point
// it was bound.
func formatSymbols(syms []linear.Symbol) string {
	if len(syms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("symbols:\n")
	for _, sym := range syms {
		fmt.Fprintf(&b, "  %s %s depth=%d\n", sym.Name, sym.Kind, sym.Depth)
	}
	return b.String()
}

// reachable returns the nodes reachable from root in pre-order.
func reachable(t *structural.Tree, root structural.NodeID) []structural.Node {
	var nodes []structural.Node
	var walk func(structural.NodeID)
	walk = func(id structural.NodeID) {
		n := t.Node(id)
		nodes = append(nodes, *n)
		for _, k := range n.Kids {
			walk(k)
		}
	}
	walk(root)
	return nodes
}

func trace(ctx context.Context, opts Options, pass string, start time.Time, keyvals ...interface{}) {
	if opts.Trace {
		log.Pass(ctx, pass, start, keyvals...)
	}
}

// Describe returns a one-line summary of a compilation error,
// including where it happened when known.
func Describe(err error) string {
	var parts []string
	data := errors.Data(err)
	for _, k := range []string{"file", "stmt", "line", "name"} {
		if v, ok := data[k]; ok {
			parts = append(parts, k+"="+strings.TrimSpace(spew.Sprint(v)))
		}
	}
	if len(parts) == 0 {
		return err.Error()
	}
	return err.Error() + " (" + strings.Join(parts, " ") + ")"
}
