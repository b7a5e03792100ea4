// Command txsc compiles transaction scripts.
//
//	txsc [flags] [file...]
//
// Each file is compiled independently; with no files, the program is
// read from standard input. Settings are taken, in increasing order of
// precedence, from the environment (TXSC_SOURCE, TXSC_TARGET,
// TXSC_OPTIMIZATION), the YAML file named by -config, and the flags.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/kr/env"
	"gopkg.in/yaml.v2"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/log"
	"github.com/Kefkius/txsc/metrics"
	"github.com/Kefkius/txsc/protocol/lang"
	"github.com/Kefkius/txsc/protocol/txsc"
)

// config vars
var (
	source       = env.String("TXSC_SOURCE", "sir")
	target       = env.String("TXSC_TARGET", "asm")
	optimization = env.Int("TXSC_OPTIMIZATION", txsc.DefaultOptimization)
)

type config struct {
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	txsc.Options `yaml:",inline"`
}

func main() {
	env.Parse()
	defaults := config{
		From:    *source,
		To:      *target,
		Options: txsc.Options{Optimization: *optimization},
	}
	os.Exit(run(os.Args[1:], defaults, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, defaults config, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("txsc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagFrom    = fs.String("from", defaults.From, "source `language`")
		flagTo      = fs.String("to", defaults.To, "target `language`")
		flagO       = fs.Int("O", defaults.Optimization, "optimization `level` (0-2)")
		flagConfig  = fs.String("config", "", "YAML options `file`")
		flagTrace   = fs.Bool("trace", false, "log each pass and show the peephole diff")
		flagV       = fs.Bool("v", false, "dump the optimized structural tree")
		flagMetrics = fs.Bool("metrics", false, "print compiler counters on exit")
		flagList    = fs.Bool("list", false, "list the known languages")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: txsc [flags] [file...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *flagList {
		listLanguages(stdout)
		return 0
	}

	cfg := defaults
	if *flagConfig != "" {
		var err error
		cfg, err = loadConfig(*flagConfig, cfg)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 2
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "from":
			cfg.From = *flagFrom
		case "to":
			cfg.To = *flagTo
		case "O":
			cfg.Optimization = *flagO
		case "trace":
			cfg.Trace = *flagTrace
		case "v":
			cfg.Verbose = *flagV
		}
	})
	if cfg.Optimization < txsc.NoOptimization || cfg.Optimization > txsc.MaxOptimization {
		fmt.Fprintln(stderr, "error: optimization level must be between 0 and 2")
		return 2
	}

	// Log output is shown when tracing, or after a failure in
	// verbose mode.
	var logbuf bytes.Buffer
	if cfg.Trace {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(&logbuf)
	}

	reqs, err := requests(fs.Args(), stdin, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	ctx := context.Background()
	results, err := txsc.CompileEach(ctx, reqs)
	for i, res := range results {
		if res == nil {
			continue
		}
		if len(reqs) > 1 {
			fmt.Fprintf(stdout, "%s:\n", reqs[i].Name)
		}
		stdout.Write(res.Output)
		if cfg.To != "btc" {
			fmt.Fprintln(stdout)
		}
		if cfg.Verbose && res.Dump != "" {
			fmt.Fprint(stderr, res.Dump)
		}
		if cfg.Trace {
			diff, _ := res.Diff()
			fmt.Fprint(stderr, diff)
		}
	}
	if *flagMetrics {
		fmt.Fprint(stderr, metrics.Format())
	}
	if err != nil {
		report(ctx, stderr, err)
		if cfg.Verbose {
			io.Copy(stderr, &logbuf)
		}
		return 1
	}
	return 0
}

func loadConfig(path string, cfg config) (config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.UnmarshalStrict(b, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

func requests(files []string, stdin io.Reader, cfg config) ([]txsc.Request, error) {
	if len(files) == 0 {
		src, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []txsc.Request{{Name: "-", Source: src, From: cfg.From, To: cfg.To, Options: cfg.Options}}, nil
	}
	var reqs []txsc.Request
	for _, name := range files {
		src, err := ioutil.ReadFile(name)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, txsc.Request{Name: name, Source: src, From: cfg.From, To: cfg.To, Options: cfg.Options})
	}
	return reqs, nil
}

// report prints one line per failed compilation. The full errors,
// with stacks, go to the log.
func report(ctx context.Context, w io.Writer, err error) {
	errs := []error{err}
	if merr, ok := err.(*multierror.Error); ok {
		errs = merr.Errors
	}
	for _, e := range errs {
		log.Error(ctx, e)
		fmt.Fprintln(w, "error:", txsc.Describe(e))
	}
}

func listLanguages(w io.Writer) {
	for _, name := range lang.Names() {
		l, _ := lang.Lookup(name)
		var dirs string
		switch {
		case l.Source != nil && l.Target != nil:
			dirs = "from, to"
		case l.Source != nil:
			dirs = "from"
		default:
			dirs = "to"
		}
		fmt.Fprintf(w, "%-5s %-10s %s\n", name, dirs, l.Description)
	}
}
