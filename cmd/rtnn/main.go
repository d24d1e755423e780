// Package main provides the rtnn reference test runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/harness"
	"github.com/born-ml/rtnn/internal/vmath"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	suitePath string
	root      string
	precision string
	verbose   bool
}

func help(w io.Writer, fs *flag.FlagSet, suite harness.Suite) {
	fmt.Fprintf(w, "rtnn test suite %s (backend: %s)\n", version, vmath.Backend)
	fmt.Fprintln(w, "Usage: rtnn [flags] <test_type>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available test types are:")
	fmt.Fprintln(w, "    all")
	fmt.Fprintln(w, "    util")
	fmt.Fprintln(w, "    model")
	for _, name := range suite.Names() {
		fmt.Fprintf(w, "    %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("rtnn", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.suitePath, "suite", "", "YAML test suite (default: built-in suite)")
	fs.StringVar(&opts.root, "root", ".", "directory that suite paths are relative to")
	fs.StringVar(&opts.precision, "precision", "float64", "inference precision: float32 or float64")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "rtnn: %v\n", err)
		}
		help(stdout, fs, harness.DefaultSuite())
		return 1
	}
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	suite := harness.DefaultSuite()
	if opts.suitePath != "" {
		var err error
		if suite, err = harness.LoadSuite(opts.suitePath); err != nil {
			logger.WithError(err).Error("Failed to load suite")
			return 1
		}
	}

	if fs.NArg() != 1 {
		help(stdout, fs, suite)
		return 1
	}

	logger.WithFields(logrus.Fields{
		"backend":   vmath.Backend,
		"precision": opts.precision,
		"root":      opts.root,
	}).Debug("Starting")

	app := &app{
		runner: harness.NewRunner(opts.root, logger),
		suite:  suite,
		out:    stdout,
	}

	var err error
	switch opts.precision {
	case "float64":
		err = runTests[float64](ctx, app, fs.Arg(0))
	case "float32":
		err = runTests[float32](ctx, app, fs.Arg(0))
	default:
		fmt.Fprintf(stderr, "rtnn: unknown precision %q\n", opts.precision)
		return 1
	}

	if err != nil {
		if errors.Is(err, harness.ErrUnknownTest) {
			fmt.Fprintf(stdout, "Test: %s not found!\n", fs.Arg(0))
		} else {
			logger.WithError(err).Error("Tests failed")
		}
		return 1
	}
	return 0
}
