package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/harness"
	"github.com/born-ml/rtnn/internal/vmath"
)

var errTestsFailed = errors.New("one or more tests failed")

type app struct {
	runner *harness.Runner
	suite  harness.Suite
	out    io.Writer
}

// runTests dispatches a test type: "all", "util", "model" or a suite key.
func runTests[T vmath.Float](ctx context.Context, a *app, name string) error {
	switch name {
	case "all":
		var errs []error
		errs = append(errs, a.check("UTIL", harness.CheckKernels[T]))
		errs = append(errs, a.check("MODEL", harness.CheckModel[T]))

		results, err := harness.RunAll[T](ctx, a.runner, a.suite)
		if err != nil {
			return err
		}
		for _, res := range results {
			errs = append(errs, a.report(res))
		}
		return errors.Join(errs...)

	case "util":
		return a.check("UTIL", harness.CheckKernels[T])

	case "model":
		return a.check("MODEL", harness.CheckModel[T])
	}

	cfg, ok := a.suite[name]
	if !ok {
		return fmt.Errorf("%w: %s", harness.ErrUnknownTest, name)
	}
	res, err := harness.RunOne[T](ctx, a.runner, name, cfg)
	if err != nil {
		res.Err = err
	}
	return a.report(res)
}

func (a *app) check(name string, fn func(*logrus.Logger) error) error {
	fmt.Fprintf(a.out, "TESTING %s...\n", name)
	if err := fn(a.runner.Logger); err != nil {
		fmt.Fprintln(a.out, "FAIL")
		return err
	}
	fmt.Fprintln(a.out, "SUCCESS")
	return nil
}

func (a *app) report(res harness.Result) error {
	fmt.Fprintf(a.out, "TESTING %s IMPLEMENTATION...\n", res.Name)
	switch {
	case res.Err != nil:
		fmt.Fprintf(a.out, "ERROR: %v\n", res.Err)
		return res.Err
	case !res.Passed():
		fmt.Fprintf(a.out, "FAIL: %d errors!\n", res.Errors)
		fmt.Fprintf(a.out, "Maximum error: %g\n", res.MaxError)
		return fmt.Errorf("%w: %s", errTestsFailed, res.Key)
	}
	fmt.Fprintln(a.out, "SUCCESS")
	return nil
}
