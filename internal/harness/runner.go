package harness

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/loader"
	"github.com/born-ml/rtnn/internal/parallel"
	"github.com/born-ml/rtnn/internal/refdata"
	"github.com/born-ml/rtnn/internal/vmath"
)

// ctxCheckInterval is how many samples are processed between context
// checks.
const ctxCheckInterval = 1024

// Result is the outcome of one reference test.
type Result struct {
	Key       string        // Suite key, e.g. "gru".
	Name      string        // Display name, e.g. "GRU".
	Samples   int           // Number of samples compared.
	Errors    int           // Samples whose error exceeds Threshold.
	MaxError  float64       // Largest absolute error over all samples.
	Threshold float64       // Per-sample tolerance.
	Duration  time.Duration // Wall time of the inference loop.
	Err       error         // Set when the test could not run.
}

// Passed reports whether the test ran and every sample was within
// tolerance.
func (r Result) Passed() bool {
	return r.Err == nil && r.Errors == 0
}

// Runner executes suite entries.
type Runner struct {
	Root     string          // Directory that relative suite paths resolve against.
	Logger   *logrus.Logger  // Nil means logrus.New().
	Parallel parallel.Config // Fan-out used by RunAll.
}

// NewRunner creates a runner rooted at root with default parallelism.
func NewRunner(root string, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		Root:     root,
		Logger:   logger,
		Parallel: parallel.DefaultConfig(),
	}
}

func (r *Runner) logger() *logrus.Logger {
	if r.Logger == nil {
		r.Logger = logrus.New()
	}
	return r.Logger
}

func (r *Runner) path(p string) string {
	if filepath.IsAbs(p) || r.Root == "" {
		return p
	}
	return filepath.Join(r.Root, p)
}

// RunOne runs a single reference test in precision T.
//
// The returned error covers failures to load the model or data; numeric
// mismatches are reported through Result.Errors.
func RunOne[T vmath.Float](ctx context.Context, r *Runner, key string, cfg Config) (Result, error) {
	res := Result{Key: key, Name: cfg.Name, Threshold: cfg.Threshold}
	log := r.logger().WithFields(logrus.Fields{
		"test":    key,
		"backend": vmath.Backend,
	})

	model, err := loader.LoadJSONFile[T](r.path(cfg.ModelFile), loader.WithLogger(r.logger()))
	if err != nil {
		return res, err
	}
	if model.InSize() != 1 {
		return res, fmt.Errorf("%w: %s: model takes %d inputs, reference data has 1",
			ErrDataMismatch, key, model.InSize())
	}

	xs, err := refdata.LoadFile[T](r.path(cfg.XDataFile))
	if err != nil {
		return res, err
	}
	ys, err := refdata.LoadFile[T](r.path(cfg.YDataFile))
	if err != nil {
		return res, err
	}
	if len(ys) < len(xs) {
		return res, fmt.Errorf("%w: %s: %d inputs but %d reference outputs",
			ErrDataMismatch, key, len(xs), len(ys))
	}

	log.WithFields(logrus.Fields{
		"name":    cfg.Name,
		"samples": len(xs),
	}).Info("Testing implementation")

	start := time.Now()
	model.Reset()
	in := make([]T, 1)
	for n, x := range xs {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		in[0] = x
		y := model.Forward(in)

		e := math.Abs(float64(y) - float64(ys[n]))
		if e > res.MaxError || math.IsNaN(e) {
			res.MaxError = e
		}
		if !(e <= cfg.Threshold) {
			res.Errors++
		}
	}
	res.Duration = time.Since(start)
	res.Samples = len(xs)

	fields := logrus.Fields{
		"errors":    res.Errors,
		"max_error": res.MaxError,
		"duration":  res.Duration,
	}
	if res.Passed() {
		log.WithFields(fields).Info("SUCCESS")
	} else {
		log.WithFields(fields).Error("FAIL")
	}
	return res, nil
}

// RunAll runs every suite entry concurrently, each with its own model
// instance, and returns the results sorted by key. Entries that could not
// run carry their error in Result.Err; the returned error is non-nil only
// when ctx ends first.
func RunAll[T vmath.Float](ctx context.Context, r *Runner, suite Suite) ([]Result, error) {
	keys := suite.Names()
	results := make([]Result, len(keys))
	r.logger()

	err := parallel.ForEach(ctx, len(keys), func(ctx context.Context, i int) error {
		res, err := RunOne[T](ctx, r, keys[i], suite[keys[i]])
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			r.logger().WithFields(logrus.Fields{
				"test":  keys[i],
				"error": err,
			}).Error("Test could not run")
			res.Err = err
		}
		results[i] = res
		return nil
	}, r.Parallel)
	if err != nil {
		return nil, err
	}
	return results, nil
}
