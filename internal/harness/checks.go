package harness

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// check is one named self-test.
type check struct {
	name string
	run  func() error
}

func runChecks(logger *logrus.Logger, group string, checks []check) error {
	if logger == nil {
		logger = logrus.New()
	}

	var errs []error
	for _, c := range checks {
		err := c.run()
		entry := logger.WithFields(logrus.Fields{
			"group":   group,
			"check":   c.name,
			"backend": vmath.Backend,
		})
		if err != nil {
			entry.WithError(err).Error("Check failed")
			errs = append(errs, fmt.Errorf("%w: %s/%s: %w", ErrCheckFailed, group, c.name, err))
			continue
		}
		entry.Debug("Check passed")
	}

	logger.WithFields(logrus.Fields{
		"group":  group,
		"checks": len(checks),
		"failed": len(errs),
	}).Info("Checks finished")
	return errors.Join(errs...)
}

// kernelTol is the absolute tolerance for kernel results of magnitude ~n.
func kernelTol[T vmath.Float](n int) float64 {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return 1e-5 * float64(n)
	}
	return 1e-12 * float64(n)
}

func randSlice[T vmath.Float](rng *rand.Rand, n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = T(rng.Float64()*4 - 2)
	}
	return v
}

func within(got, want, tol float64) error {
	if math.Abs(got-want) > tol || math.IsNaN(got) {
		return fmt.Errorf("got %g, want %g (tolerance %g)", got, want, tol)
	}
	return nil
}

// maxKernelLen covers the scalar tails left by every unrolled kernel.
const maxKernelLen = 33

func binaryKernelCheck[T vmath.Float](kernel func(a, b, out []T), op func(a, b float64) float64) func() error {
	return func() error {
		rng := rand.New(rand.NewPCG(1, 2))
		for n := 1; n <= maxKernelLen; n++ {
			a, b := randSlice[T](rng, n), randSlice[T](rng, n)
			out := make([]T, n)
			kernel(a, b, out)
			for i := range out {
				want := op(float64(a[i]), float64(b[i]))
				if err := within(float64(out[i]), want, kernelTol[T](1)); err != nil {
					return fmt.Errorf("n=%d i=%d: %w", n, i, err)
				}
			}
		}
		return nil
	}
}

func unaryKernelCheck[T vmath.Float](kernel func(in, out []T), f func(float64) float64) func() error {
	return func() error {
		rng := rand.New(rand.NewPCG(3, 4))
		for n := 1; n <= maxKernelLen; n++ {
			in := randSlice[T](rng, n)
			out := make([]T, n)
			kernel(in, out)
			for i := range out {
				if err := within(float64(out[i]), f(float64(in[i])), kernelTol[T](1)); err != nil {
					return fmt.Errorf("n=%d i=%d: %w", n, i, err)
				}
			}
		}
		return nil
	}
}

// CheckKernels verifies the vmath kernels of the active backend against
// scalar formulas in precision T.
func CheckKernels[T vmath.Float](logger *logrus.Logger) error {
	checks := []check{
		{"add", binaryKernelCheck(vmath.Add[T], func(a, b float64) float64 { return a + b })},
		{"sub", binaryKernelCheck(vmath.Sub[T], func(a, b float64) float64 { return a - b })},
		{"mul", binaryKernelCheck(vmath.Mul[T], func(a, b float64) float64 { return a * b })},
		{"sigmoid", unaryKernelCheck(vmath.SigmoidVec[T], func(x float64) float64 { return 1 / (1 + math.Exp(-x)) })},
		{"tanh", unaryKernelCheck(vmath.TanhVec[T], math.Tanh)},
		{"copy", unaryKernelCheck(vmath.Copy[T], func(x float64) float64 { return x })},
		{"dot", func() error {
			rng := rand.New(rand.NewPCG(5, 6))
			for n := 1; n <= maxKernelLen; n++ {
				a, b := randSlice[T](rng, n), randSlice[T](rng, n)
				var want float64
				for i := range a {
					want += float64(a[i]) * float64(b[i])
				}
				if err := within(float64(vmath.Dot(a, b)), want, kernelTol[T](n)); err != nil {
					return fmt.Errorf("n=%d: %w", n, err)
				}
			}
			return nil
		}},
		{"matvec", func() error {
			rng := rand.New(rand.NewPCG(7, 8))
			for _, dims := range [][2]int{{1, 1}, {3, 5}, {8, 8}, {17, 9}} {
				rows, cols := dims[0], dims[1]
				w, x := randSlice[T](rng, rows*cols), randSlice[T](rng, cols)
				out := make([]T, rows)
				vmath.MatVec(w, rows, cols, x, out)
				for i := range rows {
					var want float64
					for j := range cols {
						want += float64(w[i*cols+j]) * float64(x[j])
					}
					if err := within(float64(out[i]), want, kernelTol[T](cols)); err != nil {
						return fmt.Errorf("%dx%d row %d: %w", rows, cols, i, err)
					}
				}
			}
			return nil
		}},
		{"softmax", func() error {
			rng := rand.New(rand.NewPCG(9, 10))
			for n := 1; n <= maxKernelLen; n++ {
				in := randSlice[T](rng, n)
				out := make([]T, n)
				vmath.Softmax(in, out)
				var sum float64
				for i, v := range out {
					if !(v > 0 && v <= 1) {
						return fmt.Errorf("n=%d i=%d: value %g outside (0, 1]", n, i, float64(v))
					}
					sum += float64(v)
				}
				if err := within(sum, 1, 1e-6); err != nil {
					return fmt.Errorf("n=%d sum: %w", n, err)
				}
			}
			return nil
		}},
		{"identities", func() error {
			if err := within(float64(vmath.Sigmoid(T(0))), 0.5, 0); err != nil {
				return fmt.Errorf("sigmoid(0): %w", err)
			}
			if err := within(float64(vmath.Tanh(T(0))), 0, 0); err != nil {
				return fmt.Errorf("tanh(0): %w", err)
			}
			if err := within(float64(vmath.Exp(T(0))), 1, 0); err != nil {
				return fmt.Errorf("exp(0): %w", err)
			}
			return nil
		}},
	}
	return runChecks(logger, "util", checks)
}

// testModel builds a small model exercising every stateful layer type.
func testModel[T vmath.Float](rng *rand.Rand) *nn.Model[T] {
	mat := func(rows, cols int) [][]T {
		m := make([][]T, rows)
		for i := range m {
			m[i] = randSlice[T](rng, cols)
			for j := range m[i] {
				m[i][j] /= 4
			}
		}
		return m
	}

	in := nn.NewDense[T](1, 8)
	in.SetWeights(mat(8, 1))
	in.SetBias(mat(1, 8)[0])

	gru := nn.NewGRU[T](8, 8)
	gru.SetW(mat(24, 8))
	gru.SetU(mat(24, 8))
	gru.SetB(mat(24, 2))

	lstm := nn.NewLSTM[T](8, 6)
	lstm.SetW(mat(24, 8))
	lstm.SetU(mat(24, 6))
	lstm.SetB(mat(1, 24)[0])

	conv := nn.NewConv1D[T](6, 4, 3, 2)
	filters := make([][][]T, 4)
	for o := range filters {
		filters[o] = mat(6, 3)
	}
	conv.SetWeights(filters)
	conv.SetBias(mat(1, 4)[0])

	out := nn.NewDense[T](4, 1)
	out.SetWeights(mat(1, 4))

	m := nn.NewModel[T](1)
	m.AddLayer(in)
	m.AddLayer(nn.NewTanh[T](8))
	m.AddLayer(gru)
	m.AddLayer(lstm)
	m.AddLayer(conv)
	m.AddLayer(nn.NewReLU[T](4))
	m.AddLayer(out)
	return m
}

func runModel[T vmath.Float](m *nn.Model[T], xs []T) []T {
	ys := make([]T, len(xs))
	in := make([]T, 1)
	for n, x := range xs {
		in[0] = x
		ys[n] = m.Forward(in)
	}
	return ys
}

func sameOutputs[T vmath.Float](got, want []T) error {
	for n := range want {
		if got[n] != want[n] {
			return fmt.Errorf("sample %d: got %g, want %g", n, float64(got[n]), float64(want[n]))
		}
	}
	return nil
}

// CheckModel verifies model-level semantics in precision T: zero-weight
// recurrent layers stay silent, Reset reproduces a fresh run, and clones
// are deep copies that continue from the copied state.
func CheckModel[T vmath.Float](logger *logrus.Logger) error {
	rng := rand.New(rand.NewPCG(11, 12))
	xs := randSlice[T](rng, 256)

	checks := []check{
		{"zero-state", func() error {
			m := nn.NewModel[T](1)
			m.AddLayer(nn.NewLSTM[T](1, 4))
			m.AddLayer(nn.NewGRU[T](4, 4))
			m.AddLayer(nn.NewConv1D[T](4, 1, 2, 1))
			for n, y := range runModel(m, xs) {
				if y != 0 {
					return fmt.Errorf("sample %d: got %g, want 0", n, float64(y))
				}
			}
			return nil
		}},
		{"reset", func() error {
			m := testModel[T](rand.New(rand.NewPCG(13, 14)))
			first := runModel(m, xs)
			m.Reset()
			return sameOutputs(runModel(m, xs), first)
		}},
		{"clone-state", func() error {
			m := testModel[T](rand.New(rand.NewPCG(13, 14)))
			runModel(m, xs[:100])
			c := m.Clone()
			return sameOutputs(runModel(c, xs[100:]), runModel(m, xs[100:]))
		}},
		{"clone-weights", func() error {
			m := testModel[T](rand.New(rand.NewPCG(13, 14)))
			want := runModel(m.Clone(), xs)

			c := m.Clone()
			last, ok := m.Layer(m.Len() - 1).(*nn.Dense[T])
			if !ok {
				return fmt.Errorf("last layer is %s, want dense", m.Layer(m.Len()-1).Name())
			}
			last.SetWeights([][]T{make([]T, last.InSize())})
			return sameOutputs(runModel(c, xs), want)
		}},
	}
	return runChecks(logger, "model", checks)
}
