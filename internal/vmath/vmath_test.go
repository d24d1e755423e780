package vmath

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Lengths cover several multiples of the SIMD widths plus every remainder.
var testLengths = []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17, 31, 33}

func randSlice[T Float](rng *rand.Rand, n int) []T {
	s := make([]T, n)
	for i := range s {
		s[i] = T(rng.Float64()*2 - 1)
	}
	return s
}

func tol[T Float]() float64 {
	if is32[T]() {
		return 1e-5
	}
	return 1e-12
}

func testBinary[T Float](t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range testLengths {
		a := randSlice[T](rng, n)
		b := randSlice[T](rng, n)
		out := make([]T, n)

		var want float64
		for i := range a {
			want += float64(a[i]) * float64(b[i])
		}
		assert.InDelta(t, want, float64(Dot(a, b)), tol[T](), "dot n=%d", n)

		Add(a, b, out)
		for i := range a {
			assert.InDelta(t, float64(a[i])+float64(b[i]), float64(out[i]), tol[T](), "add n=%d i=%d", n, i)
		}
		Sub(a, b, out)
		for i := range a {
			assert.InDelta(t, float64(a[i])-float64(b[i]), float64(out[i]), tol[T](), "sub n=%d i=%d", n, i)
		}
		Mul(a, b, out)
		for i := range a {
			assert.InDelta(t, float64(a[i])*float64(b[i]), float64(out[i]), tol[T](), "mul n=%d i=%d", n, i)
		}
		Copy(a, out)
		assert.Equal(t, a, out)
	}
}

func TestBinaryKernels(t *testing.T) {
	t.Run("float32", testBinary[float32])
	t.Run("float64", testBinary[float64])
}

func TestKernelsInPlace(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{5, 4, 3, 2, 1}

	Add(a, b, a)
	assert.InDeltaSlice(t, []float64{6, 6, 6, 6, 6}, a, 1e-12)

	Sub(a, b, a)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 5}, a, 1e-12)

	Mul(a, b, a)
	assert.InDeltaSlice(t, []float64{5, 8, 9, 8, 5}, a, 1e-12)

	// Output aliasing the second operand.
	x := []float64{1, 1, 1}
	y := []float64{3, 2, 1}
	Sub(x, y, y)
	assert.InDeltaSlice(t, []float64{-2, -1, 0}, y, 1e-12)
}

type binaryKernel[T Float] struct {
	name string
	fn   func(a, b, out []T)
	ref  func(a, b float64) float64
}

func binaryKernels[T Float]() []binaryKernel[T] {
	return []binaryKernel[T]{
		{"add", Add[T], func(a, b float64) float64 { return a + b }},
		{"sub", Sub[T], func(a, b float64) float64 { return a - b }},
		{"mul", Mul[T], func(a, b float64) float64 { return a * b }},
	}
}

func testAliasing[T Float](t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for _, k := range binaryKernels[T]() {
		for _, n := range testLengths {
			a := randSlice[T](rng, n)
			b := randSlice[T](rng, n)
			want := make([]float64, n)
			for i := range a {
				want[i] = k.ref(float64(a[i]), float64(b[i]))
			}

			outA := append([]T(nil), a...)
			k.fn(outA, b, outA)
			outB := append([]T(nil), b...)
			k.fn(a, outB, outB)
			for i := range want {
				assert.InDelta(t, want[i], float64(outA[i]), tol[T](), "%s out=a n=%d i=%d", k.name, n, i)
				assert.InDelta(t, want[i], float64(outB[i]), tol[T](), "%s out=b n=%d i=%d", k.name, n, i)
			}

			both := append([]T(nil), a...)
			k.fn(both, both, both)
			for i, x := range a {
				assert.InDelta(t, k.ref(float64(x), float64(x)), float64(both[i]), tol[T](), "%s out=a=b n=%d i=%d", k.name, n, i)
			}
		}
	}

	for _, n := range testLengths {
		in := randSlice[T](rng, n)
		sig := append([]T(nil), in...)
		SigmoidVec(sig, sig)
		th := append([]T(nil), in...)
		TanhVec(th, th)
		sm := append([]T(nil), in...)
		Softmax(sm, sm)

		var denom float64
		for _, x := range in {
			denom += math.Exp(float64(x))
		}
		for i, x := range in {
			assert.InDelta(t, 1/(1+math.Exp(-float64(x))), float64(sig[i]), 1e-6, "sigmoid n=%d", n)
			assert.InDelta(t, math.Tanh(float64(x)), float64(th[i]), 1e-6, "tanh n=%d", n)
			assert.InDelta(t, math.Exp(float64(x))/denom, float64(sm[i]), 1e-6, "softmax n=%d", n)
		}
	}
}

func TestKernelsAliasEitherOperand(t *testing.T) {
	t.Run("float32", testAliasing[float32])
	t.Run("float64", testAliasing[float64])
}

func TestKernelsInPlaceDoNotAllocate(t *testing.T) {
	a := make([]float32, 33)
	b := make([]float32, 33)
	for i := range a {
		a[i], b[i] = 0.01*float32(i), 0.5
	}

	allocs := testing.AllocsPerRun(100, func() {
		Add(a, b, a)
		Sub(a, b, a)
		Mul(a, b, b)
		Add(a, b, b)
	})
	require.Zero(t, allocs)
}

func TestDotWithLongerSecondOperand(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{3, 4, 100}
	assert.InDelta(t, 11.0, Dot(a, b), 1e-15)
}

func testActivations[T Float](t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, n := range testLengths {
		in := randSlice[T](rng, n)
		for i := range in {
			in[i] *= 4
		}
		out := make([]T, n)

		SigmoidVec(in, out)
		for i, x := range in {
			want := 1 / (1 + math.Exp(-float64(x)))
			assert.InDelta(t, want, float64(out[i]), 1e-6, "sigmoid n=%d i=%d", n, i)
		}

		TanhVec(in, out)
		for i, x := range in {
			assert.InDelta(t, math.Tanh(float64(x)), float64(out[i]), 1e-6, "tanh n=%d i=%d", n, i)
		}
	}
}

func TestActivations(t *testing.T) {
	t.Run("float32", testActivations[float32])
	t.Run("float64", testActivations[float64])
}

func TestScalarActivations(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0.0))
	assert.Equal(t, float32(0.5), Sigmoid(float32(0)))
	assert.Equal(t, 0.0, Tanh(0.0))
	assert.InDelta(t, 0.7310585786300049, Sigmoid(1.0), 1e-15)
	assert.InDelta(t, 0.7615941559557649, Tanh(1.0), 1e-15)
	assert.InDelta(t, 0.7615941559557649, float64(Tanh(float32(1))), 1e-6)
	assert.InDelta(t, math.E, float64(Exp(float32(1))), 1e-6)
}

func testSoftmax[T Float](t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, n := range testLengths {
		in := randSlice[T](rng, n)
		for i := range in {
			in[i] *= 10
		}
		out := make([]T, n)
		Softmax(in, out)

		var denom, sum float64
		for _, x := range in {
			denom += math.Exp(float64(x))
		}
		for i, y := range out {
			assert.Greater(t, float64(y), 0.0)
			assert.LessOrEqual(t, float64(y), 1.0+1e-6)
			assert.InDelta(t, math.Exp(float64(in[i]))/denom, float64(y), 1e-6)
			sum += float64(y)
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "n=%d", n)
	}
}

func TestSoftmax(t *testing.T) {
	t.Run("float32", testSoftmax[float32])
	t.Run("float64", testSoftmax[float64])
}

func TestSoftmaxSingleElement(t *testing.T) {
	out := make([]float64, 1)
	Softmax([]float64{-3.5}, out)
	assert.InDelta(t, 1.0, out[0], 1e-12)
}

func TestSoftmaxDoesNotStabilize(t *testing.T) {
	// Without max-subtraction exp(1000) overflows; this is accepted behavior.
	out := make([]float64, 2)
	Softmax([]float64{1000, 0}, out)
	assert.True(t, math.IsNaN(out[0]) || math.IsInf(out[0], 0) || out[0] == 0 || out[0] == 1)
}

func testMatVec[T Float](t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for _, rows := range []int{1, 3, 8} {
		for _, cols := range testLengths {
			w := randSlice[T](rng, rows*cols)
			x := randSlice[T](rng, cols)
			out := make([]T, rows)
			MatVec(w, rows, cols, x, out)

			for i := 0; i < rows; i++ {
				var want float64
				for j := 0; j < cols; j++ {
					want += float64(w[i*cols+j]) * float64(x[j])
				}
				assert.InDelta(t, want, float64(out[i]), tol[T](), "rows=%d cols=%d", rows, cols)
			}
		}
	}
}

func TestMatVec(t *testing.T) {
	t.Run("float32", testMatVec[float32])
	t.Run("float64", testMatVec[float64])
}

func TestKernelsDoNotAllocate(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7}
	b := []float32{7, 6, 5, 4, 3, 2, 1}
	out := make([]float32, len(a))
	w := make([]float32, 3*len(a))

	allocs := testing.AllocsPerRun(100, func() {
		_ = Dot(a, b)
		Add(a, b, out)
		Sub(a, b, out)
		Mul(a, b, out)
		Copy(a, out)
		SigmoidVec(a, out)
		TanhVec(a, out)
		Softmax(a, out)
		MatVec(w, 3, len(a), a, out)
	})
	require.Zero(t, allocs)
}

func TestBackendName(t *testing.T) {
	assert.Contains(t, []string{"generic", "simd", "blas", "accelerate"}, Backend)
}
