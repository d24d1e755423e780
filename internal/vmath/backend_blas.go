//go:build blas && !simd

package vmath

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Backend names the kernel implementation linked into this build.
const Backend = "blas"

func vec32[T Float](s []T) blas32.Vector {
	return blas32.Vector{N: len(s), Inc: 1, Data: f32(s)}
}

func vec64[T Float](s []T) blas64.Vector {
	return blas64.Vector{N: len(s), Inc: 1, Data: f64(s)}
}

// Dot returns the sum of a[i]*b[i] over len(a) elements.
func Dot[T Float](a, b []T) T {
	n := len(a)
	if n == 0 {
		return 0
	}
	if is32[T]() {
		return T(blas32.Dot(vec32(a), vec32(b[:n])))
	}
	return T(blas64.Dot(vec64(a), vec64(b[:n])))
}

// axpyInto stores a + alpha*b into out using copy + axpy. When out shares
// storage with b the copy would clobber b, so the scalar loop is used.
func axpyInto[T Float](alpha T, a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	b, out = b[:n], out[:n]
	if sameBase(out, b) && !sameBase(out, a) {
		for i := range out {
			out[i] = a[i] + alpha*b[i]
		}
		return
	}
	if is32[T]() {
		if !sameBase(a, out) {
			blas32.Copy(vec32(a), vec32(out))
		}
		blas32.Axpy(float32(alpha), vec32(b), vec32(out))
		return
	}
	if !sameBase(a, out) {
		blas64.Copy(vec64(a), vec64(out))
	}
	blas64.Axpy(float64(alpha), vec64(b), vec64(out))
}

// Add stores a[i]+b[i] into out.
func Add[T Float](a, b, out []T) {
	axpyInto(1, a, b, out)
}

// Sub stores a[i]-b[i] into out.
func Sub[T Float](a, b, out []T) {
	axpyInto(-1, a, b, out)
}

// Mul stores a[i]*b[i] into out.
func Mul[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	if is32[T]() {
		mulScalar(a, b[:n], out[:n])
		return
	}
	floats.MulTo(f64(out[:n]), f64(a), f64(b[:n]))
}

// Copy copies in into out.
func Copy[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	if is32[T]() {
		blas32.Copy(vec32(in), vec32(out[:n]))
		return
	}
	blas64.Copy(vec64(in), vec64(out[:n]))
}

// SigmoidVec applies Sigmoid elementwise.
func SigmoidVec[T Float](in, out []T) {
	sigmoidScalar(in, out[:len(in)])
}

// TanhVec applies Tanh elementwise.
func TanhVec[T Float](in, out []T) {
	tanhScalar(in, out[:len(in)])
}

// Softmax stores exp(in[i]) / sum(exp(in)) into out.
// The exponentials are positive, so Asum is their plain sum.
func Softmax[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	out = out[:n]
	for i := range in {
		out[i] = Exp(in[i])
	}
	if is32[T]() {
		v := vec32(out)
		blas32.Scal(1/blas32.Asum(v), v)
		return
	}
	v := vec64(out)
	blas64.Scal(1/blas64.Asum(v), v)
}

// MatVec computes out = W·x for a row-major rows×cols matrix w.
func MatVec[T Float](w []T, rows, cols int, x, out []T) {
	if rows == 0 {
		return
	}
	if cols == 0 {
		for i := 0; i < rows; i++ {
			out[i] = 0
		}
		return
	}
	if is32[T]() {
		a := blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: f32(w[:rows*cols])}
		blas32.Gemv(blas.NoTrans, 1, a, vec32(x[:cols]), 0, vec32(out[:rows]))
		return
	}
	a := blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: f64(w[:rows*cols])}
	blas64.Gemv(blas.NoTrans, 1, a, vec64(x[:cols]), 0, vec64(out[:rows]))
}
