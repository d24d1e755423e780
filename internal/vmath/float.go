package vmath

import (
	"math"
	"unsafe"

	"github.com/chewxy/math32"
)

// Float is the constraint for scalar types supported by the kernels.
type Float interface {
	~float32 | ~float64
}

// is32 reports whether T is a single precision type.
// The result is a constant per instantiation, so callers branch for free.
func is32[T Float]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 4
}

// f32 reinterprets s as []float32. Only valid when is32[T]() holds.
func f32[T Float](s []T) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

// f64 reinterprets s as []float64. Only valid when is32[T]() is false.
func f64[T Float](s []T) []float64 {
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

// sameBase reports whether a and b start at the same address.
func sameBase[T Float](a, b []T) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// Exp returns e**x computed in the precision of T.
func Exp[T Float](x T) T {
	if is32[T]() {
		return T(math32.Exp(float32(x)))
	}
	return T(math.Exp(float64(x)))
}

// Tanh returns the hyperbolic tangent of x computed in the precision of T.
func Tanh[T Float](x T) T {
	if is32[T]() {
		return T(math32.Tanh(float32(x)))
	}
	return T(math.Tanh(float64(x)))
}

// Sigmoid returns 1 / (1 + e**-x).
func Sigmoid[T Float](x T) T {
	return 1 / (1 + Exp(-x))
}
