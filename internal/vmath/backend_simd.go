//go:build simd

package vmath

import (
	"unsafe"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"
)

// Backend names the kernel implementation linked into this build.
const Backend = "simd"

// lanes is the unroll width of the activation loops. Elements past the last
// full block are handled one at a time.
const lanes = 4

// Dot returns the sum of a[i]*b[i] over len(a) elements.
func Dot[T Float](a, b []T) T {
	n := len(a)
	if n == 0 {
		return 0
	}
	if is32[T]() {
		return T(vek32.Dot(f32(a), f32(b[:n])))
	}
	return T(vek.Dot(f64(a), f64(b[:n])))
}

// vek rejects any overlap between destination and operands, so aliased
// calls go through the in-place kernels or the scalar loop.

// overlaps reports whether a and b share any element.
func overlaps[T Float](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := uintptr(unsafe.Pointer(&a[len(a)-1]))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := uintptr(unsafe.Pointer(&b[len(b)-1]))
	return aStart <= bEnd && bStart <= aEnd
}

// Add stores a[i]+b[i] into out.
func Add[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	b, out = b[:n], out[:n]
	switch {
	case !overlaps(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Add_Into(f32(out), f32(a), f32(b))
			return
		}
		vek.Add_Into(f64(out), f64(a), f64(b))
	case sameBase(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Add_Inplace(f32(out), f32(b))
			return
		}
		vek.Add_Inplace(f64(out), f64(b))
	case sameBase(out, b) && !overlaps(out, a):
		if is32[T]() {
			vek32.Add_Inplace(f32(out), f32(a))
			return
		}
		vek.Add_Inplace(f64(out), f64(a))
	default:
		addScalar(a, b, out)
	}
}

// Sub stores a[i]-b[i] into out.
func Sub[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	b, out = b[:n], out[:n]
	switch {
	case !overlaps(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Sub_Into(f32(out), f32(a), f32(b))
			return
		}
		vek.Sub_Into(f64(out), f64(a), f64(b))
	case sameBase(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Sub_Inplace(f32(out), f32(b))
			return
		}
		vek.Sub_Inplace(f64(out), f64(b))
	default:
		subScalar(a, b, out)
	}
}

// Mul stores a[i]*b[i] into out.
func Mul[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	b, out = b[:n], out[:n]
	switch {
	case !overlaps(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Mul_Into(f32(out), f32(a), f32(b))
			return
		}
		vek.Mul_Into(f64(out), f64(a), f64(b))
	case sameBase(out, a) && !overlaps(out, b):
		if is32[T]() {
			vek32.Mul_Inplace(f32(out), f32(b))
			return
		}
		vek.Mul_Inplace(f64(out), f64(b))
	case sameBase(out, b) && !overlaps(out, a):
		if is32[T]() {
			vek32.Mul_Inplace(f32(out), f32(a))
			return
		}
		vek.Mul_Inplace(f64(out), f64(a))
	default:
		mulScalar(a, b, out)
	}
}

// Copy copies in into out.
func Copy[T Float](in, out []T) {
	copy(out, in)
}

// SigmoidVec applies Sigmoid elementwise.
func SigmoidVec[T Float](in, out []T) {
	n := len(in)
	out = out[:n]
	vecSize := n - n%lanes
	for i := 0; i < vecSize; i += lanes {
		x := in[i : i+lanes : i+lanes]
		y := out[i : i+lanes : i+lanes]
		y[0] = 1 / (1 + Exp(-x[0]))
		y[1] = 1 / (1 + Exp(-x[1]))
		y[2] = 1 / (1 + Exp(-x[2]))
		y[3] = 1 / (1 + Exp(-x[3]))
	}
	sigmoidScalar(in[vecSize:], out[vecSize:])
}

// TanhVec applies Tanh elementwise.
func TanhVec[T Float](in, out []T) {
	n := len(in)
	out = out[:n]
	vecSize := n - n%lanes
	for i := 0; i < vecSize; i += lanes {
		x := in[i : i+lanes : i+lanes]
		y := out[i : i+lanes : i+lanes]
		y[0] = Tanh(x[0])
		y[1] = Tanh(x[1])
		y[2] = Tanh(x[2])
		y[3] = Tanh(x[3])
	}
	tanhScalar(in[vecSize:], out[vecSize:])
}

// Softmax stores exp(in[i]) / sum(exp(in)) into out.
func Softmax[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	out = out[:n]
	vecSize := n - n%lanes
	var sum T
	for i := 0; i < vecSize; i += lanes {
		x := in[i : i+lanes : i+lanes]
		y := out[i : i+lanes : i+lanes]
		y[0] = Exp(x[0])
		y[1] = Exp(x[1])
		y[2] = Exp(x[2])
		y[3] = Exp(x[3])
		sum += (y[0] + y[1]) + (y[2] + y[3])
	}
	for i := vecSize; i < n; i++ {
		out[i] = Exp(in[i])
		sum += out[i]
	}

	inv := 1 / sum
	if is32[T]() {
		vek32.MulNumber_Inplace(f32(out), float32(inv))
		return
	}
	vek.MulNumber_Inplace(f64(out), float64(inv))
}

// MatVec computes out = W·x for a row-major rows×cols matrix w.
func MatVec[T Float](w []T, rows, cols int, x, out []T) {
	if cols == 0 {
		for i := 0; i < rows; i++ {
			out[i] = 0
		}
		return
	}
	x = x[:cols]
	for i := 0; i < rows; i++ {
		out[i] = Dot(w[i*cols:(i+1)*cols], x)
	}
}
