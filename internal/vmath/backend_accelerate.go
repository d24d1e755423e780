//go:build accelerate && darwin && cgo && !simd && !blas

package vmath

// Backend names the kernel implementation linked into this build.
const Backend = "accelerate"

// Dot returns the sum of a[i]*b[i] over len(a) elements.
func Dot[T Float](a, b []T) T {
	n := len(a)
	if n == 0 {
		return 0
	}
	if is32[T]() {
		return T(dotF32(f32(a), f32(b[:n])))
	}
	return T(dotF64(f64(a), f64(b[:n])))
}

// Add stores a[i]+b[i] into out.
func Add[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	if is32[T]() {
		addF32(f32(a), f32(b[:n]), f32(out[:n]))
		return
	}
	addF64(f64(a), f64(b[:n]), f64(out[:n]))
}

// Sub stores a[i]-b[i] into out.
func Sub[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	if is32[T]() {
		subF32(f32(a), f32(b[:n]), f32(out[:n]))
		return
	}
	subF64(f64(a), f64(b[:n]), f64(out[:n]))
}

// Mul stores a[i]*b[i] into out.
func Mul[T Float](a, b, out []T) {
	n := len(a)
	if n == 0 {
		return
	}
	if is32[T]() {
		mulF32(f32(a), f32(b[:n]), f32(out[:n]))
		return
	}
	mulF64(f64(a), f64(b[:n]), f64(out[:n]))
}

// Copy copies in into out.
func Copy[T Float](in, out []T) {
	copy(out, in)
}

// SigmoidVec applies Sigmoid elementwise.
func SigmoidVec[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	if is32[T]() {
		sigmoidF32(f32(in), f32(out[:n]))
		return
	}
	sigmoidF64(f64(in), f64(out[:n]))
}

// TanhVec applies Tanh elementwise.
func TanhVec[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	if is32[T]() {
		tanhF32(f32(in), f32(out[:n]))
		return
	}
	tanhF64(f64(in), f64(out[:n]))
}

// Softmax stores exp(in[i]) / sum(exp(in)) into out.
func Softmax[T Float](in, out []T) {
	n := len(in)
	if n == 0 {
		return
	}
	if is32[T]() {
		softmaxF32(f32(in), f32(out[:n]))
		return
	}
	softmaxF64(f64(in), f64(out[:n]))
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
		gemvF32(f32(w[:rows*cols]), rows, cols, f32(x[:cols]), f32(out[:rows]))
		return
	}
	gemvF64(f64(w[:rows*cols]), rows, cols, f64(x[:cols]), f64(out[:rows]))
}
