//go:build !simd && !blas && !(accelerate && darwin && cgo)

package vmath

// Backend names the kernel implementation linked into this build.
const Backend = "generic"

// Dot returns the sum of a[i]*b[i] over len(a) elements.
func Dot[T Float](a, b []T) T {
	return dotScalar(a, b[:len(a)])
}

// Add stores a[i]+b[i] into out.
func Add[T Float](a, b, out []T) {
	addScalar(a, b[:len(a)], out[:len(a)])
}

// Sub stores a[i]-b[i] into out.
func Sub[T Float](a, b, out []T) {
	subScalar(a, b[:len(a)], out[:len(a)])
}

// Mul stores a[i]*b[i] into out.
func Mul[T Float](a, b, out []T) {
	mulScalar(a, b[:len(a)], out[:len(a)])
}

// Copy copies in into out.
func Copy[T Float](in, out []T) {
	copy(out, in)
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
func Softmax[T Float](in, out []T) {
	softmaxScalar(in, out[:len(in)])
}

// MatVec computes out = W·x for a row-major rows×cols matrix w.
func MatVec[T Float](w []T, rows, cols int, x, out []T) {
	matVecScalar(w, rows, cols, x, out)
}
