package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Activation layers are stateless and size-preserving: InSize() == OutSize().

// Tanh applies the hyperbolic tangent elementwise.
type Tanh[T vmath.Float] struct{ sizes }

// NewTanh creates a Tanh activation for frames of the given width.
func NewTanh[T vmath.Float](size int) *Tanh[T] {
	return &Tanh[T]{sizes: newSizes(size, size, "tanh")}
}

// Forward applies tanh(x).
func (a *Tanh[T]) Forward(in, out []T) { vmath.TanhVec(in[:a.inSize], out) }

// Reset is a no-op.
func (a *Tanh[T]) Reset() {}

// Name returns "tanh".
func (a *Tanh[T]) Name() string { return "tanh" }

// Clone returns a copy of the layer.
func (a *Tanh[T]) Clone() Layer[T] { return &Tanh[T]{sizes: a.sizes} }

// ReLU is a Rectified Linear Unit activation: f(x) = max(0, x).
type ReLU[T vmath.Float] struct{ sizes }

// NewReLU creates a ReLU activation for frames of the given width.
func NewReLU[T vmath.Float](size int) *ReLU[T] {
	return &ReLU[T]{sizes: newSizes(size, size, "relu")}
}

// Forward applies max(0, x).
func (a *ReLU[T]) Forward(in, out []T) {
	out = out[:a.inSize]
	for i, x := range in[:a.inSize] {
		out[i] = max(x, 0)
	}
}

// Reset is a no-op.
func (a *ReLU[T]) Reset() {}

// Name returns "relu".
func (a *ReLU[T]) Name() string { return "relu" }

// Clone returns a copy of the layer.
func (a *ReLU[T]) Clone() Layer[T] { return &ReLU[T]{sizes: a.sizes} }

// Sigmoid applies the logistic function 1 / (1 + e^-x) elementwise.
type Sigmoid[T vmath.Float] struct{ sizes }

// NewSigmoid creates a Sigmoid activation for frames of the given width.
func NewSigmoid[T vmath.Float](size int) *Sigmoid[T] {
	return &Sigmoid[T]{sizes: newSizes(size, size, "sigmoid")}
}

// Forward applies sigmoid(x).
func (a *Sigmoid[T]) Forward(in, out []T) { vmath.SigmoidVec(in[:a.inSize], out) }

// Reset is a no-op.
func (a *Sigmoid[T]) Reset() {}

// Name returns "sigmoid".
func (a *Sigmoid[T]) Name() string { return "sigmoid" }

// Clone returns a copy of the layer.
func (a *Sigmoid[T]) Clone() Layer[T] { return &Sigmoid[T]{sizes: a.sizes} }

// Softmax normalizes a frame into a probability distribution.
//
// Softmax(x_i) = exp(x_i) / sum(exp(x_j)). The maximum is not subtracted
// first, so very large inputs overflow.
type Softmax[T vmath.Float] struct{ sizes }

// NewSoftmax creates a Softmax activation for frames of the given width.
func NewSoftmax[T vmath.Float](size int) *Softmax[T] {
	return &Softmax[T]{sizes: newSizes(size, size, "softmax")}
}

// Forward applies softmax over the whole frame.
func (a *Softmax[T]) Forward(in, out []T) { vmath.Softmax(in[:a.inSize], out) }

// Reset is a no-op.
func (a *Softmax[T]) Reset() {}

// Name returns "softmax".
func (a *Softmax[T]) Name() string { return "softmax" }

// Clone returns a copy of the layer.
func (a *Softmax[T]) Clone() Layer[T] { return &Softmax[T]{sizes: a.sizes} }

// NewActivation returns the activation layer with the given name, or nil
// if the name is unknown. The empty name and "linear" yield nil as well.
func NewActivation[T vmath.Float](name string, size int) Layer[T] {
	switch name {
	case "tanh":
		return NewTanh[T](size)
	case "relu":
		return NewReLU[T](size)
	case "sigmoid":
		return NewSigmoid[T](size)
	case "softmax":
		return NewSoftmax[T](size)
	default:
		return nil
	}
}
