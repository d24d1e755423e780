package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Dense implements a fully connected (affine) layer.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input frame with InSize() values
//   - W is the weight matrix with shape [out_size, in_size]
//   - b is the bias vector with shape [out_size]
//   - y is the output frame with OutSize() values
//
// No activation is applied; compose an activation layer after it.
// Weights and bias start at zero.
//
// Example:
//
//	dense := nn.NewDense[float32](2, 1)
//	dense.SetWeights([][]float32{{0.5, -0.5}})
//	dense.SetBias([]float32{1})
//
//	out := make([]float32, 1)
//	dense.Forward([]float32{2, 4}, out) // out[0] == 0
type Dense[T vmath.Float] struct {
	sizes
	weight []T // [out_size, in_size], row-major
	bias   []T // [out_size]
}

// NewDense creates a new Dense layer with zero weights and bias.
//
// Parameters:
//   - inSize: Number of input values
//   - outSize: Number of output values
func NewDense[T vmath.Float](inSize, outSize int) *Dense[T] {
	return &Dense[T]{
		sizes:  newSizes(inSize, outSize, "dense"),
		weight: make([]T, outSize*inSize),
		bias:   make([]T, outSize),
	}
}

// Forward computes y = W·x + b.
func (d *Dense[T]) Forward(in, out []T) {
	out = out[:d.outSize]
	vmath.MatVec(d.weight, d.outSize, d.inSize, in, out)
	vmath.Add(out, d.bias, out)
}

// Reset is a no-op: Dense has no state.
func (d *Dense[T]) Reset() {}

// Name returns "dense".
func (d *Dense[T]) Name() string { return "dense" }

// SetWeights copies out_size rows of in_size values.
func (d *Dense[T]) SetWeights(w [][]T) {
	setRows(d.weight, w, d.outSize, d.inSize, "Dense.SetWeights")
}

// SetWeightsFlat copies a row-major [out_size, in_size] buffer.
func (d *Dense[T]) SetWeightsFlat(w []T) {
	setFlat(d.weight, w, "Dense.SetWeightsFlat")
}

// SetBias copies out_size bias values.
func (d *Dense[T]) SetBias(b []T) {
	setFlat(d.bias, b, "Dense.SetBias")
}

// Weight returns W[i][k].
func (d *Dense[T]) Weight(i, k int) T {
	return d.weight[i*d.inSize+k]
}

// Bias returns b[i].
func (d *Dense[T]) Bias(i int) T {
	return d.bias[i]
}

// Clone returns a deep copy of the layer.
func (d *Dense[T]) Clone() Layer[T] {
	return &Dense[T]{
		sizes:  d.sizes,
		weight: cloneSlice(d.weight),
		bias:   cloneSlice(d.bias),
	}
}
