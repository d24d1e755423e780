// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// Float is the set of supported sample types.
type Float = vmath.Float

// Layer is the interface implemented by every layer.
type Layer[T Float] = nn.Layer[T]

// Model chains layers, feeding each layer's output to the next.
type Model[T Float] = nn.Model[T]

// NewModel creates an empty model accepting frames of inSize values.
//
// Example:
//
//	model := nn.NewModel[float64](1)
//	model.AddLayer(nn.NewLSTM[float64](1, 16))
//	model.AddLayer(nn.NewDense[float64](16, 1))
func NewModel[T Float](inSize int) *Model[T] {
	return nn.NewModel[T](inSize)
}

// Layers

// Dense represents a fully connected layer y = W·x + b.
type Dense[T Float] = nn.Dense[T]

// NewDense creates a dense layer with zero weights and bias.
func NewDense[T Float](inSize, outSize int) *Dense[T] {
	return nn.NewDense[T](inSize, outSize)
}

// LSTM represents a single-step Long Short-Term Memory layer.
type LSTM[T Float] = nn.LSTM[T]

// NewLSTM creates an LSTM layer with zero weights and zero state.
func NewLSTM[T Float](inSize, outSize int) *LSTM[T] {
	return nn.NewLSTM[T](inSize, outSize)
}

// LSTM gate block indices.
const (
	LSTMInput     = nn.LSTMInput
	LSTMForget    = nn.LSTMForget
	LSTMCandidate = nn.LSTMCandidate
	LSTMOutput    = nn.LSTMOutput
)

// GRU represents a single-step Gated Recurrent Unit layer (reset-after).
type GRU[T Float] = nn.GRU[T]

// NewGRU creates a GRU layer with zero weights and zero state.
func NewGRU[T Float](inSize, outSize int) *GRU[T] {
	return nn.NewGRU[T](inSize, outSize)
}

// GRU gate block indices and bias columns.
const (
	GRUUpdate        = nn.GRUUpdate
	GRUReset         = nn.GRUReset
	GRUCandidate     = nn.GRUCandidate
	GRUInputBias     = nn.GRUInputBias
	GRURecurrentBias = nn.GRURecurrentBias
)

// Conv1D represents a streaming causal 1-D convolution.
type Conv1D[T Float] = nn.Conv1D[T]

// NewConv1D creates a Conv1D layer with zero weights and empty history.
//
// Example:
//
//	conv := nn.NewConv1D[float32](1, 8, 3, 2) // in=1, out=8, kernel=3, dilation=2
func NewConv1D[T Float](inSize, outSize, kernelSize, dilation int) *Conv1D[T] {
	return nn.NewConv1D[T](inSize, outSize, kernelSize, dilation)
}

// Activations

// Tanh applies the hyperbolic tangent elementwise.
type Tanh[T Float] = nn.Tanh[T]

// NewTanh creates a Tanh activation layer.
func NewTanh[T Float](size int) *Tanh[T] {
	return nn.NewTanh[T](size)
}

// ReLU applies max(0, x) elementwise.
type ReLU[T Float] = nn.ReLU[T]

// NewReLU creates a ReLU activation layer.
func NewReLU[T Float](size int) *ReLU[T] {
	return nn.NewReLU[T](size)
}

// Sigmoid applies the logistic function elementwise.
type Sigmoid[T Float] = nn.Sigmoid[T]

// NewSigmoid creates a Sigmoid activation layer.
func NewSigmoid[T Float](size int) *Sigmoid[T] {
	return nn.NewSigmoid[T](size)
}

// Softmax normalizes a frame into a probability distribution.
type Softmax[T Float] = nn.Softmax[T]

// NewSoftmax creates a Softmax activation layer.
func NewSoftmax[T Float](size int) *Softmax[T] {
	return nn.NewSoftmax[T](size)
}

// NewActivation returns the activation layer named "tanh", "relu",
// "sigmoid" or "softmax", or nil for any other name.
func NewActivation[T Float](name string, size int) Layer[T] {
	return nn.NewActivation[T](name, size)
}
