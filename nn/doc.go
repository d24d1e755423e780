// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides real-time neural network layers for streaming audio
// and control signals.
//
// # Overview
//
// This package contains:
//   - Layers: Dense, LSTM, GRU (reset-after), Conv1D (causal, dilated)
//   - Activations: Tanh, ReLU, Sigmoid, Softmax
//   - Composition: Model, the Layer interface
//
// Every layer processes one frame per Forward call and keeps its recurrent
// state between calls until Reset. Forward and Reset never allocate, lock
// or perform I/O, so they are safe to call from an audio callback. Weight
// setters allocate nothing either but are meant for initialization.
//
// # Basic Usage
//
//	import "github.com/born-ml/rtnn/nn"
//
//	func main() {
//	    gru := nn.NewGRU[float32](1, 8)
//	    gru.SetW(w) // 3·8 rows of 1 value, gate order update, reset, candidate
//	    gru.SetU(u)
//	    gru.SetB(b)
//
//	    model := nn.NewModel[float32](1)
//	    model.AddLayer(gru)
//	    model.AddLayer(nn.NewDense[float32](8, 1))
//
//	    model.Reset()
//	    for _, x := range input {
//	        y := model.Forward([]float32{x})
//	        ...
//	    }
//	}
//
// # Precision
//
// Layers are generic over float32 and float64. The math kernels behind
// them are selected at build time, see package vmath.
//
// # Copies
//
// Clone returns a deep copy: weights and state are duplicated, so the copy
// continues from the same point in the stream and evolves independently.
package nn
