// Package nn implements the real-time inference layers.
//
// This package provides building blocks for streaming neural networks:
//   - Layer interface: Common contract for all layers
//   - Dense: Fully connected (affine) layer
//   - LSTM, GRU: Recurrent layers carrying state across calls
//   - Conv1D: Streaming causal 1-D convolution
//   - Activations: Tanh, ReLU, Sigmoid, Softmax
//   - Model: Container chaining layers into one pipeline
//
// Every layer processes one time-step per Forward call. Weights and scratch
// buffers are allocated once in the constructor; Forward and Reset never
// allocate, lock, or block, so a built model can be driven from an audio
// callback. Setters are initialization-time operations and panic on shape
// mismatch.
//
// A layer instance is not safe for concurrent use. Distinct instances share
// no mutable state.
package nn
