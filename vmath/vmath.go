// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vmath exposes the vector kernels behind the nn layers.
//
// The implementation is chosen at build time:
//
//	go build                  # portable Go loops ("generic")
//	go build -tags simd       # github.com/viterin/vek ("simd")
//	go build -tags blas       # gonum BLAS ("blas")
//	go build -tags accelerate # Apple Accelerate via cgo, darwin only ("accelerate")
//
// Backend reports the selected implementation. The output slice of every
// kernel may be the same slice as any of its inputs, and none of them
// allocate.
package vmath

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Float is the set of supported element types.
type Float = vmath.Float

// Backend names the kernel implementation compiled into the binary.
const Backend = vmath.Backend

// Dot returns the inner product of a and b.
func Dot[T Float](a, b []T) T { return vmath.Dot(a, b) }

// Add stores a + b elementwise into out.
func Add[T Float](a, b, out []T) { vmath.Add(a, b, out) }

// Sub stores a - b elementwise into out.
func Sub[T Float](a, b, out []T) { vmath.Sub(a, b, out) }

// Mul stores a ⊙ b into out.
func Mul[T Float](a, b, out []T) { vmath.Mul(a, b, out) }

// Copy copies in into out.
func Copy[T Float](in, out []T) { vmath.Copy(in, out) }

// SigmoidVec stores 1 / (1 + e^-x) for each element of in into out.
func SigmoidVec[T Float](in, out []T) { vmath.SigmoidVec(in, out) }

// TanhVec stores tanh(x) for each element of in into out.
func TanhVec[T Float](in, out []T) { vmath.TanhVec(in, out) }

// Softmax stores the softmax of in into out.
func Softmax[T Float](in, out []T) { vmath.Softmax(in, out) }

// MatVec stores the product of the row-major rows×cols matrix w and x into
// out.
func MatVec[T Float](w []T, rows, cols int, x, out []T) { vmath.MatVec(w, rows, cols, x, out) }

// Exp returns e**x in the precision of T.
func Exp[T Float](x T) T { return vmath.Exp(x) }

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid[T Float](x T) T { return vmath.Sigmoid(x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh[T Float](x T) T { return vmath.Tanh(x) }
