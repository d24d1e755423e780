// Package vmath implements the vector math kernels every layer is built from.
//
// The package exposes one contract with four implementations, selected at
// build time with Go build tags:
//   - generic (default): plain Go loops
//   - simd: SIMD dot/add/sub/mul through github.com/viterin/vek
//   - blas: gonum BLAS level 1/2 routines (blas32, blas64)
//   - accelerate: Apple Accelerate vDSP/vForce (darwin, cgo)
//
// Exactly one implementation is linked into a binary and there is no runtime
// dispatch. All kernels are generic over Float and operate on caller-owned
// slices: none of them allocate, lock, or block, so they are safe to call
// from a real-time audio callback.
//
// Lengths are preconditions. Binary kernels operate on len(a) elements and
// expect b and out to be at least that long. The output slice may be the
// same slice as either operand, or both; element i of the result depends
// only on element i of the inputs. Slices that overlap at an offset are not
// supported.
//
// Softmax does not subtract the maximum before exponentiation; very large
// inputs overflow to +Inf.
//
// The tests in this package and in internal/nn exercise whichever backend
// the build selects, so run them once per tag:
//
//	go test ./internal/vmath ./internal/nn ./internal/harness
//	go test -tags simd ./internal/vmath ./internal/nn ./internal/harness
//	go test -tags blas ./internal/vmath ./internal/nn ./internal/harness
//	go test -tags accelerate ./internal/vmath ./internal/nn ./internal/harness  # darwin
package vmath
