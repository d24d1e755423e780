package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Layer is the common interface for all inference layers.
//
// Every layer must implement:
//   - Forward: Compute one output frame from one input frame
//   - Reset: Clear recurrent state, keeping weights
//   - InSize/OutSize: Fixed frame widths set at construction
//
// Layers are chained by Model:
//
//	model := nn.NewModel[float32](1)
//	model.AddLayer(nn.NewLSTM[float32](1, 8))
//	model.AddLayer(nn.NewDense[float32](8, 1))
//
// Type parameter T is the scalar precision (float32 or float64).
type Layer[T vmath.Float] interface {
	// Forward reads InSize() values from in and writes OutSize() values to out.
	//
	// It updates only the layer's own recurrent state. in and out must not
	// overlap.
	Forward(in, out []T)

	// Reset zeroes recurrent state. Weights are unchanged.
	Reset()

	// InSize returns the input frame width.
	InSize() int

	// OutSize returns the output frame width.
	OutSize() int

	// Name returns the layer type name as used in model files.
	Name() string

	// Clone returns an independent deep copy, including weights and state.
	Clone() Layer[T]
}

// sizes holds the immutable frame widths shared by every layer.
type sizes struct {
	inSize  int
	outSize int
}

func newSizes(inSize, outSize int, layer string) sizes {
	if inSize <= 0 || outSize <= 0 {
		panicf("%s: sizes must be positive, got in=%d out=%d", layer, inSize, outSize)
	}
	return sizes{inSize: inSize, outSize: outSize}
}

// InSize returns the input frame width.
func (s sizes) InSize() int { return s.inSize }

// OutSize returns the output frame width.
func (s sizes) OutSize() int { return s.outSize }
