package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Model is a container that chains layers together.
//
// Each layer's output frame becomes the next layer's input frame. The
// intermediate buffers are allocated by AddLayer, so Forward never
// allocates.
//
// Example:
//
//	model := nn.NewModel[float32](1)
//	model.AddLayer(nn.NewGRU[float32](1, 8))
//	model.AddLayer(nn.NewDense[float32](8, 1))
//
//	model.Reset()
//	for _, x := range samples {
//	    y := model.Forward([]float32{x})
//	    ...
//	}
type Model[T vmath.Float] struct {
	inSize int
	layers []Layer[T]
	outs   [][]T
}

// NewModel creates an empty model accepting frames of inSize values.
func NewModel[T vmath.Float](inSize int) *Model[T] {
	if inSize <= 0 {
		panicf("NewModel: input size must be positive, got %d", inSize)
	}
	return &Model[T]{inSize: inSize}
}

// AddLayer appends a layer to the chain.
//
// Panics if the layer's input width differs from the current output width
// of the model.
func (m *Model[T]) AddLayer(l Layer[T]) {
	if l.InSize() != m.OutSize() {
		panicf("Model.AddLayer: %s layer expects %d inputs, model produces %d",
			l.Name(), l.InSize(), m.OutSize())
	}
	m.layers = append(m.layers, l)
	m.outs = append(m.outs, make([]T, l.OutSize()))
}

// Forward runs one frame through every layer and returns the first value
// of the final output frame. The full frame is available from Output.
func (m *Model[T]) Forward(in []T) T {
	if len(m.layers) == 0 {
		return in[0]
	}
	m.layers[0].Forward(in, m.outs[0])
	for i := 1; i < len(m.layers); i++ {
		m.layers[i].Forward(m.outs[i-1], m.outs[i])
	}
	return m.outs[len(m.outs)-1][0]
}

// Output returns the output frame of the last Forward call. The slice is
// owned by the model and overwritten by the next call.
func (m *Model[T]) Output() []T {
	if len(m.outs) == 0 {
		return nil
	}
	return m.outs[len(m.outs)-1]
}

// Reset clears the recurrent state of every layer.
func (m *Model[T]) Reset() {
	for _, l := range m.layers {
		l.Reset()
	}
}

// InSize returns the input frame width.
func (m *Model[T]) InSize() int { return m.inSize }

// OutSize returns the output frame width of the last layer, or InSize for
// an empty model.
func (m *Model[T]) OutSize() int {
	if len(m.layers) == 0 {
		return m.inSize
	}
	return m.layers[len(m.layers)-1].OutSize()
}

// Len returns the number of layers.
func (m *Model[T]) Len() int { return len(m.layers) }

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (m *Model[T]) Layer(index int) Layer[T] {
	if index < 0 || index >= len(m.layers) {
		panic("Model.Layer: index out of bounds")
	}
	return m.layers[index]
}

// Layers returns the layers in chain order.
func (m *Model[T]) Layers() []Layer[T] {
	return m.layers
}

// Clone returns an independent deep copy of the model, weights and state
// included.
func (m *Model[T]) Clone() *Model[T] {
	c := NewModel[T](m.inSize)
	for _, l := range m.layers {
		c.AddLayer(l.Clone())
	}
	return c
}
