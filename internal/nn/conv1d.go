package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// Conv1D implements a streaming causal 1-D convolution.
//
// Each Forward call consumes one input frame of in_size channels and
// produces one frame of out_size filters:
//
//	y[o] = b[o] + Σ_i Σ_k W[o][i][k] · x[t-(K-1-k)·d][i]
//
// where K is the kernel size and d the dilation. The last kernel tap
// multiplies the newest frame. The layer keeps a circular history of the
// last (K-1)·d+1 input frames; Reset clears it.
type Conv1D[T vmath.Float] struct {
	sizes
	kernelSize int
	dilation   int
	stateSize  int

	w []T // [out, K·in]: for each filter, tap-major then channel
	b []T // [out]

	hist   []T // circular input history [stateSize·in]
	pos    int // next history frame to write
	window []T // gathered taps [K·in]
}

// NewConv1D creates a Conv1D layer with zero weights and empty history.
func NewConv1D[T vmath.Float](inSize, outSize, kernelSize, dilation int) *Conv1D[T] {
	s := newSizes(inSize, outSize, "conv1d")
	if kernelSize <= 0 || dilation <= 0 {
		panicf("conv1d: kernel size and dilation must be positive, got %d and %d", kernelSize, dilation)
	}
	stateSize := (kernelSize-1)*dilation + 1
	return &Conv1D[T]{
		sizes:      s,
		kernelSize: kernelSize,
		dilation:   dilation,
		stateSize:  stateSize,
		w:          make([]T, outSize*kernelSize*inSize),
		b:          make([]T, outSize),
		hist:       make([]T, stateSize*inSize),
		window:     make([]T, kernelSize*inSize),
	}
}

// Forward pushes one frame into the history and computes one output frame.
func (c *Conv1D[T]) Forward(in, out []T) {
	n := c.inSize
	vmath.Copy(in[:n], c.hist[c.pos*n:(c.pos+1)*n])

	for k := 0; k < c.kernelSize; k++ {
		frame := c.pos - (c.kernelSize-1-k)*c.dilation
		if frame < 0 {
			frame += c.stateSize
		}
		vmath.Copy(c.hist[frame*n:(frame+1)*n], c.window[k*n:(k+1)*n])
	}

	out = out[:c.outSize]
	vmath.MatVec(c.w, c.outSize, c.kernelSize*n, c.window, out)
	vmath.Add(out, c.b, out)

	c.pos++
	if c.pos == c.stateSize {
		c.pos = 0
	}
}

// Reset clears the input history.
func (c *Conv1D[T]) Reset() {
	zero(c.hist)
	c.pos = 0
}

// Name returns "conv1d".
func (c *Conv1D[T]) Name() string { return "conv1d" }

// KernelSize returns the number of kernel taps.
func (c *Conv1D[T]) KernelSize() int { return c.kernelSize }

// Dilation returns the spacing between kernel taps, in frames.
func (c *Conv1D[T]) Dilation() int { return c.dilation }

// SetWeights copies the kernel, indexed [out_size][in_size][kernel_size].
func (c *Conv1D[T]) SetWeights(w [][][]T) {
	if len(w) != c.outSize {
		panicf("Conv1D.SetWeights: expected %d filters, got %d", c.outSize, len(w))
	}
	for o, filter := range w {
		if len(filter) != c.inSize {
			panicf("Conv1D.SetWeights: filter %d: expected %d channels, got %d", o, c.inSize, len(filter))
		}
		for i, taps := range filter {
			if len(taps) != c.kernelSize {
				panicf("Conv1D.SetWeights: filter %d channel %d: expected %d taps, got %d", o, i, c.kernelSize, len(taps))
			}
			for k, v := range taps {
				c.w[c.index(o, i, k)] = v
			}
		}
	}
}

// SetBias copies out_size bias values.
func (c *Conv1D[T]) SetBias(b []T) {
	setFlat(c.b, b, "Conv1D.SetBias")
}

// Weight returns W[o][i][k].
func (c *Conv1D[T]) Weight(o, i, k int) T {
	return c.w[c.index(o, i, k)]
}

// Bias returns b[o].
func (c *Conv1D[T]) Bias(o int) T {
	return c.b[o]
}

func (c *Conv1D[T]) index(o, i, k int) int {
	return (o*c.kernelSize+k)*c.inSize + i
}

// Clone returns a deep copy of the layer, including its history.
func (c *Conv1D[T]) Clone() Layer[T] {
	d := NewConv1D[T](c.inSize, c.outSize, c.kernelSize, c.dilation)
	copy(d.w, c.w)
	copy(d.b, c.b)
	copy(d.hist, c.hist)
	d.pos = c.pos
	return d
}
