package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// GRU gate block indices, in the order used by SetW, SetU and SetB.
const (
	GRUUpdate = iota
	GRUReset
	GRUCandidate
	gruGates
)

// GRU bias columns used by SetB and B.
const (
	GRUInputBias = iota
	GRURecurrentBias
)

// GRU implements a Gated Recurrent Unit layer with the "reset-after"
// convention, processing one time-step per Forward call.
//
// For input x and previous hidden state h:
//
//	z  = sigmoid(Wz·x + Uz·h + bz_in + bz_rec)
//	r  = sigmoid(Wr·x + Ur·h + br_in + br_rec)
//	n  = tanh(Wc·x + bc_in + r⊙(Uc·h + bc_rec))
//	h' = (1-z)⊙h + z⊙n
//
// The reset gate scales only the recurrent half of the candidate
// pre-activation. h' is the output; state starts at zero and persists until
// Reset.
type GRU[T vmath.Float] struct {
	sizes
	w    []T // [3·out, in]
	u    []T // [3·out, out]
	bIn  []T // input-side biases [3·out]
	bRec []T // recurrent-side biases [3·out]

	h []T // hidden state [out]

	gx  []T // W·x + b_in [3·out]
	gh  []T // U·h + b_rec [3·out]
	tmp []T // [out]
}

// NewGRU creates a new GRU layer with zero weights and zero state.
func NewGRU[T vmath.Float](inSize, outSize int) *GRU[T] {
	return &GRU[T]{
		sizes: newSizes(inSize, outSize, "gru"),
		w:     make([]T, gruGates*outSize*inSize),
		u:     make([]T, gruGates*outSize*outSize),
		bIn:   make([]T, gruGates*outSize),
		bRec:  make([]T, gruGates*outSize),
		h:     make([]T, outSize),
		gx:    make([]T, gruGates*outSize),
		gh:    make([]T, gruGates*outSize),
		tmp:   make([]T, outSize),
	}
}

func (g *GRU[T]) gate(s []T, k int) []T {
	return s[k*g.outSize : (k+1)*g.outSize]
}

// Forward advances the layer by one time-step.
func (g *GRU[T]) Forward(in, out []T) {
	n := g.outSize
	rows := gruGates * n

	vmath.MatVec(g.w, rows, g.inSize, in, g.gx)
	vmath.Add(g.gx, g.bIn, g.gx)
	vmath.MatVec(g.u, rows, n, g.h, g.gh)
	vmath.Add(g.gh, g.bRec, g.gh)

	// Update and reset blocks are adjacent: z and r in one pass.
	zr := g.gx[:2*n]
	vmath.Add(zr, g.gh[:2*n], zr)
	vmath.SigmoidVec(zr, zr)
	z := g.gate(g.gx, GRUUpdate)
	r := g.gate(g.gx, GRUReset)

	cand := g.gate(g.gx, GRUCandidate)
	vmath.Mul(r, g.gate(g.gh, GRUCandidate), g.tmp)
	vmath.Add(cand, g.tmp, cand)
	vmath.TanhVec(cand, cand)

	// h' = h - z⊙h + z⊙n
	vmath.Mul(cand, z, cand)
	vmath.Mul(z, g.h, g.tmp)
	vmath.Sub(g.h, g.tmp, g.h)
	vmath.Add(g.h, cand, g.h)
	vmath.Copy(g.h, out[:n])
}

// Reset zeroes the hidden state.
func (g *GRU[T]) Reset() {
	zero(g.h)
}

// Name returns "gru".
func (g *GRU[T]) Name() string { return "gru" }

// SetW copies the input-to-hidden weights: 3·out_size rows of in_size
// values, in gate order [update, reset, candidate].
func (g *GRU[T]) SetW(w [][]T) {
	setRows(g.w, w, gruGates*g.outSize, g.inSize, "GRU.SetW")
}

// SetU copies the hidden-to-hidden weights: 3·out_size rows of out_size
// values, in gate order [update, reset, candidate].
func (g *GRU[T]) SetU(u [][]T) {
	setRows(g.u, u, gruGates*g.outSize, g.outSize, "GRU.SetU")
}

// SetB copies the biases: 3·out_size rows, gate order [update, reset,
// candidate], each row holding [input-bias, recurrent-bias].
func (g *GRU[T]) SetB(b [][]T) {
	if len(b) != gruGates*g.outSize {
		panicf("GRU.SetB: expected %d rows, got %d", gruGates*g.outSize, len(b))
	}
	for i, row := range b {
		if len(row) != 2 {
			panicf("GRU.SetB: row %d: expected 2 values, got %d", i, len(row))
		}
		g.bIn[i] = row[GRUInputBias]
		g.bRec[i] = row[GRURecurrentBias]
	}
}

// W returns the input weight of gate k from input j to unit i.
func (g *GRU[T]) W(k, i, j int) T {
	return g.w[(k*g.outSize+i)*g.inSize+j]
}

// U returns the recurrent weight of gate k from hidden unit j to unit i.
func (g *GRU[T]) U(k, i, j int) T {
	return g.u[(k*g.outSize+i)*g.outSize+j]
}

// B returns bias column col (GRUInputBias or GRURecurrentBias) of gate k
// for unit i.
func (g *GRU[T]) B(k, i, col int) T {
	if col == GRURecurrentBias {
		return g.bRec[k*g.outSize+i]
	}
	return g.bIn[k*g.outSize+i]
}

// Hidden returns the current hidden state. The slice is owned by the layer.
func (g *GRU[T]) Hidden() []T { return g.h }

// Clone returns a deep copy of the layer, including its state.
func (g *GRU[T]) Clone() Layer[T] {
	c := NewGRU[T](g.inSize, g.outSize)
	copy(c.w, g.w)
	copy(c.u, g.u)
	copy(c.bIn, g.bIn)
	copy(c.bRec, g.bRec)
	copy(c.h, g.h)
	return c
}
