package nn

import (
	"github.com/born-ml/rtnn/internal/vmath"
)

// LSTM gate block indices, in the order used by SetW, SetU and SetB.
const (
	LSTMInput = iota
	LSTMForget
	LSTMCandidate
	LSTMOutput
	lstmGates
)

// LSTM implements a Long Short-Term Memory layer processing one time-step
// per Forward call.
//
// For input x and previous state (h, c):
//
//	f  = sigmoid(Wf·x + Uf·h + bf)
//	i  = sigmoid(Wi·x + Ui·h + bi)
//	o  = sigmoid(Wo·x + Uo·h + bo)
//	c~ = tanh(Wc·x + Uc·h + bc)
//	c' = f⊙c + i⊙c~
//	h' = o⊙tanh(c')
//
// h' is the output. Hidden and cell state start at zero and persist until
// Reset.
//
// Weights for the four gates are stored as one stacked matrix in gate order
// [input, forget, candidate, output], so each time-step is two
// matrix-vector products over 4·out_size rows.
type LSTM[T vmath.Float] struct {
	sizes
	w []T // [4·out, in]
	u []T // [4·out, out]
	b []T // [4·out]

	h []T // hidden state [out]
	c []T // cell state [out]

	gates []T // gate pre-activations / activations [4·out]
	rec   []T // U·h [4·out]
	tmp   []T // [out]
}

// NewLSTM creates a new LSTM layer with zero weights and zero state.
func NewLSTM[T vmath.Float](inSize, outSize int) *LSTM[T] {
	return &LSTM[T]{
		sizes: newSizes(inSize, outSize, "lstm"),
		w:     make([]T, lstmGates*outSize*inSize),
		u:     make([]T, lstmGates*outSize*outSize),
		b:     make([]T, lstmGates*outSize),
		h:     make([]T, outSize),
		c:     make([]T, outSize),
		gates: make([]T, lstmGates*outSize),
		rec:   make([]T, lstmGates*outSize),
		tmp:   make([]T, outSize),
	}
}

// gate returns the slice of s holding the given gate block.
func (l *LSTM[T]) gate(s []T, g int) []T {
	return s[g*l.outSize : (g+1)*l.outSize]
}

// Forward advances the layer by one time-step.
func (l *LSTM[T]) Forward(in, out []T) {
	n := l.outSize
	rows := lstmGates * n

	vmath.MatVec(l.w, rows, l.inSize, in, l.gates)
	vmath.MatVec(l.u, rows, n, l.h, l.rec)
	vmath.Add(l.gates, l.rec, l.gates)
	vmath.Add(l.gates, l.b, l.gates)

	// Input and forget blocks are adjacent.
	vmath.SigmoidVec(l.gates[:2*n], l.gates[:2*n])
	cand := l.gate(l.gates, LSTMCandidate)
	vmath.TanhVec(cand, cand)
	o := l.gate(l.gates, LSTMOutput)
	vmath.SigmoidVec(o, o)

	vmath.Mul(l.c, l.gate(l.gates, LSTMForget), l.c)
	vmath.Mul(l.gate(l.gates, LSTMInput), cand, l.tmp)
	vmath.Add(l.c, l.tmp, l.c)

	vmath.TanhVec(l.c, l.tmp)
	vmath.Mul(o, l.tmp, l.h)
	vmath.Copy(l.h, out[:n])
}

// Reset zeroes hidden and cell state.
func (l *LSTM[T]) Reset() {
	zero(l.h)
	zero(l.c)
}

// Name returns "lstm".
func (l *LSTM[T]) Name() string { return "lstm" }

// SetW copies the input-to-hidden weights: 4·out_size rows of in_size
// values, in gate order [input, forget, candidate, output].
func (l *LSTM[T]) SetW(w [][]T) {
	setRows(l.w, w, lstmGates*l.outSize, l.inSize, "LSTM.SetW")
}

// SetU copies the hidden-to-hidden weights: 4·out_size rows of out_size
// values, in gate order [input, forget, candidate, output].
func (l *LSTM[T]) SetU(u [][]T) {
	setRows(l.u, u, lstmGates*l.outSize, l.outSize, "LSTM.SetU")
}

// SetB copies 4·out_size biases in gate order [input, forget, candidate, output].
func (l *LSTM[T]) SetB(b []T) {
	setFlat(l.b, b, "LSTM.SetB")
}

// W returns the input weight of gate g from input j to unit i.
func (l *LSTM[T]) W(g, i, j int) T {
	return l.w[(g*l.outSize+i)*l.inSize+j]
}

// U returns the recurrent weight of gate g from hidden unit j to unit i.
func (l *LSTM[T]) U(g, i, j int) T {
	return l.u[(g*l.outSize+i)*l.outSize+j]
}

// B returns the bias of gate g for unit i.
func (l *LSTM[T]) B(g, i int) T {
	return l.b[g*l.outSize+i]
}

// Hidden returns the current hidden state. The slice is owned by the layer.
func (l *LSTM[T]) Hidden() []T { return l.h }

// Cell returns the current cell state. The slice is owned by the layer.
func (l *LSTM[T]) Cell() []T { return l.c }

// Clone returns a deep copy of the layer, including its state.
func (l *LSTM[T]) Clone() Layer[T] {
	c := NewLSTM[T](l.inSize, l.outSize)
	copy(c.w, l.w)
	copy(c.u, l.u)
	copy(c.b, l.b)
	copy(c.h, l.h)
	copy(c.c, l.c)
	return c
}
