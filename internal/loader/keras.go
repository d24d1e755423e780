package loader

import (
	"encoding/json"
	"fmt"

	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// Keras stores kernels input-major ([in][units]); package nn stores them
// unit-major ([units][in]). The builders below decode the Keras arrays in
// float64, check their dimensions and transpose into the nn layout.

func weightAt(weights []json.RawMessage, i int, what string) (json.RawMessage, error) {
	if i >= len(weights) {
		return nil, fmt.Errorf("%w: %s (weights[%d])", ErrMissingTensor, what, i)
	}
	return weights[i], nil
}

func decodeVector(raw json.RawMessage, n int, what string) ([]float64, error) {
	var v []float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShapeMismatch, what, err)
	}
	if len(v) != n {
		return nil, shapeErr(what, []int{n}, []int{len(v)})
	}
	return v, nil
}

func decodeMatrix(raw json.RawMessage, rows, cols int, what string) ([][]float64, error) {
	var m [][]float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShapeMismatch, what, err)
	}
	if len(m) != rows {
		return nil, shapeErr(what, []int{rows, cols}, fmt.Sprintf("%d rows", len(m)))
	}
	for i, row := range m {
		if len(row) != cols {
			return nil, shapeErr(fmt.Sprintf("%s row %d", what, i), cols, len(row))
		}
	}
	return m, nil
}

func decodeTensor3(raw json.RawMessage, d0, d1, d2 int, what string) ([][][]float64, error) {
	var t [][][]float64
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShapeMismatch, what, err)
	}
	if len(t) != d0 {
		return nil, shapeErr(what, []int{d0, d1, d2}, fmt.Sprintf("%d slices", len(t)))
	}
	for i, m := range t {
		if len(m) != d1 {
			return nil, shapeErr(fmt.Sprintf("%s[%d]", what, i), d1, len(m))
		}
		for j, row := range m {
			if len(row) != d2 {
				return nil, shapeErr(fmt.Sprintf("%s[%d][%d]", what, i, j), d2, len(row))
			}
		}
	}
	return t, nil
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	t := make([][]float64, len(m[0]))
	for j := range t {
		t[j] = make([]float64, len(m))
		for i := range m {
			t[j][i] = m[i][j]
		}
	}
	return t
}

func vecOf[T vmath.Float](v []float64) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = T(x)
	}
	return out
}

func matOf[T vmath.Float](m [][]float64) [][]T {
	out := make([][]T, len(m))
	for i, row := range m {
		out[i] = vecOf[T](row)
	}
	return out
}

// negateRows flips the sign of rows [from, to) of m in place.
func negateRows(m [][]float64, from, to int) {
	for r := from; r < to; r++ {
		for j := range m[r] {
			m[r][j] = -m[r][j]
		}
	}
}

func buildDense[T vmath.Float](weights []json.RawMessage, in, out int) (nn.Layer[T], error) {
	raw, err := weightAt(weights, 0, "kernel")
	if err != nil {
		return nil, err
	}
	kernel, err := decodeMatrix(raw, in, out, "kernel")
	if err != nil {
		return nil, err
	}

	d := nn.NewDense[T](in, out)
	d.SetWeights(matOf[T](transpose(kernel)))

	// use_bias=False exports the kernel only.
	if len(weights) > 1 {
		bias, err := decodeVector(weights[1], out, "bias")
		if err != nil {
			return nil, err
		}
		d.SetBias(vecOf[T](bias))
	}
	return d, nil
}

func buildLSTM[T vmath.Float](weights []json.RawMessage, in, out int) (nn.Layer[T], error) {
	w, u, err := recurrentKernels(weights, in, out, 4)
	if err != nil {
		return nil, err
	}
	raw, err := weightAt(weights, 2, "bias")
	if err != nil {
		return nil, err
	}
	bias, err := decodeVector(raw, 4*out, "bias")
	if err != nil {
		return nil, err
	}

	l := nn.NewLSTM[T](in, out)
	l.SetW(matOf[T](w))
	l.SetU(matOf[T](u))
	l.SetB(vecOf[T](bias))
	return l, nil
}

// buildGRU converts a Keras reset_after GRU. Keras blends the state as
// z⊙h + (1-z)⊙n while nn.GRU computes (1-z)⊙h + z⊙n, so the update gate
// pre-activation is negated: sigmoid(-a) = 1 - sigmoid(a).
func buildGRU[T vmath.Float](weights []json.RawMessage, in, out int) (nn.Layer[T], error) {
	w, u, err := recurrentKernels(weights, in, out, 3)
	if err != nil {
		return nil, err
	}
	raw, err := weightAt(weights, 2, "bias")
	if err != nil {
		return nil, err
	}
	bias, err := decodeMatrix(raw, 2, 3*out, "bias")
	if err != nil {
		return nil, err
	}

	b := transpose(bias) // [3·out][input, recurrent]
	negateRows(w, 0, out)
	negateRows(u, 0, out)
	negateRows(b, 0, out)

	g := nn.NewGRU[T](in, out)
	g.SetW(matOf[T](w))
	g.SetU(matOf[T](u))
	g.SetB(matOf[T](b))
	return g, nil
}

// recurrentKernels decodes and transposes the input kernel [in][gates·out]
// and recurrent kernel [out][gates·out].
func recurrentKernels(weights []json.RawMessage, in, out, gates int) (w, u [][]float64, err error) {
	raw, err := weightAt(weights, 0, "kernel")
	if err != nil {
		return nil, nil, err
	}
	kernel, err := decodeMatrix(raw, in, gates*out, "kernel")
	if err != nil {
		return nil, nil, err
	}
	raw, err = weightAt(weights, 1, "recurrent_kernel")
	if err != nil {
		return nil, nil, err
	}
	recurrent, err := decodeMatrix(raw, out, gates*out, "recurrent_kernel")
	if err != nil {
		return nil, nil, err
	}
	return transpose(kernel), transpose(recurrent), nil
}

func buildConv1D[T vmath.Float](weights []json.RawMessage, in, out, kernelSize, dilation int) (nn.Layer[T], error) {
	raw, err := weightAt(weights, 0, "kernel")
	if err != nil {
		return nil, err
	}
	kernel, err := decodeTensor3(raw, kernelSize, in, out, "kernel")
	if err != nil {
		return nil, err
	}

	w := make([][][]T, out)
	for o := range w {
		w[o] = make([][]T, in)
		for i := range w[o] {
			w[o][i] = make([]T, kernelSize)
			for k := range kernelSize {
				w[o][i][k] = T(kernel[k][i][o])
			}
		}
	}

	c := nn.NewConv1D[T](in, out, kernelSize, dilation)
	c.SetWeights(w)

	if len(weights) > 1 {
		bias, err := decodeVector(weights[1], out, "bias")
		if err != nil {
			return nil, err
		}
		c.SetBias(vecOf[T](bias))
	}
	return c, nil
}
