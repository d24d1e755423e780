package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/rtnn/internal/vmath"
)

// Naive float64 implementations of the layer equations, written directly
// from the formulas and used as the ground truth in tests.

func sigmoid64(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func randMatrix(rng *rand.Rand, rows, cols int, scale float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = randVector(rng, cols, scale)
	}
	return m
}

func randVector(rng *rand.Rand, n int, scale float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = (rng.Float64()*2 - 1) * scale
	}
	return v
}

func toVec[T vmath.Float](v []float64) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = T(x)
	}
	return out
}

func toMat[T vmath.Float](m [][]float64) [][]T {
	out := make([][]T, len(m))
	for i, row := range m {
		out[i] = toVec[T](row)
	}
	return out
}

type refDense struct {
	w [][]float64
	b []float64
}

func (d refDense) step(x []float64) []float64 {
	y := make([]float64, len(d.w))
	for i, row := range d.w {
		y[i] = d.b[i]
		for j, w := range row {
			y[i] += w * x[j]
		}
	}
	return y
}

type refLSTM struct {
	out  int
	w, u [][]float64 // 4·out rows, gate order i, f, c, o
	b    []float64
	h, c []float64
}

func newRefLSTM(rng *rand.Rand, in, out int) *refLSTM {
	return &refLSTM{
		out: out,
		w:   randMatrix(rng, 4*out, in, 0.5),
		u:   randMatrix(rng, 4*out, out, 0.5),
		b:   randVector(rng, 4*out, 0.5),
		h:   make([]float64, out),
		c:   make([]float64, out),
	}
}

func (l *refLSTM) step(x []float64) []float64 {
	pre := make([]float64, 4*l.out)
	for r := range pre {
		pre[r] = l.b[r]
		for j, w := range l.w[r] {
			pre[r] += w * x[j]
		}
		for j, u := range l.u[r] {
			pre[r] += u * l.h[j]
		}
	}
	h := make([]float64, l.out)
	for k := 0; k < l.out; k++ {
		i := sigmoid64(pre[k])
		f := sigmoid64(pre[l.out+k])
		cand := math.Tanh(pre[2*l.out+k])
		o := sigmoid64(pre[3*l.out+k])
		l.c[k] = f*l.c[k] + i*cand
		h[k] = o * math.Tanh(l.c[k])
	}
	l.h = h
	return append([]float64(nil), h...)
}

type refGRU struct {
	out  int
	w, u [][]float64 // 3·out rows, gate order z, r, n
	b    [][]float64 // 3·out rows of [input, recurrent]
	h    []float64
}

func newRefGRU(rng *rand.Rand, in, out int) *refGRU {
	return &refGRU{
		out: out,
		w:   randMatrix(rng, 3*out, in, 0.5),
		u:   randMatrix(rng, 3*out, out, 0.5),
		b:   randMatrix(rng, 3*out, 2, 0.5),
		h:   make([]float64, out),
	}
}

func (g *refGRU) step(x []float64) []float64 {
	wx := make([]float64, 3*g.out)
	uh := make([]float64, 3*g.out)
	for r := range wx {
		for j, w := range g.w[r] {
			wx[r] += w * x[j]
		}
		for j, u := range g.u[r] {
			uh[r] += u * g.h[j]
		}
	}
	h := make([]float64, g.out)
	for k := 0; k < g.out; k++ {
		zi, ri, ni := k, g.out+k, 2*g.out+k
		z := sigmoid64(wx[zi] + uh[zi] + g.b[zi][0] + g.b[zi][1])
		r := sigmoid64(wx[ri] + uh[ri] + g.b[ri][0] + g.b[ri][1])
		n := math.Tanh(wx[ni] + g.b[ni][0] + r*(uh[ni]+g.b[ni][1]))
		h[k] = (1-z)*g.h[k] + z*n
	}
	g.h = h
	return append([]float64(nil), h...)
}

type refConv1D struct {
	kernel, dilation int
	w                [][][]float64 // [out][in][k]
	b                []float64
	past             [][]float64 // every frame seen, oldest first
}

func (c *refConv1D) step(x []float64) []float64 {
	c.past = append(c.past, append([]float64(nil), x...))
	t := len(c.past) - 1
	y := make([]float64, len(c.w))
	for o, filter := range c.w {
		y[o] = c.b[o]
		for i, taps := range filter {
			for k, w := range taps {
				idx := t - (c.kernel-1-k)*c.dilation
				if idx >= 0 {
					y[o] += w * c.past[idx][i]
				}
			}
		}
	}
	return y
}

// tolerance returns the per-layer absolute tolerance for precision T.
func tolerance[T vmath.Float](float64Tol float64) float64 {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return 1e-4
	}
	return float64Tol
}
