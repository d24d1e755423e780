package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestModel(rng *rand.Rand) (*Model[float64], *refGRU, refDense) {
	refG := newRefGRU(rng, 1, 4)
	refD := refDense{w: randMatrix(rng, 1, 4, 0.5), b: randVector(rng, 1, 0.5)}

	dense := NewDense[float64](4, 1)
	dense.SetWeights(refD.w)
	dense.SetBias(refD.b)

	m := NewModel[float64](1)
	m.AddLayer(newGRUFromRef[float64](refG, 1))
	m.AddLayer(NewTanh[float64](4))
	m.AddLayer(dense)
	return m, refG, refD
}

func TestModelChainsLayers(t *testing.T) {
	rng := rand.New(rand.NewPCG(71, 72))
	m, refG, refD := buildTestModel(rng)

	assert.Equal(t, 1, m.InSize())
	assert.Equal(t, 1, m.OutSize())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "tanh", m.Layer(1).Name())
	assert.Len(t, m.Layers(), 3)

	tanh := NewTanh[float64](4)
	for step := 0; step < 30; step++ {
		x := randVector(rng, 1, 1)
		h := refG.step(x)
		tanh.Forward(h, h)
		want := refD.step(h)[0]

		got := m.Forward(x)
		require.InDelta(t, want, got, 1e-9, "step %d", step)
		assert.Equal(t, got, m.Output()[0])
	}
}

func TestModelReset(t *testing.T) {
	rng := rand.New(rand.NewPCG(73, 74))
	m, _, _ := buildTestModel(rng)
	inputs := randVector(rng, 20, 1)

	run := func() []float64 {
		var outs []float64
		for _, x := range inputs {
			outs = append(outs, m.Forward([]float64{x}))
		}
		return outs
	}

	first := run()
	m.Reset()
	assert.Equal(t, first, run())
}

func TestModelCloneIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(75, 76))
	m, _, _ := buildTestModel(rng)
	m.Forward([]float64{0.3})

	clone := m.Clone()
	require.Equal(t, m.Len(), clone.Len())
	for i := range m.Layers() {
		assert.NotSame(t, m.Layer(i), clone.Layer(i))
	}

	for _, x := range []float64{0.1, -0.4, 0.9} {
		assert.Equal(t, m.Forward([]float64{x}), clone.Forward([]float64{x}))
	}

	clone.Reset()
	a := m.Forward([]float64{0.2})
	b := clone.Forward([]float64{0.2})
	assert.NotEqual(t, a, b)
}

func TestModelAddLayerMismatchPanics(t *testing.T) {
	m := NewModel[float32](2)
	m.AddLayer(NewDense[float32](2, 3))
	assert.Panics(t, func() { m.AddLayer(NewDense[float32](2, 1)) })
	assert.Equal(t, 1, m.Len())
	assert.Panics(t, func() { m.Layer(5) })
	assert.Panics(t, func() { NewModel[float32](0) })
}

func TestModelEmpty(t *testing.T) {
	m := NewModel[float64](3)
	assert.Equal(t, 3, m.OutSize())
	assert.Nil(t, m.Output())
	assert.Equal(t, 1.5, m.Forward([]float64{1.5, 2, 3}))
}

func TestModelForwardDoesNotAllocate(t *testing.T) {
	m := NewModel[float32](1)
	m.AddLayer(NewConv1D[float32](1, 4, 3, 1))
	m.AddLayer(NewLSTM[float32](4, 8))
	m.AddLayer(NewGRU[float32](8, 8))
	m.AddLayer(NewReLU[float32](8))
	m.AddLayer(NewDense[float32](8, 1))
	in := []float32{0.5}

	allocs := testing.AllocsPerRun(100, func() {
		m.Forward(in)
	})
	assert.Zero(t, allocs)
}
