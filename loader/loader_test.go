package loader_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rtnn/loader"
	"github.com/born-ml/rtnn/nn"
)

const lstmDoc = `{
  "in_shape": [null, null, 1],
  "layers": [
    {"type": "lstm", "activation": "", "shape": [null, null, 2],
     "weights": [
       [[0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8]],
       [[0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1], [0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2]],
       [0, 0, 1, 1, 0, 0, 0, 0]]},
    {"type": "dense", "activation": "tanh", "shape": [null, null, 1],
     "weights": [[[1.0], [-1.0]], [0.25]]}
  ]
}`

func TestLoadJSONAndSafeTensors(t *testing.T) {
	src, err := loader.LoadJSON[float64](strings.NewReader(lstmDoc))
	require.NoError(t, err)
	require.Equal(t, 3, src.Len())

	path := filepath.Join(t.TempDir(), "lstm.safetensors")
	require.NoError(t, loader.SaveSafeTensors(src, path, nil))

	dst := nn.NewModel[float64](1)
	dst.AddLayer(nn.NewLSTM[float64](1, 2))
	dst.AddLayer(nn.NewDense[float64](2, 1))
	dst.AddLayer(nn.NewTanh[float64](1))
	require.NoError(t, loader.LoadSafeTensors(dst, path))

	for _, x := range []float64{0.5, -0.25, 1, 0} {
		assert.Equal(t, src.Forward([]float64{x}), dst.Forward([]float64{x}))
	}
}

func TestLoadJSONErrorsArePublic(t *testing.T) {
	_, err := loader.LoadJSON[float32](strings.NewReader(
		`{"in_shape": [null, null, 1], "layers": [{"type": "attention", "shape": [null, null, 1]}]}`))
	require.ErrorIs(t, err, loader.ErrUnsupportedLayer)

	var le *loader.LayerError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "attention", le.Type)
}
