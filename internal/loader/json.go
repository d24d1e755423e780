package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// modelDoc is the top-level RTNeural/Keras JSON document.
type modelDoc struct {
	InShape []*int     `json:"in_shape"`
	Layers  []layerDoc `json:"layers"`
}

// layerDoc is one entry of the "layers" array.
type layerDoc struct {
	Type       string            `json:"type"`
	Activation string            `json:"activation"`
	Shape      []*int            `json:"shape"`
	Weights    []json.RawMessage `json:"weights"`
	KernelSize []int             `json:"kernel_size"`
	Dilation   []int             `json:"dilation"`
}

// LoadJSON reads an RTNeural/Keras JSON model description and builds the
// equivalent model. Each layer with a non-linear activation is followed by
// the matching activation layer.
func LoadJSON[T vmath.Float](r io.Reader, opts ...Option) (*nn.Model[T], error) {
	o := newOptions(opts)

	var doc modelDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	inSize, err := lastDim(doc.InShape)
	if err != nil {
		return nil, fmt.Errorf("%w: in_shape: %w", ErrInvalidDocument, err)
	}
	if len(doc.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidDocument)
	}

	model := nn.NewModel[T](inSize)
	for i, ld := range doc.Layers {
		layer, err := buildLayer[T](ld, model.OutSize())
		if err != nil {
			return nil, &LayerError{Index: i, Type: ld.Type, Err: err}
		}
		model.AddLayer(layer)

		o.logger.WithFields(logrus.Fields{
			"index":      i,
			"type":       ld.Type,
			"in":         layer.InSize(),
			"out":        layer.OutSize(),
			"activation": ld.Activation,
		}).Debug("Built layer")

		if ld.Activation == "" || ld.Activation == "linear" {
			continue
		}
		act := nn.NewActivation[T](ld.Activation, layer.OutSize())
		if act == nil {
			return nil, &LayerError{
				Index: i,
				Type:  ld.Type,
				Err:   fmt.Errorf("%w: activation %q", ErrUnsupportedLayer, ld.Activation),
			}
		}
		model.AddLayer(act)
	}

	o.logger.WithFields(logrus.Fields{
		"in":     model.InSize(),
		"out":    model.OutSize(),
		"layers": model.Len(),
	}).Debug("Loaded JSON model")

	return model, nil
}

// LoadJSONFile opens path and calls LoadJSON.
func LoadJSONFile[T vmath.Float](path string, opts ...Option) (*nn.Model[T], error) {
	//nolint:gosec // G304: model path is supplied by the caller.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	model, err := LoadJSON[T](f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}

func lastDim(shape []*int) (int, error) {
	if len(shape) == 0 || shape[len(shape)-1] == nil {
		return 0, fmt.Errorf("missing last dimension")
	}
	n := *shape[len(shape)-1]
	if n <= 0 {
		return 0, fmt.Errorf("non-positive dimension %d", n)
	}
	return n, nil
}

func buildLayer[T vmath.Float](ld layerDoc, inSize int) (nn.Layer[T], error) {
	outSize, err := lastDim(ld.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: shape: %w", ErrInvalidDocument, err)
	}

	switch ld.Type {
	case "dense", "time-distributed-dense":
		return buildDense[T](ld.Weights, inSize, outSize)
	case "lstm":
		return buildLSTM[T](ld.Weights, inSize, outSize)
	case "gru":
		return buildGRU[T](ld.Weights, inSize, outSize)
	case "conv1d":
		kernel, dilation := 1, 1
		if len(ld.KernelSize) > 0 {
			kernel = ld.KernelSize[0]
		}
		if len(ld.Dilation) > 0 {
			dilation = ld.Dilation[0]
		}
		if kernel <= 0 || dilation <= 0 {
			return nil, fmt.Errorf("%w: kernel_size %d, dilation %d", ErrInvalidDocument, kernel, dilation)
		}
		return buildConv1D[T](ld.Weights, inSize, outSize, kernel, dilation)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLayer, ld.Type)
	}
}
