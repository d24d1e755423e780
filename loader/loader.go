// Package loader builds rtnn models from exported weight files.
//
// This package wraps internal loader implementations and exports a clean public API
// for reading RTNeural/Keras JSON model descriptions and PyTorch state dicts
// stored as SafeTensors.
//
// Example usage:
//
//	import "github.com/born-ml/rtnn/loader"
//
//	// Build a complete model from a Keras export
//	model, err := loader.LoadJSONFile[float32]("models/gru.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or fill a model built in code from a PyTorch state dict
//	model := nn.NewModel[float32](1)
//	model.AddLayer(nn.NewLSTM[float32](1, 16))
//	model.AddLayer(nn.NewDense[float32](16, 1))
//	if err := loader.LoadSafeTensors(model, "lstm.safetensors"); err != nil {
//	    log.Fatal(err)
//	}
package loader

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/loader"
	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// Errors returned by the loaders. Test with errors.Is.
var (
	ErrInvalidDocument  = loader.ErrInvalidDocument
	ErrUnsupportedLayer = loader.ErrUnsupportedLayer
	ErrShapeMismatch    = loader.ErrShapeMismatch
	ErrMissingTensor    = loader.ErrMissingTensor
	ErrUnsupportedDType = loader.ErrUnsupportedDType
	ErrOutOfBounds      = loader.ErrOutOfBounds
	ErrHeaderTooLarge   = loader.ErrHeaderTooLarge
)

// LayerError reports which layer failed to load. Use errors.As.
type LayerError = loader.LayerError

// Option configures a load call.
type Option = loader.Option

// WithLogger routes per-layer debug logging to l.
func WithLogger(l *logrus.Logger) Option {
	return loader.WithLogger(l)
}

// LoadJSON builds a model from an RTNeural/Keras JSON description.
//
// Supported layer types are "dense", "time-distributed-dense", "lstm",
// "gru" and "conv1d"; supported activations are "tanh", "relu", "sigmoid"
// and "softmax".
func LoadJSON[T vmath.Float](r io.Reader, opts ...Option) (*nn.Model[T], error) {
	return loader.LoadJSON[T](r, opts...)
}

// LoadJSONFile builds a model from the JSON description at path.
func LoadJSONFile[T vmath.Float](path string, opts ...Option) (*nn.Model[T], error) {
	return loader.LoadJSONFile[T](path, opts...)
}

// LoadSafeTensors copies a PyTorch state dict into model. Tensor names are
// "<layer index>.<parameter>", e.g. "0.weight_ih_l0".
func LoadSafeTensors[T vmath.Float](model *nn.Model[T], path string, opts ...Option) error {
	return loader.LoadSafeTensors(model, path, opts...)
}

// SaveSafeTensors writes model's parameters as a PyTorch state dict that
// LoadSafeTensors can read back.
func SaveSafeTensors[T vmath.Float](model *nn.Model[T], path string, metadata map[string]string) error {
	return loader.SaveSafeTensors(model, path, metadata)
}
