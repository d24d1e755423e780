package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/born-ml/rtnn/internal/vmath"
)

// rawTensor is an encoded tensor waiting to be written.
type rawTensor struct {
	dtype SafeTensorsDType
	shape []int
	data  []byte
}

// encodeFloats encodes values little-endian as F32 or F64 depending on T.
func encodeFloats[T vmath.Float](values []T, shape ...int) rawTensor {
	var zero T
	if _, ok := any(zero).(float32); ok {
		data := make([]byte, 4*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(v)))
		}
		return rawTensor{dtype: SafeTensorsF32, shape: shape, data: data}
	}
	data := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(float64(v)))
	}
	return rawTensor{dtype: SafeTensorsF64, shape: shape, data: data}
}

// SafeTensorsWriter writes tensors in SafeTensors format.
type SafeTensorsWriter struct {
	file   *os.File
	closed bool
}

// NewSafeTensorsWriter creates path for writing.
func NewSafeTensorsWriter(path string) (*SafeTensorsWriter, error) {
	//nolint:gosec // G304: output path is supplied by the caller.
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &SafeTensorsWriter{file: file}, nil
}

// writeStateDict writes the header followed by the tensor data, both in
// alphabetical tensor-name order.
func (w *SafeTensorsWriter) writeStateDict(stateDict map[string]rawTensor, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}

	var offset int64
	for _, name := range names {
		t := stateDict[name]
		size := int64(len(t.data))
		header[name] = SafeTensorInfo{
			DType:       t.dtype,
			Shape:       t.shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w.file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, name := range names {
		if _, err := w.file.Write(stateDict[name].data); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the writer and the underlying file.
func (w *SafeTensorsWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
