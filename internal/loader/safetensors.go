package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/born-ml/rtnn/internal/vmath"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// MaxHeaderSize bounds the JSON header of a SafeTensors file.
const MaxHeaderSize = 100 * 1024 * 1024

// SafeTensorsDType represents a SafeTensors element type.
type SafeTensorsDType string

// Floating-point dtypes accepted as layer weights.
const (
	SafeTensorsF32 SafeTensorsDType = "F32"
	SafeTensorsF64 SafeTensorsDType = "F64"
)

// Size returns the element size in bytes, or 0 for dtypes the loader cannot
// decode.
func (d SafeTensorsDType) Size() int {
	switch d {
	case SafeTensorsF32:
		return 4
	case SafeTensorsF64:
		return 8
	default:
		return 0
	}
}

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// NumElements returns the product of the shape dimensions.
func (i SafeTensorInfo) NumElements() int {
	n := 1
	for _, d := range i.Shape {
		n *= d
	}
	return n
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits the "__metadata__" entry from the tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		delete(rawMap, "__metadata__")
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// SafeTensorsReader reads tensors from a SafeTensors file.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64 // offset where tensor data starts
	dataSize   int64
}

// NewSafeTensorsReader opens path and parses its header. Every tensor's
// data range is checked against the file size.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: weight path is supplied by the caller.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := newSafeTensorsReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func newSafeTensorsReader(file *os.File) (*SafeTensorsReader, error) {
	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	//nolint:gosec // G115: header size is bounded by MaxHeaderSize.
	dataOffset := int64(8 + headerSize)

	r := &SafeTensorsReader{
		file:       file,
		header:     header,
		dataOffset: dataOffset,
		dataSize:   stat.Size() - dataOffset,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SafeTensorsReader) validate() error {
	for name, info := range r.header.Tensors {
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start || end > r.dataSize {
			return fmt.Errorf("%w: tensor %q [%d, %d], data size %d",
				ErrOutOfBounds, name, start, end, r.dataSize)
		}
	}
	return nil
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the sorted names of all tensors in the file.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTensor, name)
	}
	return &info, nil
}

// ReadTensorData reads the raw bytes of a tensor.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	data := make([]byte, info.DataOffsets[1]-info.DataOffsets[0])
	if _, err := r.file.ReadAt(data, r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}
	return data, nil
}

// ReadFloats decodes a floating-point tensor into a flat row-major slice of
// T, checking its shape against want.
func ReadFloats[T vmath.Float](r *SafeTensorsReader, name string, want ...int) ([]T, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(info.Shape, want) {
		return nil, shapeErr(name, want, info.Shape)
	}
	size := info.DType.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s for tensor %s", ErrUnsupportedDType, info.DType, name)
	}
	if int64(info.NumElements()*size) != info.DataOffsets[1]-info.DataOffsets[0] {
		return nil, fmt.Errorf("%w: tensor %s data length does not match shape %v",
			ErrShapeMismatch, name, info.Shape)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}

	out := make([]T, info.NumElements())
	for i := range out {
		switch info.DType {
		case SafeTensorsF32:
			out[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
		case SafeTensorsF64:
			out[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
	}
	return out, nil
}
