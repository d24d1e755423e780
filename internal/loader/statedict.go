package loader

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/rtnn/internal/nn"
	"github.com/born-ml/rtnn/internal/vmath"
)

// PyTorch state dict key suffixes, prefixed by "<layer index>.".
const (
	keyWeight   = "weight"
	keyBias     = "bias"
	keyWeightIH = "weight_ih_l0"
	keyWeightHH = "weight_hh_l0"
	keyBiasIH   = "bias_ih_l0"
	keyBiasHH   = "bias_hh_l0"
)

// torchGRUBlock maps an nn.GRU gate block to the PyTorch block holding the
// same gate. PyTorch orders GRU gates (reset, update, new).
var torchGRUBlock = [3]int{nn.GRUUpdate: 1, nn.GRUReset: 0, nn.GRUCandidate: 2}

// LoadSafeTensors copies a PyTorch state dict from path into an already
// built model. Tensor names are "<i>.<param>" where i is the layer's index
// in the model, as in a torch.nn.Sequential whose modules mirror the model
// layer for layer. Activation layers have no parameters and are skipped.
func LoadSafeTensors[T vmath.Float](model *nn.Model[T], path string, opts ...Option) error {
	o := newOptions(opts)

	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	// Every layer is read and converted before any setter runs, so a
	// failed load leaves the model untouched.
	used := 0
	staged := make([]*stateReader[T], 0, model.Len())
	for i, layer := range model.Layers() {
		st := &stateReader[T]{r: r, prefix: fmt.Sprintf("%d.", i)}
		if err := st.stage(layer); err != nil {
			return &LayerError{Index: i, Type: layer.Name(), Err: err}
		}
		staged = append(staged, st)
		used += st.read
	}

	for i, st := range staged {
		if st.apply == nil {
			continue
		}
		st.apply()
		o.logger.WithFields(logrus.Fields{
			"index":   i,
			"type":    model.Layer(i).Name(),
			"tensors": st.read,
		}).Debug("Loaded layer weights")
	}

	if unused := len(r.TensorNames()) - used; unused > 0 {
		o.logger.WithFields(logrus.Fields{
			"path":   path,
			"unused": unused,
		}).Warn("State dict has tensors no layer consumed")
	}
	return nil
}

// stateReader reads the tensors of one layer. stage leaves apply set to
// the setter calls for the converted values.
type stateReader[T vmath.Float] struct {
	r      *SafeTensorsReader
	prefix string
	read   int
	apply  func()
}

func (s *stateReader[T]) floats(key string, shape ...int) ([]T, error) {
	v, err := ReadFloats[T](s.r, s.prefix+key, shape...)
	if err != nil {
		return nil, err
	}
	s.read++
	return v, nil
}

func (s *stateReader[T]) stage(layer nn.Layer[T]) error {
	in, out := layer.InSize(), layer.OutSize()

	switch l := layer.(type) {
	case *nn.Dense[T]:
		w, err := s.floats(keyWeight, out, in)
		if err != nil {
			return err
		}
		b, err := s.floats(keyBias, out)
		if err != nil {
			return err
		}
		s.apply = func() {
			l.SetWeightsFlat(w)
			l.SetBias(b)
		}

	case *nn.LSTM[T]:
		w, u, bIH, bHH, err := s.recurrent(in, out, 4)
		if err != nil {
			return err
		}
		vmath.Add(bIH, bHH, bIH)
		s.apply = func() {
			l.SetW(rows(w, in))
			l.SetU(rows(u, out))
			l.SetB(bIH)
		}

	case *nn.GRU[T]:
		w, u, bIH, bHH, err := s.recurrent(in, out, 3)
		if err != nil {
			return err
		}
		// See buildGRU: the update gate is stored negated.
		b := make([][]T, 3*out)
		wRows := make([][]T, 3*out)
		uRows := make([][]T, 3*out)
		for g, src := range torchGRUBlock {
			sign := T(1)
			if g == nn.GRUUpdate {
				sign = -1
			}
			for i := range out {
				dst, from := g*out+i, src*out+i
				wRows[dst] = scaled(w[from*in:(from+1)*in], sign)
				uRows[dst] = scaled(u[from*out:(from+1)*out], sign)
				b[dst] = []T{sign * bIH[from], sign * bHH[from]}
			}
		}
		s.apply = func() {
			l.SetW(wRows)
			l.SetU(uRows)
			l.SetB(b)
		}

	case *nn.Conv1D[T]:
		k := l.KernelSize()
		w, err := s.floats(keyWeight, out, in, k)
		if err != nil {
			return err
		}
		b, err := s.floats(keyBias, out)
		if err != nil {
			return err
		}
		filters := make([][][]T, out)
		for o := range filters {
			filters[o] = rows(w[o*in*k:(o+1)*in*k], k)
		}
		s.apply = func() {
			l.SetWeights(filters)
			l.SetBias(b)
		}
	}
	return nil
}

func (s *stateReader[T]) recurrent(in, out, gates int) (w, u, bIH, bHH []T, err error) {
	if w, err = s.floats(keyWeightIH, gates*out, in); err != nil {
		return
	}
	if u, err = s.floats(keyWeightHH, gates*out, out); err != nil {
		return
	}
	if bIH, err = s.floats(keyBiasIH, gates*out); err != nil {
		return
	}
	bHH, err = s.floats(keyBiasHH, gates*out)
	return
}

// rows splits a flat row-major slice into rows of n values.
func rows[T vmath.Float](flat []T, n int) [][]T {
	out := make([][]T, len(flat)/n)
	for i := range out {
		out[i] = flat[i*n : (i+1)*n]
	}
	return out
}

func scaled[T vmath.Float](v []T, s T) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = s * x
	}
	return out
}

// SaveSafeTensors writes the model's parameters to path as a PyTorch state
// dict using the same naming and layouts LoadSafeTensors reads. The dtype
// is F32 for float32 models and F64 for float64 models.
func SaveSafeTensors[T vmath.Float](model *nn.Model[T], path string, metadata map[string]string) error {
	stateDict := make(map[string]rawTensor)
	for i, layer := range model.Layers() {
		prefix := fmt.Sprintf("%d.", i)
		for key, t := range layerState(layer) {
			stateDict[prefix+key] = t
		}
	}

	w, err := NewSafeTensorsWriter(path)
	if err != nil {
		return err
	}
	if err := w.writeStateDict(stateDict, metadata); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func layerState[T vmath.Float](layer nn.Layer[T]) map[string]rawTensor {
	in, out := layer.InSize(), layer.OutSize()

	switch l := layer.(type) {
	case *nn.Dense[T]:
		w := make([]T, 0, out*in)
		b := make([]T, out)
		for i := range out {
			for k := range in {
				w = append(w, l.Weight(i, k))
			}
			b[i] = l.Bias(i)
		}
		return map[string]rawTensor{
			keyWeight: encodeFloats(w, out, in),
			keyBias:   encodeFloats(b, out),
		}

	case *nn.LSTM[T]:
		w := make([]T, 0, 4*out*in)
		u := make([]T, 0, 4*out*out)
		b := make([]T, 0, 4*out)
		for g := range 4 {
			for i := range out {
				for j := range in {
					w = append(w, l.W(g, i, j))
				}
				for j := range out {
					u = append(u, l.U(g, i, j))
				}
				b = append(b, l.B(g, i))
			}
		}
		return map[string]rawTensor{
			keyWeightIH: encodeFloats(w, 4*out, in),
			keyWeightHH: encodeFloats(u, 4*out, out),
			keyBiasIH:   encodeFloats(b, 4*out),
			keyBiasHH:   encodeFloats(make([]T, 4*out), 4*out),
		}

	case *nn.GRU[T]:
		w := make([]T, 3*out*in)
		u := make([]T, 3*out*out)
		bIH := make([]T, 3*out)
		bHH := make([]T, 3*out)
		for g, dst := range torchGRUBlock {
			sign := T(1)
			if g == nn.GRUUpdate {
				sign = -1
			}
			for i := range out {
				row := dst*out + i
				for j := range in {
					w[row*in+j] = sign * l.W(g, i, j)
				}
				for j := range out {
					u[row*out+j] = sign * l.U(g, i, j)
				}
				bIH[row] = sign * l.B(g, i, nn.GRUInputBias)
				bHH[row] = sign * l.B(g, i, nn.GRURecurrentBias)
			}
		}
		return map[string]rawTensor{
			keyWeightIH: encodeFloats(w, 3*out, in),
			keyWeightHH: encodeFloats(u, 3*out, out),
			keyBiasIH:   encodeFloats(bIH, 3*out),
			keyBiasHH:   encodeFloats(bHH, 3*out),
		}

	case *nn.Conv1D[T]:
		k := l.KernelSize()
		w := make([]T, 0, out*in*k)
		b := make([]T, out)
		for o := range out {
			for i := range in {
				for t := range k {
					w = append(w, l.Weight(o, i, t))
				}
			}
			b[o] = l.Bias(o)
		}
		return map[string]rawTensor{
			keyWeight: encodeFloats(w, out, in, k),
			keyBias:   encodeFloats(b, out),
		}
	}
	return nil
}
