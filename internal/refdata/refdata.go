// Package refdata reads reference input/output sequences stored as CSV.
//
// Each non-blank row holds one or more numbers. Rows are flattened in
// order, so a single-column file yields one sample per row.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/rtnn/internal/vmath"
)

// ErrParse is returned when a field is not a valid number.
var ErrParse = errors.New("refdata: parse error")

// Load reads every number from r in row order.
func Load[T vmath.Float](r io.Reader) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []T
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		for i, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("%w: line %d: %q", ErrParse, line, field)
			}
			out = append(out, T(v))
		}
	}
}

// LoadFile opens path and calls Load.
func LoadFile[T vmath.Float](path string) ([]T, error) {
	//nolint:gosec // G304: data path is supplied by the caller.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := Load[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
