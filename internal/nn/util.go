package nn

import (
	"fmt"

	"github.com/born-ml/rtnn/internal/vmath"
)

func panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

func cloneSlice[T vmath.Float](s []T) []T {
	return append([]T(nil), s...)
}

// setRows copies a rows×cols matrix into the flat row-major dst.
func setRows[T vmath.Float](dst []T, rows [][]T, nRows, nCols int, what string) {
	if len(rows) != nRows {
		panicf("%s: expected %d rows, got %d", what, nRows, len(rows))
	}
	for i, row := range rows {
		if len(row) != nCols {
			panicf("%s: row %d: expected %d values, got %d", what, i, nCols, len(row))
		}
		copy(dst[i*nCols:(i+1)*nCols], row)
	}
}

func setFlat[T vmath.Float](dst, src []T, what string) {
	if len(src) != len(dst) {
		panicf("%s: expected %d values, got %d", what, len(dst), len(src))
	}
	copy(dst, src)
}

func zero[T vmath.Float](s []T) {
	for i := range s {
		s[i] = 0
	}
}
