package onehot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Batch is an ordered set of encoded strings, one matrix per input.
type Batch []*mat.Dense

// Shape returns the batch, position and vocabulary axis sizes, taking the
// matrix dimensions from the first non-nil element. An empty batch reports
// zero for all three; a batch of only nil elements reports zero rows and cols.
func (b Batch) Shape() (n, rows, cols int) {
	for _, m := range b {
		if m != nil {
			rows, cols = m.Dims()
			break
		}
	}
	return len(b), rows, cols
}

// Matrices returns the batch as a slice of mat.Matrix, ready for Decode.
func (b Batch) Matrices() []mat.Matrix {
	out := make([]mat.Matrix, len(b))
	for i, m := range b {
		out[i] = m
	}
	return out
}

// Flatten lays the batch out row-major as batch x position x vocabulary. A nil
// element contributes a zero block so later items keep their offsets.
func (b Batch) Flatten() []float64 {
	n, rows, cols := b.Shape()
	out := make([]float64, 0, n*rows*cols)
	for _, m := range b {
		if m == nil {
			out = append(out, make([]float64, rows*cols)...)
			continue
		}
		raw := m.RawMatrix()
		for i := 0; i < raw.Rows; i++ {
			out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
		}
	}
	return out
}

// FromFlat rebuilds a Batch from a row-major batch x rows x cols buffer, such
// as a model's output tensor. The data is copied.
func FromFlat(data []float64, n, rows, cols int) (Batch, error) {
	if n < 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: invalid shape %dx%dx%d", ErrMalformedInput, n, rows, cols)
	}
	size := rows * cols
	if len(data) != n*size {
		return nil, fmt.Errorf("%w: %d values do not fill shape %dx%dx%d", ErrMalformedInput, len(data), n, rows, cols)
	}
	b := make(Batch, n)
	for i := range b {
		chunk := make([]float64, size)
		copy(chunk, data[i*size:(i+1)*size])
		b[i] = mat.NewDense(rows, cols, chunk)
	}
	return b, nil
}
