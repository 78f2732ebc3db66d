package onehot

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Decode maps each matrix back to a string by taking the arg-max of every row
// (first maximal column wins) and trimming surrounding whitespace. Inputs may
// be approximate, e.g. softmax output of a model. Shapes are validated before
// any row is read.
func (e *Encoder) Decode(batch []mat.Matrix) ([]string, error) {
	out := make([]string, len(batch))
	for i, m := range batch {
		s, err := e.decode(i, m)
		if err != nil {
			e.logger.Debug().Err(err).Int("item", i).Msg("decode failed")
			return nil, err
		}
		out[i] = s
	}
	e.logger.Debug().Int("items", len(out)).Msg("decoded batch")
	return out, nil
}

// DecodeMatrix decodes a single matrix.
func (e *Encoder) DecodeMatrix(m mat.Matrix) (string, error) {
	return e.decode(0, m)
}

func (e *Encoder) decode(item int, m mat.Matrix) (string, error) {
	if isNil(m) {
		return "", fmt.Errorf("%w: item %d is nil", ErrMalformedInput, item)
	}
	rows, cols := m.Dims()
	if rows != e.padLength || cols != e.charset.Len() {
		return "", &ShapeError{
			Item: item, Rows: rows, Cols: cols,
			WantRows: e.padLength, WantCols: e.charset.Len(),
		}
	}

	var b strings.Builder
	b.Grow(rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		if floats.HasNaN(row) {
			return "", fmt.Errorf("%w: item %d row %d contains NaN", ErrMalformedInput, item, i)
		}
		r, err := e.charset.At(floats.MaxIdx(row))
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String()), nil
}

// isNil also catches a nil *mat.Dense held in a non-nil mat.Matrix, which is
// what Batch.Matrices yields for a missing element.
func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}
