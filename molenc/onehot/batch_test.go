package onehot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBatchFlatten(t *testing.T) {
	enc := newTestEncoder(t, " CNO", WithPadLength(3))
	batch, err := enc.Encode([]string{"CO", "N"})
	require.NoError(t, err)

	flat := batch.Flatten()
	assert.Equal(t, []float64{
		0, 1, 0, 0,
		0, 0, 0, 1,
		1, 0, 0, 0,

		0, 0, 1, 0,
		1, 0, 0, 0,
		1, 0, 0, 0,
	}, flat)

	n, rows, cols := batch.Shape()
	back, err := FromFlat(flat, n, rows, cols)
	require.NoError(t, err)
	for i := range batch {
		assert.True(t, mat.Equal(batch[i], back[i]))
	}

	// FromFlat copies its input
	flat[1] = 42
	assert.Equal(t, 1.0, back[0].At(0, 1))
}

func TestBatchNilElements(t *testing.T) {
	enc := newTestEncoder(t, " CO", WithPadLength(2))
	m, err := enc.EncodeString("C")
	require.NoError(t, err)

	b := Batch{nil, m}
	n, rows, cols := b.Shape()
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []float64{
		0, 0, 0,
		0, 0, 0,

		0, 1, 0,
		1, 0, 0,
	}, b.Flatten())

	n, rows, cols = Batch{nil}.Shape()
	assert.Equal(t, 1, n)
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Empty(t, Batch{nil}.Flatten())
}

func TestBatchEmpty(t *testing.T) {
	var b Batch
	n, rows, cols := b.Shape()
	assert.Zero(t, n)
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Empty(t, b.Flatten())
	assert.Empty(t, b.Matrices())

	back, err := FromFlat(nil, 0, 3, 4)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestFromFlatMalformed(t *testing.T) {
	_, err := FromFlat(make([]float64, 11), 1, 3, 4)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = FromFlat(nil, 1, 0, 4)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = FromFlat(nil, -1, 3, 4)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeModelOutput(t *testing.T) {
	enc := newTestEncoder(t, " CNO", WithPadLength(2))

	// softmax-like output for "NO" and "C"
	out := []float64{
		0.05, 0.05, 0.8, 0.1,
		0.1, 0.1, 0.1, 0.7,

		0.2, 0.6, 0.1, 0.1,
		0.7, 0.1, 0.1, 0.1,
	}
	batch, err := FromFlat(out, 2, 2, 4)
	require.NoError(t, err)

	got, err := enc.Decode(batch.Matrices())
	require.NoError(t, err)
	assert.Equal(t, []string{"NO", "C"}, got)
}
