// Package featurize turns molecules into flat numeric feature vectors.
//
// Featurizer is the capability interface; OneHot implements it on top of the
// one-hot encoder. An absent molecule yields an empty vector rather than an
// error, so a batch with gaps keeps its row alignment.
//
// A molecule is absent when it is a nil interface or reports IsNil() true.
// Pointer-receiver Molecule types should implement IsNil, otherwise a nil
// pointer stored in the interface reaches SMILES() and panics.
package featurize

import (
	"context"
	"runtime"
	"sync/atomic"

	internal "github.com/ZanzyTHEbar/molencoder/molenc"
	"github.com/ZanzyTHEbar/molencoder/molenc/onehot"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Molecule is anything that can be rendered as a SMILES string.
type Molecule interface {
	SMILES() string
}

// Absent reports whether mol stands for a missing molecule.
func Absent(mol Molecule) bool {
	if mol == nil {
		return true
	}
	n, ok := mol.(interface{ IsNil() bool })
	return ok && n.IsNil()
}

// Raw is a SMILES string used directly as a Molecule.
type Raw string

func (r Raw) SMILES() string { return string(r) }

// Featurizer computes the feature vector of a single molecule.
type Featurizer interface {
	Featurize(mol Molecule) ([]float64, error)
}

// OneHot featurizes a molecule as its flattened one-hot matrix.
type OneHot struct {
	enc *onehot.Encoder
}

func NewOneHot(enc *onehot.Encoder) *OneHot {
	return &OneHot{enc: enc}
}

func (o *OneHot) Featurize(mol Molecule) ([]float64, error) {
	if Absent(mol) {
		return []float64{}, nil
	}
	m, err := o.enc.EncodeString(mol.SMILES())
	if err != nil {
		return nil, err
	}
	return onehot.Batch{m}.Flatten(), nil
}

// Dimensions is the length of every non-empty vector OneHot produces.
func (o *OneHot) Dimensions() int {
	return o.enc.PadLength() * o.enc.Charset().Len()
}

type runOptions struct {
	workers  int
	logEvery int
	logger   zerolog.Logger
}

type RunOption func(*runOptions)

// WithWorkers bounds the number of concurrent featurizer calls.
func WithWorkers(n int) RunOption {
	return func(o *runOptions) { o.workers = n }
}

// WithLogEvery logs progress after every n molecules. n <= 0 disables it.
func WithLogEvery(n int) RunOption {
	return func(o *runOptions) { o.logEvery = n }
}

func WithLogger(l zerolog.Logger) RunOption {
	return func(o *runOptions) { o.logger = l }
}

// Featurize runs f over mols and returns one vector per molecule in input
// order. Nil molecules produce empty vectors. The first error fails the whole
// call.
func Featurize(ctx context.Context, f Featurizer, mols []Molecule, opts ...RunOption) ([][]float64, error) {
	o := runOptions{
		workers:  runtime.NumCPU(),
		logEvery: internal.DefaultLogEvery,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}

	out := make([][]float64, len(mols))
	var done atomic.Int64

	p := pool.New().
		WithMaxGoroutines(o.workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, mol := range mols {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			if Absent(mol) {
				out[i] = []float64{}
			} else {
				vec, err := f.Featurize(mol)
				if err != nil {
					return err
				}
				out[i] = vec
			}
			if n := done.Add(1); o.logEvery > 0 && n%int64(o.logEvery) == 0 {
				o.logger.Debug().Int64("done", n).Int("total", len(mols)).Msg("featurizing molecules")
			}
			return nil
		})
	}

	err := p.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SMILES wraps plain strings as molecules.
func SMILES(smiles []string) []Molecule {
	out := make([]Molecule, len(smiles))
	for i, s := range smiles {
		out[i] = Raw(s)
	}
	return out
}
