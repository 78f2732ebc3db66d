package onehot

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// EncodeParallel encodes independent strings on a bounded worker pool. Output
// order matches input order. The first error cancels the remaining work and
// is returned; no partial batch is returned. workers <= 0 uses NumCPU.
func (e *Encoder) EncodeParallel(ctx context.Context, smiles []string, workers int) (Batch, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	batch := make(Batch, len(smiles))
	p := pool.New().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, s := range smiles {
		p.Go(func(ctx context.Context) error {
			// Skip quietly once cancelled so only the failure that caused
			// the cancellation is reported.
			if ctx.Err() != nil {
				return nil
			}
			m, err := e.encode(i, s)
			if err != nil {
				return err
			}
			batch[i] = m
			return nil
		})
	}

	err := p.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		e.logger.Debug().Err(err).Int("items", len(smiles)).Msg("parallel encode failed")
		return nil, err
	}
	e.logger.Debug().Int("items", len(batch)).Int("workers", workers).Msg("encoded batch in parallel")
	return batch, nil
}
