// Package service wires configuration, the charset store and the one-hot
// encoder together. It is the explicit form of "derive the vocabulary on
// first use": the charset is resolved from config, then the store, and only
// then derived from the corpus and saved for later runs.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/molencoder/molenc/config"
	"github.com/ZanzyTHEbar/molencoder/molenc/coverage"
	"github.com/ZanzyTHEbar/molencoder/molenc/featurize"
	"github.com/ZanzyTHEbar/molencoder/molenc/onehot"
	"github.com/ZanzyTHEbar/molencoder/molenc/store"
	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Service encodes and decodes SMILES using the configured vocabulary.
type Service struct {
	cfg    *config.Config
	store  store.Store
	logger zerolog.Logger
}

// New creates a Service. cfg must already be validated (LoadConfig does so).
func New(cfg *config.Config, st store.Store, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("service: config cannot be nil")
	}
	if st == nil {
		return nil, errors.New("service: store cannot be nil")
	}
	return &Service{cfg: cfg, store: st, logger: logger}, nil
}

// OpenStore builds the Store named by cfg.
func OpenStore(cfg config.StoreConfig, logger zerolog.Logger) (store.Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory":
		return store.NewMemoryStore(), nil
	case "libsql", "":
		return store.NewSQLStore(cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}

// Charset returns the configured or stored charset without deriving one.
func (s *Service) Charset(ctx context.Context) (*vocab.Charset, error) {
	if s.cfg.Encoder.Charset != "" {
		cs, err := vocab.Parse(s.cfg.Encoder.Charset)
		if err != nil {
			return nil, fmt.Errorf("invalid encoder.charset: %w", err)
		}
		return cs, nil
	}

	cs, err := s.store.Load(ctx, s.cfg.Store.CharsetName)
	if errors.Is(err, store.ErrCharsetNotFound) {
		return nil, fmt.Errorf("%w: no charset configured or stored as %q", onehot.ErrVocabularyNotInitialized, s.cfg.Store.CharsetName)
	}
	return cs, err
}

// Resolve returns the active charset, deriving it from corpus and saving it
// when neither config nor store provide one.
func (s *Service) Resolve(ctx context.Context, corpus []string) (*vocab.Charset, error) {
	cs, err := s.Charset(ctx)
	if err == nil || !errors.Is(err, onehot.ErrVocabularyNotInitialized) {
		return cs, err
	}
	if len(corpus) == 0 {
		return nil, err
	}

	cs = vocab.Build(corpus)
	rec, err := s.store.Save(ctx, s.cfg.Store.CharsetName, cs)
	if err != nil {
		return nil, fmt.Errorf("failed to save derived charset: %w", err)
	}
	s.logger.Info().
		Str("id", rec.ID.String()).
		Str("name", rec.Name).
		Str("charset", cs.String()).
		Int("corpus", len(corpus)).
		Msg("derived charset from corpus")
	return cs, nil
}

// Encoder builds an encoder over cs using the configured options.
func (s *Service) Encoder(cs *vocab.Charset) (*onehot.Encoder, error) {
	opts, err := s.cfg.EncoderOptions()
	if err != nil {
		return nil, err
	}
	return onehot.New(cs, append(opts, onehot.WithLogger(s.logger))...)
}

// Encode resolves the charset and encodes the corpus in parallel.
func (s *Service) Encode(ctx context.Context, smiles []string) (onehot.Batch, error) {
	cs, err := s.Resolve(ctx, smiles)
	if err != nil {
		return nil, err
	}
	enc, err := s.Encoder(cs)
	if err != nil {
		return nil, err
	}
	return enc.EncodeParallel(ctx, smiles, s.cfg.Encoder.Workers)
}

// Decode needs a configured or stored charset; it never derives one.
func (s *Service) Decode(ctx context.Context, batch []mat.Matrix) ([]string, error) {
	cs, err := s.Charset(ctx)
	if err != nil {
		return nil, err
	}
	enc, err := s.Encoder(cs)
	if err != nil {
		return nil, err
	}
	return enc.Decode(batch)
}

// Featurize resolves the charset and returns flattened one-hot vectors, one
// per molecule. Nil molecules yield empty vectors.
func (s *Service) Featurize(ctx context.Context, mols []featurize.Molecule) ([][]float64, error) {
	corpus := make([]string, 0, len(mols))
	for _, m := range mols {
		if !featurize.Absent(m) {
			corpus = append(corpus, m.SMILES())
		}
	}
	cs, err := s.Resolve(ctx, corpus)
	if err != nil {
		return nil, err
	}
	enc, err := s.Encoder(cs)
	if err != nil {
		return nil, err
	}
	return featurize.Featurize(ctx, featurize.NewOneHot(enc), mols,
		featurize.WithWorkers(s.cfg.Encoder.Workers),
		featurize.WithLogEvery(s.cfg.Featurize.LogEvery),
		featurize.WithLogger(s.logger),
	)
}

// Report describes which corpus rows the active charset and pad length can
// encode as-is. Under the truncate policy Missing and Unencodable only look at
// the first padLength characters of each row, the same characters Encode
// looks up; rows with invalid UTF-8 are always unencodable.
type Report struct {
	Charset     *vocab.Charset
	Rows        int
	Missing     []rune
	Unencodable []uint32
	Overlong    []uint32
}

// Check reports unencodable and overlong rows without encoding anything.
func (s *Service) Check(ctx context.Context, corpus []string) (*Report, error) {
	cs, err := s.Charset(ctx)
	if err != nil {
		return nil, err
	}
	overflow, err := onehot.ParseOverflow(s.cfg.Encoder.Overflow)
	if err != nil {
		return nil, err
	}
	var opts []coverage.Option
	if overflow == onehot.Truncate {
		opts = append(opts, coverage.WithPrefix(s.cfg.Encoder.PadLength))
	}
	ix := coverage.NewIndex(corpus, opts...)
	rep := &Report{
		Charset:     cs,
		Rows:        ix.Len(),
		Missing:     ix.Missing(cs),
		Unencodable: ix.Unencodable(cs).ToArray(),
		Overlong:    ix.Overlong(s.cfg.Encoder.PadLength).ToArray(),
	}
	if len(rep.Unencodable) > 0 || len(rep.Overlong) > 0 {
		s.logger.Warn().
			Int("rows", rep.Rows).
			Int("unencodable", len(rep.Unencodable)).
			Int("overlong", len(rep.Overlong)).
			Str("missing", string(rep.Missing)).
			Msg("corpus not fully encodable")
	}
	return rep, nil
}
