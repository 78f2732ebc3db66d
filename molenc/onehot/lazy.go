package onehot

import (
	"sync"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"gonum.org/v1/gonum/mat"
)

// Lazy derives its charset from the first non-empty corpus passed to Encode
// and keeps it for every later call. Corpora seen afterwards do not extend
// the vocabulary; characters they introduce fail with ErrVocabularyLookup.
type Lazy struct {
	mu       sync.Mutex
	settings settings
	enc      *Encoder
}

// NewLazy validates opts up front so a bad pad length is reported here rather
// than on first use.
func NewLazy(opts ...Option) (*Lazy, error) {
	s, err := buildSettings(opts)
	if err != nil {
		return nil, err
	}
	return &Lazy{settings: s}, nil
}

// Encoder returns the underlying encoder, deriving it from corpus if this is
// the first call. An empty corpus cannot seed the charset.
func (l *Lazy) Encoder(corpus []string) (*Encoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enc != nil {
		return l.enc, nil
	}
	if len(corpus) == 0 {
		return nil, ErrVocabularyNotInitialized
	}

	cs := vocab.Build(corpus)
	l.enc = newEncoder(cs, l.settings)
	l.settings.logger.Debug().
		Int("corpus", len(corpus)).
		Str("charset", cs.String()).
		Msg("derived charset from corpus")
	return l.enc, nil
}

func (l *Lazy) Encode(smiles []string) (Batch, error) {
	enc, err := l.Encoder(smiles)
	if err != nil {
		return nil, err
	}
	return enc.Encode(smiles)
}

// Decode fails with ErrVocabularyNotInitialized until Encode has derived a
// charset.
func (l *Lazy) Decode(batch []mat.Matrix) ([]string, error) {
	l.mu.Lock()
	enc := l.enc
	l.mu.Unlock()

	if enc == nil {
		return nil, ErrVocabularyNotInitialized
	}
	return enc.Decode(batch)
}

// Charset is nil until derived.
func (l *Lazy) Charset() *vocab.Charset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enc == nil {
		return nil
	}
	return l.enc.charset
}
