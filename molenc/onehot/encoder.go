// Package onehot converts SMILES strings to fixed-size one-hot matrices and
// back. Every encoded string becomes a PadLength x |Charset| *mat.Dense whose
// rows each hold a single 1.
//
// An Encoder is immutable once constructed and safe for concurrent use. Use
// Lazy when the charset should be derived from the first corpus seen.
package onehot

import (
	"unicode/utf8"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Encoder encodes and decodes against one charset and pad length.
type Encoder struct {
	charset   *vocab.Charset
	padLength int
	overflow  Overflow
	logger    zerolog.Logger
}

// New creates an Encoder over an explicit charset. A nil charset yields
// ErrVocabularyNotInitialized.
func New(cs *vocab.Charset, opts ...Option) (*Encoder, error) {
	if cs == nil {
		return nil, ErrVocabularyNotInitialized
	}
	s, err := buildSettings(opts)
	if err != nil {
		return nil, err
	}
	return newEncoder(cs, s), nil
}

func newEncoder(cs *vocab.Charset, s settings) *Encoder {
	return &Encoder{
		charset:   cs,
		padLength: s.padLength,
		overflow:  s.overflow,
		logger:    s.logger,
	}
}

func (e *Encoder) Charset() *vocab.Charset { return e.charset }

func (e *Encoder) PadLength() int { return e.padLength }

func (e *Encoder) Overflow() Overflow { return e.overflow }

// Encode one-hot encodes every string in order. The first failure aborts the
// whole batch and no partial result is returned.
func (e *Encoder) Encode(smiles []string) (Batch, error) {
	batch := make(Batch, len(smiles))
	for i, s := range smiles {
		m, err := e.encode(i, s)
		if err != nil {
			e.logger.Debug().Err(err).Int("item", i).Msg("encode failed")
			return nil, err
		}
		batch[i] = m
	}
	e.logger.Debug().
		Int("items", len(batch)).
		Int("pad_length", e.padLength).
		Int("charset_size", e.charset.Len()).
		Msg("encoded batch")
	return batch, nil
}

// EncodeString encodes a single string.
func (e *Encoder) EncodeString(s string) (*mat.Dense, error) {
	return e.encode(0, s)
}

func (e *Encoder) encode(item int, s string) (*mat.Dense, error) {
	if off := invalidUTF8(s); off >= 0 {
		return nil, &EncodingError{Item: item, Offset: off}
	}
	runes, err := e.pad(item, s)
	if err != nil {
		return nil, err
	}

	m := mat.NewDense(e.padLength, e.charset.Len(), nil)
	for pos, r := range runes {
		col, ok := e.charset.Index(r)
		if !ok {
			return nil, &LookupError{Item: item, Position: pos, Char: r}
		}
		m.Set(pos, col, 1)
	}
	return m, nil
}

// pad right-pads s with vocab.Pad to exactly padLength runes, applying the
// overflow policy when s is longer.
func (e *Encoder) pad(item int, s string) ([]rune, error) {
	runes := []rune(s)
	if len(runes) > e.padLength {
		if e.overflow == Reject {
			return nil, &lengthError{item: item, length: len(runes), padLength: e.padLength}
		}
		return runes[:e.padLength], nil
	}
	for len(runes) < e.padLength {
		runes = append(runes, vocab.Pad)
	}
	return runes, nil
}

// invalidUTF8 returns the byte offset of the first invalid sequence in s, or
// -1 when s is valid UTF-8.
func invalidUTF8(s string) int {
	if utf8.ValidString(s) {
		return -1
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
