package onehot

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can
// match with errors.Is.
var (
	ErrVocabularyLookup         = errors.New("onehot: character not found in vocabulary")
	ErrVocabularyNotInitialized = errors.New("onehot: vocabulary not initialized")
	ErrMalformedInput           = errors.New("onehot: malformed input")
	ErrInputTooLong             = errors.New("onehot: input longer than pad length")
	ErrInvalidPadLength         = errors.New("onehot: pad length must be positive")
	ErrInvalidOverflow          = errors.New("onehot: unknown overflow policy")
)

// LookupError reports a rune that has no column in the active charset.
type LookupError struct {
	Item     int // index of the string within the batch
	Position int // rune offset within the padded string
	Char     rune
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("onehot: character %q at position %d of item %d not found in vocabulary", e.Char, e.Position, e.Item)
}

func (e *LookupError) Unwrap() error { return ErrVocabularyLookup }

// ShapeError reports an encoded matrix whose dimensions disagree with the
// decoder's pad length or charset size.
type ShapeError struct {
	Item               int
	Rows, Cols         int
	WantRows, WantCols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("onehot: item %d has shape %dx%d, want %dx%d", e.Item, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

func (e *ShapeError) Unwrap() error { return ErrMalformedInput }

type lengthError struct {
	item, length, padLength int
}

func (e *lengthError) Error() string {
	return fmt.Sprintf("onehot: item %d has %d characters, pad length is %d", e.item, e.length, e.padLength)
}

func (e *lengthError) Unwrap() error { return ErrInputTooLong }

// EncodingError reports a string that is not valid UTF-8.
type EncodingError struct {
	Item   int
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("onehot: item %d has invalid UTF-8 at byte %d", e.Item, e.Offset)
}

func (e *EncodingError) Unwrap() error { return ErrMalformedInput }
