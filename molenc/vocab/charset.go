// Package vocab builds and holds the character vocabulary used by the one-hot
// encoder. A Charset is an ordered, deduplicated set of runes with the padding
// rune fixed at index 0. Once built it is immutable and safe to share between
// goroutines.
package vocab

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Pad is the padding rune. It always occupies index 0 of a Charset.
const Pad = ' '

var (
	ErrEmptyCharset    = errors.New("vocab: charset is empty")
	ErrPaddingNotFirst = errors.New("vocab: padding character must be at index 0")
	ErrDuplicateRune   = errors.New("vocab: duplicate character in charset")
	ErrOutOfRange      = errors.New("vocab: index out of range")
)

// Charset maps runes to one-hot column indices and back.
type Charset struct {
	runes []rune
	index map[rune]int
}

// Build derives a Charset from a corpus: every distinct rune, sorted by code
// point, with Pad prepended. An empty corpus yields a charset holding only Pad.
// Bytes that are not valid UTF-8 are skipped; they never become U+FFFD in the
// charset, so the encoder can still reject them.
func Build(corpus []string) *Charset {
	seen := make(map[rune]struct{})
	for _, s := range corpus {
		for len(s) > 0 {
			r, size := utf8.DecodeRuneInString(s)
			s = s[size:]
			if r == Pad || (r == utf8.RuneError && size == 1) {
				continue
			}
			seen[r] = struct{}{}
		}
	}

	runes := make([]rune, 0, len(seen)+1)
	for r := range seen {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	runes = slices.Insert(runes, 0, Pad)

	return newCharset(runes)
}

// New wraps a pre-built vocabulary. The slice is copied.
func New(chars []rune) (*Charset, error) {
	if len(chars) == 0 {
		return nil, ErrEmptyCharset
	}
	if chars[0] != Pad {
		return nil, fmt.Errorf("%w: got %q", ErrPaddingNotFirst, chars[0])
	}
	seen := make(map[rune]struct{}, len(chars))
	for i, r := range chars {
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("%w: %q at index %d", ErrDuplicateRune, r, i)
		}
		seen[r] = struct{}{}
	}
	return newCharset(slices.Clone(chars)), nil
}

// Parse is New for a charset written out as a string, e.g. " #()=CNO".
func Parse(s string) (*Charset, error) {
	return New([]rune(s))
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) *Charset {
	cs, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return cs
}

func newCharset(runes []rune) *Charset {
	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		index[r] = i
	}
	return &Charset{runes: runes, index: index}
}

// Len is the number of one-hot columns.
func (c *Charset) Len() int { return len(c.runes) }

// Index returns the column for r.
func (c *Charset) Index(r rune) (int, bool) {
	i, ok := c.index[r]
	return i, ok
}

// Contains reports whether r is part of the vocabulary.
func (c *Charset) Contains(r rune) bool {
	_, ok := c.index[r]
	return ok
}

// At returns the rune for column i.
func (c *Charset) At(i int) (rune, error) {
	if i < 0 || i >= len(c.runes) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, len(c.runes))
	}
	return c.runes[i], nil
}

// Runes returns a copy of the vocabulary in column order.
func (c *Charset) Runes() []rune { return slices.Clone(c.runes) }

// String renders the vocabulary in column order, padding first.
func (c *Charset) String() string {
	var b strings.Builder
	b.Grow(len(c.runes))
	for _, r := range c.runes {
		b.WriteRune(r)
	}
	return b.String()
}

// Equal reports whether both charsets have the same runes in the same order.
func (c *Charset) Equal(other *Charset) bool {
	if c == nil || other == nil {
		return c == other
	}
	return slices.Equal(c.runes, other.runes)
}
