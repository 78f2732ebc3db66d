// Package coverage indexes which corpus rows use which characters, so rows
// that a charset cannot encode can be found before encoding.
package coverage

import (
	"slices"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	roaring "github.com/RoaringBitmap/roaring"
)

// Index holds a roaring bitmap of row ids per rune.
// Example: 'l' -> bitmap of every corpus row containing 'l'.
type Index struct {
	byRune  map[rune]*roaring.Bitmap
	invalid *roaring.Bitmap
	lengths []int
	prefix  int
}

// Option configures NewIndex.
type Option func(*Index)

// WithPrefix indexes only the first n runes of each row, matching what a
// truncating encoder looks up. Row lengths are still counted in full, so
// Overlong is unaffected. n <= 0 indexes whole rows.
func WithPrefix(n int) Option {
	return func(ix *Index) {
		ix.prefix = n
	}
}

// NewIndex indexes corpus. Rows that are not valid UTF-8 are recorded as
// invalid and always count as unencodable; their invalid bytes are not
// indexed as runes.
func NewIndex(corpus []string, opts ...Option) *Index {
	ix := &Index{
		byRune:  make(map[rune]*roaring.Bitmap),
		invalid: roaring.New(),
		lengths: make([]int, len(corpus)),
	}
	for _, opt := range opts {
		opt(ix)
	}
	for row, s := range corpus {
		n := 0
		for len(s) > 0 {
			r, size := utf8.DecodeRuneInString(s)
			s = s[size:]
			if r == utf8.RuneError && size == 1 {
				ix.invalid.Add(uint32(row))
			} else if ix.prefix <= 0 || n < ix.prefix {
				ix.add(r, uint32(row))
			}
			n++
		}
		ix.lengths[row] = n
	}
	return ix
}

func (ix *Index) add(r rune, row uint32) {
	bm, ok := ix.byRune[r]
	if !ok {
		bm = roaring.New()
		ix.byRune[r] = bm
	}
	bm.Add(row)
}

// Len is the number of indexed rows.
func (ix *Index) Len() int { return len(ix.lengths) }

// Rows returns a copy of the rows containing r.
func (ix *Index) Rows(r rune) *roaring.Bitmap {
	return clone(ix.byRune[r])
}

// Runes lists every indexed rune in code point order.
func (ix *Index) Runes() []rune {
	out := make([]rune, 0, len(ix.byRune))
	for r := range ix.byRune {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Missing lists the indexed runes that cs has no column for.
func (ix *Index) Missing(cs *vocab.Charset) []rune {
	var out []rune
	for _, r := range ix.Runes() {
		if !cs.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Invalid returns a copy of the rows that are not valid UTF-8.
func (ix *Index) Invalid() *roaring.Bitmap {
	return clone(ix.invalid)
}

// Unencodable returns invalid rows plus rows containing at least one indexed
// rune absent from cs.
func (ix *Index) Unencodable(cs *vocab.Charset) *roaring.Bitmap {
	res := clone(ix.invalid)
	for _, r := range ix.Missing(cs) {
		res.Or(ix.byRune[r])
	}
	return res
}

// Encodable is the complement of Unencodable over all rows.
func (ix *Index) Encodable(cs *vocab.Charset) *roaring.Bitmap {
	res := ix.all()
	res.AndNot(ix.Unencodable(cs))
	return res
}

// Overlong returns rows with more runes than padLength.
func (ix *Index) Overlong(padLength int) *roaring.Bitmap {
	res := roaring.New()
	for row, n := range ix.lengths {
		if n > padLength {
			res.Add(uint32(row))
		}
	}
	return res
}

func (ix *Index) all() *roaring.Bitmap {
	res := roaring.New()
	res.AddRange(0, uint64(len(ix.lengths)))
	return res
}

func clone(b *roaring.Bitmap) *roaring.Bitmap {
	if b == nil {
		return roaring.New()
	}
	c := roaring.New()
	c.Or(b) // copy
	return c
}
