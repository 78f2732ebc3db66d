// Package store persists named charsets so that encodings produced in one run
// can be decoded, or extended with compatible data, in another.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/google/uuid"
)

var ErrCharsetNotFound = errors.New("store: charset not found")

// Record is a saved charset. Saving under an existing name replaces it and
// assigns a new ID.
type Record struct {
	ID        uuid.UUID
	Name      string
	Charset   *vocab.Charset
	CreatedAt time.Time
}

// Store is the interface for charset persistence
type Store interface {
	Save(ctx context.Context, name string, cs *vocab.Charset) (*Record, error)
	Load(ctx context.Context, name string) (*vocab.Charset, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, name string) error
	Close() error
}
