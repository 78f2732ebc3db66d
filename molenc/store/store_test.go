package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore exercises the Store contract against any implementation.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	organic := vocab.MustParse(" ()=CNOc1")
	salts := vocab.MustParse(" +-.ClNa[]")

	t.Run("SaveAndLoad", func(t *testing.T) {
		rec, err := s.Save(ctx, "organic", organic)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.Equal(t, "organic", rec.Name)
		assert.False(t, rec.CreatedAt.IsZero())

		loaded, err := s.Load(ctx, "organic")
		require.NoError(t, err)
		assert.True(t, organic.Equal(loaded), "got %q", loaded.String())
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		first, err := s.Save(ctx, "replace-me", organic)
		require.NoError(t, err)
		second, err := s.Save(ctx, "replace-me", salts)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		loaded, err := s.Load(ctx, "replace-me")
		require.NoError(t, err)
		assert.True(t, salts.Equal(loaded))
	})

	t.Run("List", func(t *testing.T) {
		_, err := s.Save(ctx, "salts", salts)
		require.NoError(t, err)

		recs, err := s.List(ctx)
		require.NoError(t, err)
		names := make([]string, len(recs))
		for i, rec := range recs {
			names[i] = rec.Name
		}
		assert.Equal(t, []string{"organic", "replace-me", "salts"}, names)
		assert.True(t, salts.Equal(recs[2].Charset))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "replace-me"))
		_, err := s.Load(ctx, "replace-me")
		assert.ErrorIs(t, err, ErrCharsetNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "replace-me"), ErrCharsetNotFound)
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := s.Load(ctx, "nope")
		assert.ErrorIs(t, err, ErrCharsetNotFound)
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := s.Save(ctx, " ", organic)
		assert.Error(t, err)
		_, err = s.Save(ctx, "nil", nil)
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestSQLStoreIntegration(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "molenc_test_store_*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	s, err := NewSQLStore(filepath.Join(tempDir, "nested", "charsets.db"), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestSQLStorePersistsAcrossConnections(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "molenc_test_store_*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)
	path := filepath.Join(tempDir, "charsets.db")
	ctx := context.Background()

	s, err := NewSQLStore(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = s.Save(ctx, "default", vocab.Build([]string{"CCO", "N#N"}))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	cs, err := reopened.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, " #CNO", cs.String())
}

func TestConnectToDBEmptyDSN(t *testing.T) {
	_, err := ConnectToDB("")
	assert.Error(t, err)
}
