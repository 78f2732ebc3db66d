package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "github.com/tursodatabase/go-libsql"
)

// SQLStore keeps charsets in a libsql (SQLite) database.
type SQLStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// ConnectToDB opens a libsql database. A bare path is treated as a local file
// and its parent directory is created.
func ConnectToDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("store: empty dsn")
	}
	if !strings.Contains(dsn, ":") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("could not create database directory: %w", err)
		}
		dsn = "file:" + dsn
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dsn, err)
	}
	return db, nil
}

// NewSQLStore connects to dsn and ensures the schema exists.
func NewSQLStore(dsn string, logger zerolog.Logger) (*SQLStore, error) {
	db, err := ConnectToDB(dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLStore{db: db, logger: logger}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug().Str("dsn", dsn).Msg("charset store ready")
	return s, nil
}

func (s *SQLStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS charsets (
		id TEXT PRIMARY KEY UNIQUE,
		name TEXT NOT NULL UNIQUE,
		chars TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create charsets table: %w", err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, name string, cs *vocab.Charset) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("store: charset name cannot be empty")
	}
	if cs == nil {
		return nil, errors.New("store: charset cannot be nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	rec := Record{
		ID:        uuid.New(),
		Name:      name,
		Charset:   cs,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM charsets WHERE name = ?", name); err != nil {
		return nil, fmt.Errorf("failed to replace charset %s: %w", name, err)
	}
	result, err := tx.ExecContext(ctx,
		"INSERT INTO charsets (id, name, chars, created_at) VALUES (?, ?, ?, ?)",
		rec.ID.String(), rec.Name, cs.String(), rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to insert charset %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return nil, fmt.Errorf("expected 1 row affected, got %d", rowsAffected)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug().Str("id", rec.ID.String()).Str("name", name).Int("size", cs.Len()).Msg("saved charset")
	return &rec, nil
}

func (s *SQLStore) Load(ctx context.Context, name string) (*vocab.Charset, error) {
	var chars string
	err := s.db.QueryRowContext(ctx, "SELECT chars FROM charsets WHERE name = ?", name).Scan(&chars)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCharsetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load charset %s: %w", name, err)
	}

	cs, err := vocab.Parse(chars)
	if err != nil {
		return nil, fmt.Errorf("stored charset %s is invalid: %w", name, err)
	}
	return cs, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, chars, created_at FROM charsets ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list charsets: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id, name, chars, createdAt string
		if err := rows.Scan(&id, &name, &chars, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan charset row: %w", err)
		}
		rec, err := toRecord(id, name, chars, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate charsets: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM charsets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete charset %s: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCharsetNotFound, name)
	}
	s.logger.Debug().Str("name", name).Msg("deleted charset")
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func toRecord(id, name, chars, createdAt string) (*Record, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id for charset %s: %w", name, err)
	}
	cs, err := vocab.Parse(chars)
	if err != nil {
		return nil, fmt.Errorf("stored charset %s is invalid: %w", name, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp for charset %s: %w", name, err)
	}
	return &Record{ID: uid, Name: name, Charset: cs, CreatedAt: ts}, nil
}
