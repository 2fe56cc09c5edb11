// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlite implements the metadata store on an embedded SQLite
// database. Suited to single-node deployments where running Postgres
// would be overkill; use ":memory:" for a throwaway store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caselight/legalqa-gw/pkg/storage"

	_ "modernc.org/sqlite"
)

func init() {
	storage.Providers.Register("sqlite", func(_ context.Context, params map[string]string) (storage.MetadataStore, error) {
		return New(params["path"])
	})
}

// compile-time check
var _ storage.MetadataStore = (*Store)(nil)

// Store is a SQLite-backed implementation of MetadataStore.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store at the given path.
func New(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}

	// modernc.org/sqlite serializes access through a single connection;
	// more than one causes table lock errors under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vector_indexes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			dimensions INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS document_chunks (
			id TEXT NOT NULL,
			document_id TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			strategy TEXT NOT NULL DEFAULT '',
			section_title TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL DEFAULT 0,
			start_offset INTEGER NOT NULL DEFAULT 0,
			end_offset INTEGER NOT NULL DEFAULT 0,
			unit_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (document_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_order ON document_chunks(document_id, chunk_index)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite create tables: %w", err)
		}
	}
	return nil
}

// CreateIndex records a new vector index.
func (s *Store) CreateIndex(ctx context.Context, rec *storage.IndexRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vector_indexes (id, name, dimensions, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Dimensions, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite create index record: %w", err)
	}
	return nil
}

// GetIndex returns one index record.
func (s *Store) GetIndex(ctx context.Context, indexID string) (*storage.IndexRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, dimensions, created_at FROM vector_indexes WHERE id = ?`, indexID)
	return scanIndexRecord(row, indexID)
}

// ListIndexes returns all index records sorted by creation time.
func (s *Store) ListIndexes(ctx context.Context) ([]*storage.IndexRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, dimensions, created_at FROM vector_indexes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list index records: %w", err)
	}
	defer rows.Close()

	var out []*storage.IndexRecord
	for rows.Next() {
		var rec storage.IndexRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Dimensions, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite scan index record: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// DeleteIndex removes an index record.
func (s *Store) DeleteIndex(ctx context.Context, indexID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vector_indexes WHERE id = ?`, indexID)
	if err != nil {
		return fmt.Errorf("sqlite delete index record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite delete index record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("index %s: %w", indexID, storage.ErrIndexNotFound)
	}
	return nil
}

// SaveChunks replaces the document's chunk records in one transaction.
func (s *Store) SaveChunks(ctx context.Context, documentID string, chunks []storage.ChunkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("sqlite clear chunks: %w", err)
	}

	for _, c := range chunks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO document_chunks
				(id, document_id, content, strategy, section_title, chunk_index, start_offset, end_offset, unit_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, documentID, c.Text, c.Strategy, c.SectionTitle, c.ChunkIndex, c.StartOffset, c.EndOffset, c.UnitCount,
		)
		if err != nil {
			return fmt.Errorf("sqlite insert chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// ListChunks returns the document's chunk records in index order.
func (s *Store) ListChunks(ctx context.Context, documentID string) ([]storage.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, content, strategy, section_title, chunk_index, start_offset, end_offset, unit_count
		 FROM document_chunks WHERE document_id = ? ORDER BY chunk_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("sqlite list chunks: %w", err)
	}
	defer rows.Close()

	var out []storage.ChunkRecord
	for rows.Next() {
		var c storage.ChunkRecord
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Text, &c.Strategy, &c.SectionTitle,
			&c.ChunkIndex, &c.StartOffset, &c.EndOffset, &c.UnitCount); err != nil {
			return nil, fmt.Errorf("sqlite scan chunk: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteChunks removes all chunk records for the document.
func (s *Store) DeleteChunks(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("sqlite delete chunks: %w", err)
	}
	return nil
}

func scanIndexRecord(row *sql.Row, indexID string) (*storage.IndexRecord, error) {
	var rec storage.IndexRecord
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Dimensions, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("index %s: %w", indexID, storage.ErrIndexNotFound)
		}
		return nil, fmt.Errorf("sqlite get index record: %w", err)
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}
