// Package sqlite implements the vector store on an embedded SQLite
// database. Records carry their embeddings as little-endian float32
// blobs; similarity search is exact cosine over the collection, which
// satisfies the nearest-neighbour contract at local-index scale.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/burrowlabs/burrow-cli/internal/adapters/driven/store/sqlite/migrations"
	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the store in the given data directory.
// If dataDir is empty, defaults to ~/.burrow/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".burrow", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for concurrent batch writers, busy timeout so writers
	// queue instead of failing on lock contention.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// EnsureCollection creates the collection or validates its model.
func (s *Store) EnsureCollection(ctx context.Context, name, embeddingModel string) (*domain.Collection, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, embedding_model, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, embeddingModel, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: creating collection: %v", domain.ErrStore, err)
	}

	col, err := s.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if col.EmbeddingModel != embeddingModel {
		return nil, fmt.Errorf("%w: collection %q uses %q, not %q",
			domain.ErrModelMismatch, name, col.EmbeddingModel, embeddingModel)
	}
	return col, nil
}

// GetCollection retrieves collection metadata with its record count.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.name, c.embedding_model, c.created_at,
		       (SELECT COUNT(*) FROM records r WHERE r.collection = c.name)
		FROM collections c WHERE c.name = ?
	`, name)

	var col domain.Collection
	if err := row.Scan(&col.Name, &col.EmbeddingModel, &col.CreatedAt, &col.RecordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning collection: %v", domain.ErrStore, err)
	}
	return &col, nil
}

// ListCollections returns metadata for every collection.
func (s *Store) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.embedding_model, c.created_at,
		       (SELECT COUNT(*) FROM records r WHERE r.collection = c.name)
		FROM collections c ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying collections: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var cols []domain.Collection //nolint:prealloc // size unknown from query
	for rows.Next() {
		var col domain.Collection
		if err := rows.Scan(&col.Name, &col.EmbeddingModel, &col.CreatedAt, &col.RecordCount); err != nil {
			return nil, fmt.Errorf("%w: scanning collection: %v", domain.ErrStore, err)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating collections: %v", domain.ErrStore, err)
	}
	return cols, nil
}

// DeleteCollection removes a collection and all its records.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("%w: deleting collection: %v", domain.ErrStore, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertBatch writes a batch of records in one transaction. Records
// with existing ids are overwritten in place, which is what makes
// repeated ingestion idempotent.
func (s *Store) UpsertBatch(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, collection, source_uri, heading_path, seq, content, embedding, unsafe, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection = excluded.collection,
			source_uri = excluded.source_uri,
			heading_path = excluded.heading_path,
			seq = excluded.seq,
			content = excluded.content,
			embedding = excluded.embedding,
			unsafe = excluded.unsafe,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrStore, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		pathJSON, err := json.Marshal(rec.HeadingPath)
		if err != nil {
			return fmt.Errorf("%w: marshalling heading path: %v", domain.ErrStore, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Collection, rec.SourceURI,
			string(pathJSON), rec.Seq, rec.Content,
			float32SliceToBytes(rec.Embedding), rec.Unsafe, rec.IndexedAt); err != nil {
			return fmt.Errorf("%w: saving record: %v", domain.ErrStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrStore, err)
	}
	return nil
}

// Search returns the k records nearest to the query vector by cosine
// similarity, ordered by descending score.
func (s *Store) Search(ctx context.Context, collection string, query []float32, k int) ([]driven.RecordHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection, source_uri, heading_path, seq, content, embedding, unsafe, indexed_at
		FROM records WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var hits []driven.RecordHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.RecordHit{
			Record:     *rec,
			Similarity: cosineSimilarity(query, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", domain.ErrStore, err)
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// scanRecord scans one record row.
func scanRecord(rows *sql.Rows) (*domain.Record, error) {
	var rec domain.Record
	var pathJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&rec.ID, &rec.Collection, &rec.SourceURI, &pathJSON,
		&rec.Seq, &rec.Content, &embeddingBlob, &rec.Unsafe, &rec.IndexedAt); err != nil {
		return nil, fmt.Errorf("%w: scanning record: %v", domain.ErrStore, err)
	}

	if err := json.Unmarshal([]byte(pathJSON), &rec.HeadingPath); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling heading path: %v", domain.ErrStore, err)
	}
	rec.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &rec, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
