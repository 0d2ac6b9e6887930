// Package sqlite provides a durable vector index backed by SQLite.
// Vectors are stored as little-endian float32 blobs; similarity is
// still computed as a dense linear scan in process.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/claimsight/claimsight/internal/adapters/driven/index/sqlite/migrations"
	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driven"
	"github.com/claimsight/claimsight/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Meta keys recorded alongside the index.
const (
	metaModel     = "embedding_model"
	metaDimension = "embedding_dimension"
)

// Config holds configuration for the SQLite index.
type Config struct {
	// Path is the database file location.
	Path string

	// Model is the embedding model identifier. An index recorded under
	// a different model is rejected at open.
	Model string
}

// Index stores embedded chunks in a SQLite database.
type Index struct {
	db    *sql.DB
	model string
}

// New opens (or creates) the index database, runs migrations and
// verifies the recorded embedding model matches the configured one.
func New(cfg Config) (*Index, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{db: db, model: cfg.Model}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := idx.checkModel(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// migrate runs all pending migrations.
func (idx *Index) migrate(fsys embed.FS) error {
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
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
		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// checkModel rejects a database recorded under a different embedding
// model than the configured one.
func (idx *Index) checkModel() error {
	var recorded string
	err := idx.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", metaModel).Scan(&recorded)
	if err == sql.ErrNoRows {
		return nil // fresh database, model recorded on first Add
	}
	if err != nil {
		return fmt.Errorf("reading index meta: %w", err)
	}

	if idx.model != "" && recorded != "" && recorded != idx.model {
		return fmt.Errorf("%w: index recorded with %q, configured model is %q",
			domain.ErrModelMismatch, recorded, idx.model)
	}
	return nil
}

// dimension returns the recorded vector dimension, or 0 for an empty index.
func (idx *Index) dimension(ctx context.Context) (int, error) {
	var value string
	err := idx.db.QueryRowContext(ctx,
		"SELECT value FROM index_meta WHERE key = ?", metaDimension).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading index dimension: %w", err)
	}
	return strconv.Atoi(value)
}

// Add appends the entries in a single transaction. Commit is the
// durability point: a crash before it loses the batch, a crash after
// is safe.
func (idx *Index) Add(ctx context.Context, entries []domain.EmbeddedChunk) error {
	if len(entries) == 0 {
		return nil
	}

	dim, err := idx.dimension(ctx)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(entries[0].Embedding)
	}
	for _, entry := range entries {
		if len(entry.Embedding) != dim {
			return fmt.Errorf("%w: chunk %s has dimension %d, index has %d",
				domain.ErrDimensionMismatch, entry.ChunkID, len(entry.Embedding), dim)
		}
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (chunk_id, source, page, chunk_index, content, embedding)
			VALUES (?, ?, ?, ?, ?, ?)`,
			entry.ChunkID, entry.Source, entry.Page, entry.ChunkIndex,
			entry.Content, float32SliceToBytes(entry.Embedding),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", entry.ChunkID, err)
		}
	}

	for key, value := range map[string]string{
		metaModel:     idx.model,
		metaDimension: strconv.Itoa(dim),
	} {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("recording index meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger.Debug("Persisted %d chunks to sqlite index", len(entries))
	return nil
}

// Search loads all vectors and ranks them by cosine similarity with a
// linear scan, ties broken by insertion (rowid) order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return []domain.SearchResult{}, nil
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT chunk_id, source, page, chunk_index, content, embedding
		FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0)
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ChunkID, &chunk.Source, &chunk.Page,
			&chunk.ChunkIndex, &chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		similarity := cosineSimilarity(query, bytesToFloat32Slice(blob))
		results = append(results, domain.SearchResult{
			Chunk:      chunk,
			Similarity: similarity,
			Distance:   1 - similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// ContainsSource reports whether any stored chunk's source equals the
// given filename exactly.
func (idx *Index) ContainsSource(ctx context.Context, source string) (bool, error) {
	var count int
	err := idx.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM chunks WHERE source = ?", source).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking source: %w", err)
	}
	return count > 0, nil
}

// Stats returns chunk and distinct-document counts.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats
	err := idx.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COUNT(DISTINCT source) FROM chunks").
		Scan(&stats.ChunkCount, &stats.DocumentCount)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("reading stats: %w", err)
	}
	return stats, nil
}

// ListSources returns the sorted set of distinct source filenames.
func (idx *Index) ListSources(ctx context.Context) ([]string, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT DISTINCT source FROM chunks ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes dot(a, b) / (‖a‖·‖b‖). Mismatched or
// zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
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
