package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// jsonEmptyObject is stored when metadata is nil.
const jsonEmptyObject = "{}"

// chunkCache implements driven.ChunkCache.
type chunkCache struct {
	db *sql.DB
}

var _ driven.ChunkCache = (*chunkCache)(nil)

// cachedExtractionError stands in for an extraction error read back from
// the cache. It keeps the message and still matches domain.ErrExtraction.
type cachedExtractionError struct {
	msg string
}

func (e *cachedExtractionError) Error() string { return e.msg }

func (e *cachedExtractionError) Unwrap() error { return domain.ErrExtraction }

// Get loads the cached document and its chunks in position order.
func (c *chunkCache) Get(ctx context.Context, key driven.CacheKey) (*domain.ProcessedDocument, bool, error) {
	var (
		doc           domain.Document
		modTime       int64
		metadataJSON  string
		extractionErr sql.NullString
	)

	row := c.db.QueryRowContext(ctx, `
		SELECT document_id, title, content, pages, file_size, mod_time, metadata, extraction_error
		FROM cached_documents WHERE path = ? AND chunk_size = ?`,
		key.Path, key.ChunkSize)
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Pages, &doc.Fingerprint.Size, &modTime, &metadataJSON, &extractionErr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached document: %w", err)
	}

	doc.Path = key.Path
	doc.Fingerprint.ModTime = time.Unix(0, modTime)
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, false, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	processed := &domain.ProcessedDocument{Document: doc}
	if extractionErr.Valid {
		processed.ExtractionErr = &cachedExtractionError{msg: extractionErr.String}
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, position, content, metadata FROM cached_chunks
		WHERE path = ? AND chunk_size = ? ORDER BY position`,
		key.Path, key.ChunkSize)
	if err != nil {
		return nil, false, fmt.Errorf("querying cached chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		chunk := domain.Chunk{DocumentID: doc.ID}
		var chunkMeta string
		if err := rows.Scan(&chunk.ID, &chunk.Position, &chunk.Content, &chunkMeta); err != nil {
			return nil, false, fmt.Errorf("scanning cached chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(chunkMeta), &chunk.Metadata); err != nil {
			return nil, false, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
		processed.Chunks = append(processed.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating cached chunks: %w", err)
	}

	return processed, true, nil
}

// Put replaces the cached entry for key in one transaction.
func (c *chunkCache) Put(ctx context.Context, key driven.CacheKey, doc *domain.ProcessedDocument) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := marshalMetadata(doc.Document.Metadata)
	if err != nil {
		return err
	}

	var extractionErr sql.NullString
	if doc.ExtractionErr != nil {
		extractionErr = sql.NullString{String: doc.ExtractionErr.Error(), Valid: true}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cached_documents WHERE path = ? AND chunk_size = ?", key.Path, key.ChunkSize); err != nil {
		return fmt.Errorf("clearing cached document: %w", err)
	}

	d := doc.Document
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cached_documents
			(path, chunk_size, document_id, title, content, pages, file_size, mod_time, metadata, extraction_error, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.Path, key.ChunkSize, d.ID, d.Title, d.Content, d.Pages,
		d.Fingerprint.Size, d.Fingerprint.ModTime.UnixNano(), metadataJSON, extractionErr, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("inserting cached document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cached_chunks (path, chunk_size, position, id, content, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range doc.Chunks {
		chunkMeta, err := marshalMetadata(chunk.Metadata)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, key.Path, key.ChunkSize, chunk.Position, chunk.ID, chunk.Content, chunkMeta); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Position, err)
		}
	}

	return tx.Commit()
}

// Invalidate drops every cached entry for path. Chunks go with their
// document through the foreign key cascade.
func (c *chunkCache) Invalidate(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cached_documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("invalidating %s: %w", path, err)
	}
	return nil
}

func marshalMetadata(m map[string]any) (string, error) {
	if m == nil {
		return jsonEmptyObject, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(data), nil
}
