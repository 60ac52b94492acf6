package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/einvoice-tools/extractor/internal/common"
)

// DocumentRow is one archived source document.
type DocumentRow struct {
	ID         uuid.UUID
	SourcePath string
	HashHex    string
	Format     string
	IngestedAt time.Time
}

// DocumentRepository persists ingested source documents with
// content-hash deduplication.
type DocumentRepository interface {
	// UpsertByHash inserts a document unless one with the same content
	// hash already exists. Returns the row and whether it was deduplicated.
	UpsertByHash(ctx context.Context, sourcePath, format, hashHex string, at time.Time) (DocumentRow, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (DocumentRow, error)
}

type documentRepository struct {
	store  *Store
	logger *slog.Logger
}

func NewDocumentRepository(store *Store, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{store: store, logger: logger}
}

func (r *documentRepository) UpsertByHash(ctx context.Context, sourcePath, format, hashHex string, at time.Time) (DocumentRow, bool, error) {
	var row DocumentRow
	var id string
	err := r.store.DB.QueryRowContext(ctx,
		`SELECT id, source_path, content_hash, format, ingested_at FROM documents WHERE content_hash = $1`,
		hashHex,
	).Scan(&id, &row.SourcePath, &row.HashHex, &row.Format, &row.IngestedAt)
	switch {
	case err == nil:
		row.ID, err = uuid.Parse(id)
		if err != nil {
			return DocumentRow{}, false, common.WrapError(err, "parse document id")
		}
		r.logger.Debug("store.documents.dedup", "document_id", row.ID, "path", sourcePath)
		return row, true, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return DocumentRow{}, false, common.WrapError(err, "query document by hash")
	}

	row = DocumentRow{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		HashHex:    hashHex,
		Format:     format,
		IngestedAt: at,
	}
	_, err = r.store.DB.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, content_hash, format, ingested_at) VALUES ($1, $2, $3, $4, $5)`,
		row.ID.String(), row.SourcePath, row.HashHex, row.Format, row.IngestedAt,
	)
	if err != nil {
		r.logger.Error("store.documents.insert_failed", "path", sourcePath, "error", err)
		return DocumentRow{}, false, common.WrapError(err, "insert document")
	}
	return row, false, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (DocumentRow, error) {
	var row DocumentRow
	var rawID string
	err := r.store.DB.QueryRowContext(ctx,
		`SELECT id, source_path, content_hash, format, ingested_at FROM documents WHERE id = $1`,
		id.String(),
	).Scan(&rawID, &row.SourcePath, &row.HashHex, &row.Format, &row.IngestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentRow{}, common.ErrNotFound
	}
	if err != nil {
		return DocumentRow{}, common.WrapError(err, "query document")
	}
	row.ID = id
	return row, nil
}
