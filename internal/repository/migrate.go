package repository

import (
	"context"

	"github.com/einvoice-tools/extractor/internal/common"
)

// DDL shared by the SQLite and Postgres backends; only portable column
// types are used.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id            TEXT PRIMARY KEY,
		source_path   TEXT NOT NULL,
		content_hash  TEXT NOT NULL UNIQUE,
		format        TEXT NOT NULL,
		ingested_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS extract_jobs (
		id            TEXT PRIMARY KEY,
		document_id   TEXT NOT NULL REFERENCES documents(id),
		status        TEXT NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		confidence    REAL NOT NULL DEFAULT 0,
		started_at    TIMESTAMP NOT NULL,
		finished_at   TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id             TEXT PRIMARY KEY,
		job_id         TEXT NOT NULL REFERENCES extract_jobs(id),
		invoice_number TEXT NOT NULL DEFAULT '',
		invoice_date   TEXT NOT NULL DEFAULT '',
		invoice_type   TEXT NOT NULL DEFAULT '',
		seller_id      TEXT NOT NULL DEFAULT '',
		seller_name    TEXT NOT NULL DEFAULT '',
		buyer_id       TEXT NOT NULL DEFAULT '',
		buyer_name     TEXT NOT NULL DEFAULT '',
		subtotal       REAL NOT NULL DEFAULT 0,
		tax_amount     REAL NOT NULL DEFAULT 0,
		total          REAL NOT NULL DEFAULT 0,
		item_count     INTEGER NOT NULL DEFAULT 0,
		confidence     REAL NOT NULL DEFAULT 0,
		payload        TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_extract_jobs_document ON extract_jobs(document_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_job ON records(job_id)`,
}

// Migrate applies the archive schema. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			s.logger.Error("store.migrate.failed", "error", err)
			return common.WrapError(err, "migrate store")
		}
	}
	s.logger.Debug("store.migrate.ok", "statements", len(migrations))
	return nil
}
