package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einvoice-tools/extractor/constants"
	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/entity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	store, err := Open(context.Background(), common.StoreConfig{DSN: dsn, DialTimeout: 3 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestDriverForDSN(t *testing.T) {
	assert.Equal(t, "pgx", driverForDSN("postgres://u:p@localhost/db"))
	assert.Equal(t, "pgx", driverForDSN("postgresql://u:p@localhost/db"))
	assert.Equal(t, "sqlite", driverForDSN("file:invoices.db"))
	assert.Equal(t, "sqlite", driverForDSN("invoices.db"))
}

func TestStoreMigrateAndCounts(t *testing.T) {
	store := openTestStore(t)

	counts, err := store.TableCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["documents"])
	assert.Equal(t, int64(0), counts["extract_jobs"])
	assert.Equal(t, int64(0), counts["records"])

	// migrations are idempotent
	require.NoError(t, store.Migrate(context.Background()))
}

func TestDocumentUpsertByHash(t *testing.T) {
	store := openTestStore(t)
	repo := NewDocumentRepository(store, nil)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	row, dedup, err := repo.UpsertByHash(ctx, "/tmp/a.txt", constants.FormatText, "hash-1", now)
	require.NoError(t, err)
	assert.False(t, dedup)
	assert.NotEmpty(t, row.ID)

	// same hash, different path: deduplicated, original row returned
	again, dedup, err := repo.UpsertByHash(ctx, "/tmp/b.txt", constants.FormatText, "hash-1", now)
	require.NoError(t, err)
	assert.True(t, dedup)
	assert.Equal(t, row.ID, again.ID)
	assert.Equal(t, "/tmp/a.txt", again.SourcePath)

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.HashHex)
}

func TestJobLifecycle(t *testing.T) {
	store := openTestStore(t)
	docs := NewDocumentRepository(store, nil)
	jobs := NewExtractJobRepository(store, nil)
	ctx := context.Background()

	doc, _, err := docs.UpsertByHash(ctx, "/tmp/a.txt", constants.FormatText, "hash-j", time.Now().UTC())
	require.NoError(t, err)

	job, err := jobs.Start(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusRunning, job.Status)

	require.NoError(t, jobs.FinishSuccess(ctx, job.ID, 0.71))

	var status string
	var confidence float64
	require.NoError(t, store.DB.QueryRowContext(ctx,
		`SELECT status, confidence FROM extract_jobs WHERE id = $1`, job.ID.String(),
	).Scan(&status, &confidence))
	assert.Equal(t, string(constants.JobStatusOK), status)
	assert.InDelta(t, 0.71, confidence, 1e-9)
}

func TestJobFailure(t *testing.T) {
	store := openTestStore(t)
	docs := NewDocumentRepository(store, nil)
	jobs := NewExtractJobRepository(store, nil)
	ctx := context.Background()

	doc, _, err := docs.UpsertByHash(ctx, "/tmp/a.txt", constants.FormatText, "hash-f", time.Now().UTC())
	require.NoError(t, err)
	job, err := jobs.Start(ctx, doc.ID)
	require.NoError(t, err)

	require.NoError(t, jobs.FinishFailure(ctx, job.ID, "decode failed"))

	var status, errMsg string
	require.NoError(t, store.DB.QueryRowContext(ctx,
		`SELECT status, error_message FROM extract_jobs WHERE id = $1`, job.ID.String(),
	).Scan(&status, &errMsg))
	assert.Equal(t, string(constants.JobStatusFailed), status)
	assert.Equal(t, "decode failed", errMsg)
}

func TestRecordInsertAndList(t *testing.T) {
	store := openTestStore(t)
	docs := NewDocumentRepository(store, nil)
	jobs := NewExtractJobRepository(store, nil)
	records := NewRecordRepository(store, nil)
	ctx := context.Background()

	doc, _, err := docs.UpsertByHash(ctx, "/tmp/a.txt", constants.FormatText, "hash-r", time.Now().UTC())
	require.NoError(t, err)
	job, err := jobs.Start(ctx, doc.ID)
	require.NoError(t, err)

	inv := entity.NewInvoice()
	inv.InvoiceNumber = "AB12345678"
	inv.InvoiceDate = "2024/05/20"
	inv.Seller = entity.Party{ID: "53212539", Name: "甲公司"}
	inv.Amounts.Total = 1050
	inv.Items = []entity.LineItem{entity.NewLineItem("商品A", 1, 1050, 0)}
	inv.Confidence = 5.0 / 7.0

	payload, err := entity.MarshalRecord(inv)
	require.NoError(t, err)

	row, err := records.Insert(ctx, job.ID, inv, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, row.ItemCount)

	listed, err := records.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "AB12345678", listed[0].InvoiceNumber)
	assert.Equal(t, "甲公司", listed[0].SellerName)
	assert.Equal(t, 1050.0, listed[0].Total)
	assert.JSONEq(t, string(payload), listed[0].Payload)
}
