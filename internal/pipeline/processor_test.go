package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einvoice-tools/extractor/constants"
	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/extract"
	"github.com/einvoice-tools/extractor/internal/ingest"
	"github.com/einvoice-tools/extractor/internal/repository"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

type testEnv struct {
	store    *repository.Store
	ingestor *ingest.FSIngestor
	proc     *Processor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	store, err := repository.Open(context.Background(), common.StoreConfig{DSN: dsn, DialTimeout: 3 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	docs := repository.NewDocumentRepository(store, nil)
	jobs := repository.NewExtractJobRepository(store, nil)
	records := repository.NewRecordRepository(store, nil)

	return &testEnv{
		store:    store,
		ingestor: ingest.NewFSIngestor(docs, nil),
		proc: NewProcessor(
			document.NewFileDecoder(nil),
			extract.NewExtractor(0, nil),
			jobs,
			records,
			nil,
		),
	}
}

func TestProcessDocumentText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("AB12345678\n53212539\n合計 1,050\n113/05/20"), 0644))

	r, err := env.ingestor.IngestPath(ctx, path)
	require.NoError(t, err)
	docID := mustUUID(t, r.DocumentID)

	jobID, err := env.proc.ProcessDocument(ctx, docID, path)
	require.NoError(t, err)

	var status string
	require.NoError(t, env.store.DB.QueryRowContext(ctx,
		`SELECT status FROM extract_jobs WHERE id = $1`, jobID.String(),
	).Scan(&status))
	assert.Equal(t, string(constants.JobStatusOK), status)

	records := repository.NewRecordRepository(env.store, nil)
	rows, err := records.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AB12345678", rows[0].InvoiceNumber)
	assert.Equal(t, "2024/05/20", rows[0].InvoiceDate)
	assert.Equal(t, 1050.0, rows[0].Total)

	// archived payload is the canonical JSON shape
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(rows[0].Payload), &m))
	assert.Equal(t, "53212539", m["seller"].(map[string]any)["id"])
}

func TestProcessDocumentLayout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	layout := `{
		"pages": ["AB12345678 合計 300"],
		"tables": [[["品名", "數量", "單價"], ["商品A", "3", "100"]]]
	}`
	path := filepath.Join(t.TempDir(), "invoice.json")
	require.NoError(t, os.WriteFile(path, []byte(layout), 0644))

	r, err := env.ingestor.IngestPath(ctx, path)
	require.NoError(t, err)

	_, err = env.proc.ProcessDocument(ctx, mustUUID(t, r.DocumentID), path)
	require.NoError(t, err)

	rows, err := repository.NewRecordRepository(env.store, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ItemCount)
}

func TestProcessDocumentFailureRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// empty document: the engine's only hard failure
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("   "), 0644))

	r, err := env.ingestor.IngestPath(ctx, path)
	require.NoError(t, err)

	jobID, err := env.proc.ProcessDocument(ctx, mustUUID(t, r.DocumentID), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidDocument)

	var status, errMsg string
	require.NoError(t, env.store.DB.QueryRowContext(ctx,
		`SELECT status, error_message FROM extract_jobs WHERE id = $1`, jobID.String(),
	).Scan(&status, &errMsg))
	assert.Equal(t, string(constants.JobStatusFailed), status)
	assert.NotEmpty(t, errMsg)
}
