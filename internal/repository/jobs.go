package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/einvoice-tools/extractor/constants"
	"github.com/einvoice-tools/extractor/internal/common"
)

// JobRow is one archived extraction job.
type JobRow struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Status     constants.JobStatus
	ErrorMsg   string
	Confidence float64
	StartedAt  time.Time
}

// ExtractJobRepository tracks per-document extraction runs.
type ExtractJobRepository interface {
	Start(ctx context.Context, documentID uuid.UUID) (JobRow, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, confidence float64) error
	FinishFailure(ctx context.Context, id uuid.UUID, errMsg string) error
}

type extractJobRepository struct {
	store  *Store
	logger *slog.Logger
}

func NewExtractJobRepository(store *Store, logger *slog.Logger) ExtractJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &extractJobRepository{store: store, logger: logger}
}

func (r *extractJobRepository) Start(ctx context.Context, documentID uuid.UUID) (JobRow, error) {
	row := JobRow{
		ID:         uuid.New(),
		DocumentID: documentID,
		Status:     constants.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	_, err := r.store.DB.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, document_id, status, started_at) VALUES ($1, $2, $3, $4)`,
		row.ID.String(), row.DocumentID.String(), string(row.Status), row.StartedAt,
	)
	if err != nil {
		r.logger.Error("store.jobs.start_failed", "document_id", documentID, "error", err)
		return JobRow{}, common.WrapError(err, "start job")
	}
	return row, nil
}

func (r *extractJobRepository) FinishSuccess(ctx context.Context, id uuid.UUID, confidence float64) error {
	_, err := r.store.DB.ExecContext(ctx,
		`UPDATE extract_jobs SET status = $1, confidence = $2, finished_at = $3 WHERE id = $4`,
		string(constants.JobStatusOK), confidence, time.Now().UTC(), id.String(),
	)
	if err != nil {
		r.logger.Error("store.jobs.finish_failed", "job_id", id, "error", err)
		return common.WrapError(err, "finish job")
	}
	return nil
}

func (r *extractJobRepository) FinishFailure(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.store.DB.ExecContext(ctx,
		`UPDATE extract_jobs SET status = $1, error_message = $2, finished_at = $3 WHERE id = $4`,
		string(constants.JobStatusFailed), errMsg, time.Now().UTC(), id.String(),
	)
	if err != nil {
		r.logger.Error("store.jobs.fail_failed", "job_id", id, "error", err)
		return common.WrapError(err, "fail job")
	}
	return nil
}
