package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/entity"
	"github.com/einvoice-tools/extractor/internal/extract"
	"github.com/einvoice-tools/extractor/internal/repository"
)

// Processor coordinates decode (source file -> Document), extraction
// (Document -> record), and archive persistence for one document.
type Processor struct {
	Decoder     document.Decoder
	Extractor   *extract.Extractor
	JobsRepo    repository.ExtractJobRepository
	RecordsRepo repository.RecordRepository
	Logger      *slog.Logger
}

func NewProcessor(
	dec document.Decoder,
	ext *extract.Extractor,
	jobs repository.ExtractJobRepository,
	records repository.RecordRepository,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Decoder:     dec,
		Extractor:   ext,
		JobsRepo:    jobs,
		RecordsRepo: records,
		Logger:      logger,
	}
}

// ProcessDocument runs the full pipeline for one archived document,
// advancing its extract_job and persisting the record on success.
// Per-field extraction tolerance lives inside the engine; the only
// failures surfacing here are document-level.
func (p *Processor) ProcessDocument(ctx context.Context, documentID uuid.UUID, path string) (uuid.UUID, error) {
	job, err := p.JobsRepo.Start(ctx, documentID)
	if err != nil {
		return uuid.Nil, err
	}

	doc, err := p.Decoder.Decode(ctx, path)
	if err != nil {
		p.Logger.Error("processor.decode.failed", "document_id", documentID, "path", path, "err", err)
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, err
	}

	outcome, err := p.Extractor.FromDocument(doc)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "document_id", documentID, "err", err)
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, err
	}
	p.Logger.Info("processor.extract.ok",
		"document_id", documentID,
		"job_id", job.ID,
		"invoice_number", outcome.Invoice.InvoiceNumber,
		"items", len(outcome.Invoice.Items),
		"confidence", outcome.Confidence,
	)

	if err := validateRecord(outcome.Invoice); err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, err
	}

	payload, err := entity.MarshalRecord(outcome.Invoice)
	if err != nil {
		p.Logger.Error("processor.marshal.failed", "job_id", job.ID, "err", err)
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, err
	}

	if _, err := p.RecordsRepo.Insert(ctx, job.ID, outcome.Invoice, payload); err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, err
	}
	if err := p.JobsRepo.FinishSuccess(ctx, job.ID, outcome.Confidence); err != nil {
		return job.ID, err
	}

	p.Logger.Info("processor.persist.ok", "job_id", job.ID)
	return job.ID, nil
}

// validateRecord applies the archive-side field rules before a write.
func validateRecord(inv *entity.Invoice) error {
	v := common.NewValidator()
	v.Field("invoice_number", inv.InvoiceNumber, common.InvoiceNumber)
	v.Field("invoice_date", inv.InvoiceDate, common.CanonicalDate)
	v.Field("confidence", inv.Confidence, common.Confidence01)
	if err := v.Error(); err != nil {
		return fmt.Errorf("record validation: %w", err)
	}
	return nil
}
