package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/entity"
)

// RecordRow is one archived extraction record: the canonical JSON payload
// plus the scalar columns used for listing and export.
type RecordRow struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	InvoiceNumber string
	InvoiceDate   string
	InvoiceType   string
	SellerID      string
	SellerName    string
	BuyerID       string
	BuyerName     string
	Subtotal      float64
	TaxAmount     float64
	Total         float64
	ItemCount     int
	Confidence    float64
	Payload       string
	CreatedAt     time.Time
}

// RecordRepository persists assembled extraction records.
type RecordRepository interface {
	Insert(ctx context.Context, jobID uuid.UUID, inv *entity.Invoice, payload []byte) (RecordRow, error)
	List(ctx context.Context) ([]RecordRow, error)
}

type recordRepository struct {
	store  *Store
	logger *slog.Logger
}

func NewRecordRepository(store *Store, logger *slog.Logger) RecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordRepository{store: store, logger: logger}
}

func (r *recordRepository) Insert(ctx context.Context, jobID uuid.UUID, inv *entity.Invoice, payload []byte) (RecordRow, error) {
	row := RecordRow{
		ID:            uuid.New(),
		JobID:         jobID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		InvoiceType:   inv.InvoiceType,
		SellerID:      inv.Seller.ID,
		SellerName:    inv.Seller.Name,
		BuyerID:       inv.Buyer.ID,
		BuyerName:     inv.Buyer.Name,
		Subtotal:      inv.Amounts.Subtotal,
		TaxAmount:     inv.Amounts.TaxAmount,
		Total:         inv.Amounts.Total,
		ItemCount:     len(inv.Items),
		Confidence:    inv.Confidence,
		Payload:       string(payload),
		CreatedAt:     time.Now().UTC(),
	}
	_, err := r.store.DB.ExecContext(ctx,
		`INSERT INTO records (
			id, job_id, invoice_number, invoice_date, invoice_type,
			seller_id, seller_name, buyer_id, buyer_name,
			subtotal, tax_amount, total, item_count, confidence, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		row.ID.String(), row.JobID.String(), row.InvoiceNumber, row.InvoiceDate, row.InvoiceType,
		row.SellerID, row.SellerName, row.BuyerID, row.BuyerName,
		row.Subtotal, row.TaxAmount, row.Total, row.ItemCount, row.Confidence, row.Payload, row.CreatedAt,
	)
	if err != nil {
		r.logger.Error("store.records.insert_failed", "job_id", jobID, "error", err)
		return RecordRow{}, common.WrapError(err, "insert record")
	}
	return row, nil
}

func (r *recordRepository) List(ctx context.Context) ([]RecordRow, error) {
	rows, err := r.store.DB.QueryContext(ctx,
		`SELECT id, job_id, invoice_number, invoice_date, invoice_type,
			seller_id, seller_name, buyer_id, buyer_name,
			subtotal, tax_amount, total, item_count, confidence, payload, created_at
		FROM records ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, common.WrapError(err, "list records")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("store.records.close_failed", "error", err)
		}
	}()

	var out []RecordRow
	for rows.Next() {
		var row RecordRow
		var id, jobID string
		if err := rows.Scan(
			&id, &jobID, &row.InvoiceNumber, &row.InvoiceDate, &row.InvoiceType,
			&row.SellerID, &row.SellerName, &row.BuyerID, &row.BuyerName,
			&row.Subtotal, &row.TaxAmount, &row.Total, &row.ItemCount, &row.Confidence, &row.Payload, &row.CreatedAt,
		); err != nil {
			return nil, common.WrapError(err, "scan record")
		}
		if row.ID, err = uuid.Parse(id); err != nil {
			return nil, common.WrapError(err, "parse record id")
		}
		if row.JobID, err = uuid.Parse(jobID); err != nil {
			return nil, common.WrapError(err, "parse record job id")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate records")
	}
	return out, nil
}
