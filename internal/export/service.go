package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/einvoice-tools/extractor/internal/repository"
)

// Service is a tiny façade over the record repository that produces XLSX bytes.
type Service struct {
	recordsRepo repository.RecordRepository
	sheetName   string
	logger      *slog.Logger
}

func NewService(records repository.RecordRepository, sheetName string, logger *slog.Logger) *Service {
	if sheetName == "" {
		sheetName = "Invoices"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{recordsRepo: records, sheetName: sheetName, logger: logger}
}

// ExportRecordsXLSX returns an XLSX workbook (as bytes) with one row per
// archived extraction record.
func (s *Service) ExportRecordsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.recordsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	f := excelize.NewFile()
	sheet := s.sheetName
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Invoice Date",
		"Type",
		"Seller ID",
		"Seller Name",
		"Buyer ID",
		"Buyer Name",
		"Subtotal",
		"Tax",
		"Total",
		"Items",
		"Confidence",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.InvoiceNumber)
		write(2, r.InvoiceDate)
		write(3, r.InvoiceType)
		write(4, r.SellerID)
		write(5, r.SellerName)
		write(6, r.BuyerID)
		write(7, r.BuyerName)
		write(8, r.Subtotal)
		write(9, r.TaxAmount)
		write(10, r.Total)
		write(11, r.ItemCount)
		write(12, fmt.Sprintf("%.0f%%", r.Confidence*100))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 16) // number
	_ = f.SetColWidth(sheet, "B", "B", 12) // date
	_ = f.SetColWidth(sheet, "D", "D", 12) // seller id
	_ = f.SetColWidth(sheet, "E", "E", 28) // seller name
	_ = f.SetColWidth(sheet, "F", "F", 12) // buyer id
	_ = f.SetColWidth(sheet, "G", "G", 28) // buyer name
	_ = f.SetColWidth(sheet, "H", "J", 12) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
