package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/WideDream/sto-mana/utils"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Records"

// ExportHeader is the fixed column order of every export.
var ExportHeader = []string{
	"id", "full_name", "product", "quantity", "unit_price",
	"total", "paid", "loan", "date", "due_date", "payment_status",
}

// ExportService writes the full ledger, oldest date first.
type ExportService struct {
	ledger *LedgerService
}

func NewExportService(ledger *LedgerService) *ExportService {
	return &ExportService{ledger: ledger}
}

// WriteCSV writes the header and one row per record. Amounts are plain
// numbers, not display strings.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.ledger.ListRecords(ctx, RecordFilter{Order: OldestDateFirst})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(csvFields(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the same projection as WriteCSV as a workbook with
// numeric cells.
func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer) error {
	rows, err := s.ledger.ListRecords(ctx, RecordFilter{Order: OldestDateFirst})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ID, r.FullName, r.Product, r.Quantity, r.UnitPrice,
			r.Total, r.Paid, r.Loan, r.Date, r.DueDate, r.PaymentStatus,
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "C", 24)
	_ = f.SetColWidth(exportSheet, "I", "K", 14)

	return f.Write(w)
}

func csvFields(r RecordRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.FullName,
		r.Product,
		utils.RawAmount(r.Quantity),
		utils.RawAmount(r.UnitPrice),
		utils.RawAmount(r.Total),
		utils.RawAmount(r.Paid),
		utils.RawAmount(r.Loan),
		r.Date,
		r.DueDate,
		r.PaymentStatus,
	}
}
