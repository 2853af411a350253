package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/compare"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

// columns is the output column order, matching the record's field order.
var columns = []string{
	"doc_type",
	"invoice_number",
	"invoice_date",
	"vendor_name",
	"total_amount",
	"currency",
	"source_file",
}

// Service writes extraction results to the target the output path's
// extension selects. An unsupported extension is a configuration error.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteRecords dispatches on the output extension: .json, .csv or .xlsx.
func (s *Service) WriteRecords(path string, records []fields.FieldRecord) error {
	start := time.Now()
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = s.writeJSON(path, records)
	case ".csv":
		err = s.writeCSV(path, records)
	case ".xlsx":
		err = s.writeXLSX(path, records)
	default:
		return fmt.Errorf("unsupported output format %q: use .json, .csv or .xlsx", ext)
	}
	if err != nil {
		return err
	}
	s.logger.Info("export.ok",
		"path", path,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// WriteComparisons serializes comparison records plus run statistics.
// Comparison output is JSON only; the tabular targets apply to plain field
// records.
func (s *Service) WriteComparisons(path string, records []compare.Record, stats compare.Stats) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return fmt.Errorf("unsupported comparison output format %q: use .json", ext)
	}
	out := struct {
		Records []compare.Record `json:"records"`
		Stats   compare.Stats    `json:"stats"`
	}{Records: records, Stats: stats}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode comparisons: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write comparisons: %w", err)
	}
	s.logger.Info("export.ok", "path", path, "rows", len(records), "scored", stats.Scored)
	return nil
}

func (s *Service) writeJSON(path string, records []fields.FieldRecord) error {
	if records == nil {
		records = []fields.FieldRecord{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

func (s *Service) writeCSV(path string, records []fields.FieldRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("export.csv.close_error", "path", path, "error", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellString(rec.Value(col))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Service) writeXLSX(path string, records []fields.FieldRecord) error {
	f := excelize.NewFile()
	const sheet = "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, rec := range records {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if v := rec.Value(col); v != nil {
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
	}

	// Widen the text-heavy columns.
	_ = f.SetColWidth(sheet, "B", "D", 24)
	_ = f.SetColWidth(sheet, "G", "G", 36)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// cellString renders a field value for tabular output; null stays an empty
// cell, never a sentinel word.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.2f", t)
	}
	return fmt.Sprintf("%v", v)
}
