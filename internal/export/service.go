// Package export writes the pipeline's outputs: the three per-batch JSON
// documents keyed by message id, and an optional XLSX order summary.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/order-intake/internal/entity"
	"github.com/joseph-ayodele/order-intake/internal/pipeline"
)

// Output file names, relative to the output directory.
const (
	ExtractedOrdersFile = "extracted_orders.json"
	ValidatedOrdersFile = "validated_orders.json"
	FinalOrdersFile     = "final_orders.json"
)

type Service struct {
	logger    *slog.Logger
	validator *SummaryValidator
}

func NewService(logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	validator, err := NewSummaryValidator()
	if err != nil {
		return nil, err
	}
	return &Service{logger: logger, validator: validator}, nil
}

// WriteBatch writes all three JSON documents for a batch into dir,
// creating it if needed. Every final summary is schema-validated first.
func (s *Service) WriteBatch(dir string, res pipeline.BatchResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := s.writeJSON(filepath.Join(dir, ExtractedOrdersFile), res.Drafts); err != nil {
		return err
	}
	if err := s.writeJSON(filepath.Join(dir, ValidatedOrdersFile), res.Validated); err != nil {
		return err
	}
	if err := s.CheckSummaries(res.Summaries); err != nil {
		return err
	}
	return s.writeJSON(filepath.Join(dir, FinalOrdersFile), res.Summaries)
}

// CheckSummaries validates every final summary against the output schema.
func (s *Service) CheckSummaries(summaries map[string]entity.OrderSummary) error {
	for id, summary := range summaries {
		b, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal summary %s: %w", id, err)
		}
		if err := s.validator.Validate(b); err != nil {
			return fmt.Errorf("summary %s: %w", id, err)
		}
	}
	return nil
}

func (s *Service) writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	s.logger.Info("export.json.ok", "path", path, "bytes", len(b))
	return nil
}

// WriteSummariesXLSX writes an order-summary workbook: one row per line
// item, with the order-level columns repeated. Rows are ordered by message
// id so repeated exports of the same batch are identical.
func (s *Service) WriteSummariesXLSX(path string, summaries map[string]entity.OrderSummary) error {
	start := time.Now()

	ids := make([]string, 0, len(summaries))
	for id := range summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Message",
		"Customer",
		"Delivery Date",
		"Address",
		"SKU",
		"Product",
		"Quantity",
		"Price",
		"Line Total",
		"Valid",
		"Issue",
		"Order Total",
		"Notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, id := range ids {
		summary := summaries[id]
		for _, item := range summary.Items {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}

			product := item.ProductName
			if product == "" {
				product = item.Name
			}
			write(1, id)
			write(2, summary.Customer)
			write(3, summary.DeliveryDate)
			write(4, summary.Address)
			write(5, item.SKU)
			write(6, product)
			write(7, item.Quantity)
			if item.Price != nil {
				write(8, *item.Price)
			}
			if item.Total != nil {
				write(9, *item.Total)
			}
			write(10, item.Valid)
			if item.Issue != nil {
				write(11, *item.Issue)
			}
			write(12, summary.TotalAmount)
			write(13, summary.Notes)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24) // message id
	_ = f.SetColWidth(sheet, "B", "B", 20) // customer
	_ = f.SetColWidth(sheet, "D", "D", 40) // address
	_ = f.SetColWidth(sheet, "F", "F", 28) // product
	_ = f.SetColWidth(sheet, "K", "K", 34) // issue
	_ = f.SetColWidth(sheet, "M", "M", 48) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	s.logger.Info("export.xlsx.ok",
		"path", path,
		"orders", len(ids),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
