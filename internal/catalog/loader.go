package catalog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/order-intake/internal/common"
	"github.com/joseph-ayodele/order-intake/internal/entity"
)

// Expected catalog columns. Header cells may carry incidental surrounding
// whitespace and are trimmed before use.
const (
	colProductName = "Product_Name"
	colProductCode = "Product_Code"
	colPrice       = "Price"
	colMinOrderQty = "Min_Order_Quantity"
	colStock       = "Available_in_Stock"
)

var requiredColumns = []string{colProductName, colProductCode, colPrice, colMinOrderQty, colStock}

// Load reads a catalog file into a snapshot, dispatching on extension
// (.csv or .xlsx). Malformed rows are excluded and logged as data-quality
// issues rather than failing the batch; a missing required column fails
// the whole load, since nothing useful can be matched without it.
func Load(path string, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, logger)
	case ".xlsx":
		return LoadXLSX(path, logger)
	default:
		return nil, common.NewAppError("CATALOG_FORMAT", fmt.Sprintf("unsupported catalog format %q", filepath.Ext(path)), common.ErrInvalidInput)
	}
}

// LoadCSV reads a CSV catalog.
func LoadCSV(path string, logger *slog.Logger) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	return snapshotFromRows(rows, path, logger)
}

// LoadXLSX reads the first sheet of an XLSX workbook as a catalog.
func LoadXLSX(path string, logger *slog.Logger) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("CATALOG_EMPTY", "workbook has no sheets", common.ErrDataQuality)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read catalog sheet %q: %w", sheets[0], err)
	}
	return snapshotFromRows(rows, path, logger)
}

// snapshotFromRows maps the trimmed header onto column indexes, then parses
// each data row. Rows that cannot be fully typed are skipped and logged —
// a partially-typed value must never reach a validated item.
func snapshotFromRows(rows [][]string, source string, logger *slog.Logger) (*Snapshot, error) {
	if len(rows) == 0 {
		return nil, common.NewAppError("CATALOG_EMPTY", "catalog has no header row", common.ErrDataQuality)
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, common.NewAppError("CATALOG_HEADER",
				fmt.Sprintf("missing required column %q", col), common.ErrDataQuality)
		}
	}

	var entries []entity.CatalogEntry
	skipped := 0
	for n, row := range rows[1:] {
		entry, err := rowToEntry(row, colIdx)
		if err != nil {
			skipped++
			logger.Warn("catalog.row.skipped", "source", source, "row", n+2, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	logger.Info("catalog.loaded", "source", source, "entries", len(entries), "skipped", skipped)
	return NewSnapshot(entries), nil
}

func rowToEntry(row []string, colIdx map[string]int) (entity.CatalogEntry, error) {
	cell := func(col string) (string, error) {
		i := colIdx[col]
		if i >= len(row) {
			return "", fmt.Errorf("missing %s", col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	var entry entity.CatalogEntry
	name, err := cell(colProductName)
	if err != nil {
		return entry, err
	}
	if name == "" {
		return entry, fmt.Errorf("empty %s", colProductName)
	}
	sku, err := cell(colProductCode)
	if err != nil {
		return entry, err
	}

	priceStr, err := cell(colPrice)
	if err != nil {
		return entry, err
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return entry, fmt.Errorf("non-numeric %s %q", colPrice, priceStr)
	}

	moqStr, err := cell(colMinOrderQty)
	if err != nil {
		return entry, err
	}
	moq, err := strconv.Atoi(moqStr)
	if err != nil {
		return entry, fmt.Errorf("non-numeric %s %q", colMinOrderQty, moqStr)
	}

	stockStr, err := cell(colStock)
	if err != nil {
		return entry, err
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		return entry, fmt.Errorf("non-numeric %s %q", colStock, stockStr)
	}

	return entity.CatalogEntry{
		SKU:            sku,
		ProductName:    name,
		NormalizedName: Normalize(name),
		Price:          price,
		MinOrderQty:    moq,
		StockAvailable: stock,
	}, nil
}
