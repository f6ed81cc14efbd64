package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	// Header cells carry incidental whitespace, which must be trimmed.
	path := writeTempCSV(t, ""+
		" Product_Name ,Product_Code, Price ,Min_Order_Quantity, Available_in_Stock \n"+
		"Widget A,P001,2.50,5,100\n"+
		" Widget B ,P002,3,10,50\n")

	snap, err := LoadCSV(path, slog.Default())
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	entry, ok := snap.Lookup("widget a")
	require.True(t, ok)
	assert.Equal(t, "P001", entry.SKU)
	assert.Equal(t, "Widget A", entry.ProductName)
	assert.Equal(t, 2.5, entry.Price)
	assert.Equal(t, 5, entry.MinOrderQty)
	assert.Equal(t, 100, entry.StockAvailable)

	// Cell whitespace is trimmed before normalization.
	entry, ok = snap.Lookup("widget b")
	require.True(t, ok)
	assert.Equal(t, "Widget B", entry.ProductName)
}

func TestLoadCSVSkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, ""+
		"Product_Name,Product_Code,Price,Min_Order_Quantity,Available_in_Stock\n"+
		"Widget A,P001,2.50,5,100\n"+
		"Bad Price,P003,cheap,5,100\n"+
		"Bad MOQ,P004,1.00,lots,100\n"+
		"Bad Stock,P005,1.00,5,plenty\n"+
		",P006,1.00,5,100\n"+
		"Short Row,P007,1.00\n"+
		"Widget B,P002,3.00,10,50\n")

	snap, err := LoadCSV(path, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, []string{"widget a", "widget b"}, snap.Names())
}

func TestLoadCSVMissingColumnFails(t *testing.T) {
	path := writeTempCSV(t, ""+
		"Product_Name,Product_Code,Price,Min_Order_Quantity\n"+
		"Widget A,P001,2.50,5\n")

	_, err := LoadCSV(path, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available_in_Stock")
}

func TestLoadXLSXMatchesCSV(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Product_Name", "Product_Code", "Price", "Min_Order_Quantity", "Available_in_Stock"},
		{"Widget A", "P001", 2.5, 5, 100},
		{"Gizmo", "P003", 10, 1, 5},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	snap, err := Load(xlsxPath, slog.Default())
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	entry, ok := snap.Lookup("gizmo")
	require.True(t, ok)
	assert.Equal(t, "P003", entry.SKU)
	assert.Equal(t, 10.0, entry.Price)
	assert.Equal(t, 1, entry.MinOrderQty)
	assert.Equal(t, 5, entry.StockAvailable)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path, slog.Default())
	assert.Error(t, err)
}
