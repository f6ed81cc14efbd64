package export

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/order-intake/internal/entity"
	"github.com/joseph-ayodele/order-intake/internal/format"
	"github.com/joseph-ayodele/order-intake/internal/pipeline"
)

func f64(v float64) *float64 { return &v }
func strp(s string) *string  { return &s }

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return svc
}

func sampleSummary() entity.OrderSummary {
	return entity.OrderSummary{
		Customer:     "Jane Doe",
		DeliveryDate: "2024-03-05",
		Address:      "123 Main St, Springfield, IL",
		Items: []entity.ValidatedItem{
			{
				SKU:         "P001",
				ProductName: "Widget A",
				Quantity:    3,
				Price:       f64(2.5),
				Total:       f64(7.5),
				Valid:       true,
			},
			{
				Name:     "flux capacitor",
				Quantity: 1,
				Valid:    false,
				Issue:    strp("Product not found in catalog"),
			},
		},
		TotalAmount: 7.5,
		Notes:       format.NotesIssues,
	}
}

func TestValidatorAcceptsPipelineOutput(t *testing.T) {
	svc := testService(t)

	for name, summary := range map[string]entity.OrderSummary{
		"mixed": sampleSummary(),
		"empty": {
			Customer:     entity.Unknown,
			DeliveryDate: entity.Unknown,
			Address:      entity.Unknown,
			Items:        []entity.ValidatedItem{},
			Notes:        format.NotesOK,
		},
	} {
		require.NoError(t, svc.CheckSummaries(map[string]entity.OrderSummary{name: summary}), name)
	}
}

func TestValidatorRejectsMalformedDocuments(t *testing.T) {
	svc := testService(t)

	cases := map[string]string{
		"bad delivery date": `{"customer":"A","delivery_date":"tomorrow","address":"x","items":[],"total_amount":0,"notes":"ok"}`,
		"zero quantity":     `{"customer":"A","delivery_date":"Unknown","address":"x","items":[{"quantity":0,"valid":true,"issue":null,"suggested_alternative":null}],"total_amount":0,"notes":"ok"}`,
		"missing issue":     `{"customer":"A","delivery_date":"Unknown","address":"x","items":[{"quantity":1,"valid":true,"suggested_alternative":null}],"total_amount":0,"notes":"ok"}`,
		"unknown field":     `{"customer":"A","delivery_date":"Unknown","address":"x","items":[],"total_amount":0,"notes":"ok","extra":true}`,
		"negative total":    `{"customer":"A","delivery_date":"Unknown","address":"x","items":[],"total_amount":-1,"notes":"ok"}`,
	}
	for name, doc := range cases {
		assert.Error(t, svc.validator.Validate([]byte(doc)), name)
	}
}

func TestWriteBatch(t *testing.T) {
	svc := testService(t)
	dir := filepath.Join(t.TempDir(), "out")

	summary := sampleSummary()
	res := pipeline.BatchResult{
		Drafts: map[string]entity.DraftOrder{
			"email_001.txt": {Customer: "Jane Doe", DeliveryDate: "2024-03-05", Address: summary.Address, Items: []entity.RequestedItem{{Name: "Widget A", Quantity: 3}}},
		},
		Validated: map[string]entity.ValidatedOrder{
			"email_001.txt": {Customer: "Jane Doe", DeliveryDate: "2024-03-05", Address: summary.Address, Items: summary.Items},
		},
		Summaries: map[string]entity.OrderSummary{"email_001.txt": summary},
	}

	require.NoError(t, svc.WriteBatch(dir, res))

	var drafts map[string]entity.DraftOrder
	readJSON(t, filepath.Join(dir, ExtractedOrdersFile), &drafts)
	assert.Equal(t, res.Drafts, drafts)

	var validated map[string]entity.ValidatedOrder
	readJSON(t, filepath.Join(dir, ValidatedOrdersFile), &validated)
	assert.Equal(t, res.Validated, validated)

	var finals map[string]entity.OrderSummary
	readJSON(t, filepath.Join(dir, FinalOrdersFile), &finals)
	assert.Equal(t, res.Summaries, finals)

	// The unmatched item must serialize issue explicitly, not drop it.
	raw, err := os.ReadFile(filepath.Join(dir, FinalOrdersFile))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte(`"issue": null`)))
	assert.True(t, bytes.Contains(raw, []byte(`"issue": "Product not found in catalog"`)))
}

func TestWriteBatchRejectsInvalidSummary(t *testing.T) {
	svc := testService(t)
	dir := t.TempDir()

	bad := sampleSummary()
	bad.Notes = "" // violates the schema

	err := svc.WriteBatch(dir, pipeline.BatchResult{
		Drafts:    map[string]entity.DraftOrder{},
		Validated: map[string]entity.ValidatedOrder{},
		Summaries: map[string]entity.OrderSummary{"bad.txt": bad},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")

	_, statErr := os.Stat(filepath.Join(dir, FinalOrdersFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteSummariesXLSX(t *testing.T) {
	svc := testService(t)
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	summaries := map[string]entity.OrderSummary{
		"b.txt": sampleSummary(),
		"a.txt": {
			Customer:     "Bob Smith",
			DeliveryDate: entity.Unknown,
			Address:      entity.Unknown,
			Items: []entity.ValidatedItem{
				{SKU: "P002", ProductName: "Widget B", Quantity: 10, Price: f64(3.0), Total: f64(30.0), Valid: true},
			},
			TotalAmount: 30.0,
			Notes:       format.NotesOK,
		},
	}

	require.NoError(t, svc.WriteSummariesXLSX(path, summaries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 1 item for a.txt + 2 items for b.txt

	assert.Equal(t, "Message", rows[0][0])
	// Rows are sorted by message id, so a.txt comes first.
	assert.Equal(t, "a.txt", rows[1][0])
	assert.Equal(t, "Bob Smith", rows[1][1])
	assert.Equal(t, "Widget B", rows[1][5])
	assert.Equal(t, "b.txt", rows[2][0])
	assert.Equal(t, "Widget A", rows[2][5])
	// The unmatched item falls back to the requested name.
	assert.Equal(t, "flux capacitor", rows[3][5])
}

func TestStoreEmitAccumulates(t *testing.T) {
	svc := testService(t)
	dir := filepath.Join(t.TempDir(), "out")
	store := NewStore(dir, svc)

	first := pipeline.Result{
		ID:        "a.txt",
		Draft:     entity.DraftOrder{Customer: "A", DeliveryDate: entity.Unknown, Address: entity.Unknown, Items: []entity.RequestedItem{}},
		Validated: entity.ValidatedOrder{Customer: "A", DeliveryDate: entity.Unknown, Address: entity.Unknown, Items: []entity.ValidatedItem{}},
		Summary: entity.OrderSummary{
			Customer: "A", DeliveryDate: entity.Unknown, Address: entity.Unknown,
			Items: []entity.ValidatedItem{}, Notes: format.NotesOK,
		},
	}
	require.NoError(t, store.Emit(first))
	assert.Equal(t, 1, store.Size())

	second := first
	second.ID = "b.txt"
	second.Summary.Customer = "B"
	require.NoError(t, store.Emit(second))
	assert.Equal(t, 2, store.Size())

	var finals map[string]entity.OrderSummary
	readJSON(t, filepath.Join(dir, FinalOrdersFile), &finals)
	require.Len(t, finals, 2)
	assert.Equal(t, "B", finals["b.txt"].Customer)

	// Re-emitting the same id overwrites, not appends.
	second.Summary.Customer = "B2"
	require.NoError(t, store.Emit(second))
	assert.Equal(t, 2, store.Size())
	readJSON(t, filepath.Join(dir, FinalOrdersFile), &finals)
	assert.Equal(t, "B2", finals["b.txt"].Customer)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}
