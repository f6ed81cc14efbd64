// Package format turns validated orders into final per-order summaries.
// It is a pure aggregation pass: the item list goes through unchanged, and
// only items already marked valid contribute to the order total.
package format

import "github.com/joseph-ayodele/order-intake/internal/entity"

const (
	// NotesIssues is attached when any item failed validation.
	NotesIssues = "Some items did not meet MOQ or stock requirements."
	// NotesOK is attached when every item validated cleanly.
	NotesOK = "No issues noted."
)

// Summarize builds the final summary for one validated order.
func Summarize(order entity.ValidatedOrder) entity.OrderSummary {
	var total float64
	hasIssue := false
	for _, item := range order.Items {
		if !item.Valid {
			hasIssue = true
			continue
		}
		if item.Total != nil {
			total += *item.Total
		}
	}

	notes := NotesOK
	if hasIssue {
		notes = NotesIssues
	}
	return entity.OrderSummary{
		Customer:     order.Customer,
		DeliveryDate: order.DeliveryDate,
		Address:      order.Address,
		Items:        order.Items,
		TotalAmount:  entity.Round2(total),
		Notes:        notes,
	}
}

// SummarizeAll summarizes every order in a batch, keyed by message id.
func SummarizeAll(orders map[string]entity.ValidatedOrder) map[string]entity.OrderSummary {
	summaries := make(map[string]entity.OrderSummary, len(orders))
	for id, order := range orders {
		summaries[id] = Summarize(order)
	}
	return summaries
}
