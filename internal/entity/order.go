package entity

// Unknown is the sentinel emitted on the wire for fields that could not be
// extracted from a message. Internally extraction reports (value, ok) pairs;
// the sentinel is applied only when a draft order is assembled.
const Unknown = "Unknown"

// RawMessage is one purchase-request message, read once and never mutated.
// ID is the stable identifier (source filename or message id) used as the
// join key across all pipeline stages.
type RawMessage struct {
	ID   string
	Text string
}

// RequestedItem is one line item recognized in a message.
type RequestedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DraftOrder is the unvalidated result of text extraction.
type DraftOrder struct {
	Customer     string          `json:"customer"`
	DeliveryDate string          `json:"delivery_date"`
	Address      string          `json:"address"`
	Items        []RequestedItem `json:"items"`
}

// Suggestion is attached to an invalid item. For quantity-policy violations
// only SuggestedQty is set; for fuzzy-matched alternatives the remaining
// fields describe the candidate catalog entry.
type Suggestion struct {
	SuggestedQty  *int     `json:"suggested_qty,omitempty"`
	SuggestedName string   `json:"suggested_name,omitempty"`
	SKU           string   `json:"sku,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	MOQ           *int     `json:"moq,omitempty"`
	Available     *int     `json:"available,omitempty"`
}

// ValidatedItem is the reconciliation outcome for one requested item.
// Catalog matches carry SKU/ProductName/Price/Total; unmatched requests keep
// the original Name instead. Issue and Suggested stay null for a clean match.
type ValidatedItem struct {
	SKU         string      `json:"sku,omitempty"`
	ProductName string      `json:"product_name,omitempty"`
	Name        string      `json:"name,omitempty"`
	Quantity    int         `json:"quantity"`
	Price       *float64    `json:"price,omitempty"`
	Total       *float64    `json:"total,omitempty"`
	Valid       bool        `json:"valid"`
	Issue       *string     `json:"issue"`
	Suggested   *Suggestion `json:"suggested_alternative"`
}

// ValidatedOrder is a draft order whose items have been reconciled against
// the catalog, one-for-one and in order.
type ValidatedOrder struct {
	Customer     string          `json:"customer"`
	Address      string          `json:"address"`
	DeliveryDate string          `json:"delivery_date"`
	Items        []ValidatedItem `json:"items"`
}

// OrderSummary is the final per-order record: the full item list plus the
// computed order total and a human-readable note.
type OrderSummary struct {
	Customer     string          `json:"customer"`
	DeliveryDate string          `json:"delivery_date"`
	Address      string          `json:"address"`
	Items        []ValidatedItem `json:"items"`
	TotalAmount  float64         `json:"total_amount"`
	Notes        string          `json:"notes"`
}
