// Package reconcile joins draft orders against the catalog snapshot and
// annotates every requested item with a validity state. "Not found" and
// "quantity out of policy" are first-class outcomes here, not errors.
package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/order-intake/internal/catalog"
	"github.com/joseph-ayodele/order-intake/internal/entity"
	"github.com/joseph-ayodele/order-intake/internal/match"
)

const issueNotFound = "Product not found in catalog"

// DefaultCutoff is the inclusive similarity threshold for suggesting a
// fuzzy-matched alternative product.
const DefaultCutoff = 0.7

type Reconciler struct {
	snap   *catalog.Snapshot
	cutoff float64
	logger *slog.Logger
}

type Option func(*Reconciler)

// WithCutoff overrides the fuzzy-match threshold.
func WithCutoff(cutoff float64) Option {
	return func(r *Reconciler) {
		if cutoff >= 0 && cutoff <= 1 {
			r.cutoff = cutoff
		}
	}
}

func NewReconciler(snap *catalog.Snapshot, logger *slog.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconciler{snap: snap, cutoff: DefaultCutoff, logger: logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reconcile resolves every requested item against the catalog, replacing
// items one-for-one and in order. Customer, address, and delivery date pass
// through untouched.
func (r *Reconciler) Reconcile(draft entity.DraftOrder) entity.ValidatedOrder {
	items := make([]entity.ValidatedItem, 0, len(draft.Items))
	for _, req := range draft.Items {
		items = append(items, r.reconcileItem(req))
	}
	return entity.ValidatedOrder{
		Customer:     draft.Customer,
		Address:      draft.Address,
		DeliveryDate: draft.DeliveryDate,
		Items:        items,
	}
}

func (r *Reconciler) reconcileItem(req entity.RequestedItem) entity.ValidatedItem {
	entry, ok := r.snap.Lookup(catalog.Normalize(req.Name))
	if !ok {
		return r.unmatched(req)
	}

	item := entity.ValidatedItem{
		SKU:         entry.SKU,
		ProductName: entry.ProductName,
		Quantity:    req.Quantity,
		Price:       f64ptr(entry.Price),
		Total:       f64ptr(entity.Round2(entry.Price * float64(req.Quantity))),
		Valid:       entry.MinOrderQty <= req.Quantity && req.Quantity <= entry.StockAvailable,
	}
	switch {
	case req.Quantity < entry.MinOrderQty:
		item.Issue = strptr(fmt.Sprintf("Quantity below MOQ (%d)", entry.MinOrderQty))
		item.Suggested = &entity.Suggestion{SuggestedQty: intptr(entry.MinOrderQty)}
	case req.Quantity > entry.StockAvailable:
		item.Issue = strptr(fmt.Sprintf("Quantity exceeds stock (%d)", entry.StockAvailable))
		item.Suggested = &entity.Suggestion{SuggestedQty: intptr(entry.StockAvailable)}
	}
	return item
}

// unmatched builds the not-found outcome, attaching the best fuzzy
// candidate above the cutoff when one exists.
func (r *Reconciler) unmatched(req entity.RequestedItem) entity.ValidatedItem {
	item := entity.ValidatedItem{
		Name:     req.Name,
		Quantity: req.Quantity,
		Valid:    false,
		Issue:    strptr(issueNotFound),
	}
	name, score, ok := match.Closest(catalog.Normalize(req.Name), r.snap.Names(), r.cutoff)
	if !ok {
		return item
	}
	alt, _ := r.snap.Lookup(name)
	item.Suggested = &entity.Suggestion{
		SuggestedName: alt.ProductName,
		SKU:           alt.SKU,
		Price:         f64ptr(alt.Price),
		MOQ:           intptr(alt.MinOrderQty),
		Available:     intptr(alt.StockAvailable),
	}
	r.logger.Debug("reconcile.fuzzy.suggested",
		"requested", req.Name,
		"candidate", alt.ProductName,
		"score", score,
	)
	return item
}

func f64ptr(v float64) *float64 { return &v }
func intptr(v int) *int         { return &v }
func strptr(v string) *string   { return &v }
