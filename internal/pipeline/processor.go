// Package pipeline coordinates the per-message stages: extract a draft
// order, reconcile it against the catalog, and summarize the result.
package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/order-intake/internal/entity"
	"github.com/joseph-ayodele/order-intake/internal/extract"
	"github.com/joseph-ayodele/order-intake/internal/format"
	"github.com/joseph-ayodele/order-intake/internal/reconcile"
)

// Processor runs extraction then reconciliation for one message at a time.
// It holds no per-message state, so a single Processor is safe to share
// across workers as long as the catalog snapshot behind the reconciler
// stays read-only.
type Processor struct {
	logger     *slog.Logger
	extractor  *extract.Extractor
	reconciler *reconcile.Reconciler
}

func NewProcessor(logger *slog.Logger, extractor *extract.Extractor, reconciler *reconcile.Reconciler) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, extractor: extractor, reconciler: reconciler}
}

// Result carries every stage's output for one message.
type Result struct {
	ID        string
	Draft     entity.DraftOrder
	Validated entity.ValidatedOrder
	Summary   entity.OrderSummary
}

// ProcessMessage runs all stages for one message. Extraction degrades to
// sentinels rather than failing, and reconciliation outcomes are states,
// so processing a readable message cannot fail.
func (p *Processor) ProcessMessage(msg entity.RawMessage) Result {
	draft := p.extractor.Extract(msg)
	p.logger.Debug("processor.extract.ok",
		"message_id", msg.ID,
		"customer", draft.Customer,
		"items", len(draft.Items),
	)

	validated := p.reconciler.Reconcile(draft)
	p.logger.Debug("processor.reconcile.ok", "message_id", msg.ID)

	return Result{
		ID:        msg.ID,
		Draft:     draft,
		Validated: validated,
		Summary:   format.Summarize(validated),
	}
}

// BatchResult aggregates a whole run, keyed by message id.
type BatchResult struct {
	Drafts    map[string]entity.DraftOrder
	Validated map[string]entity.ValidatedOrder
	Summaries map[string]entity.OrderSummary
}

// ProcessAll processes every message independently. Messages do not share
// mutable state, so one odd message cannot poison the rest of the batch.
func (p *Processor) ProcessAll(msgs []entity.RawMessage) BatchResult {
	res := BatchResult{
		Drafts:    make(map[string]entity.DraftOrder, len(msgs)),
		Validated: make(map[string]entity.ValidatedOrder, len(msgs)),
		Summaries: make(map[string]entity.OrderSummary, len(msgs)),
	}
	for _, msg := range msgs {
		r := p.ProcessMessage(msg)
		res.Drafts[r.ID] = r.Draft
		res.Validated[r.ID] = r.Validated
		res.Summaries[r.ID] = r.Summary
	}
	return res
}
