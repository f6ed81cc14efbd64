package export

import (
	"sync"

	"github.com/joseph-ayodele/order-intake/internal/entity"
	"github.com/joseph-ayodele/order-intake/internal/pipeline"
)

// Store accumulates results in watch mode and rewrites the batch documents
// after every processed message, so the output directory always reflects
// everything seen so far. It satisfies the worker queue's Sink.
type Store struct {
	mu  sync.Mutex
	dir string
	svc *Service
	res pipeline.BatchResult
}

func NewStore(dir string, svc *Service) *Store {
	return &Store{
		dir: dir,
		svc: svc,
		res: pipeline.BatchResult{
			Drafts:    map[string]entity.DraftOrder{},
			Validated: map[string]entity.ValidatedOrder{},
			Summaries: map[string]entity.OrderSummary{},
		},
	}
}

// Emit records one result and rewrites the output files. Reprocessing the
// same message id (an updated file) overwrites its previous entry.
func (st *Store) Emit(res pipeline.Result) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.res.Drafts[res.ID] = res.Draft
	st.res.Validated[res.ID] = res.Validated
	st.res.Summaries[res.ID] = res.Summary
	return st.svc.WriteBatch(st.dir, st.res)
}

// Size reports how many messages have been recorded.
func (st *Store) Size() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.res.Summaries)
}
