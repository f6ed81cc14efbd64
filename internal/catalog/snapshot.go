// Package catalog loads the product catalog and exposes it as an
// immutable, indexed snapshot. The snapshot is built once per batch and is
// safe for concurrent readers, which is what lets the watch-mode workers
// share it without locking.
package catalog

import (
	"strings"

	"github.com/joseph-ayodele/order-intake/internal/entity"
)

// Normalize lowercases and trims a product or requested-item name. This is
// the join key for all catalog lookups.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Snapshot is a read-only view of the catalog indexed by normalized name.
type Snapshot struct {
	entries []entity.CatalogEntry
	byName  map[string]*entity.CatalogEntry
	names   []string
}

// NewSnapshot indexes entries by normalized name. When two entries collide
// on the key, the first one encountered wins; later duplicates are ignored
// for matching.
func NewSnapshot(entries []entity.CatalogEntry) *Snapshot {
	s := &Snapshot{
		entries: entries,
		byName:  make(map[string]*entity.CatalogEntry, len(entries)),
		names:   make([]string, 0, len(entries)),
	}
	for i := range s.entries {
		e := &s.entries[i]
		if e.NormalizedName == "" {
			e.NormalizedName = Normalize(e.ProductName)
		}
		if _, exists := s.byName[e.NormalizedName]; exists {
			continue
		}
		s.byName[e.NormalizedName] = e
		s.names = append(s.names, e.NormalizedName)
	}
	return s
}

// Lookup returns the entry for a normalized name.
func (s *Snapshot) Lookup(normalized string) (*entity.CatalogEntry, bool) {
	e, ok := s.byName[normalized]
	return e, ok
}

// Names returns the normalized names in load order. Fuzzy matching scans
// this slice, so candidate order — and therefore tie-breaking — is stable
// across runs. Callers must not mutate it.
func (s *Snapshot) Names() []string {
	return s.names
}

// Len reports the number of indexed entries.
func (s *Snapshot) Len() int {
	return len(s.names)
}
