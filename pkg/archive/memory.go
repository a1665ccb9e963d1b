package archive

import (
	"context"
	"sort"
	"sync"
)

// MemoryArchive implements Archive using an in-memory slice. Intended for
// tests and development.
type MemoryArchive struct {
	entries []*Entry
	mu      sync.RWMutex
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{}
}

// Store persists a terminal outcome.
func (a *MemoryArchive) Store(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return NewStorageError("memory", "store", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	stored := *entry
	a.entries = append(a.entries, &stored)
	return nil
}

// Find returns entries matching the query, most recent first.
func (a *MemoryArchive) Find(ctx context.Context, query *Query) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError("memory", "find", err)
	}
	if query == nil {
		query = &Query{}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var results []*Entry
	for _, entry := range a.entries {
		if matchesQuery(entry, query) {
			e := *entry
			results = append(results, &e)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DecidedAt.After(results[j].DecidedAt)
	})

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

// Close releases resources held by the archive.
func (a *MemoryArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = nil
	return nil
}

// matchesQuery checks if an entry matches the query filters.
func matchesQuery(entry *Entry, query *Query) bool {
	if query.ClaimType != "" && entry.ClaimType != query.ClaimType {
		return false
	}
	if query.Outcome != "" && entry.Outcome != query.Outcome {
		return false
	}
	if query.DecisionMakerID != "" && entry.DecisionMakerID != query.DecisionMakerID {
		return false
	}
	if query.Since != nil && entry.DecidedAt.Before(*query.Since) {
		return false
	}
	if query.Until != nil && entry.DecidedAt.After(*query.Until) {
		return false
	}
	return true
}
