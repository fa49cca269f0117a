package store

import (
	"context"
	"sync"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/models"
)

// MemoryRepository keeps records in process, one append-only slice per owner.
// Records are cloned on the way in and out.
type MemoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]*models.OutcomeRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byOwner: make(map[string][]*models.OutcomeRecord)}
}

func (r *MemoryRepository) Driver() string { return config.StoreMemory }

func (r *MemoryRepository) Insert(_ context.Context, rec *models.OutcomeRecord) error {
	cp := rec.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOwner[rec.Owner] = append(r.byOwner[rec.Owner], cp)
	return nil
}

func (r *MemoryRepository) List(_ context.Context, owner string) ([]*models.OutcomeRecord, error) {
	r.mu.RLock()
	recs := r.byOwner[owner]
	out := make([]*models.OutcomeRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Clone())
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, owner, id string) (*models.OutcomeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.byOwner[owner] {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Delete(_ context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := r.byOwner[owner]
	for i, rec := range recs {
		if rec.ID == id {
			r.byOwner[owner] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
