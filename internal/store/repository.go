// Package store persists completed simulations, scoped to their owner.
package store

import (
	"context"
	"errors"
	"sort"

	"prouni-simulator/internal/models"
)

// ErrNotFound is returned by repositories when no record matches owner and id.
var ErrNotFound = errors.New("record not found")

// Repository is a storage backend. Implementations never assign ids or
// timestamps; RecordStore does that before Insert.
type Repository interface {
	Driver() string
	Insert(ctx context.Context, rec *models.OutcomeRecord) error
	// List returns the owner's records, most recent first.
	List(ctx context.Context, owner string) ([]*models.OutcomeRecord, error)
	Get(ctx context.Context, owner, id string) (*models.OutcomeRecord, error)
	Delete(ctx context.Context, owner, id string) error
}

// sortNewestFirst orders by CreatedAt, breaking ties with the time-ordered id.
func sortNewestFirst(recs []*models.OutcomeRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}
