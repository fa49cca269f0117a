package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"prouni-simulator/internal/common/auth"
	"prouni-simulator/internal/common/config"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/common/metrics"
	"prouni-simulator/internal/models"
)

// RecordStore scopes a Repository to the identity found in the context and
// assigns ids and timestamps on create.
type RecordStore struct {
	repo     Repository
	demoMode bool
	timeout  time.Duration
	logger   logger.Logger
	now      func() time.Time
}

type Option func(*RecordStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *RecordStore) { s.now = now }
}

func NewRecordStore(repo Repository, cfg config.StoreConfig, log logger.Logger, opts ...Option) *RecordStore {
	s := &RecordStore{
		repo:     repo,
		demoMode: cfg.DemoMode,
		timeout:  config.GetDuration(cfg.Timeout),
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecordStore) Driver() string { return s.repo.Driver() }

// Create saves rec under the caller's owner. The returned copy carries the
// assigned id, owner and UTC creation time; rec itself is not modified.
func (s *RecordStore) Create(ctx context.Context, rec *models.OutcomeRecord) (*models.OutcomeRecord, error) {
	owner, err := s.owner(ctx, "store.create")
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, s.fail("create", apperrors.NewPersistenceError("store.create", err))
	}

	saved := rec.Clone()
	saved.ID = id.String()
	saved.Owner = owner
	saved.CreatedAt = s.now().UTC()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Insert(ctx, saved); err != nil {
		return nil, s.fail("create", apperrors.NewPersistenceError("store.create", err))
	}
	s.observe("create", "success")

	s.logger.Debug("simulation record saved", map[string]interface{}{
		"recordId": saved.ID,
		"owner":    owner,
		"driver":   s.repo.Driver(),
	})
	return saved, nil
}

// List returns the caller's records, most recent first.
func (s *RecordStore) List(ctx context.Context) ([]*models.OutcomeRecord, error) {
	owner, err := s.owner(ctx, "store.list")
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	recs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, s.fail("list", apperrors.NewPersistenceError("store.list", err))
	}
	s.observe("list", "success")
	if recs == nil {
		recs = []*models.OutcomeRecord{}
	}
	return recs, nil
}

func (s *RecordStore) Get(ctx context.Context, id string) (*models.OutcomeRecord, error) {
	owner, err := s.owner(ctx, "store.get")
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rec, err := s.repo.Get(ctx, owner, id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.observe("get", "not_found")
		return nil, apperrors.NewRecordNotFoundError(id)
	case err != nil:
		return nil, s.fail("get", apperrors.NewPersistenceError("store.get", err))
	}
	s.observe("get", "success")
	return rec, nil
}

func (s *RecordStore) Delete(ctx context.Context, id string) error {
	owner, err := s.owner(ctx, "store.delete")
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.repo.Delete(ctx, owner, id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.observe("delete", "not_found")
		return apperrors.NewRecordNotFoundError(id)
	case err != nil:
		return s.fail("delete", apperrors.NewPersistenceError("store.delete", err))
	}
	s.observe("delete", "success")
	return nil
}

func (s *RecordStore) owner(ctx context.Context, op string) (string, error) {
	if id, ok := auth.FromContext(ctx); ok {
		return id.Owner, nil
	}
	if s.demoMode {
		return auth.LocalOwner, nil
	}
	return "", apperrors.NewAuthenticationRequiredError(op)
}

func (s *RecordStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *RecordStore) fail(op string, err *apperrors.StandardError) error {
	s.observe(op, "error")
	s.logger.Error("record store operation failed", map[string]interface{}{
		"operation": op,
		"driver":    s.repo.Driver(),
		"details":   err.Details,
	})
	return err
}

func (s *RecordStore) observe(op, status string) {
	metrics.StoreOperations.WithLabelValues(s.repo.Driver(), op, status).Inc()
}
