// Package simulation drives one candidate through form, processing and result.
package simulation

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/logger"
	"prouni-simulator/internal/common/metrics"
	"prouni-simulator/internal/engine"
	"prouni-simulator/internal/models"
)

type State string

const (
	StateForm       State = "form"
	StateProcessing State = "processing"
	StateResult     State = "result"
)

// ErrAttemptAbandoned is returned to the caller of an attempt that was
// restarted while it was processing. Its outcome, if any, is discarded.
var ErrAttemptAbandoned = errors.New("simulation attempt abandoned")

// RecordCreator persists a finished simulation. store.RecordStore satisfies it.
type RecordCreator interface {
	Create(ctx context.Context, rec *models.OutcomeRecord) (*models.OutcomeRecord, error)
}

// ErrorInfo is the last failure, as shown to the candidate.
type ErrorInfo struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

// Snapshot is a copy of the orchestrator state.
type Snapshot struct {
	State   State                    `json:"state"`
	Attempt uint64                   `json:"attempt"`
	Engine  models.EngineKind        `json:"engine"`
	Profile *models.CandidateProfile `json:"profile,omitempty"`
	Result  *models.OutcomeRecord    `json:"result,omitempty"`
	Error   *ErrorInfo               `json:"error,omitempty"`
}

type Option func(*Orchestrator)

// WithMinProcessing keeps the processing state visible for at least d.
func WithMinProcessing(d time.Duration) Option {
	return func(o *Orchestrator) { o.minProcessing = d }
}

// Orchestrator runs at most one simulation at a time.
type Orchestrator struct {
	engine        engine.Engine
	store         RecordCreator
	logger        logger.Logger
	minProcessing time.Duration

	mu      sync.Mutex
	state   State
	attempt uint64
	active  uint64 // attempt currently processing, 0 if none
	cancel  context.CancelFunc
	profile *models.CandidateProfile
	result  *models.OutcomeRecord
	lastErr *apperrors.StandardError
}

func NewOrchestrator(e engine.Engine, store RecordCreator, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine: e,
		store:  store,
		logger: log,
		state:  StateForm,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates profile and, if the orchestrator is in the form state,
// runs the engine and saves the outcome. It blocks until the attempt ends.
//
// Invalid input returns a validation error and leaves the state untouched.
// Engine or store failures return the orchestrator to the form state with
// the error attached and the profile discarded.
func (o *Orchestrator) Submit(ctx context.Context, profile models.CandidateProfile) (*models.OutcomeRecord, error) {
	kind := string(o.engine.Kind())

	if err := models.ValidateProfile(profile, o.engine.Schema()); err != nil {
		metrics.SimulationsRejected.WithLabelValues(kind, "validation").Inc()
		return nil, err
	}

	attempt, attemptCtx, err := o.begin(ctx, profile)
	if err != nil {
		return nil, err
	}
	defer metrics.SimulationsActive.WithLabelValues(kind).Dec()

	log := o.logger.WithFields(map[string]interface{}{
		"attempt": attempt,
		"engine":  kind,
	})
	log.Info("simulation started", nil)

	start := time.Now()
	rec, err := o.run(attemptCtx, profile)
	o.pace(attemptCtx, start)
	metrics.SimulationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	return o.finish(attempt, rec, err, log)
}

func (o *Orchestrator) begin(ctx context.Context, profile models.CandidateProfile) (uint64, context.Context, error) {
	kind := string(o.engine.Kind())

	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateProcessing:
		metrics.SimulationsRejected.WithLabelValues(kind, "busy").Inc()
		return 0, nil, apperrors.NewSimulationInProgressError(o.active)
	case StateResult:
		metrics.SimulationsRejected.WithLabelValues(kind, "invalid_state").Inc()
		return 0, nil, apperrors.NewInvalidTransitionError(string(o.state), "submit")
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	o.attempt++
	o.active = o.attempt
	o.cancel = cancel
	o.state = StateProcessing
	o.profile = &profile
	o.result = nil
	o.lastErr = nil

	metrics.SimulationsActive.WithLabelValues(kind).Inc()
	return o.attempt, attemptCtx, nil
}

func (o *Orchestrator) run(ctx context.Context, profile models.CandidateProfile) (*models.OutcomeRecord, error) {
	res, err := o.engine.Evaluate(ctx, profile)
	if err != nil {
		return nil, err
	}
	return o.store.Create(ctx, models.NewOutcomeRecord(profile, res))
}

// pace waits out the rest of the minimum processing time. A cancelled
// context ends the wait early.
func (o *Orchestrator) pace(ctx context.Context, start time.Time) {
	remaining := o.minProcessing - time.Since(start)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (o *Orchestrator) finish(attempt uint64, rec *models.OutcomeRecord, err error, log logger.Logger) (*models.OutcomeRecord, error) {
	kind := string(o.engine.Kind())

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != attempt {
		log.Warn("discarding outcome of abandoned attempt", map[string]interface{}{
			"current": o.attempt,
		})
		return nil, ErrAttemptAbandoned
	}

	o.cancel()
	o.cancel = nil
	o.active = 0
	o.profile = nil

	if err != nil {
		stdErr := apperrors.Normalize(err)
		o.state = StateForm
		o.lastErr = stdErr
		metrics.SimulationsFailed.WithLabelValues(kind, string(stdErr.Code)).Inc()
		log.Error("simulation failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"message":   stdErr.Message,
			"details":   stdErr.Details,
		})
		return nil, err
	}

	o.state = StateResult
	o.result = rec
	outcome := "not_eligible"
	if rec.Eligible {
		outcome = "eligible"
	}
	metrics.SimulationsCompleted.WithLabelValues(kind, outcome).Inc()
	log.Info("simulation completed", map[string]interface{}{
		"recordId": rec.ID,
		"eligible": rec.Eligible,
		"score":    rec.Score,
	})
	return rec, nil
}

// Restart clears profile, result and error and returns to the form state.
// An attempt still processing is cancelled and its outcome discarded.
func (o *Orchestrator) Restart() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if o.active != 0 {
		o.logger.Info("abandoning in-flight simulation", map[string]interface{}{
			"attempt": o.active,
		})
	}
	o.active = 0
	o.state = StateForm
	o.profile = nil
	o.result = nil
	o.lastErr = nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		State:   o.state,
		Attempt: o.attempt,
		Engine:  o.engine.Kind(),
		Result:  o.result,
	}
	if o.profile != nil {
		p := *o.profile
		s.Profile = &p
	}
	if o.lastErr != nil {
		s.Error = &ErrorInfo{Code: o.lastErr.Code, Message: o.lastErr.Message}
	}
	return s
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}
