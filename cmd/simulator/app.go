package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/auth"
	"prouni-simulator/internal/common/observability"
	"prouni-simulator/internal/engine"
	"prouni-simulator/internal/store"
)

// app is the wiring shared by every command that touches engines or records.
type app struct {
	backend    *backend.Client
	engine     engine.Engine
	store      *store.RecordStore
	closeStore func() error
}

// newApp builds the backend client, the configured engine and the record
// store. storeAttempts > 1 retries the store connection with backoff.
func newApp(ctx context.Context, obs *observability.Observability, storeAttempts int) (*app, error) {
	client := backend.NewClient(cfg.Backend, log, obs)

	e, err := engine.New(cfg.Engine, client, log)
	if err != nil {
		return nil, err
	}

	var (
		st      *store.RecordStore
		closeFn func() error
	)
	err = retryWithBackoff(func() error {
		var err error
		st, closeFn, err = store.Open(ctx, cfg, log)
		return err
	}, storeAttempts, time.Second, "record store connection")
	if err != nil {
		return nil, err
	}

	return &app{backend: client, engine: e, store: st, closeStore: closeFn}, nil
}

func (a *app) Close() {
	if err := a.closeStore(); err != nil {
		log.Warn("closing record store", map[string]interface{}{"error": err.Error()})
	}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, operationName string) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func sessionStore() *auth.SessionStore {
	path := cfg.Session.Path
	if path == "" {
		path = auth.DefaultSessionPath()
	}
	return auth.NewSessionStore(path)
}

// withIdentity attaches the --owner flag or, failing that, the saved login.
func withIdentity(ctx context.Context) context.Context {
	if id, ok := auth.ParseOwner(ownerFlag); ok {
		return auth.WithIdentity(ctx, id)
	}

	sess, err := sessionStore().Load()
	switch {
	case err == nil:
		return auth.WithIdentity(ctx, auth.ForCandidate(sess.CandidateID))
	case !errors.Is(err, auth.ErrNoSession):
		log.Warn("ignoring unreadable session", map[string]interface{}{"error": err.Error()})
	}
	return ctx
}
