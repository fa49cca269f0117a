// Package auth carries the caller's identity through a request.
package auth

import (
	"context"
	"strconv"
	"strings"
)

// LocalOwner scopes records in demo mode when nobody is logged in.
const LocalOwner = "local"

// Identity is the authenticated candidate behind a request.
type Identity struct {
	Owner       string
	CandidateID int
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity, if one with a non-empty owner is set.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Owner == "" {
		return Identity{}, false
	}
	return id, true
}

// ForCandidate builds the identity of a backend candidate account.
func ForCandidate(candidateID int) Identity {
	return Identity{Owner: strconv.Itoa(candidateID), CandidateID: candidateID}
}

// ParseOwner turns a raw owner value (header, flag) into an identity. A
// numeric owner is also taken as the backend candidate id.
func ParseOwner(raw string) (Identity, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, false
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return ForCandidate(n), true
	}
	return Identity{Owner: raw}, true
}
