package models

import (
	"strconv"
	"time"
)

// Session represents a logged-in candidate, kept between CLI invocations.
type Session struct {
	CandidateID int       `json:"candidateId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewSession starts a session for the candidate returned by the backend.
func NewSession(c Candidate, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		CandidateID: c.ID,
		Email:       c.Email,
		Name:        c.Name,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// IsExpired checks if session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Owner is the identity records are scoped to.
func (s *Session) Owner() string {
	return strconv.Itoa(s.CandidateID)
}
