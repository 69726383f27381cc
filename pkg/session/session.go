// Package session stores editing sessions: the parsed model, its source
// text, and the computed diagram, keyed by an opaque identifier.
//
// A Store is always constructed explicitly and injected into its consumers;
// there is no process-wide registry. Every backend applies the same
// lifecycle rules: sessions expire after a sliding TTL (reading a session
// renews it) and the memory backend additionally evicts the least recently
// updated session when it reaches capacity.
//
// Backends:
//   - memory: mutex-guarded map, the default for the server
//   - file: one JSON document per session, for CLI workflows
//   - redis: shared store for multi-instance deployments
//   - mongo: durable store with server-side expiry
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
)

// Defaults matching the server configuration.
const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 100
)

// Sentinel errors for session operations.
var (
	// ErrExpired is returned when a session exists but exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// Session is one editing session. Source holds the FPB text the model was
// parsed from so clients can restore their editor state.
type Session struct {
	ID        string          `json:"id" bson:"_id"`
	Source    string          `json:"source,omitempty" bson:"source,omitempty"`
	Model     *model.Model    `json:"model,omitempty" bson:"model,omitempty"`
	Diagram   *layout.Diagram `json:"diagram,omitempty" bson:"diagram,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// New creates an empty session with a fresh identifier and the given TTL.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session's TTL has elapsed at t.
func (s *Session) Expired(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// Touch renews the sliding TTL.
func (s *Session) Touch(t time.Time, ttl time.Duration) {
	s.UpdatedAt = t
	s.ExpiresAt = t.Add(ttl)
}

// Store is the interface implemented by all session backends.
type Store interface {
	// Get retrieves a session by ID and renews its TTL. It returns
	// (nil, nil) when the session does not exist and (nil, ErrExpired)
	// when it exists but has expired; expired sessions are removed.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Cleanup removes expired sessions. Backends with server-side expiry
	// may make this a no-op.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
