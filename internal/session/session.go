// Package session holds per-user document state. A Session is passed
// explicitly into every pipeline call; nothing is shared between sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"chatdoc/internal/chunker"
	"chatdoc/internal/index"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// DocumentState is the processed form of the last uploaded document.
type DocumentState struct {
	Name       string
	Chunks     []chunker.Chunk
	Index      *index.Index
	IngestedAt time.Time
}

// Session is one user's isolated workspace.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	lastSeen time.Time
	doc      *DocumentState
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, lastSeen: now}
}

// Document returns the current document state, or nil before the first ingest.
func (s *Session) Document() *DocumentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// SetDocument replaces the document state wholesale.
func (s *Session) SetDocument(doc *DocumentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

// LastSeen is the time of the last Get or Save.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// Store creates, loads and tears down sessions.
// Save fails with ErrNotFound once the session has been deleted or expired.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
