// Package store keeps per-visitor dashboard state in memory. Nothing is
// written to disk: a session and its document live until the session expires.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// Runner executes the financial pipeline for a document.
type Runner interface {
	Run(doc *pipeline.Document) *pipeline.Result
}

// Session is a snapshot of one visitor's state.
type Session struct {
	ID        string
	Section   string
	Document  *pipeline.Document
	UpdatedAt time.Time
}

// SessionStore holds sessions and the results derived from their documents.
// The pipeline runs only when a session's document digest has no cached result.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	runner   Runner
	cache    *ResultCache
	fallback *pipeline.Document
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store. ttl <= 0 selects DefaultTTL.
func NewSessionStore(runner Runner, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		runner:   runner,
		cache:    NewResultCache(DefaultCacheEntries),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetDefaultDocument sets the document used by sessions without an upload.
// A nil document means the dashboard starts without financials.
func (s *SessionStore) SetDefaultDocument(doc *pipeline.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = doc
}

// SetClock replaces the time source (e.g. for testing).
func (s *SessionStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create starts a new session.
func (s *SessionStore) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{ID: uuid.New().String(), UpdatedAt: s.now()}
	s.sessions[sess.ID] = sess
	logging.Logf("[SESSION] created %s", sess.ID)
	return *sess
}

// Get returns the session with id and marks it as active.
func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// GetOrCreate returns the session with id, or a fresh one when id is unknown.
func (s *SessionStore) GetOrCreate(id string) Session {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess
		}
	}
	return s.Create()
}

// SetSection records the section the visitor is looking at.
func (s *SessionStore) SetSection(id, section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Section = section
	sess.UpdatedAt = s.now()
	return nil
}

// Upload replaces the session's document and returns its result.
func (s *SessionStore) Upload(id string, doc *pipeline.Document) (*pipeline.Result, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	sess.Document = doc
	sess.UpdatedAt = s.now()
	s.mu.Unlock()

	if doc != nil {
		logging.Logf("[SESSION] %s uploaded %s (%d bytes)", id, doc.Name, len(doc.Data))
	}
	return s.Result(id)
}

// Result returns the financials for the session's current document, running
// the pipeline only if that document has not been processed yet.
func (s *SessionStore) Result(id string) (*pipeline.Result, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	var doc *pipeline.Document
	if ok {
		doc = sess.Document
		if doc == nil {
			doc = s.fallback
		}
	}
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.resultFor(doc), nil
}

// DefaultResult returns the financials of the default document.
func (s *SessionStore) DefaultResult() *pipeline.Result {
	s.mu.RLock()
	doc := s.fallback
	s.mu.RUnlock()
	return s.resultFor(doc)
}

// resultFor shares cached results across documents with the same content.
// The returned result always names doc as its source.
func (s *SessionStore) resultFor(doc *pipeline.Document) *pipeline.Result {
	res, ok := s.cache.Get(doc.Digest())
	if !ok {
		res = s.runner.Run(doc)
		s.cache.Put(res)
	}
	if doc != nil && res.Source != doc.Name {
		named := *res
		named.Source = doc.Name
		return &named
	}
	return res
}

// Invalidate forgets every computed result, so the next request re-runs the
// pipeline. Used after the workbook reader changes.
func (s *SessionStore) Invalidate() {
	s.cache.Clear()
	logging.Logf("[SESSION] result cache cleared")
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how many
// were dropped.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Logf("[SESSION] expired %d idle session(s)", removed)
	}
	return removed
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}
