// Package session holds the latest successful run for each browser session of
// the interactive server.
package session

import (
	"container/list"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/sells-group/consult-cli/internal/pipeline"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "consult_session"

// DefaultMaxSessions bounds a Store created with a non-positive capacity.
const DefaultMaxSessions = 1000

// Store maps session IDs to their latest result. Once it is full,
// storing a new one evicts the session written least recently. Safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	max     int
	order   *list.List // front is the most recently written
	results map[string]*list.Element
}

type entry struct {
	id     string
	result *pipeline.Result
}

// NewStore creates an empty Store holding at most capacity sessions.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultMaxSessions
	}
	return &Store{
		max:     capacity,
		order:   list.New(),
		results: make(map[string]*list.Element),
	}
}

// Get returns the stored result for id, or nil.
func (s *Store) Get(id string) *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.results[id]; ok {
		return el.Value.(*entry).result
	}
	return nil
}

// Put replaces the stored result for id.
func (s *Store) Put(id string, r *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.results[id]; ok {
		el.Value.(*entry).result = r
		s.order.MoveToFront(el)
		return
	}
	s.results[id] = s.order.PushFront(&entry{id: id, result: r})

	for s.order.Len() > s.max {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.results, oldest.Value.(*entry).id)
	}
}

// Len returns the number of sessions holding a result.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// ID returns the session ID carried by r, issuing a new one on w when the
// request has none or carries a malformed one.
func ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
