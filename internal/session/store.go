package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/directory"
)

// Factory builds the widget state for a new viewer.
type Factory func() *directory.Session

type entry struct {
	session  *directory.Session
	lastSeen time.Time
}

// Store keeps one directory.Session per viewer id in memory. Idle sessions
// are dropped by Prune, which runs on a schedule, and an expired id is never
// handed back by Get. The oldest session is evicted once max is reached.
type Store struct {
	newSession Factory
	max        int
	idle       time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(factory Factory, maxSessions int, idle time.Duration, logger *zap.Logger) *Store {
	return &Store{
		newSession: factory,
		max:        maxSessions,
		idle:       idle,
		now:        time.Now,
		logger:     logger,
		sessions:   map[string]*entry{},
	}
}

// Get returns the session for id, creating one under a fresh id when id is
// empty, malformed or expired. The returned id is the one to hand back to the
// viewer.
func (s *Store) Get(id string) (*directory.Session, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.sessions[id]; ok {
		if !s.expired(e, now) {
			e.lastSeen = now
			return e.session, id
		}
		delete(s.sessions, id)
	}

	if len(s.sessions) >= s.max {
		s.evictOldest()
	}
	id = uuid.NewString()
	sess := s.newSession()
	s.sessions[id] = &entry{session: sess, lastSeen: now}
	s.logger.Debug("session created", zap.String("session", id), zap.Int("active", len(s.sessions)))
	return sess, id
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune drops every session idle for longer than the configured idle time and
// reports how many were removed.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.idle > 0 && now.Sub(e.lastSeen) > s.idle
}

func (s *Store) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
