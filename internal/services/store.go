package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const minJanitorInterval = time.Minute

// SessionStore keeps live sessions in process memory. Sessions idle longer
// than idleTTL are evicted by the janitor; nothing is ever persisted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	idleTTL  time.Duration
	onEvict  func(uuid.UUID)
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store; onEvict, when set, is called with the id
// of every session removed by the janitor.
func NewSessionStore(idleTTL time.Duration, onEvict func(uuid.UUID)) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  idleTTL,
		onEvict:  onEvict,
		stopChan: make(chan struct{}),
	}
}

// Create starts a new seeded session.
func (st *SessionStore) Create() *Session {
	s := NewSession(uuid.New())

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

func (st *SessionStore) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Exists reports whether id names a live session.
func (st *SessionStore) Exists(id uuid.UUID) bool {
	_, err := st.Get(id)
	return err == nil
}

func (st *SessionStore) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions that have been idle for longer than the TTL at
// time now. Sessions that are processing a message are never evicted.
func (st *SessionStore) EvictIdle(now time.Time) int {
	if st.idleTTL <= 0 {
		return 0
	}

	st.mu.Lock()
	var evicted []uuid.UUID
	for id, s := range st.sessions {
		idle, ok := s.idleSince(now)
		if ok && idle > st.idleTTL {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	st.mu.Unlock()

	if st.onEvict != nil {
		for _, id := range evicted {
			st.onEvict(id)
		}
	}
	return len(evicted)
}

// Start runs the eviction janitor until Stop is called.
func (st *SessionStore) Start() {
	if st.idleTTL <= 0 {
		return
	}

	interval := st.idleTTL / 4
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-st.stopChan:
				return
			case <-ticker.C:
				if n := st.EvictIdle(time.Now().UTC()); n > 0 {
					slog.Info("evicted idle sessions", "count", n, "remaining", st.Len())
				}
			}
		}
	}()
}

func (st *SessionStore) Stop() {
	st.stopOnce.Do(func() { close(st.stopChan) })
}
