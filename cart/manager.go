package cart

import (
	"sync"
	"time"
)

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Manager hands out one Session per browsing session ID and evicts sessions
// that have been idle long enough that the browser is gone. Evicting a
// session loses nothing: its cart is already in the local slot (and, for
// signed-in users, the cart service) and is loaded again on the next request.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	store    *SlotStore
	remote   *RemoteClient

	idleTTL time.Duration
	stop    chan struct{}
	done    chan struct{}
}

// NewManager creates a session manager and starts its cleanup goroutine.
func NewManager(store *SlotStore, remote *RemoteClient) *Manager {
	m := &Manager{
		sessions: make(map[string]*sessionEntry),
		store:    store,
		remote:   remote,
		idleTTL:  30 * time.Minute,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.cleanup()
	return m
}

// Get returns the Session for sessionID, creating it on first use.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.sessions[sessionID]
	if !exists {
		entry = &sessionEntry{session: NewSession(m.store, m.remote)}
		m.sessions[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.session
}

// Close stops the cleanup goroutine and waits for in-flight remote syncs.
func (m *Manager) Close() {
	close(m.stop)
	<-m.done

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, entry := range m.sessions {
		sessions = append(sessions, entry.session)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Wait()
	}
}

func (m *Manager) cleanup() {
	defer close(m.done)
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTTL)
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
