package state

import (
	"context"
	"sync"
	"time"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewMemoryManager constructs the in-memory Manager. Sessions live for the process lifetime.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

func (m *memoryManager) Session(chatID int64) *Session {
	m.mu.RLock()
	s, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if !ok {
		m.mu.Lock()
		if s, ok = m.sessions[chatID]; !ok {
			s = &Session{ChatID: chatID, state: StateIdle}
			m.sessions[chatID] = s
		}
		m.mu.Unlock()
	}
	s.touch(m.now())
	return s
}

func (m *memoryManager) GetState(chatID int64) State {
	m.mu.RLock()
	s, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if !ok {
		return StateIdle
	}
	return s.State()
}

func (m *memoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// BeginTurn blocks until no other event of this chat is being handled.
// The returned func ends the turn.
func (s *Session) BeginTurn() func() {
	s.turn.Lock()
	return s.turn.Unlock
}

// State returns the current dialog state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState moves the session to st and returns the previous state.
func (s *Session) SetState(st State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = st
	return prev
}

// LastSeen returns when the session was last handed out.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Track derives a cancellable context for work done on behalf of the session.
// Abort cancels it; the returned func must be called once the work is over.
func (s *Session) Track(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	s.mu.Lock()
	if s.inflight != nil {
		s.inflight(ErrPreempted)
	}
	s.inflight = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	return ctx, func() {
		s.mu.Lock()
		if s.gen == gen {
			s.inflight = nil
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

// Abort cancels the tracked work, if any, with cause and reports whether something was running.
func (s *Session) Abort(cause error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		return false
	}
	s.inflight(cause)
	s.inflight = nil
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}
