package service

import (
	"errors"
	"sync"
	"time"

	"interior-planner/internal/planner/session"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

// ============================================================
// Session Manager
// ============================================================

type handle struct {
	sess    *session.Session
	touched time.Time
}

// SessionManager выдаёт токены сессий редактирования и хранит их до Close или простоя.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*handle // token -> session
	idleTTL  time.Duration
	now      func() time.Time
}

func NewSessionManager(idleTTL time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*handle),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (m *SessionManager) Open(s *session.Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	m.sessions[token] = &handle{sess: s, touched: m.now()}
	return token
}

// Resolve возвращает сессию, если она принадлежит userID.
func (m *SessionManager) Resolve(token, userID string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if h.sess.OwnerID() != userID {
		return nil, ErrSessionForbidden
	}
	h.touched = m.now()
	return h.sess, nil
}

// Close освобождает сессию и отменяет её незавершённые вызовы.
func (m *SessionManager) Close(token, userID string) error {
	m.mu.Lock()
	h, ok := m.sessions[token]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	if h.sess.OwnerID() != userID {
		m.mu.Unlock()
		return ErrSessionForbidden
	}
	delete(m.sessions, token)
	m.mu.Unlock()

	h.sess.Dispose()
	return nil
}

// Sweep закрывает сессии, простаивающие дольше idleTTL.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	var stale []*session.Session
	cutoff := m.now().Add(-m.idleTTL)
	for token, h := range m.sessions {
		if h.touched.Before(cutoff) {
			stale = append(stale, h.sess)
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Dispose()
	}
	return len(stale)
}

// CloseAll используется при остановке сервиса.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*handle)
	m.mu.Unlock()

	for _, h := range all {
		h.sess.Dispose()
	}
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
