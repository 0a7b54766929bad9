package interview

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or already-reset session ids.
var ErrSessionNotFound = errors.New("interview session not found")

// Manager owns the live controllers, keyed by session id. Each controller is
// constructed fresh per session and discarded on reset; a user starting a new
// session abandons their previous one. No session state is shared between
// controllers.
type Manager struct {
	model    ModelClient
	recorder UsageRecorder
	opts     Options

	mu       sync.Mutex
	sessions map[string]*Controller
	byUser   map[uuid.UUID]string
}

// NewManager creates a session manager.
func NewManager(model ModelClient, recorder UsageRecorder, opts Options) *Manager {
	return &Manager{
		model:    model,
		recorder: recorder,
		opts:     opts,
		sessions: make(map[string]*Controller),
		byUser:   make(map[uuid.UUID]string),
	}
}

// Start creates a fresh controller, runs its Start transition and registers
// the session. A prior active session for the same user is discarded.
func (m *Manager) Start(ctx context.Context, p StartParams) (*StartResult, error) {
	ctrl := NewController(m.model, m.recorder, m.opts)

	res, err := ctrl.Start(ctx, p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if prev, ok := m.byUser[p.UserID]; ok {
		if old := m.sessions[prev]; old != nil {
			old.Reset()
		}
		delete(m.sessions, prev)
	}
	m.sessions[res.SessionID] = ctrl
	m.byUser[p.UserID] = res.SessionID
	m.mu.Unlock()

	return res, nil
}

// Get returns the controller for a session owned by userID.
func (m *Manager) Get(sessionID string, userID uuid.UUID) (*Controller, error) {
	m.mu.Lock()
	ctrl, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok || ctrl.UserID() != userID {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// Reset discards a session. Unknown ids are a no-op so the operation is
// idempotent from the caller's point of view.
func (m *Manager) Reset(sessionID string, userID uuid.UUID) {
	m.mu.Lock()
	ctrl, ok := m.sessions[sessionID]
	if ok && ctrl.UserID() == userID {
		delete(m.sessions, sessionID)
		delete(m.byUser, userID)
	} else {
		ctrl = nil
	}
	m.mu.Unlock()

	if ctrl != nil {
		ctrl.Reset()
	}
}
