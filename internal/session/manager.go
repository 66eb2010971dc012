package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rlee603166/sharify/internal/calculator"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/metrics"
	"github.com/rlee603166/sharify/internal/models"
)

// Manager tracks the live sessions.
type Manager struct {
	rates      calculator.Rates
	transport  ingestion.Transport
	pollerOpts []ingestion.Option
	metrics    *metrics.Metrics
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager. A nil transport disables ingestion.
func NewManager(rates calculator.Rates, transport ingestion.Transport, m *metrics.Metrics, pollerOpts ...ingestion.Option) *Manager {
	return &Manager{
		rates:      rates,
		transport:  transport,
		pollerOpts: append(pollerOpts, ingestion.WithMetrics(m)),
		metrics:    m,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a session whose party initially holds only user.
func (m *Manager) Create(user models.Participant) *Session {
	var poller *ingestion.Poller
	if m.transport != nil {
		poller = ingestion.NewPoller(m.transport, m.pollerOpts...)
	}
	sess := newSession(user, m.rates, poller, m.now())

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.metrics.SessionOpened()
	slog.Info("Session created", "session_id", sess.ID, "user_id", user.ID)
	return sess
}

// Get returns the session with the given ID and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch(m.now())
	return sess, nil
}

// Close ends a session and cancels its ingestion job.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.close()
	m.metrics.SessionClosed()
	slog.Info("Session closed", "session_id", id)
	return nil
}

// CloseAll ends every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
		m.metrics.SessionClosed()
	}
}

// ExpireIdle closes every session not used since before cutoff and returns
// how many were closed.
func (m *Manager) ExpireIdle(cutoff time.Time) int {
	m.mu.Lock()
	var idle []*Session
	for id, sess := range m.sessions {
		if sess.LastUsed().Before(cutoff) {
			idle = append(idle, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range idle {
		sess.close()
		m.metrics.SessionClosed()
		slog.Info("Session expired", "session_id", sess.ID, "last_used", sess.LastUsed())
	}
	return len(idle)
}

// RunExpiry closes sessions idle for longer than ttl, checking every interval,
// until ctx is done. A non-positive ttl disables expiry.
func (m *Manager) RunExpiry(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ExpireIdle(m.now().Add(-ttl))
		}
	}
}
