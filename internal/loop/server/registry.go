// Package server tracks the live sessions of a multi-user front end (SSH or
// web). Every session runs its own independent game; the registry only
// bounds how many run at once and tells them when the server goes down.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrShuttingDown is returned by Register once Shutdown has been called.
	ErrShuttingDown = errors.New("server is shutting down")
	// ErrFull is returned by Register when the session limit is reached.
	ErrFull = errors.New("server is full")
)

// Session is one registered player connection.
type Session struct {
	ID      int
	Name    string // Display name, e.g. the SSH user
	Remote  string // Remote address
	Started time.Time

	shutdown chan struct{}
}

// ShutdownNotice returns a channel that is closed when the server starts shutting down.
func (s *Session) ShutdownNotice() <-chan struct{} {
	return s.shutdown
}

// Registry is a concurrency-safe set of live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]*Session
	nextID   int
	max      int
	closing  bool
	drained  chan struct{} // Closed once closing and no session is left
	logger   *log.Logger
}

// NewRegistry creates a registry admitting at most limit concurrent sessions
// (unbounded if limit <= 0).
func NewRegistry(limit int, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		sessions: make(map[int]*Session),
		nextID:   1,
		max:      limit,
		drained:  make(chan struct{}),
		logger:   logger,
	}
}

// Register admits a new session.
func (r *Registry) Register(name, remote string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closing {
		return nil, ErrShuttingDown
	}
	if r.max > 0 && len(r.sessions) >= r.max {
		r.logger.Warn("session refused", "name", name, "remote", remote, "limit", r.max)
		return nil, ErrFull
	}

	s := &Session{
		ID:       r.nextID,
		Name:     name,
		Remote:   remote,
		Started:  time.Now(),
		shutdown: make(chan struct{}),
	}
	r.nextID++
	r.sessions[s.ID] = s
	r.logger.Info("session started", "id", s.ID, "name", name, "remote", remote, "active", len(r.sessions))
	return s, nil
}

// Unregister removes a session. Unknown or already removed sessions are ignored.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return
	}
	delete(r.sessions, s.ID)
	r.logger.Info("session ended", "id", s.ID, "name", s.Name, "duration", time.Since(s.Started).Round(time.Second), "active", len(r.sessions))
	r.checkDrainedLocked()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown refuses new sessions, notifies all live ones and waits up to
// timeout for them to unregister. Returns true if every session left in time.
// Calling Shutdown more than once is safe.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.Lock()
	if !r.closing {
		r.closing = true
		for _, s := range r.sessions {
			close(s.shutdown)
		}
		r.logger.Info("notified sessions of shutdown", "active", len(r.sessions))
		r.checkDrainedLocked()
	}
	r.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.drained:
		return true
	case <-timer.C:
		r.logger.Warn("sessions still active after shutdown timeout", "active", r.Len())
		return false
	}
}

func (r *Registry) checkDrainedLocked() {
	if !r.closing || len(r.sessions) > 0 {
		return
	}
	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
}
