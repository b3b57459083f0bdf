package services

import (
	"sync"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFuncScheduler schedules with time.AfterFunc.
func AfterFuncScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SessionManager owns one inactivity timer per session. A session first enters a warning
// phase warnBefore ahead of expiry; when the timer runs out the expire callback is invoked.
type SessionManager struct {
	mu         sync.Mutex
	idle       time.Duration
	warnBefore time.Duration
	schedule   Scheduler
	now        func() time.Time
	onWarn     func(sessionID string)
	onExpire   func(sessionID string)
	sessions   map[string]*trackedSession
	stopped    bool
}

type trackedSession struct {
	timer      Timer
	expiresAt  time.Time
	warning    bool
	generation uint64
}

// SessionManagerOption is a functional option for configuring the session manager
type SessionManagerOption func(*SessionManager)

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(schedule Scheduler) SessionManagerOption {
	return func(m *SessionManager) {
		m.schedule = schedule
	}
}

// WithSessionClock overrides time.Now.
func WithSessionClock(now func() time.Time) SessionManagerOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// WithWarningCallback is invoked when a session enters its warning phase.
func WithWarningCallback(onWarn func(sessionID string)) SessionManagerOption {
	return func(m *SessionManager) {
		m.onWarn = onWarn
	}
}

// NewSessionManager creates a manager. warnBefore must be shorter than idle; zero disables the warning phase.
func NewSessionManager(idle, warnBefore time.Duration, onExpire func(sessionID string), options ...SessionManagerOption) *SessionManager {
	if warnBefore < 0 || warnBefore >= idle {
		warnBefore = 0
	}
	m := &SessionManager{
		idle:       idle,
		warnBefore: warnBefore,
		schedule:   AfterFuncScheduler,
		now:        time.Now,
		onExpire:   onExpire,
		sessions:   make(map[string]*trackedSession),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Touch records activity, replacing any pending timer with a fresh full-length one.
func (m *SessionManager) Touch(sessionID string) domain.SessionStatus {
	return m.track(sessionID, m.now().Add(m.idle))
}

// Resume tracks a session whose expiry is already known, e.g. after a restart.
func (m *SessionManager) Resume(sessionID string, expiresAt time.Time) domain.SessionStatus {
	return m.track(sessionID, expiresAt)
}

func (m *SessionManager) track(sessionID string, expiresAt time.Time) domain.SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return domain.SessionStatus{SessionID: sessionID}
	}

	ts, ok := m.sessions[sessionID]
	if ok {
		ts.timer.Stop()
		ts.generation++
	} else {
		ts = &trackedSession{}
		m.sessions[sessionID] = ts
	}
	ts.expiresAt = expiresAt
	ts.warning = false

	remaining := expiresAt.Sub(m.now())
	gen := ts.generation
	if m.warnBefore > 0 && remaining > m.warnBefore {
		ts.timer = m.schedule(remaining-m.warnBefore, func() { m.warn(sessionID, gen) })
	} else {
		ts.warning = m.warnBefore > 0
		ts.timer = m.schedule(max(remaining, 0), func() { m.expire(sessionID, gen) })
	}
	return m.statusLocked(sessionID, ts)
}

func (m *SessionManager) warn(sessionID string, gen uint64) {
	m.mu.Lock()
	ts, ok := m.sessions[sessionID]
	if !ok || ts.generation != gen || m.stopped {
		m.mu.Unlock()
		return
	}
	ts.warning = true
	ts.timer = m.schedule(max(ts.expiresAt.Sub(m.now()), 0), func() { m.expire(sessionID, gen) })
	onWarn := m.onWarn
	m.mu.Unlock()

	if onWarn != nil {
		onWarn(sessionID)
	}
}

func (m *SessionManager) expire(sessionID string, gen uint64) {
	m.mu.Lock()
	ts, ok := m.sessions[sessionID]
	if !ok || ts.generation != gen || m.stopped {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if m.onExpire != nil {
		m.onExpire(sessionID)
	}
}

// Status reports a session's state without counting as activity. The second result is false
// when the session is not tracked.
func (m *SessionManager) Status(sessionID string) (domain.SessionStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.sessions[sessionID]
	if !ok {
		return domain.SessionStatus{SessionID: sessionID}, false
	}
	return m.statusLocked(sessionID, ts), true
}

func (m *SessionManager) statusLocked(sessionID string, ts *trackedSession) domain.SessionStatus {
	return domain.SessionStatus{
		SessionID: sessionID,
		Active:    true,
		Warning:   ts.warning,
		ExpiresAt: ts.expiresAt,
	}
}

// Forget cancels a session's timer without invoking the expire callback.
func (m *SessionManager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts, ok := m.sessions[sessionID]; ok {
		ts.timer.Stop()
		delete(m.sessions, sessionID)
	}
}

// Stop cancels every pending timer. The manager ignores further activity afterwards.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ts := range m.sessions {
		ts.timer.Stop()
		delete(m.sessions, id)
	}
	m.stopped = true
}
