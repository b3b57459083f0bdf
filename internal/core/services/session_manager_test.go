package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler records scheduled callbacks and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *fakeScheduler) Schedule(d time.Duration, f func()) services.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[len(s.timers)-1]
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type managerFixture struct {
	sched   *fakeScheduler
	now     time.Time
	expired []string
	warned  []string
	manager *services.SessionManager
}

func newManagerFixture(idle, warnBefore time.Duration) *managerFixture {
	f := &managerFixture{
		sched: &fakeScheduler{},
		now:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	f.manager = services.NewSessionManager(idle, warnBefore,
		func(id string) { f.expired = append(f.expired, id) },
		services.WithScheduler(f.sched.Schedule),
		services.WithSessionClock(func() time.Time { return f.now }),
		services.WithWarningCallback(func(id string) { f.warned = append(f.warned, id) }),
	)
	return f
}

func TestSessionManager_WarnThenExpire(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	status := f.manager.Touch("s1")
	assert.True(t, status.Active)
	assert.False(t, status.Warning)
	assert.Equal(t, f.now.Add(2*time.Minute), status.ExpiresAt)
	require.Equal(t, 1, f.sched.count())
	assert.Equal(t, time.Minute, f.sched.last().delay)

	f.now = f.now.Add(time.Minute)
	f.sched.last().f()
	assert.Equal(t, []string{"s1"}, f.warned)
	status, ok := f.manager.Status("s1")
	require.True(t, ok)
	assert.True(t, status.Warning)
	require.Equal(t, 2, f.sched.count())
	assert.Equal(t, time.Minute, f.sched.last().delay)

	f.now = f.now.Add(time.Minute)
	f.sched.last().f()
	assert.Equal(t, []string{"s1"}, f.expired)
	_, ok = f.manager.Status("s1")
	assert.False(t, ok)
}

func TestSessionManager_TouchResetsTimer(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	f.manager.Touch("s1")
	first := f.sched.last()

	f.now = f.now.Add(30 * time.Second)
	status := f.manager.Touch("s1")
	assert.True(t, first.stopped)
	assert.Equal(t, f.now.Add(2*time.Minute), status.ExpiresAt)

	// A callback that was already queued when the timer was replaced must not fire.
	first.f()
	assert.Empty(t, f.warned)
	assert.Empty(t, f.expired)
}

func TestSessionManager_TouchDuringWarningClearsIt(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	f.manager.Touch("s1")
	f.now = f.now.Add(time.Minute)
	f.sched.last().f()
	warnedExpiry := f.sched.last()

	status := f.manager.Touch("s1")
	assert.False(t, status.Warning)
	assert.True(t, warnedExpiry.stopped)

	warnedExpiry.f()
	assert.Empty(t, f.expired)
}

func TestSessionManager_ResumeInsideWarningWindow(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	status := f.manager.Resume("s1", f.now.Add(30*time.Second))
	assert.True(t, status.Warning)
	assert.Equal(t, 30*time.Second, f.sched.last().delay)
}

func TestSessionManager_ResumeAlreadyExpired(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	f.manager.Resume("s1", f.now.Add(-time.Second))
	assert.Equal(t, time.Duration(0), f.sched.last().delay)
	f.sched.last().f()
	assert.Equal(t, []string{"s1"}, f.expired)
}

func TestSessionManager_ForgetCancelsWithoutCallback(t *testing.T) {
	f := newManagerFixture(2*time.Minute, 0)

	f.manager.Touch("s1")
	timer := f.sched.last()
	f.manager.Forget("s1")
	assert.True(t, timer.stopped)

	timer.f()
	assert.Empty(t, f.expired)
}

func TestSessionManager_StopCancelsEverything(t *testing.T) {
	f := newManagerFixture(2*time.Minute, time.Minute)

	f.manager.Touch("s1")
	f.manager.Touch("s2")
	f.manager.Stop()

	for _, timer := range f.sched.timers {
		assert.True(t, timer.stopped)
		timer.f()
	}
	assert.Empty(t, f.expired)
	assert.Empty(t, f.warned)

	status := f.manager.Touch("s3")
	assert.False(t, status.Active)
}

func TestSessionManager_InvalidWarningDisabled(t *testing.T) {
	f := newManagerFixture(time.Minute, 5*time.Minute)

	status := f.manager.Touch("s1")
	assert.False(t, status.Warning)
	assert.Equal(t, time.Minute, f.sched.last().delay)
	f.sched.last().f()
	assert.Empty(t, f.warned)
	assert.Equal(t, []string{"s1"}, f.expired)
}

func TestSessionManager_RealTimerExpires(t *testing.T) {
	done := make(chan string, 1)
	m := services.NewSessionManager(20*time.Millisecond, 0, func(id string) { done <- id })
	defer m.Stop()

	m.Touch("s1")
	select {
	case id := <-done:
		assert.Equal(t, "s1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not expire")
	}
}
