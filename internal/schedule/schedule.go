// Package schedule abstracts delayed callbacks so the transition delay can be
// driven by a manual clock in tests.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It returns false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// #region real
// Real schedules on the runtime timer. fn runs on its own goroutine.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// #endregion real

// #region manual
// Manual fires callbacks only when Advance moves its clock past their deadline.
// Callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m        *Manual
	deadline time.Duration
	seq      int
	fn       func()
	done     bool
}

// NewManual returns a manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, deadline: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.m.remove(t)
	return true
}

// remove drops t from pending. Caller holds mu.
func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d and runs every callback now due, in
// deadline order. Callbacks may schedule or stop other timers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		t := m.nextDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.deadline
		t.done = true
		m.remove(t)
		m.mu.Unlock()
		t.fn()
	}
}

// nextDue returns the earliest timer due by target. Caller holds mu.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(m.pending))
	for _, t := range m.pending {
		if t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// Pending returns the number of callbacks not yet fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// #endregion manual
