package server

import (
	"sync"
	"time"
)

// loginLimiter throttles credential attempts per client address using a
// fixed window counter. Stale windows are pruned lazily so the map does not
// grow with one entry per address forever.
type loginLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	counts    map[string]*loginWindow
	lastPrune time.Time
}

type loginWindow struct {
	startedAt time.Time
	attempts  int
}

func newLoginLimiter(limit int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*loginWindow),
	}
}

func (l *loginLimiter) Allow(addr string) bool {
	if addr == "" {
		return false
	}

	now := time.Now().UTC()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	win := l.counts[addr]
	if win == nil || now.Sub(win.startedAt) > l.window {
		win = &loginWindow{startedAt: now}
		l.counts[addr] = win
	}
	if win.attempts >= l.limit {
		return false
	}
	win.attempts++
	return true
}

func (l *loginLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.window {
		return
	}
	for addr, win := range l.counts {
		if now.Sub(win.startedAt) > l.window {
			delete(l.counts, addr)
		}
	}
	l.lastPrune = now
}
