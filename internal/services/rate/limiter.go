package rate

import (
	"fmt"
	"sync"
	"time"
)

const (
	defaultLimit  = 5
	defaultWindow = time.Minute
	defaultBan    = time.Minute
)

// Decision is the outcome of admitting one inbound message.
type Decision struct {
	Allowed       bool
	RetryAfterSec int64
	// FirstReject is set only on the transition into the banned state; the
	// caller sends the one-time warning on it.
	FirstReject bool
}

// Limiter tracks, per user, a fixed-capacity FIFO of recent message
// timestamps and a ban expiry. State is process-local and never persisted.
type Limiter struct {
	mu      sync.Mutex
	entries map[int64]*entry

	limit  int
	window time.Duration
	banFor time.Duration
}

type entry struct {
	mu       sync.Mutex
	stamps   []time.Time
	banUntil time.Time
}

func NewLimiter(limit int, window, banFor time.Duration) *Limiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	if banFor <= 0 {
		banFor = defaultBan
	}

	return &Limiter{
		entries: make(map[int64]*entry),
		limit:   limit,
		window:  window,
		banFor:  banFor,
	}
}

// Admit records one message attempt and decides whether it may proceed.
// Exactly limit messages are admitted within a window; the next one trips a
// ban and is itself suppressed. Rejected attempts are not recorded.
func (l *Limiter) Admit(userID int64, now time.Time) (Decision, error) {
	if userID <= 0 {
		return Decision{}, fmt.Errorf("invalid user id")
	}
	if now.IsZero() {
		now = time.Now()
	}

	e := l.entryFor(userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.banUntil.IsZero() {
		if now.Before(e.banUntil) {
			return Decision{RetryAfterSec: ceilSeconds(e.banUntil.Sub(now))}, nil
		}
		// Ban expired, reset lazily.
		e.banUntil = time.Time{}
		e.stamps = e.stamps[:0]
	}

	if len(e.stamps) >= l.limit && now.Sub(e.stamps[0]) < l.window {
		e.banUntil = now.Add(l.banFor)
		return Decision{
			RetryAfterSec: ceilSeconds(l.banFor),
			FirstReject:   true,
		}, nil
	}

	if len(e.stamps) >= l.limit {
		e.stamps = e.stamps[1:]
	}
	e.stamps = append(e.stamps, now)

	return Decision{Allowed: true}, nil
}

// Banned reports whether the user is currently banned without mutating state.
func (l *Limiter) Banned(userID int64, now time.Time) bool {
	if userID <= 0 {
		return false
	}

	l.mu.Lock()
	e, ok := l.entries[userID]
	l.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.banUntil.IsZero() && now.Before(e.banUntil)
}

func (l *Limiter) entryFor(userID int64) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[userID]
	if !ok {
		e = &entry{stamps: make([]time.Time, 0, l.limit)}
		l.entries[userID] = e
	}
	return e
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
