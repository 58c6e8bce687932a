package session

import (
	"context"
	"sync"
	"time"

	"linguaroom/domain"
)

// typingSet is an expiring-entry map: participant id -> deadline.
// Refreshing a participant replaces their deadline instead of stacking
// timers, so duplicate timeouts can never race for the same entry.
// Correctness does not depend on the sweep: Active filters by deadline,
// the sweep only reclaims memory.
type typingSet struct {
	mu        sync.Mutex
	ttl       time.Duration
	order     []domain.ParticipantID
	deadlines map[domain.ParticipantID]time.Time
}

func newTypingSet(ttl time.Duration) *typingSet {
	return &typingSet{
		ttl:       ttl,
		deadlines: make(map[domain.ParticipantID]time.Time),
	}
}

func (t *typingSet) Set(id domain.ParticipantID, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.deadlines[id]; !ok {
		t.order = append(t.order, id)
	}
	t.deadlines[id] = now.Add(t.ttl)
}

func (t *typingSet) Clear(id domain.ParticipantID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(id)
}

func (t *typingSet) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.order = nil
	t.deadlines = make(map[domain.ParticipantID]time.Time)
}

// Active returns the participants whose entry has not expired, in the order
// they started typing.
func (t *typingSet) Active(now time.Time) []domain.ParticipantID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var active []domain.ParticipantID
	for _, id := range t.order {
		if deadline, ok := t.deadlines[id]; ok && now.Before(deadline) {
			active = append(active, id)
		}
	}
	return active
}

// Sweep removes expired entries and returns how many were reclaimed.
func (t *typingSet) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var expired []domain.ParticipantID
	for id, deadline := range t.deadlines {
		if !now.Before(deadline) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		t.remove(id)
	}
	return len(expired)
}

// remove assumes the caller holds the lock.
func (t *typingSet) remove(id domain.ParticipantID) {
	if _, ok := t.deadlines[id]; !ok {
		return
	}
	delete(t.deadlines, id)
	for i, other := range t.order {
		if other == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Sweeper is the single periodic sweep over the session's typing set.
// It implements contract.Worker.
type Sweeper struct {
	session  *Session
	interval time.Duration
}

func NewSweeper(session *Session, interval time.Duration) *Sweeper {
	return &Sweeper{session: session, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.session.sweepTyping()
		}
	}
}
