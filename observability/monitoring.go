// Package observability aggregates lightweight counters about a chat session.
// Counters are atomic so the fire-and-forget notifier goroutines can report
// failures without taking the session lock.
package observability

import (
	"log/slog"
	"runtime"
	"sync/atomic"
)

// SessionStats is a point-in-time view of the counters plus process memory.
type SessionStats struct {
	MessagesSent       uint64 `json:"messages_sent"`
	FriendMessagesSent uint64 `json:"friend_messages_sent"`
	ReactionsToggled   uint64 `json:"reactions_toggled"`
	ParticipantsKicked uint64 `json:"participants_kicked"`
	NotifyFailures     uint64 `json:"notify_failures"`
	MediaFailures      uint64 `json:"media_failures"`
	TypingExpired      uint64 `json:"typing_expired"`

	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
}

type SessionMetrics struct {
	log *slog.Logger

	messagesSent       atomic.Uint64
	friendMessagesSent atomic.Uint64
	reactionsToggled   atomic.Uint64
	participantsKicked atomic.Uint64
	notifyFailures     atomic.Uint64
	mediaFailures      atomic.Uint64
	typingExpired      atomic.Uint64
}

func NewSessionMetrics(log *slog.Logger) *SessionMetrics {
	return &SessionMetrics{log: log}
}

func (m *SessionMetrics) IncrMessagesSent() {
	m.messagesSent.Add(1)
}

func (m *SessionMetrics) IncrFriendMessagesSent() {
	m.friendMessagesSent.Add(1)
}

func (m *SessionMetrics) IncrReactionsToggled() {
	m.reactionsToggled.Add(1)
}

func (m *SessionMetrics) IncrParticipantsKicked() {
	m.participantsKicked.Add(1)
}

func (m *SessionMetrics) IncrNotifyFailures() {
	m.notifyFailures.Add(1)
}

func (m *SessionMetrics) IncrMediaFailures() {
	m.mediaFailures.Add(1)
}

// AddTypingExpired records entries reclaimed by one sweep pass.
func (m *SessionMetrics) AddTypingExpired(n uint64) {
	m.typingExpired.Add(n)
}

func (m *SessionMetrics) Snapshot() SessionStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SessionStats{
		MessagesSent:       m.messagesSent.Load(),
		FriendMessagesSent: m.friendMessagesSent.Load(),
		ReactionsToggled:   m.reactionsToggled.Load(),
		ParticipantsKicked: m.participantsKicked.Load(),
		NotifyFailures:     m.notifyFailures.Load(),
		MediaFailures:      m.mediaFailures.Load(),
		TypingExpired:      m.typingExpired.Load(),
		AllocMemMb:         memStats.Alloc / 1024 / 1024,
		NumGC:              memStats.NumGC,
	}
}
