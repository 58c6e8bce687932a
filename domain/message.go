// Package domain contains core concepts of the chat product.
// This file defines Message and Reaction and their invariants.
// Messages are append-only; reactions are replaced, never mutated in place.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Reaction is an emoji annotation on a message, tracked per distinct reactor.
// A Reaction with an empty ReactorIDs must not exist; it is deleted instead.
type Reaction struct {
	Emoji      string
	ReactorIDs []ParticipantID
}

func (r Reaction) HasReactor(id ParticipantID) bool {
	return lo.Contains(r.ReactorIDs, id)
}

func (r Reaction) Clone() Reaction {
	return Reaction{
		Emoji:      r.Emoji,
		ReactorIDs: append([]ParticipantID(nil), r.ReactorIDs...),
	}
}

// Message is one immutable entry of a room's chronological log.
// Lang is the advisory ISO 639-1 code detected from the body, empty when
// detection was not reliable.
type Message struct {
	ID        string
	AuthorID  ParticipantID
	Body      string
	Lang      string
	CreatedAt time.Time
	Reactions []Reaction
}

func (m Message) Clone() Message {
	clone := m
	clone.Reactions = lo.Map(m.Reactions, func(r Reaction, _ int) Reaction {
		return r.Clone()
	})
	return clone
}

// NewMessageID builds a sortable identifier: millisecond timestamp plus a
// random suffix as a collision disconnector when two messages share a tick.
func NewMessageID(at time.Time) string {
	return fmt.Sprintf("msg-%d-%s", at.UnixMilli(), uuid.NewString()[:8])
}
