// Package projection builds local read models from observed session events.
// Handles ordering and unread bookkeeping for the friends sidebar.
// Does not emit events or interact with the session directly.
package projection

import (
	"context"
	"sync"

	"linguaroom/domain"
	"linguaroom/domain/event"
)

// Timeline holds a simple local timeline of the active room.
type Timeline struct {
	mu       sync.Mutex
	Owner    domain.ParticipantID
	Messages []domain.Message
}

func NewTimeline(owner domain.ParticipantID) *Timeline {
	return &Timeline{Owner: owner}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.MessageSent:
		t.Messages = append(t.Messages, evt.Message)
	}
	return nil
}

// FriendPreview is one sidebar row: last message and unread badge.
type FriendPreview struct {
	FriendID    domain.ParticipantID
	LastMessage string
	UnreadCount int
}

// Sidebar projects friend conversation events into sidebar previews.
// Messages authored by the owner never count as unread; selecting a friend
// clears their badge.
type Sidebar struct {
	mu       sync.Mutex
	owner    domain.ParticipantID
	previews map[domain.ParticipantID]*FriendPreview
}

func NewSidebar(owner domain.ParticipantID) *Sidebar {
	return &Sidebar{
		owner:    owner,
		previews: make(map[domain.ParticipantID]*FriendPreview),
	}
}

func (s *Sidebar) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt := e.(type) {
	case event.FriendMessageSent:
		preview := s.preview(evt.Message.FriendID)
		preview.LastMessage = evt.Message.Body
		if evt.Message.SenderID != s.owner {
			preview.UnreadCount++
		}
	case event.FriendSelected:
		s.preview(evt.FriendID).UnreadCount = 0
	}
	return nil
}

func (s *Sidebar) Preview(friendID domain.ParticipantID) FriendPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.preview(friendID)
}

// preview assumes the caller holds the lock.
func (s *Sidebar) preview(friendID domain.ParticipantID) *FriendPreview {
	p, ok := s.previews[friendID]
	if !ok {
		p = &FriendPreview{FriendID: friendID}
		s.previews[friendID] = p
	}
	return p
}
